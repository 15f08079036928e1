package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"eafcut/internal/batch"
	"eafcut/internal/services"
)

var summaryColumns = []tableColumn{
	{header: "Document"},
	{header: "Outcome"},
	{header: "Clips", numeric: true},
	{header: "Failures", numeric: true},
	{header: "Detail"},
}

func renderSummary(summary batch.Summary) string {
	rows := make([][]string, 0, len(summary.Documents))
	for _, doc := range summary.Documents {
		rows = append(rows, []string{
			filepath.Base(doc.Path),
			string(doc.Outcome),
			strconv.Itoa(doc.Clips),
			strconv.Itoa(doc.Failures),
			documentDetail(doc),
		})
	}

	var b strings.Builder
	if len(rows) > 0 {
		b.WriteString(renderTable(summaryColumns, rows))
		b.WriteString("\n")
	} else {
		b.WriteString("No annotation documents found\n")
	}
	fmt.Fprintf(&b, "Run %s: %d prepared, %d partial, %d skipped, %d failed; %d clips written to %s",
		summary.RunID,
		summary.Count(services.OutcomePrepared),
		summary.Count(services.OutcomePartial),
		summary.Count(services.OutcomeSkipped),
		summary.Count(services.OutcomeFailed),
		summary.Clips(),
		summary.Request.OutputDir,
	)
	return b.String()
}

func documentDetail(doc batch.DocumentResult) string {
	switch {
	case doc.Reason != "":
		return doc.Reason
	case doc.Err != nil:
		return truncate(doc.Err.Error(), 60)
	case doc.Media != "":
		return filepath.Base(doc.Media)
	default:
		return ""
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
