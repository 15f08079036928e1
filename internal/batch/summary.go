package batch

import (
	"time"

	"eafcut/internal/services"
)

// Request names the folders and tier for one run.
type Request struct {
	InputDir  string
	OutputDir string
	TierID    string
}

// DocumentResult is the outcome of one annotation document.
type DocumentResult struct {
	Path    string
	Media   string
	Outcome services.Outcome
	// Reason is a short label for skips ("no media", "missing file", ...).
	Reason   string
	Clips    int
	Failures int
	Err      error
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Request    Request
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  []DocumentResult
}

// Count returns the number of documents with the given outcome.
func (s Summary) Count(outcome services.Outcome) int {
	n := 0
	for _, doc := range s.Documents {
		if doc.Outcome == outcome {
			n++
		}
	}
	return n
}

// Clips returns the number of audio/transcript pairs written.
func (s Summary) Clips() int {
	n := 0
	for _, doc := range s.Documents {
		n += doc.Clips
	}
	return n
}

// UtteranceFailures returns the number of utterances that produced no pair.
func (s Summary) UtteranceFailures() int {
	n := 0
	for _, doc := range s.Documents {
		n += doc.Failures
	}
	return n
}

// HasFailures reports whether any document failed outright.
func (s Summary) HasFailures() bool {
	return s.Count(services.OutcomeFailed) > 0
}

// Duration returns the wall-clock run time.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
