package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"eafcut/internal/manifest"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "manifest output_folder",
		Short: "List the clips recorded for the latest run into a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			outputDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve output folder: %w", err)
			}
			path := cfg.ManifestLocation(outputDir)
			if _, err := os.Stat(path); err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("no manifest at %s (set [manifest] enabled = true before running)", path)
				}
				return fmt.Errorf("inspect manifest: %w", err)
			}

			store, err := manifest.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()

			var run *manifest.Run
			if runID != "" {
				run, err = store.GetRun(cmd.Context(), runID)
			} else {
				run, err = store.LatestRun(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if run == nil {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			clips, err := store.ListClips(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			schema, err := store.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# Manifest: %s (schema %s)\n", store.Path(), schema)
			fmt.Fprintln(out, renderRunHeader(*run))
			if len(clips) == 0 {
				fmt.Fprintln(out, "No clips recorded")
				return nil
			}
			fmt.Fprintln(out, renderClipTable(clips))
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Show a specific run instead of the latest")
	return cmd
}

func renderRunHeader(run manifest.Run) string {
	status := "unfinished"
	if run.Finished() {
		status = "finished " + run.FinishedAt.Local().Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("Run %s (tier %q, started %s, %s): %d documents, %d clips, %d failures",
		run.ID,
		run.TierID,
		run.StartedAt.Local().Format("2006-01-02 15:04:05"),
		status,
		run.Documents,
		run.Clips,
		run.Failures,
	)
}

func renderClipTable(clips []manifest.Clip) string {
	rows := make([][]string, 0, len(clips))
	for _, clip := range clips {
		rows = append(rows, []string{
			filepath.Base(clip.WavPath),
			strconv.FormatFloat(clip.StartSeconds, 'f', 3, 64),
			strconv.FormatFloat(clip.EndSeconds, 'f', 3, 64),
			filepath.Base(clip.Document),
			truncate(clip.Text, 40),
		})
	}
	return renderTable([]tableColumn{
		{header: "Clip"},
		{header: "Start", numeric: true},
		{header: "End", numeric: true},
		{header: "Document"},
		{header: "Text"},
	}, rows)
}
