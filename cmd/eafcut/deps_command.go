package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"eafcut/internal/deps"
	"eafcut/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that ffmpeg and ffprobe are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			statuses := preflight.CheckSystemDeps(cfg)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, "Dependencies:")
			for _, line := range dependencyLines(statuses, colorize) {
				fmt.Fprintln(out, line)
			}
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, status := range missing {
					names = append(names, status.Name)
				}
				return fmt.Errorf("missing required dependencies: %s", strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses))
	for _, status := range statuses {
		switch {
		case status.Available:
			lines = append(lines, renderStatusLine(status.Name, statusOK, status.Path, colorize))
		case status.Optional:
			lines = append(lines, renderStatusLine(status.Name, statusWarn, fmt.Sprintf("%s (optional: %s)", status.Detail, status.Description), colorize))
		default:
			lines = append(lines, renderStatusLine(status.Name, statusError, fmt.Sprintf("%s (%s)", status.Detail, status.Description), colorize))
		}
	}
	return lines
}
