package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"eafcut/internal/batch"
	"eafcut/internal/fileutil"
	"eafcut/internal/preflight"
	"eafcut/internal/services"
)

func runBatch(cmd *cobra.Command, ctx *commandContext, inputDir, outputDir, tierID string, strict bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	inputAbs, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input folder: %w", err)
	}
	outputAbs, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("resolve output folder: %w", err)
	}
	if err := fileutil.EnsureDir(outputAbs); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}
	if err := preflight.Err(preflight.RunAll(cfg, inputAbs, outputAbs)); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := batch.NewRunner(cfg, logger)
	summary, err := runner.Run(signalCtx, batch.Request{
		InputDir:  inputAbs,
		OutputDir: outputAbs,
		TierID:    tierID,
	})
	if len(summary.Documents) > 0 || summary.RunID != "" {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	}
	if err != nil {
		return err
	}
	if strict && summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed", summary.Count(services.OutcomeFailed))
	}
	return nil
}
