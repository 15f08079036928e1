package main

import (
	"errors"

	"github.com/spf13/cobra"
)

const usageLine = "usage: eafcut eaf_folder output_folder main_tier_name"

var errUsage = errors.New(usageLine)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string
	var strict bool

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:   "eafcut eaf_folder output_folder main_tier_name",
		Short: "Cut ELAN annotation documents into per-utterance clips and transcripts",
		Long: `eafcut reads every .eaf document in eaf_folder, cuts one audio clip per
annotation on the main_tier_name tier from the referenced recording, and
writes <media>_<start slot>_<end slot>.wav plus a matching .txt transcript
into output_folder.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return errUsage
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, args[0], args[1], args[2], strict)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Override logging.format (console, json)")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any document fails")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newManifestCommand(ctx))

	return rootCmd
}
