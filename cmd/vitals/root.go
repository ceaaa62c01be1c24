package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Vitals - multi-domain health risk assessment",
		Long: `Vitals scores health metrics across cardiovascular, metabolic, and
neurological domains and merges the results into a single prioritized
assessment.

Metrics are supplied as flags, or sampled from the mock wearable device
with --sample.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newAssessCommand())
	cmd.AddCommand(newQuickCommand())
	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newStatsCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
