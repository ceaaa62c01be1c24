package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-vitals/infrastructure/storage"
	"github.com/ahrav/go-vitals/internal/application"
)

func newQuickCommand() *cobra.Command {
	var (
		mf     metricsFlags
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Run the single-pass composite screening score",
		Long: `Compute the composite screening score in one weighted pass over all
six risk factors, without running the evaluator pipeline. With --db the
result is persisted for later history and statistics queries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := mf.metrics(cmd)
			result, err := application.QuickScore(m)
			if err != nil {
				return err
			}

			if dbPath != "" {
				store, err := storage.Open(dbPath, slog.Default())
				if err != nil {
					return err
				}
				defer store.Close()

				id, err := store.Save(cmd.Context(), mf.subject, m,
					result.BMI, result.OverallScore, result.RiskLevel, result.Breakdown)
				if err != nil {
					return fmt.Errorf("failed to persist assessment: %w", err)
				}
				slog.Info("assessment persisted", "id", id)
			}

			return printJSON(result)
		},
	}

	mf.register(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to persist the result")

	return cmd
}
