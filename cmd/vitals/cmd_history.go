package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-vitals/infrastructure/storage"
)

func newHistoryCommand() *cobra.Command {
	var (
		dbPath  string
		subject string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted assessments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(dbPath, slog.Default())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.History(cmd.Context(), subject, limit)
			if err != nil {
				return err
			}
			return printJSON(records)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "vitals.db", "SQLite database to read")
	cmd.Flags().StringVar(&subject, "subject", "", "Filter by subject identifier")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum records to return")

	return cmd
}

func newStatsCommand() *cobra.Command {
	var (
		dbPath  string
		subject string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize persisted assessments",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(dbPath, slog.Default())
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Statistics(cmd.Context(), subject)
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "vitals.db", "SQLite database to read")
	cmd.Flags().StringVar(&subject, "subject", "", "Filter by subject identifier")

	return cmd
}
