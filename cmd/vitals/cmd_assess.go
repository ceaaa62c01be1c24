package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-vitals/infrastructure/middleware"
	"github.com/ahrav/go-vitals/infrastructure/storage"
	"github.com/ahrav/go-vitals/internal/application"
	"github.com/ahrav/go-vitals/internal/ports"
)

func newAssessCommand() *cobra.Command {
	var (
		mf         metricsFlags
		configPath string
		dbPath     string
		parallel   bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run the full multi-domain assessment",
		Long: `Run every configured evaluator against the supplied metrics and print
the merged assessment as JSON: overall index, per-domain results,
critical areas, and integrated recommendations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []application.AggregatorOption
			if cmd.Flags().Changed("parallel") {
				opts = append(opts, application.WithParallel(parallel))
			}

			agg, err := buildAggregator(configPath, opts...)
			if err != nil {
				return err
			}

			m := mf.metrics(cmd)
			assessment, err := agg.Assess(cmd.Context(), m)
			if err != nil {
				return fmt.Errorf("assessment failed: %w", err)
			}

			if dbPath != "" {
				store, err := storage.Open(dbPath, slog.Default())
				if err != nil {
					return err
				}
				defer store.Close()

				if err := store.Record(cmd.Context(), ports.AuditEvent{
					SubjectID: mf.subject,
					Action:    "create",
					Resource:  "assessment",
					Status:    "success",
					Details: map[string]any{
						"assessment_id": assessment.Metadata.ID,
						"overall_index": assessment.OverallIndex,
					},
				}); err != nil {
					return err
				}
			}

			return printJSON(assessment)
		},
	}

	mf.register(cmd)
	cmd.Flags().StringVar(&configPath, "config", "", "Engine configuration file (YAML); defaults to the built-in engine")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for the audit trail")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Run evaluators concurrently")

	return cmd
}

// buildAggregator assembles the engine from a config file or the
// defaults, always tracing through the OpenTelemetry observer. Extra
// options are applied after the config so flags win.
func buildAggregator(configPath string, opts ...application.AggregatorOption) (*application.Aggregator, error) {
	observer := middleware.NewOTelEvaluationObserver(nil)

	if configPath == "" {
		return application.NewDefaultAggregator(observer, opts...)
	}

	cfg, err := application.LoadEngineConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.BuildAggregator(application.NewDefaultEvaluatorRegistry(), observer, opts...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
