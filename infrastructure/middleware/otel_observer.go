// Package middleware provides cross-cutting concerns for the assessment
// engine.
package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-vitals/internal/ports"
)

var _ EvaluationObserver = (*OTelEvaluationObserver)(nil)

// tracerName identifies the assessment engine's tracer.
const tracerName = "vitals-evaluator"

// OTelEvaluationObserver implements observability for evaluator calls
// using OpenTelemetry tracing. It creates a span per call, records the
// score and latency as attributes, and forwards measurements to an
// optional metrics collector.
type OTelEvaluationObserver struct {
	metrics ports.MetricsCollector
}

// NewOTelEvaluationObserver creates a new OpenTelemetry evaluation
// observer. The metrics collector may be nil when only tracing is wanted.
func NewOTelEvaluationObserver(metrics ports.MetricsCollector) *OTelEvaluationObserver {
	return &OTelEvaluationObserver{metrics: metrics}
}

// PreEvaluate implements the EvaluationObserver interface. It starts a
// span for the evaluator call and returns the span-carrying context so
// PostEvaluate can retrieve it without shared observer state.
func (o *OTelEvaluationObserver) PreEvaluate(ctx context.Context, evaluator string) context.Context {
	ctx, _ = otel.Tracer(tracerName).Start(ctx, "Evaluator.Evaluate",
		trace.WithAttributes(attribute.String("evaluator.name", evaluator)),
	)
	return ctx
}

// PostEvaluate implements the EvaluationObserver interface. It finalizes
// the span with the outcome and records latency and failure metrics.
func (o *OTelEvaluationObserver) PostEvaluate(
	ctx context.Context,
	evaluator string,
	score float64,
	elapsed time.Duration,
	err error,
) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.Float64("evaluator.risk_score", score),
		attribute.Int64("evaluator.elapsed_us", elapsed.Microseconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if o.metrics == nil {
		return
	}
	o.metrics.RecordLatency("evaluate", elapsed, map[string]string{"evaluator": evaluator})
	if err != nil {
		o.metrics.RecordCounter("vitals_evaluator_failures_total", 1,
			map[string]string{"evaluator": evaluator})
	}
}
