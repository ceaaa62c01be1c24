package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// captureCollector records metric calls for assertions.
type captureCollector struct {
	latencies []string
	counters  []string
}

func (c *captureCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	c.latencies = append(c.latencies, labels["evaluator"])
}

func (c *captureCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	c.counters = append(c.counters, metric)
}

func (c *captureCollector) RecordGauge(metric string, value float64, labels map[string]string) {}

func TestOTelObserverForwardsMetrics(t *testing.T) {
	collector := &captureCollector{}
	obs := NewOTelEvaluationObserver(collector)

	ctx := obs.PreEvaluate(context.Background(), "cardio")
	obs.PostEvaluate(ctx, "cardio", 42.5, 3*time.Millisecond, nil)

	assert.Equal(t, []string{"cardio"}, collector.latencies)
	assert.Empty(t, collector.counters, "no failure counter on success")
}

func TestOTelObserverCountsFailures(t *testing.T) {
	collector := &captureCollector{}
	obs := NewOTelEvaluationObserver(collector)

	ctx := obs.PreEvaluate(context.Background(), "neuro")
	obs.PostEvaluate(ctx, "neuro", 0, time.Millisecond, errors.New("missing required fields: age"))

	assert.Equal(t, []string{"vitals_evaluator_failures_total"}, collector.counters)
}

func TestOTelObserverNilCollector(t *testing.T) {
	obs := NewOTelEvaluationObserver(nil)

	ctx := obs.PreEvaluate(context.Background(), "cardio")
	assert.NotPanics(t, func() {
		obs.PostEvaluate(ctx, "cardio", 10, time.Millisecond, nil)
	})
}

func TestOTelObserverCarriesSpanThroughContext(t *testing.T) {
	obs := NewOTelEvaluationObserver(nil)

	ctx := obs.PreEvaluate(context.Background(), "cardio")
	assert.NotEqual(t, context.Background(), ctx)

	// PostEvaluate on a span-free context must not panic either; the
	// no-op span from the global tracer absorbs the calls.
	assert.NotPanics(t, func() {
		obs.PostEvaluate(context.Background(), "cardio", 10, time.Millisecond, nil)
	})
}
