// Package middleware provides cross-cutting concerns for the assessment
// engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-vitals/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of assessment throughput,
// evaluator latency, and failure rates for the assessment engine.
type PrometheusMetrics struct {
	assessmentsTotal  *prometheus.CounterVec
	evaluatorFailures *prometheus.CounterVec
	evaluatorLatency  *prometheus.HistogramVec
	overallIndex      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics with the given registerer. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		assessmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitals_assessments_total",
				Help: "Total number of aggregate assessments performed.",
			},
			[]string{"status"},
		),
		evaluatorFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitals_evaluator_failures_total",
				Help: "Total number of evaluator invocations that failed.",
			},
			[]string{"evaluator"},
		),
		evaluatorLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vitals_evaluator_duration_seconds",
				Help:    "Execution time of individual evaluator calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"evaluator"},
		),
		overallIndex: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vitals_overall_health_index",
				Help: "Most recent overall health index per evaluator set.",
			},
			[]string{"engine"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	evaluator, ok := labels["evaluator"]
	if !ok {
		evaluator = operation
	}
	pm.evaluatorLatency.WithLabelValues(evaluator).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by
// incrementing Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "vitals_assessments_total":
		status, ok := labels["status"]
		if !ok {
			status = "unknown"
		}
		pm.assessmentsTotal.WithLabelValues(status).Add(value)
	case "vitals_evaluator_failures_total":
		evaluator, ok := labels["evaluator"]
		if !ok {
			evaluator = "unknown"
		}
		pm.evaluatorFailures.WithLabelValues(evaluator).Add(value)
	default:
		// Unknown counters are treated as assessment activity so they
		// remain visible rather than silently dropped.
		pm.assessmentsTotal.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values. The overall index is currently the only gauge
// the engine reports.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	engine, ok := labels["engine"]
	if !ok {
		engine = "default"
	}
	pm.overallIndex.WithLabelValues(engine).Set(value)
}

// Compile-time verification that PrometheusMetrics implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
