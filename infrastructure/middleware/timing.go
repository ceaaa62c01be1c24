// Package middleware provides cross-cutting concerns for the assessment
// engine. It implements the decorator pattern to keep evaluator logic
// clean while adding latency capture, fault isolation, and observability.
package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ahrav/go-vitals/internal/domain"
	"github.com/ahrav/go-vitals/internal/ports"
)

// LatencySample is one entry in an evaluator's performance log.
type LatencySample struct {
	// Timestamp records when the call completed.
	Timestamp time.Time `json:"timestamp"`

	// ElapsedMs is the call's wall-clock duration in milliseconds.
	ElapsedMs float64 `json:"processing_time_ms"`
}

// LatencyStats is a read-only projection of a performance log.
type LatencyStats struct {
	Count int     `json:"total_assessments"`
	AvgMs float64 `json:"avg_time_ms"`
	MinMs float64 `json:"min_time_ms"`
	MaxMs float64 `json:"max_time_ms"`
}

// PerformanceLog is an append-only, process-lifetime record of evaluator
// call latencies. It is explicitly owned and injectable rather than a
// package singleton, so tests can supply a fresh instance per run;
// appends are serialized internally, making concurrent fan-out safe.
type PerformanceLog struct {
	mu      sync.Mutex
	samples []LatencySample
}

// NewPerformanceLog creates an empty performance log.
func NewPerformanceLog() *PerformanceLog { return &PerformanceLog{} }

// Append records one sample. The log grows monotonically; nothing in the
// core ever prunes it.
func (l *PerformanceLog) Append(s LatencySample) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samples = append(l.samples, s)
}

// Len returns the number of recorded samples.
func (l *PerformanceLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.samples)
}

// Stats summarizes the log. A fresh log reports zeroes.
func (l *PerformanceLog) Stats() LatencyStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.samples) == 0 {
		return LatencyStats{}
	}

	var sum float64
	minMs := math.Inf(1)
	maxMs := math.Inf(-1)
	for _, s := range l.samples {
		sum += s.ElapsedMs
		minMs = math.Min(minMs, s.ElapsedMs)
		maxMs = math.Max(maxMs, s.ElapsedMs)
	}
	return LatencyStats{
		Count: len(l.samples),
		AvgMs: domain.Round2(sum / float64(len(l.samples))),
		MinMs: minMs,
		MaxMs: maxMs,
	}
}

// EvaluationObserver provides observability hooks around one evaluator
// call. Implementations can add tracing and metrics without coupling
// observability concerns to the timing logic.
type EvaluationObserver interface {
	// PreEvaluate is called before the evaluator runs. The returned
	// context is passed to the evaluator and to PostEvaluate, letting
	// implementations carry a span through the call.
	PreEvaluate(ctx context.Context, evaluator string) context.Context

	// PostEvaluate is called after the call completes with the computed
	// score (0 on failure), the elapsed time, and any error.
	PostEvaluate(ctx context.Context, evaluator string, score float64, elapsed time.Duration, err error)
}

// TimedEvaluator decorates an evaluator with latency capture, advice
// generation, fault isolation, and an append to the evaluator's own
// performance log. It is the aggregator's unit of execution.
type TimedEvaluator struct {
	next     ports.Evaluator
	log      *PerformanceLog
	observer EvaluationObserver
}

// NewTimedEvaluator wraps an evaluator. The log is required; the
// observer is optional.
func NewTimedEvaluator(next ports.Evaluator, log *PerformanceLog, observer EvaluationObserver) *TimedEvaluator {
	if next == nil {
		panic("timed evaluator: next evaluator is required")
	}
	if log == nil {
		panic("timed evaluator: performance log is required")
	}
	return &TimedEvaluator{next: next, log: log, observer: observer}
}

// Name returns the wrapped evaluator's name.
func (t *TimedEvaluator) Name() string { return t.next.Name() }

// Stats returns the wrapped evaluator's latency statistics.
func (t *TimedEvaluator) Stats() LatencyStats { return t.log.Stats() }

// Validate checks the wrapped evaluator's configuration.
func (t *TimedEvaluator) Validate() error { return t.next.Validate() }

// Run executes the wrapped evaluator against the metrics and always
// returns a well-formed TimedResult: on success it carries the scored
// result and its tiered recommendations, on failure the error
// description with a nil result. Panics inside the evaluator are
// recovered and reported as errors, so one faulty evaluator can never
// abort a whole assessment.
func (t *TimedEvaluator) Run(ctx context.Context, m domain.Metrics) domain.TimedResult {
	if t.observer != nil {
		ctx = t.observer.PreEvaluate(ctx, t.next.Name())
	}

	start := time.Now()
	result, err := t.evaluateSafely(ctx, m)
	elapsed := time.Since(start)
	elapsedMs := domain.Round2(float64(elapsed.Microseconds()) / 1000)

	timed := domain.TimedResult{
		Evaluator:        t.next.Name(),
		ProcessingTimeMs: elapsedMs,
	}
	var score float64
	if err != nil {
		timed.Error = err.Error()
	} else {
		score = result.RiskScore
		timed.Result = &result
		timed.Recommendations = t.next.Recommend(result.RiskScore)
	}

	t.log.Append(LatencySample{Timestamp: time.Now(), ElapsedMs: elapsedMs})

	if t.observer != nil {
		t.observer.PostEvaluate(ctx, t.next.Name(), score, elapsed, err)
	}

	return timed
}

// evaluateSafely invokes the evaluator, converting panics to errors.
func (t *TimedEvaluator) evaluateSafely(ctx context.Context, m domain.Metrics) (result domain.EvaluatorResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluator %s panicked: %v", t.next.Name(), r)
		}
	}()
	return t.next.Evaluate(ctx, m)
}
