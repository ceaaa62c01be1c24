package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vitals/internal/domain"
)

// stubEvaluator is a configurable ports.Evaluator for middleware tests.
type stubEvaluator struct {
	name    string
	score   float64
	err     error
	panics  bool
	advice  []string
	delay   time.Duration
}

func (s *stubEvaluator) Name() string { return s.name }

func (s *stubEvaluator) Evaluate(ctx context.Context, m domain.Metrics) (domain.EvaluatorResult, error) {
	if s.panics {
		panic("boom")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return domain.EvaluatorResult{}, s.err
	}
	return domain.EvaluatorResult{
		Category:  s.name,
		RiskScore: s.score,
		RiskLevel: domain.LevelForScore(s.score),
	}, nil
}

func (s *stubEvaluator) Recommend(riskScore float64) []string { return s.advice }

func (s *stubEvaluator) Validate() error { return nil }

// recordingObserver captures observer callbacks for assertions.
type recordingObserver struct {
	preCalls  []string
	postCalls []string
	lastScore float64
	lastErr   error
}

func (r *recordingObserver) PreEvaluate(ctx context.Context, evaluator string) context.Context {
	r.preCalls = append(r.preCalls, evaluator)
	return ctx
}

func (r *recordingObserver) PostEvaluate(ctx context.Context, evaluator string, score float64, elapsed time.Duration, err error) {
	r.postCalls = append(r.postCalls, evaluator)
	r.lastScore = score
	r.lastErr = err
}

func TestNewTimedEvaluatorRequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { NewTimedEvaluator(nil, NewPerformanceLog(), nil) })
	assert.Panics(t, func() { NewTimedEvaluator(&stubEvaluator{name: "x"}, nil, nil) })
}

func TestTimedEvaluatorRunSuccess(t *testing.T) {
	log := NewPerformanceLog()
	te := NewTimedEvaluator(&stubEvaluator{
		name:   "cardio",
		score:  42.5,
		advice: []string{"keep moving"},
	}, log, nil)

	result := te.Run(context.Background(), domain.Metrics{})

	assert.False(t, result.Failed())
	assert.Equal(t, "cardio", result.Evaluator)
	require.NotNil(t, result.Result)
	assert.Equal(t, 42.5, result.Result.RiskScore)
	assert.Equal(t, []string{"keep moving"}, result.Recommendations)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, 0.0)
	assert.Equal(t, 1, log.Len())
}

func TestTimedEvaluatorRunError(t *testing.T) {
	log := NewPerformanceLog()
	te := NewTimedEvaluator(&stubEvaluator{
		name: "metabolic",
		err:  errors.New("missing required fields: height_cm"),
	}, log, nil)

	result := te.Run(context.Background(), domain.Metrics{})

	assert.True(t, result.Failed())
	assert.Nil(t, result.Result)
	assert.Empty(t, result.Recommendations)
	assert.Contains(t, result.Error, "missing required fields")
	// Failed calls are still accounted for.
	assert.Equal(t, 1, log.Len())
}

func TestTimedEvaluatorRunRecoversPanic(t *testing.T) {
	log := NewPerformanceLog()
	te := NewTimedEvaluator(&stubEvaluator{name: "neuro", panics: true}, log, nil)

	var result domain.TimedResult
	assert.NotPanics(t, func() {
		result = te.Run(context.Background(), domain.Metrics{})
	})

	assert.True(t, result.Failed())
	assert.Contains(t, result.Error, "panicked")
	assert.Contains(t, result.Error, "boom")
	assert.Equal(t, 1, log.Len())
}

func TestTimedEvaluatorNotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	te := NewTimedEvaluator(&stubEvaluator{name: "cardio", score: 30}, NewPerformanceLog(), obs)

	te.Run(context.Background(), domain.Metrics{})

	assert.Equal(t, []string{"cardio"}, obs.preCalls)
	assert.Equal(t, []string{"cardio"}, obs.postCalls)
	assert.Equal(t, 30.0, obs.lastScore)
	assert.NoError(t, obs.lastErr)
}

func TestTimedEvaluatorObserverSeesFailure(t *testing.T) {
	obs := &recordingObserver{}
	wantErr := errors.New("evaluation failed")
	te := NewTimedEvaluator(&stubEvaluator{name: "cardio", err: wantErr}, NewPerformanceLog(), obs)

	te.Run(context.Background(), domain.Metrics{})

	assert.Equal(t, 0.0, obs.lastScore)
	assert.ErrorIs(t, obs.lastErr, wantErr)
}

func TestPerformanceLogStats(t *testing.T) {
	log := NewPerformanceLog()
	assert.Equal(t, LatencyStats{}, log.Stats())

	now := time.Now()
	log.Append(LatencySample{Timestamp: now, ElapsedMs: 2})
	log.Append(LatencySample{Timestamp: now, ElapsedMs: 4})
	log.Append(LatencySample{Timestamp: now, ElapsedMs: 9})

	stats := log.Stats()
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 5.0, stats.AvgMs)
	assert.Equal(t, 2.0, stats.MinMs)
	assert.Equal(t, 9.0, stats.MaxMs)
}

func TestTimedEvaluatorStatsAccumulate(t *testing.T) {
	log := NewPerformanceLog()
	te := NewTimedEvaluator(&stubEvaluator{name: "cardio", score: 10}, log, nil)

	for range 5 {
		te.Run(context.Background(), domain.Metrics{})
	}

	stats := te.Stats()
	assert.Equal(t, 5, stats.Count)
	assert.GreaterOrEqual(t, stats.MaxMs, stats.MinMs)
}
