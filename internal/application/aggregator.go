package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-vitals/infrastructure/middleware"
	"github.com/ahrav/go-vitals/internal/domain"
	"github.com/ahrav/go-vitals/internal/ports"
)

// DefaultBudgetMs is the observational latency budget for one aggregate
// assessment. Exceeding it degrades the reported performance status; it
// never aborts the assessment.
const DefaultBudgetMs = 3000

// Summary lines prepended to the merged recommendation list.
const (
	summaryAllClear = "Continue maintaining healthy lifestyle habits across all health domains"
	summaryConcerns = "Multiple health concerns identified - comprehensive medical evaluation recommended"
)

// WeightedEvaluator pairs a timed evaluator with its fixed aggregation
// weight. Weights need not sum to 1: the overall index divides by the
// sum of the weights actually used.
type WeightedEvaluator struct {
	Evaluator *middleware.TimedEvaluator
	Weight    float64
}

// Aggregator orchestrates the full evaluator set over one metrics record
// and merges their results into a single prioritized assessment. It
// depends only on the evaluator interface; the concrete set and weights
// are fixed at construction.
//
// Each Assess call is a single-pass, stateless-per-call pipeline. The
// only persistent state is the injected append-only assessment log and
// the per-evaluator performance logs inside the timed wrappers.
type Aggregator struct {
	evaluators []WeightedEvaluator
	log        *AssessmentLog
	metrics    ports.MetricsCollector
	budgetMs   float64
	parallel   bool
	seq        atomic.Uint64
}

// AggregatorOption customizes an Aggregator.
type AggregatorOption func(*Aggregator)

// WithMetrics attaches a metrics collector for assessment-level
// counters and the overall-index gauge.
func WithMetrics(m ports.MetricsCollector) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

// WithBudget overrides the observational latency budget.
func WithBudget(budget time.Duration) AggregatorOption {
	return func(a *Aggregator) { a.budgetMs = float64(budget.Milliseconds()) }
}

// WithParallel toggles concurrent evaluator fan-out. Evaluators share no
// mutable state, so both modes produce identical assessments.
func WithParallel(parallel bool) AggregatorOption {
	return func(a *Aggregator) { a.parallel = parallel }
}

// NewAggregator creates an aggregator over the given evaluator set.
// The assessment log is required so callers control its lifetime;
// returns an error when the set is empty or an evaluator is misconfigured.
func NewAggregator(set []WeightedEvaluator, log *AssessmentLog, opts ...AggregatorOption) (*Aggregator, error) {
	if len(set) == 0 {
		return nil, domain.ErrNoEvaluators
	}
	if log == nil {
		return nil, fmt.Errorf("assessment log is required")
	}
	for _, we := range set {
		if we.Evaluator == nil {
			return nil, fmt.Errorf("nil evaluator in set")
		}
		if we.Weight <= 0 {
			return nil, fmt.Errorf("evaluator %s: weight must be positive, got %v",
				we.Evaluator.Name(), we.Weight)
		}
		if err := we.Evaluator.Validate(); err != nil {
			return nil, fmt.Errorf("evaluator %s: %w", we.Evaluator.Name(), err)
		}
	}

	a := &Aggregator{
		evaluators: set,
		log:        log,
		budgetMs:   DefaultBudgetMs,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewDefaultAggregator builds the standard three-evaluator engine
// (cardiovascular 0.35, metabolic 0.35, neurological 0.30) with default
// scoring weights, a fresh performance log per evaluator, and a fresh
// assessment log. The observer may be nil.
func NewDefaultAggregator(observer middleware.EvaluationObserver, opts ...AggregatorOption) (*Aggregator, error) {
	registry := NewDefaultEvaluatorRegistry()

	types := []string{TypeCardiovascular, TypeMetabolic, TypeNeurological}
	set := make([]WeightedEvaluator, 0, len(types))
	for _, t := range types {
		ev, err := registry.CreateEvaluator(t, t, nil)
		if err != nil {
			return nil, err
		}
		set = append(set, WeightedEvaluator{
			Evaluator: middleware.NewTimedEvaluator(ev, middleware.NewPerformanceLog(), observer),
			Weight:    DefaultWeights[t],
		})
	}
	return NewAggregator(set, NewAssessmentLog(), opts...)
}

// EvaluatorNames returns the names of the configured evaluators in
// execution order.
func (a *Aggregator) EvaluatorNames() []string {
	names := make([]string, len(a.evaluators))
	for i, we := range a.evaluators {
		names[i] = we.Evaluator.Name()
	}
	return names
}

// Assess runs every evaluator against the metrics and merges the
// results. A failing evaluator is captured as an error entry and never
// aborts the assessment; only a pipeline-level programming error (an
// unconfigured aggregator) returns a non-nil error.
func (a *Aggregator) Assess(ctx context.Context, m domain.Metrics) (*domain.AggregateAssessment, error) {
	if len(a.evaluators) == 0 {
		return nil, domain.ErrNoEvaluators
	}

	start := time.Now()
	results := a.runEvaluators(ctx, m)

	overallScore, overallLevel := a.overallIndex(results)
	criticalAreas := criticalAreas(results)
	recommendations := integrateRecommendations(results)

	totalMs := domain.Round2(float64(time.Since(start).Microseconds()) / 1000)
	status := domain.StatusOptimal
	if totalMs > a.budgetMs {
		status = domain.StatusDegraded
	}

	evaluatorTimes := make(map[string]float64, len(results))
	evaluations := make(map[string]domain.TimedResult, len(results))
	for _, r := range results {
		evaluatorTimes[r.Evaluator] = r.ProcessingTimeMs
		evaluations[r.Evaluator] = r
	}

	now := time.Now()
	assessment := &domain.AggregateAssessment{
		OverallIndex:    overallScore,
		OverallLevel:    overallLevel,
		Evaluations:     evaluations,
		CriticalAreas:   criticalAreas,
		Recommendations: recommendations,
		Performance: domain.PerformanceReport{
			TotalTimeMs:      totalMs,
			Status:           status,
			EvaluatorTimesMs: evaluatorTimes,
		},
		Metadata: domain.AssessmentMeta{
			ID:         a.newAssessmentID(now),
			Timestamp:  now,
			Evaluators: a.EvaluatorNames(),
		},
	}

	a.log.Append(AssessmentSample{
		Timestamp:    now,
		TotalTimeMs:  totalMs,
		OverallScore: overallScore,
	})

	if a.metrics != nil {
		a.metrics.RecordCounter("vitals_assessments_total", 1,
			map[string]string{"status": string(status)})
		a.metrics.RecordGauge("vitals_overall_health_index", overallScore,
			map[string]string{"engine": "default"})
	}

	return assessment, nil
}

// runEvaluators executes the set sequentially or fanned out across
// goroutines with a join before the merge step. Results keep execution
// order either way; the timed wrapper converts every failure into an
// error-variant result.
func (a *Aggregator) runEvaluators(ctx context.Context, m domain.Metrics) []domain.TimedResult {
	results := make([]domain.TimedResult, len(a.evaluators))

	if !a.parallel {
		for i, we := range a.evaluators {
			results[i] = we.Evaluator.Run(ctx, m)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, we := range a.evaluators {
		g.Go(func() error {
			results[i] = we.Evaluator.Run(gctx, m)
			return nil
		})
	}
	// Run never returns an error; the group is a join barrier.
	_ = g.Wait()
	return results
}

// overallIndex computes the weighted average of all non-error evaluator
// scores, dividing by the sum of the weights actually used. On total
// failure it reports 0 / Unknown.
func (a *Aggregator) overallIndex(results []domain.TimedResult) (float64, domain.RiskLevel) {
	var weightedSum, totalWeight float64
	for i, r := range results {
		if r.Failed() || r.Result == nil {
			continue
		}
		weightedSum += r.Result.RiskScore * a.evaluators[i].Weight
		totalWeight += a.evaluators[i].Weight
	}

	if totalWeight == 0 {
		return 0, domain.LevelUnknown
	}

	score := domain.Round2(weightedSum / totalWeight)
	return score, domain.LevelForScore(score)
}

// criticalAreas extracts every successful result whose level reached
// High/Critical or whose score reached 75, sorted by score descending.
func criticalAreas(results []domain.TimedResult) []domain.CriticalArea {
	critical := make([]domain.CriticalArea, 0)
	for _, r := range results {
		if r.Failed() || r.Result == nil {
			continue
		}
		level := r.Result.RiskLevel
		score := r.Result.RiskScore
		if level != domain.LevelHigh && level != domain.LevelCritical && score < 75 {
			continue
		}

		priority := "high"
		if score >= 75 {
			priority = "urgent"
		}
		critical = append(critical, domain.CriticalArea{
			Category:  r.Result.Category,
			RiskLevel: level,
			RiskScore: score,
			Evaluator: r.Evaluator,
			Priority:  priority,
		})
	}

	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].RiskScore > critical[j].RiskScore
	})
	return critical
}

// integrateRecommendations merges all evaluators' advice: urgent-marked
// entries first, then regular ones, deduplicated by exact string match
// preserving first-seen order, prefixed with a synthesized summary line
// and capped at domain.MaxRecommendations.
func integrateRecommendations(results []domain.TimedResult) []string {
	var urgent, regular []string
	for _, r := range results {
		for _, rec := range r.Recommendations {
			if strings.HasPrefix(rec, domain.UrgentPrefix) {
				urgent = append(urgent, rec)
			} else {
				regular = append(regular, rec)
			}
		}
	}

	integrated := make([]string, 0, len(urgent)+len(regular)+1)
	if len(urgent) == 0 {
		integrated = append(integrated, summaryAllClear)
	} else {
		integrated = append(integrated, summaryConcerns)
	}

	seen := make(map[string]struct{}, len(urgent)+len(regular))
	for _, rec := range append(urgent, regular...) {
		if _, dup := seen[rec]; dup {
			continue
		}
		seen[rec] = struct{}{}
		integrated = append(integrated, rec)
	}

	if len(integrated) > domain.MaxRecommendations {
		integrated = integrated[:domain.MaxRecommendations]
	}
	return integrated
}

// PerEvaluatorStats returns a snapshot of every evaluator's latency
// statistics, keyed by evaluator name.
func (a *Aggregator) PerEvaluatorStats() map[string]middleware.LatencyStats {
	stats := make(map[string]middleware.LatencyStats, len(a.evaluators))
	for _, we := range a.evaluators {
		stats[we.Evaluator.Name()] = we.Evaluator.Stats()
	}
	return stats
}

// OverallStats returns a snapshot of the assessment log checked against
// the configured budget.
func (a *Aggregator) OverallStats() AssessmentStats {
	return a.log.Stats(a.budgetMs)
}

// newAssessmentID derives a short identifier from the call timestamp and
// a process-local sequence number. Uniqueness is best-effort, not
// cryptographically guaranteed.
func (a *Aggregator) newAssessmentID(ts time.Time) string {
	seq := a.seq.Add(1)
	sum := sha256.Sum256(fmt.Appendf(nil, "%d-%d", ts.UnixNano(), seq))
	return hex.EncodeToString(sum[:])[:16]
}
