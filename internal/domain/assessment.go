package domain

import (
	"math"
	"time"
)

// RiskLevel is the categorical band assigned to a risk score.
// Individual evaluators and the overall index share the same four-band
// semantics cut at 25/50/75.
type RiskLevel string

// Risk level bands, from most to least favorable. LevelUnknown is only
// produced when every evaluator in an assessment failed.
const (
	LevelLow      RiskLevel = "Low"
	LevelModerate RiskLevel = "Moderate"
	LevelHigh     RiskLevel = "High"
	LevelCritical RiskLevel = "Critical"
	LevelUnknown  RiskLevel = "Unknown"
)

// LevelForScore maps a 0-100 risk score onto its band: <25 Low,
// <50 Moderate, <75 High, otherwise Critical.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score < 25:
		return LevelLow
	case score < 50:
		return LevelModerate
	case score < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// UrgentPrefix marks a recommendation that requires immediate attention.
// The first recommendation of every Critical advice tier carries it, and
// the aggregator's merge step uses it to order urgent entries first.
const UrgentPrefix = "⚠️ URGENT:"

// Round2 rounds a score to two decimal places. Composite scores are
// reported at this precision throughout the system.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// EvaluatorResult is the outcome of a single domain evaluator run.
// It is created fresh on every call and never mutated after return.
type EvaluatorResult struct {
	// Category is the clinical domain this result covers,
	// e.g. "Cardiovascular".
	Category string `json:"category"`

	// RiskScore is the composite score on the 0-100 scale, rounded to
	// two decimals.
	RiskScore float64 `json:"risk_score"`

	// RiskLevel is the band for RiskScore.
	RiskLevel RiskLevel `json:"risk_level"`

	// Breakdown maps each named sub-score to its contribution before
	// composite weighting.
	Breakdown map[string]float64 `json:"breakdown"`

	// Details carries human-readable classifications and qualitative
	// judgments specific to the evaluator.
	Details map[string]any `json:"details,omitempty"`

	// BMI is reported by evaluators that derive it, rounded to two
	// decimals. Nil when the evaluator does not compute one.
	BMI *float64 `json:"bmi,omitempty"`
}

// TimedResult wraps an EvaluatorResult with latency and the advice
// generated for its score. When the evaluator failed, Result is nil and
// Error describes the failure; the aggregator still counts the call.
type TimedResult struct {
	// Evaluator is the registry name of the evaluator that produced
	// this entry.
	Evaluator string `json:"evaluator"`

	// Result holds the scored outcome, nil when the evaluator failed.
	Result *EvaluatorResult `json:"result,omitempty"`

	// Recommendations is the tiered advice for the computed score.
	Recommendations []string `json:"recommendations,omitempty"`

	// ProcessingTimeMs is the wall-clock duration of the evaluator call.
	ProcessingTimeMs float64 `json:"processing_time_ms"`

	// Error is the failure description for the error variant.
	Error string `json:"error,omitempty"`
}

// Failed reports whether this entry is the error variant.
func (r TimedResult) Failed() bool { return r.Error != "" }

// CriticalArea flags one evaluator result for urgent attention, either
// because its level reached High/Critical or its score reached 75.
type CriticalArea struct {
	Category  string    `json:"category"`
	RiskLevel RiskLevel `json:"risk_level"`
	RiskScore float64   `json:"risk_score"`
	Evaluator string    `json:"evaluator"`

	// Priority is "urgent" when the score reached 75, otherwise "high".
	Priority string `json:"priority"`
}

// PerformanceStatus classifies an assessment's total latency against the
// 3000 ms budget. The budget is observational: exceeding it degrades the
// status, it never aborts the assessment.
type PerformanceStatus string

const (
	// StatusOptimal means the assessment finished within budget.
	StatusOptimal PerformanceStatus = "optimal"

	// StatusDegraded means the assessment exceeded the budget.
	StatusDegraded PerformanceStatus = "degraded"
)

// PerformanceReport accounts for one assessment's latency.
type PerformanceReport struct {
	// TotalTimeMs is the wall-clock span across all evaluator calls.
	TotalTimeMs float64 `json:"total_time_ms"`

	// Status is the classification of TotalTimeMs against the budget.
	Status PerformanceStatus `json:"status"`

	// EvaluatorTimesMs maps evaluator name to its own elapsed time.
	EvaluatorTimesMs map[string]float64 `json:"evaluator_times_ms"`
}

// AssessmentMeta identifies one assessment.
type AssessmentMeta struct {
	// ID is a short, best-effort collision-resistant identifier derived
	// from the call timestamp.
	ID string `json:"assessment_id"`

	// Timestamp records when the assessment was produced.
	Timestamp time.Time `json:"timestamp"`

	// Evaluators lists the registry names that were run.
	Evaluators []string `json:"evaluators_used"`
}

// AggregateAssessment is the final merged outcome of one assessment call.
// It is immutable after construction; failed evaluators appear as explicit
// error entries in Evaluations rather than being silently omitted.
type AggregateAssessment struct {
	// OverallIndex is the weighted average of all non-error evaluator
	// scores, 0 when every evaluator failed.
	OverallIndex float64 `json:"overall_health_index"`

	// OverallLevel is the band for OverallIndex, LevelUnknown on total
	// failure.
	OverallLevel RiskLevel `json:"overall_risk_level"`

	// Evaluations maps evaluator name to its timed result or error entry.
	Evaluations map[string]TimedResult `json:"evaluations"`

	// CriticalAreas lists flagged results, sorted by score descending.
	CriticalAreas []CriticalArea `json:"critical_areas"`

	// Recommendations is the deduplicated, priority-ordered merged advice,
	// capped at MaxRecommendations entries.
	Recommendations []string `json:"integrated_recommendations"`

	// Performance is the latency accounting for this assessment.
	Performance PerformanceReport `json:"performance"`

	// Metadata identifies the assessment.
	Metadata AssessmentMeta `json:"metadata"`
}

// MaxRecommendations caps the merged recommendation list.
const MaxRecommendations = 15
