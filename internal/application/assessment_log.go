package application

import (
	"math"
	"sync"
	"time"

	"github.com/ahrav/go-vitals/internal/domain"
)

// AssessmentSample is one entry in the aggregator's assessment log.
type AssessmentSample struct {
	// Timestamp records when the assessment completed.
	Timestamp time.Time `json:"timestamp"`

	// TotalTimeMs is the assessment's wall-clock span.
	TotalTimeMs float64 `json:"total_time_ms"`

	// OverallScore is the assessment's overall health index.
	OverallScore float64 `json:"overall_score"`
}

// AssessmentStats is a read-only projection of an assessment log,
// reporting whether the running average still meets the latency budget.
type AssessmentStats struct {
	TotalAssessments int     `json:"total_assessments"`
	AvgTimeMs        float64 `json:"avg_time_ms"`
	MinTimeMs        float64 `json:"min_time_ms"`
	MaxTimeMs        float64 `json:"max_time_ms"`

	// PerformanceTargetMet is nil until at least one assessment has run.
	PerformanceTargetMet *bool `json:"performance_target_met"`

	// TargetMs is the budget the average was checked against.
	TargetMs float64 `json:"target_ms"`
}

// AssessmentLog is the aggregator's append-only, process-lifetime record
// of {timestamp, total time, overall score} triples. Like the evaluator
// performance logs it is injectable and internally synchronized; nothing
// in the core prunes it.
type AssessmentLog struct {
	mu      sync.Mutex
	samples []AssessmentSample
}

// NewAssessmentLog creates an empty assessment log.
func NewAssessmentLog() *AssessmentLog { return &AssessmentLog{} }

// Append records one assessment.
func (l *AssessmentLog) Append(s AssessmentSample) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samples = append(l.samples, s)
}

// Len returns the number of recorded assessments.
func (l *AssessmentLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.samples)
}

// Stats summarizes the log against the given latency budget.
func (l *AssessmentLog) Stats(budgetMs float64) AssessmentStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.samples) == 0 {
		return AssessmentStats{TargetMs: budgetMs}
	}

	var sum float64
	minMs := math.Inf(1)
	maxMs := math.Inf(-1)
	for _, s := range l.samples {
		sum += s.TotalTimeMs
		minMs = math.Min(minMs, s.TotalTimeMs)
		maxMs = math.Max(maxMs, s.TotalTimeMs)
	}
	avg := sum / float64(len(l.samples))
	met := avg <= budgetMs

	return AssessmentStats{
		TotalAssessments:     len(l.samples),
		AvgTimeMs:            domain.Round2(avg),
		MinTimeMs:            minMs,
		MaxTimeMs:            maxMs,
		PerformanceTargetMet: &met,
		TargetMs:             budgetMs,
	}
}
