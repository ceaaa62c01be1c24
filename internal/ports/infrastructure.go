package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-vitals/internal/domain"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus, OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like assessments, evaluator
	// failures, etc.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like the latest overall index.
	RecordGauge(metric string, value float64, labels map[string]string)
}

// StoredAssessment is one persisted quick-score record as returned by an
// AssessmentStore. Breakdown round-trips through a JSON column.
type StoredAssessment struct {
	ID        int64              `json:"id"`
	SubjectID string             `json:"subject_id,omitempty"`
	Metrics   domain.Metrics     `json:"metrics"`
	BMI       float64            `json:"bmi"`
	Score     float64            `json:"overall_score"`
	Level     domain.RiskLevel   `json:"risk_level"`
	Breakdown map[string]float64 `json:"breakdown"`
	CreatedAt time.Time          `json:"created_at"`
}

// StoreStatistics summarizes everything an AssessmentStore holds.
type StoreStatistics struct {
	TotalAssessments int     `json:"total_assessments"`
	AvgRiskScore     float64 `json:"avg_risk_score"`
	AvgBMI           float64 `json:"avg_bmi"`
	LowRiskCount     int     `json:"low_risk_count"`
	ModerateCount    int     `json:"moderate_risk_count"`
	HighRiskCount    int     `json:"high_risk_count"`
}

// AssessmentStore persists finished assessments keyed by an optional
// caller-supplied subject identifier. The scoring core hands results to a
// store; it never reads persisted history itself.
type AssessmentStore interface {
	// Save persists one scored record and returns its storage ID.
	// subjectID may be empty for anonymous assessments.
	Save(ctx context.Context, subjectID string, m domain.Metrics,
		bmi, score float64, level domain.RiskLevel, breakdown map[string]float64) (int64, error)

	// History returns stored assessments newest first, filtered by
	// subjectID when non-empty, limited to limit records.
	History(ctx context.Context, subjectID string, limit int) ([]StoredAssessment, error)

	// ByID fetches a single assessment, nil when not found.
	ByID(ctx context.Context, id int64) (*StoredAssessment, error)

	// Delete removes an assessment, reporting whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	// Statistics aggregates over all stored assessments, optionally
	// filtered by subjectID.
	Statistics(ctx context.Context, subjectID string) (StoreStatistics, error)
}

// AuditEvent is one entry in the audit trail.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	SubjectID string         `json:"subject_id,omitempty"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource"`
	Status    string         `json:"status"`
	Details   map[string]any `json:"details,omitempty"`
}

// AuditLog records system events for compliance review.
type AuditLog interface {
	// Record appends one event to the trail.
	Record(ctx context.Context, event AuditEvent) error

	// Recent returns the newest events, optionally filtered by action
	// and resource (empty string matches all).
	Recent(ctx context.Context, action, resource string, limit int) ([]AuditEvent, error)

	// Purge deletes events older than the cutoff and reports how many
	// were removed.
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}

// VitalsSnapshot is a point-in-time reading from a wearable device.
type VitalsSnapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	HeartRateBpm    int       `json:"heart_rate_bpm"`
	BloodOxygenPct  int       `json:"blood_oxygen_pct"`
	RespiratoryRate int       `json:"respiratory_rate"`
}

// ActivitySummary is one day of wearable activity data.
type ActivitySummary struct {
	Date            string  `json:"date"`
	Steps           int     `json:"steps"`
	DistanceKm      float64 `json:"distance_km"`
	ActiveCalories  int     `json:"active_calories"`
	ExerciseMinutes int     `json:"exercise_minutes"`
	StandHours      int     `json:"stand_hours"`
}

// DeviceSource provides health data from a wearable device. The only
// implementation in this repository is a deterministic mock; a production
// integration would satisfy the same interface.
type DeviceSource interface {
	// DeviceInfo describes the connected device.
	DeviceInfo() map[string]string

	// CurrentVitals returns a real-time vitals reading.
	CurrentVitals() VitalsSnapshot

	// ActivityHistory returns daily summaries for the past days.
	ActivityHistory(days int) []ActivitySummary

	// SampleMetrics produces a complete, plausible Metrics record
	// suitable for a demo assessment. All eight fields are present.
	SampleMetrics() domain.Metrics
}
