// Package storage persists assessments and the audit trail in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ahrav/go-vitals/internal/domain"
	"github.com/ahrav/go-vitals/internal/ports"
)

var (
	_ ports.AssessmentStore = (*SQLiteStore)(nil)
	_ ports.AuditLog        = (*SQLiteStore)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS risk_assessments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subject_id TEXT,
    age INTEGER NOT NULL,
    weight_kg REAL NOT NULL,
    height_cm REAL NOT NULL,
    systolic INTEGER NOT NULL,
    diastolic INTEGER NOT NULL,
    cholesterol INTEGER NOT NULL,
    is_smoker BOOLEAN NOT NULL,
    exercise_days INTEGER NOT NULL,
    bmi REAL NOT NULL,
    overall_score REAL NOT NULL,
    risk_level TEXT NOT NULL,
    breakdown TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS audit_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    subject_id TEXT,
    action TEXT NOT NULL,
    resource TEXT NOT NULL,
    status TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_assessments_subject ON risk_assessments(subject_id);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp);
`

// SQLiteStore implements AssessmentStore and AuditLog on a single SQLite
// database. It is safe for concurrent use; database/sql serializes
// access to the underlying connection pool.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral store in
// tests. The logger may be nil.
func Open(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("assessment store opened", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save persists one scored record and returns its storage ID. All eight
// metric fields must be present; the schema marks them NOT NULL.
func (s *SQLiteStore) Save(
	ctx context.Context,
	subjectID string,
	m domain.Metrics,
	bmi, score float64,
	level domain.RiskLevel,
	breakdown map[string]float64,
) (int64, error) {
	if err := m.Require("stored assessment",
		domain.FieldAge, domain.FieldWeightKg, domain.FieldHeightCm,
		domain.FieldSystolic, domain.FieldDiastolic, domain.FieldCholesterol,
		domain.FieldSmoker, domain.FieldExerciseDays,
	); err != nil {
		return 0, err
	}

	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return 0, fmt.Errorf("failed to encode breakdown: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO risk_assessments (
			subject_id, age, weight_kg, height_cm, systolic, diastolic,
			cholesterol, is_smoker, exercise_days, bmi, overall_score,
			risk_level, breakdown
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(subjectID),
		*m.Age, *m.WeightKg, *m.HeightCm, *m.Systolic, *m.Diastolic,
		*m.Cholesterol, *m.Smoker, *m.ExerciseDays,
		bmi, score, string(level), string(breakdownJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save assessment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assessment ID: %w", err)
	}

	s.logger.Debug("assessment saved", "id", id, "score", score, "level", level)
	return id, nil
}

// History returns stored assessments newest first, filtered by subjectID
// when non-empty.
func (s *SQLiteStore) History(ctx context.Context, subjectID string, limit int) ([]ports.StoredAssessment, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, subject_id, age, weight_kg, height_cm, systolic, diastolic,
		       cholesterol, is_smoker, exercise_days, bmi, overall_score,
		       risk_level, breakdown, created_at
		FROM risk_assessments`
	args := []any{}
	if subjectID != "" {
		query += " WHERE subject_id = ?"
		args = append(args, subjectID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []ports.StoredAssessment
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ByID fetches a single assessment, nil when not found.
func (s *SQLiteStore) ByID(ctx context.Context, id int64) (*ports.StoredAssessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject_id, age, weight_kg, height_cm, systolic, diastolic,
		       cholesterol, is_smoker, exercise_days, bmi, overall_score,
		       risk_level, breakdown, created_at
		FROM risk_assessments WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanAssessment(rows)
}

// Delete removes an assessment, reporting whether a row was removed.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM risk_assessments WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete assessment %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Statistics aggregates over all stored assessments, optionally filtered
// by subjectID. An empty store yields zero-valued statistics.
func (s *SQLiteStore) Statistics(ctx context.Context, subjectID string) (ports.StoreStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(overall_score), 0),
			COALESCE(AVG(bmi), 0),
			COALESCE(SUM(CASE WHEN risk_level = 'Low' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN risk_level = 'Moderate' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN risk_level = 'High' THEN 1 ELSE 0 END), 0)
		FROM risk_assessments`
	args := []any{}
	if subjectID != "" {
		query += " WHERE subject_id = ?"
		args = append(args, subjectID)
	}

	var stats ports.StoreStatistics
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalAssessments,
		&stats.AvgRiskScore,
		&stats.AvgBMI,
		&stats.LowRiskCount,
		&stats.ModerateCount,
		&stats.HighRiskCount,
	)
	if err != nil {
		return ports.StoreStatistics{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	stats.AvgRiskScore = domain.Round2(stats.AvgRiskScore)
	stats.AvgBMI = domain.Round2(stats.AvgBMI)
	return stats, nil
}

// Record appends one event to the audit trail.
func (s *SQLiteStore) Record(ctx context.Context, event ports.AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Status == "" {
		event.Status = "success"
	}

	var detailsJSON sql.NullString
	if len(event.Details) > 0 {
		b, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (timestamp, subject_id, action, resource, status, details)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		nullableString(event.SubjectID),
		event.Action, event.Resource, event.Status, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// Recent returns the newest events, optionally filtered by action and
// resource.
func (s *SQLiteStore) Recent(ctx context.Context, action, resource string, limit int) ([]ports.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT timestamp, subject_id, action, resource, status, details
		FROM audit_logs WHERE 1=1`
	args := []any{}
	if action != "" {
		query += " AND action = ?"
		args = append(args, action)
	}
	if resource != "" {
		query += " AND resource = ?"
		args = append(args, resource)
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var events []ports.AuditEvent
	for rows.Next() {
		var (
			ev        ports.AuditEvent
			ts        string
			subjectID sql.NullString
			details   sql.NullString
		)
		if err := rows.Scan(&ts, &subjectID, &ev.Action, &ev.Resource, &ev.Status, &details); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("failed to parse audit timestamp %q: %w", ts, err)
		}
		ev.SubjectID = subjectID.String
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &ev.Details); err != nil {
				return nil, fmt.Errorf("failed to decode audit details: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Purge deletes events older than the cutoff and reports how many were
// removed.
func (s *SQLiteStore) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM audit_logs WHERE timestamp < ?`,
		olderThan.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("audit log purged", "deleted", n, "cutoff", olderThan)
	}
	return n, nil
}

func scanAssessment(rows *sql.Rows) (*ports.StoredAssessment, error) {
	var (
		rec           ports.StoredAssessment
		subjectID     sql.NullString
		age           int
		weightKg      float64
		heightCm      float64
		systolic      int
		diastolic     int
		cholesterol   int
		smoker        bool
		exerciseDays  int
		level         string
		breakdownJSON string
		createdAt     string
	)
	if err := rows.Scan(
		&rec.ID, &subjectID, &age, &weightKg, &heightCm, &systolic, &diastolic,
		&cholesterol, &smoker, &exerciseDays, &rec.BMI, &rec.Score,
		&level, &breakdownJSON, &createdAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	// The driver surfaces TIMESTAMP columns as time.Time, which
	// database/sql renders as RFC 3339 when scanned into a string.
	ts, err := time.ParseInLocation(time.RFC3339Nano, createdAt, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = ts

	rec.SubjectID = subjectID.String
	rec.Metrics = domain.NewMetrics(age, weightKg, heightCm, systolic, diastolic, cholesterol, smoker, exerciseDays)
	rec.Level = domain.RiskLevel(level)
	if err := json.Unmarshal([]byte(breakdownJSON), &rec.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown: %w", err)
	}
	return &rec, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
