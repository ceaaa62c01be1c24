// Package wearable provides health data from wearable devices. The only
// implementation is a deterministic mock used for demos and tests; a
// production integration would satisfy the same DeviceSource interface.
package wearable

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/ahrav/go-vitals/internal/domain"
	"github.com/ahrav/go-vitals/internal/ports"
)

var _ ports.DeviceSource = (*MockDevice)(nil)

// MockDevice simulates a paired smartwatch. Data is generated from a
// PRNG seeded with the subject ID, so the same subject always produces
// the same readings.
type MockDevice struct {
	subjectID string
	rng       *rand.Rand
	now       func() time.Time
}

// MockOption customizes a MockDevice.
type MockOption func(*MockDevice)

// WithClock overrides the device's clock, fixing timestamps in tests.
func WithClock(now func() time.Time) MockOption {
	return func(d *MockDevice) { d.now = now }
}

// NewMockDevice creates a mock device for the given subject. An empty
// subject ID yields the unseeded default stream.
func NewMockDevice(subjectID string, opts ...MockOption) *MockDevice {
	h := fnv.New64a()
	h.Write([]byte(subjectID))

	d := &MockDevice{
		subjectID: subjectID,
		rng:       rand.New(rand.NewSource(int64(h.Sum64()))),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DeviceInfo describes the simulated device.
func (d *MockDevice) DeviceInfo() map[string]string {
	return map[string]string{
		"model":      "VitalsBand Mk II",
		"os_version": "bandOS 4.1",
		"subject_id": d.subjectID,
	}
}

// CurrentVitals returns a simulated real-time vitals reading.
func (d *MockDevice) CurrentVitals() ports.VitalsSnapshot {
	return ports.VitalsSnapshot{
		Timestamp:       d.now(),
		HeartRateBpm:    d.intBetween(65, 85),
		BloodOxygenPct:  d.intBetween(96, 99),
		RespiratoryRate: d.intBetween(12, 18),
	}
}

// ActivityHistory returns one summary per day, most recent first.
func (d *MockDevice) ActivityHistory(days int) []ports.ActivitySummary {
	if days <= 0 {
		return nil
	}

	summaries := make([]ports.ActivitySummary, 0, days)
	for day := range days {
		date := d.now().AddDate(0, 0, -day)
		summaries = append(summaries, ports.ActivitySummary{
			Date:            date.Format("2006-01-02"),
			Steps:           d.intBetween(3000, 12000),
			DistanceKm:      domain.Round2(d.floatBetween(2.0, 8.0)),
			ActiveCalories:  d.intBetween(200, 600),
			ExerciseMinutes: d.intBetween(0, 90),
			StandHours:      d.intBetween(6, 12),
		})
	}
	return summaries
}

// SampleMetrics produces a complete, plausible metrics record for a demo
// assessment. The value ranges skew toward a generally healthy adult, so
// most sampled records score Low or Moderate.
func (d *MockDevice) SampleMetrics() domain.Metrics {
	return domain.NewMetrics(
		d.intBetween(25, 65),
		domain.Round2(d.floatBetween(60, 100)),
		float64(d.intBetween(160, 190)),
		d.intBetween(110, 140),
		d.intBetween(70, 90),
		d.intBetween(160, 240),
		d.rng.Intn(2) == 1,
		d.intBetween(0, 6),
	)
}

// intBetween returns a pseudo-random int in [lo, hi].
func (d *MockDevice) intBetween(lo, hi int) int {
	return lo + d.rng.Intn(hi-lo+1)
}

// floatBetween returns a pseudo-random float64 in [lo, hi).
func (d *MockDevice) floatBetween(lo, hi float64) float64 {
	return lo + d.rng.Float64()*(hi-lo)
}
