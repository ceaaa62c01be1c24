package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vitals/internal/domain"
)

func TestQuickScore(t *testing.T) {
	tests := []struct {
		name      string
		metrics   domain.Metrics
		wantScore float64
		wantLevel domain.RiskLevel
		wantBMI   float64
	}{
		{
			name:      "healthy young adult",
			metrics:   domain.NewMetrics(25, 70, 175, 110, 70, 180, false, 5),
			wantScore: 10,
			wantLevel: domain.LevelLow,
			wantBMI:   22.86,
		},
		{
			name:    "elevated profile lands moderate",
			metrics: domain.NewMetrics(50, 90, 175, 135, 85, 220, false, 2),
			// age 40*.15 + bmi 40*.20 + bp 50*.25 + chol 40*.20 + smoke 10*.10 + ex 40*.10
			wantScore: 39.5,
			wantLevel: domain.LevelModerate,
			wantBMI:   29.39,
		},
		{
			name:    "high risk smoker",
			metrics: domain.NewMetrics(65, 110, 170, 150, 95, 260, true, 0),
			// age 60*.15 + bmi 70*.20 + bp 80*.25 + chol 70*.20 + smoke 60*.10 + ex 60*.10
			wantScore: 69,
			wantLevel: domain.LevelHigh,
			wantBMI:   38.06,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := QuickScore(tt.metrics)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, result.OverallScore)
			assert.Equal(t, tt.wantLevel, result.RiskLevel)
			assert.InDelta(t, tt.wantBMI, result.BMI, 0.01)
			assert.Len(t, result.Breakdown, 6)
		})
	}
}

func TestQuickScoreThreeBandLevel(t *testing.T) {
	assert.Equal(t, domain.LevelLow, quickLevel(24.99))
	assert.Equal(t, domain.LevelModerate, quickLevel(25))
	assert.Equal(t, domain.LevelModerate, quickLevel(49.99))
	// The screening path never reports Critical; 50 and above is High.
	assert.Equal(t, domain.LevelHigh, quickLevel(50))
	assert.Equal(t, domain.LevelHigh, quickLevel(95))
}

func TestQuickScoreBloodPressureBands(t *testing.T) {
	tests := []struct {
		systolic  int
		diastolic int
		want      float64
	}{
		{119, 79, 10},
		{129, 79, 20},
		{129, 80, 50}, // elevated diastolic skips the second band
		{139, 95, 50},
		{150, 95, 80},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quickBPScore(tt.systolic, tt.diastolic),
			"bp %d/%d", tt.systolic, tt.diastolic)
	}
}

func TestQuickScoreRequiresAllFields(t *testing.T) {
	age := 45
	_, err := QuickScore(domain.Metrics{Age: &age})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingField))
	assert.Contains(t, err.Error(), "missing required fields:")
	assert.Contains(t, err.Error(), "weight_kg")
	assert.Contains(t, err.Error(), "exercise_days")
}
