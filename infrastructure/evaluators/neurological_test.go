package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vitals/internal/domain"
)

func TestStrokeRisk(t *testing.T) {
	tests := []struct {
		name        string
		age         int
		systolic    int
		diastolic   int
		smoker      bool
		cholesterol int
		want        float64
	}{
		{
			name: "young healthy baseline",
			age:  40, systolic: 120, diastolic: 75, cholesterol: 180,
			want: 10,
		},
		{
			name: "stage 1 hypertension addend",
			age:  50, systolic: 145, diastolic: 92, cholesterol: 180,
			want: 40, // 25 age + 15 BP
		},
		{
			name: "smoking multiplies before cholesterol adds",
			age:  30, systolic: 110, diastolic: 70, smoker: true, cholesterol: 290,
			want: 29, // 10 * 1.4 + 15, not (10 + 15) * 1.4
		},
		{
			name: "smoker with hypertension and borderline cholesterol",
			age:  50, systolic: 145, diastolic: 92, smoker: true, cholesterol: 250,
			want: 66, // (25 + 15) * 1.4 + 10
		},
		{
			name: "clamped at 100",
			age:  80, systolic: 185, diastolic: 115, smoker: true, cholesterol: 300,
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strokeRisk(tt.age, tt.systolic, tt.diastolic, tt.smoker, tt.cholesterol)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestVascularHealth(t *testing.T) {
	assert.Equal(t, 10.0, vascularHealth(119, 199))
	assert.Equal(t, 60.0, vascularHealth(150, 250)) // (60 + 60) / 2
	assert.Equal(t, 72.5, vascularHealth(170, 250)) // (85 + 60) / 2
}

func TestNeurologicalEvaluate(t *testing.T) {
	e, err := NewNeurologicalEvaluator("neuro", DefaultNeuroConfig())
	require.NoError(t, err)

	t.Run("healthy adult scores low", func(t *testing.T) {
		result, err := e.Evaluate(context.Background(),
			domain.NewMetrics(30, 70, 175, 110, 70, 180, false, 5))
		require.NoError(t, err)

		assert.Equal(t, "Neurological", result.Category)
		// 5*0.25 + 10*0.35 + 10*0.25 + 10*0.15
		assert.Equal(t, 8.75, result.RiskScore)
		assert.Equal(t, domain.LevelLow, result.RiskLevel)
		assert.Equal(t, "Low Risk", result.Details["stroke_risk_category"])
	})

	t.Run("high stroke risk surfaces in details", func(t *testing.T) {
		result, err := e.Evaluate(context.Background(),
			domain.NewMetrics(80, 80, 170, 185, 115, 300, true, 0))
		require.NoError(t, err)

		assert.Equal(t, domain.LevelCritical, result.RiskLevel)
		assert.Equal(t, 100.0, result.Breakdown["stroke_risk"])
		assert.Equal(t, "Critical Risk", result.Details["stroke_risk_category"])
	})
}

func TestBrainHealthAnalysis(t *testing.T) {
	tests := []struct {
		name         string
		metrics      domain.Metrics
		wantExercise string
		wantVascular string
		wantSmoking  string
	}{
		{
			name:         "protective profile",
			metrics:      domain.NewMetrics(30, 70, 175, 110, 70, 180, false, 5),
			wantExercise: "Excellent - strong neuroprotection",
			wantVascular: "Healthy - supports brain health",
			wantSmoking:  "Positive - no tobacco-related brain risks",
		},
		{
			name:         "middle profile",
			metrics:      domain.NewMetrics(50, 80, 175, 135, 85, 220, false, 2),
			wantExercise: "Moderate - some neuroprotection",
			wantVascular: "Moderate - monitor for brain health",
			wantSmoking:  "Positive - no tobacco-related brain risks",
		},
		{
			name:         "compromised profile",
			metrics:      domain.NewMetrics(65, 90, 170, 160, 100, 280, true, 0),
			wantExercise: "Poor - limited neuroprotection",
			wantVascular: "Compromised - may affect brain health",
			wantSmoking:  "Negative - increases stroke and dementia risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := brainHealthAnalysis(tt.metrics)
			assert.Equal(t, tt.wantExercise, got["exercise_impact"])
			assert.Equal(t, tt.wantVascular, got["vascular_status"])
			assert.Equal(t, tt.wantSmoking, got["smoking_impact"])
		})
	}
}

func TestNeurologicalEvaluateMissingFields(t *testing.T) {
	e, err := NewNeurologicalEvaluator("neuro", DefaultNeuroConfig())
	require.NoError(t, err)

	_, err = e.Evaluate(context.Background(), domain.Metrics{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields:")
	// Body measurements are not neurological inputs.
	assert.NotContains(t, err.Error(), "weight_kg")
	assert.NotContains(t, err.Error(), "height_cm")
}

func TestCreateNeurologicalEvaluator(t *testing.T) {
	e, err := CreateNeurologicalEvaluator("neuro", nil)
	require.NoError(t, err)
	assert.Equal(t, "neuro", e.Name())

	_, err = CreateNeurologicalEvaluator("neuro", map[string]any{"stroke_weight": 0.9})
	assert.ErrorIs(t, err, ErrWeightSum)
}
