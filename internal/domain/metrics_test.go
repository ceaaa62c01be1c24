package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHas(t *testing.T) {
	age := 45
	m := Metrics{Age: &age}

	assert.True(t, m.Has(FieldAge))
	assert.False(t, m.Has(FieldWeightKg))
	assert.False(t, m.Has(FieldSmoker))
	assert.False(t, m.Has(Field("not_a_field")))
}

func TestMetricsHasDistinguishesZeroFromAbsent(t *testing.T) {
	smoker := false
	days := 0
	m := Metrics{Smoker: &smoker, ExerciseDays: &days}

	assert.True(t, m.Has(FieldSmoker))
	assert.True(t, m.Has(FieldExerciseDays))
}

func TestMetricsRequire(t *testing.T) {
	tests := []struct {
		name        string
		metrics     Metrics
		fields      []Field
		wantError   bool
		wantMessage string
	}{
		{
			name:    "all fields present",
			metrics: NewMetrics(45, 80, 175, 120, 80, 190, false, 3),
			fields: []Field{
				FieldAge, FieldWeightKg, FieldHeightCm, FieldSystolic,
				FieldDiastolic, FieldCholesterol, FieldSmoker, FieldExerciseDays,
			},
			wantError: false,
		},
		{
			name:        "one missing field",
			metrics:     func() Metrics { age := 45; return Metrics{Age: &age} }(),
			fields:      []Field{FieldAge, FieldCholesterol},
			wantError:   true,
			wantMessage: "missing required fields: cholesterol",
		},
		{
			name:        "multiple missing fields named in order",
			metrics:     Metrics{},
			fields:      []Field{FieldSystolic, FieldDiastolic, FieldSmoker},
			wantError:   true,
			wantMessage: "missing required fields: systolic, diastolic, is_smoker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metrics.Require("test-evaluator", tt.fields...)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.Contains(t, err.Error(), "test-evaluator")
			assert.True(t, errors.Is(err, ErrMissingField))
		})
	}
}

func TestNewMetricsPopulatesEveryField(t *testing.T) {
	m := NewMetrics(52, 88.5, 172, 145, 92, 255, true, 1)

	for _, f := range []Field{
		FieldAge, FieldWeightKg, FieldHeightCm, FieldSystolic,
		FieldDiastolic, FieldCholesterol, FieldSmoker, FieldExerciseDays,
	} {
		assert.True(t, m.Has(f), "field %s should be present", f)
	}
	assert.Equal(t, 52, *m.Age)
	assert.Equal(t, 88.5, *m.WeightKg)
	assert.True(t, *m.Smoker)
}
