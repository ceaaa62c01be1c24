package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
version: "1.0"
metadata:
  name: test-engine
evaluators:
  - id: cardio
    type: cardiovascular
    weight: 0.35
  - id: metabolic
    type: metabolic
    weight: 0.35
    parameters:
      bmi_weight: 0.5
      lipid_weight: 0.3
      exercise_weight: 0.1
      age_weight: 0.1
  - id: neuro
    type: neurological
    weight: 0.30
performance:
  budget_ms: 2000
  parallel: true
`

func TestLoadEngineConfig(t *testing.T) {
	cfg, err := LoadEngineConfig(strings.NewReader(validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, "test-engine", cfg.Metadata.Name)
	require.Len(t, cfg.Evaluators, 3)
	assert.Equal(t, "cardio", cfg.Evaluators[0].ID)
	assert.Equal(t, 2000, cfg.Performance.BudgetMs)
	assert.True(t, cfg.Performance.Parallel)
}

func TestLoadEngineConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "missing version",
			yaml:    "evaluators:\n  - id: a\n    type: cardiovascular\n    weight: 0.5\n",
			wantMsg: "Version",
		},
		{
			name:    "no evaluators",
			yaml:    "version: \"1.0\"\nevaluators: []\n",
			wantMsg: "Evaluators",
		},
		{
			name:    "unknown field rejected",
			yaml:    "version: \"1.0\"\nevaluatorz: []\n",
			wantMsg: "not found",
		},
		{
			name: "weight out of range",
			yaml: `version: "1.0"
evaluators:
  - id: a
    type: cardiovascular
    weight: 1.5
`,
			wantMsg: "Weight",
		},
		{
			name: "duplicate evaluator IDs",
			yaml: `version: "1.0"
evaluators:
  - id: a
    type: cardiovascular
    weight: 0.5
  - id: a
    type: metabolic
    weight: 0.5
`,
			wantMsg: "duplicate evaluator ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEngineConfig(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	require.NoError(t, cfg.Validate())

	var total float64
	for _, ec := range cfg.Evaluators {
		total += ec.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, DefaultBudgetMs, cfg.Performance.BudgetMs)
}

func TestBuildAggregatorFromConfig(t *testing.T) {
	cfg, err := LoadEngineConfig(strings.NewReader(validConfigYAML))
	require.NoError(t, err)

	agg, err := cfg.BuildAggregator(NewDefaultEvaluatorRegistry(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cardio", "metabolic", "neuro"}, agg.EvaluatorNames())

	assessment, err := agg.Assess(context.Background(), healthyMetrics())
	require.NoError(t, err)
	assert.Len(t, assessment.Evaluations, 3)
}

func TestBuildAggregatorUnknownType(t *testing.T) {
	cfg := &EngineConfig{
		Version: "1.0",
		Evaluators: []EvaluatorConfig{
			{ID: "x", Type: "genetic", Weight: 1},
		},
	}

	_, err := cfg.BuildAggregator(NewDefaultEvaluatorRegistry(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported evaluator type")
}

func TestBuildAggregatorRejectsBadParameters(t *testing.T) {
	yaml := `
version: "1.0"
evaluators:
  - id: cardio
    type: cardiovascular
    weight: 1.0
    parameters:
      blood_pressure_weight: 0.9
      cholesterol_weight: 0.9
`
	cfg, err := LoadEngineConfig(strings.NewReader(yaml))
	require.NoError(t, err)

	_, err = cfg.BuildAggregator(NewDefaultEvaluatorRegistry(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1")
}
