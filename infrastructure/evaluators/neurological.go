package evaluators

import (
	"context"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-vitals/internal/domain"
	"github.com/ahrav/go-vitals/internal/ports"
)

var _ ports.Evaluator = (*NeurologicalEvaluator)(nil)

// Age ladder for cognitive-decline risk (years).
var neuroCognitiveAgeLadder = ladder{
	{upper: 40, score: 5},
	{upper: 50, score: 15},
	{upper: 60, score: 30},
	{upper: 70, score: 50},
	{upper: 80, score: 70},
	{upper: math.Inf(1), score: 85},
}

// Stroke-risk age band; an addend, not a final score.
var strokeAgeLadder = ladder{
	{upper: 45, score: 10},
	{upper: 55, score: 25},
	{upper: 65, score: 45},
	{upper: 75, score: 65},
	{upper: math.Inf(1), score: 80},
}

// Stroke-risk classification ladder over the computed stroke sub-score.
var strokeClassLadder = ladder{
	{upper: 25, label: "Low Risk"},
	{upper: 50, label: "Moderate Risk"},
	{upper: 75, label: "High Risk"},
	{upper: math.Inf(1), label: "Critical Risk"},
}

// Vascular-health component ladders; the sub-score is the average of the
// BP-derived and cholesterol-derived terms.
var (
	vascularBPLadder = ladder{
		{upper: 120, score: 10},
		{upper: 140, score: 30},
		{upper: 160, score: 60},
		{upper: math.Inf(1), score: 85},
	}
	vascularCholesterolLadder = ladder{
		{upper: 200, score: 10},
		{upper: 240, score: 35},
		{upper: math.Inf(1), score: 60},
	}
)

var neuroExerciseScores = exerciseScores{active: 10, moderate: 25, light: 50, sedentary: 80}

// smokerStrokeMultiplier scales the running stroke total for smokers.
// The ordering is a fixed contract: age band plus BP addend, then the
// multiplier, then the cholesterol addend, clamped at 100.
const smokerStrokeMultiplier = 1.4

var neuroAdvice = adviceTiers{
	low: []string{
		"Maintain brain-healthy lifestyle habits",
		"Continue regular physical exercise for cognitive health",
		"Engage in mentally stimulating activities",
		"Monitor cardiovascular health (impacts brain health)",
	},
	moderate: []string{
		"Increase cardiovascular exercise (proven neuroprotective)",
		"Consider cognitive training exercises",
		"Monitor and manage blood pressure closely",
		"Ensure adequate sleep (7-9 hours nightly)",
		"Mediterranean diet recommended for brain health",
	},
	high: []string{
		"Schedule consultation with neurologist",
		"Comprehensive vascular health assessment needed",
		"Intensive blood pressure management required",
		"Cognitive baseline testing recommended",
		"Quit smoking immediately if applicable",
		"Daily physical activity essential",
	},
	critical: []string{
		domain.UrgentPrefix + " Immediate neurological evaluation required",
		"High stroke risk - emergency medical consultation needed",
		"Comprehensive brain health assessment",
		"Aggressive cardiovascular risk factor management",
		"May require preventive medication (antiplatelet, statins)",
		"Consider carotid artery screening",
	},
}

// NeuroConfig controls the composite weighting of the neurological
// sub-scores. Weights must sum to 1.
type NeuroConfig struct {
	// CognitiveAgeWeight scales the cognitive-aging sub-score.
	CognitiveAgeWeight float64 `yaml:"cognitive_age_weight" json:"cognitive_age_weight" validate:"min=0,max=1"`
	// StrokeWeight scales the stroke-risk sub-score.
	StrokeWeight float64 `yaml:"stroke_weight" json:"stroke_weight" validate:"min=0,max=1"`
	// VascularWeight scales the vascular-health sub-score.
	VascularWeight float64 `yaml:"vascular_weight" json:"vascular_weight" validate:"min=0,max=1"`
	// NeuroprotectionWeight scales the exercise-derived sub-score.
	NeuroprotectionWeight float64 `yaml:"neuroprotection_weight" json:"neuroprotection_weight" validate:"min=0,max=1"`
}

// DefaultNeuroConfig returns the standard composite weighting:
// 0.25 cognitive age + 0.35 stroke + 0.25 vascular + 0.15 neuroprotection.
func DefaultNeuroConfig() NeuroConfig {
	return NeuroConfig{
		CognitiveAgeWeight:    0.25,
		StrokeWeight:          0.35,
		VascularWeight:        0.25,
		NeuroprotectionWeight: 0.15,
	}
}

func (c NeuroConfig) check() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return checkWeightSum(
		c.CognitiveAgeWeight, c.StrokeWeight, c.VascularWeight, c.NeuroprotectionWeight,
	)
}

// NeurologicalEvaluator scores cognitive-decline and stroke risk from
// age, blood pressure, cholesterol, smoking status, and exercise
// frequency. It is stateless and safe for concurrent execution.
type NeurologicalEvaluator struct {
	name   string
	config NeuroConfig
}

// NewNeurologicalEvaluator creates a neurological evaluator with the
// given composite weighting.
func NewNeurologicalEvaluator(name string, config NeuroConfig) (*NeurologicalEvaluator, error) {
	if name == "" {
		return nil, ErrEmptyEvaluatorName
	}
	if err := config.check(); err != nil {
		return nil, err
	}
	return &NeurologicalEvaluator{name: name, config: config}, nil
}

// Name returns the unique identifier for this evaluator instance.
func (e *NeurologicalEvaluator) Name() string { return e.name }

// Evaluate scores neurological risk for the given metrics.
// It requires age, systolic, diastolic, cholesterol, is_smoker, and
// exercise_days. The result includes a stroke-risk classification and a
// qualitative brain-health analysis derived from the raw inputs.
func (e *NeurologicalEvaluator) Evaluate(ctx context.Context, m domain.Metrics) (domain.EvaluatorResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EvaluatorResult{}, err
	}

	if err := m.Require(e.name,
		domain.FieldAge, domain.FieldSystolic, domain.FieldDiastolic,
		domain.FieldCholesterol, domain.FieldSmoker, domain.FieldExerciseDays,
	); err != nil {
		return domain.EvaluatorResult{}, err
	}

	cognitiveScore := neuroCognitiveAgeLadder.score(float64(*m.Age))
	strokeScore := strokeRisk(*m.Age, *m.Systolic, *m.Diastolic, *m.Smoker, *m.Cholesterol)
	vascularScore := vascularHealth(*m.Systolic, *m.Cholesterol)
	neuroprotection := neuroExerciseScores.score(*m.ExerciseDays)

	composite := cognitiveScore*e.config.CognitiveAgeWeight +
		strokeScore*e.config.StrokeWeight +
		vascularScore*e.config.VascularWeight +
		neuroprotection*e.config.NeuroprotectionWeight
	composite = domain.Round2(composite)

	return domain.EvaluatorResult{
		Category:  "Neurological",
		RiskScore: composite,
		RiskLevel: domain.LevelForScore(composite),
		Breakdown: map[string]float64{
			"cognitive_aging": cognitiveScore,
			"stroke_risk":     strokeScore,
			"vascular_health": vascularScore,
			"neuroprotection": neuroprotection,
		},
		Details: map[string]any{
			"stroke_risk_category": strokeClassLadder.classify(strokeScore),
			"brain_health_factors": brainHealthAnalysis(m),
		},
	}, nil
}

// strokeRisk combines the age band, a BP addend, a smoking multiplier,
// and a cholesterol addend, in that order, capped at 100.
func strokeRisk(age, systolic, diastolic int, smoker bool, cholesterol int) float64 {
	risk := strokeAgeLadder.score(float64(age))

	switch {
	case systolic >= 180 || diastolic >= 110:
		risk += 40
	case systolic >= 160 || diastolic >= 100:
		risk += 30
	case systolic >= 140 || diastolic >= 90:
		risk += 15
	}

	if smoker {
		risk *= smokerStrokeMultiplier
	}

	switch {
	case cholesterol >= 280:
		risk += 15
	case cholesterol >= 240:
		risk += 10
	}

	return math.Min(risk, 100)
}

// vascularHealth averages the BP-derived and cholesterol-derived terms.
func vascularHealth(systolic, cholesterol int) float64 {
	bp := vascularBPLadder.score(float64(systolic))
	chol := vascularCholesterolLadder.score(float64(cholesterol))
	return (bp + chol) / 2
}

// brainHealthAnalysis derives three qualitative judgments from the raw
// inputs; these are threshold comparisons, independent of the numeric
// sub-scores.
func brainHealthAnalysis(m domain.Metrics) map[string]string {
	analysis := make(map[string]string, 3)

	switch {
	case *m.ExerciseDays >= 4:
		analysis["exercise_impact"] = "Excellent - strong neuroprotection"
	case *m.ExerciseDays >= 2:
		analysis["exercise_impact"] = "Moderate - some neuroprotection"
	default:
		analysis["exercise_impact"] = "Poor - limited neuroprotection"
	}

	switch {
	case *m.Systolic < 130 && *m.Cholesterol < 200:
		analysis["vascular_status"] = "Healthy - supports brain health"
	case *m.Systolic < 140 && *m.Cholesterol < 240:
		analysis["vascular_status"] = "Moderate - monitor for brain health"
	default:
		analysis["vascular_status"] = "Compromised - may affect brain health"
	}

	if *m.Smoker {
		analysis["smoking_impact"] = "Negative - increases stroke and dementia risk"
	} else {
		analysis["smoking_impact"] = "Positive - no tobacco-related brain risks"
	}

	return analysis
}

// Recommend returns the neurological advice tier for the given score.
func (e *NeurologicalEvaluator) Recommend(riskScore float64) []string {
	return neuroAdvice.forScore(riskScore)
}

// Validate checks if the evaluator is properly configured.
func (e *NeurologicalEvaluator) Validate() error {
	if e.name == "" {
		return ErrEmptyEvaluatorName
	}
	return e.config.check()
}

// UnmarshalParameters deserializes YAML configuration parameters and
// returns a new evaluator instance with the updated weighting.
func (e *NeurologicalEvaluator) UnmarshalParameters(params yaml.Node) (*NeurologicalEvaluator, error) {
	config := DefaultNeuroConfig()
	if err := params.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return NewNeurologicalEvaluator(e.name, config)
}

// CreateNeurologicalEvaluator is the factory used by the evaluator
// registry for dynamic creation from a configuration map.
func CreateNeurologicalEvaluator(id string, config map[string]any) (ports.Evaluator, error) {
	cfg := DefaultNeuroConfig()
	if err := decodeConfigMap(config, &cfg); err != nil {
		return nil, err
	}
	return NewNeurologicalEvaluator(id, cfg)
}
