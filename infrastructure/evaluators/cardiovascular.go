package evaluators

import (
	"context"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-vitals/internal/domain"
	"github.com/ahrav/go-vitals/internal/ports"
)

var _ ports.Evaluator = (*CardiovascularEvaluator)(nil)

// Blood pressure classification ladder shared by scoring and labeling.
// The two favorable rungs require both readings in range; the rest match
// on either reading, mirroring clinical staging conventions.
var cardioBPLadder = bpLadder{
	bands: []bpBand{
		{systolic: 120, diastolic: 80, both: true, score: 10, label: "Optimal"},
		{systolic: 130, diastolic: 85, both: true, score: 20, label: "Normal"},
		{systolic: 140, diastolic: 90, both: false, score: 40, label: "High Normal"},
		{systolic: 160, diastolic: 100, both: false, score: 60, label: "Stage 1 Hypertension"},
		{systolic: 180, diastolic: 110, both: false, score: 80, label: "Stage 2 Hypertension"},
	},
	elseScore: 100,
	elseLabel: "Severe Hypertension",
}

// Total cholesterol ladder (mg/dL).
var cardioCholesterolLadder = ladder{
	{upper: 200, score: 10, label: "Desirable"},
	{upper: 240, score: 50, label: "Borderline High"},
	{upper: 280, score: 75, label: "High"},
	{upper: math.Inf(1), score: 95, label: "Very High"},
}

// Age ladder for cardiac risk (years).
var cardioAgeLadder = ladder{
	{upper: 30, score: 10},
	{upper: 40, score: 20},
	{upper: 50, score: 35},
	{upper: 60, score: 50},
	{upper: 70, score: 70},
	{upper: math.Inf(1), score: 85},
}

// Exercise-frequency ladder (days/week); note the inverted bound order,
// so this one is expressed as explicit cutoffs in exerciseScore.
var cardioExerciseScores = exerciseScores{active: 10, moderate: 30, light: 50, sedentary: 80}

// exerciseScores maps the shared >=5 / >=3 / >=1 / else activity bands to
// evaluator-specific scores.
type exerciseScores struct {
	active, moderate, light, sedentary float64
}

func (s exerciseScores) score(days int) float64 {
	switch {
	case days >= 5:
		return s.active
	case days >= 3:
		return s.moderate
	case days >= 1:
		return s.light
	default:
		return s.sedentary
	}
}

// Smoking sub-scores: a flat penalty rather than a ladder.
const (
	smokerScore    = 80.0
	nonSmokerScore = 10.0
)

var cardioAdvice = adviceTiers{
	low: []string{
		"Maintain your current healthy lifestyle",
		"Continue regular cardiovascular exercise",
		"Keep monitoring your blood pressure and cholesterol",
	},
	moderate: []string{
		"Consult with a healthcare provider about your cardiovascular health",
		"Increase physical activity to at least 150 minutes per week",
		"Consider dietary changes to lower cholesterol",
		"Monitor blood pressure regularly",
	},
	high: []string{
		"Schedule an appointment with a cardiologist",
		"Implement immediate lifestyle modifications",
		"Quit smoking if applicable",
		"Consider medication for blood pressure/cholesterol management",
		"Daily cardiovascular exercise as approved by your doctor",
	},
	critical: []string{
		domain.UrgentPrefix + " Seek immediate medical attention",
		"Schedule emergency consultation with a cardiologist",
		"Begin prescribed medication regimen",
		"Strict lifestyle modification under medical supervision",
		"Daily monitoring of vital signs",
	},
}

// CardioConfig controls the composite weighting of the cardiovascular
// sub-scores. Weights must sum to 1; the threshold ladders themselves are
// a fixed scoring contract and are not configurable.
type CardioConfig struct {
	// BloodPressureWeight scales the blood-pressure sub-score.
	BloodPressureWeight float64 `yaml:"blood_pressure_weight" json:"blood_pressure_weight" validate:"min=0,max=1"`
	// CholesterolWeight scales the cholesterol sub-score.
	CholesterolWeight float64 `yaml:"cholesterol_weight" json:"cholesterol_weight" validate:"min=0,max=1"`
	// SmokingWeight scales the smoking sub-score.
	SmokingWeight float64 `yaml:"smoking_weight" json:"smoking_weight" validate:"min=0,max=1"`
	// AgeWeight scales the age sub-score.
	AgeWeight float64 `yaml:"age_weight" json:"age_weight" validate:"min=0,max=1"`
	// ExerciseWeight scales the exercise sub-score.
	ExerciseWeight float64 `yaml:"exercise_weight" json:"exercise_weight" validate:"min=0,max=1"`
}

// DefaultCardioConfig returns the standard composite weighting:
// 0.35 BP + 0.30 cholesterol + 0.20 smoking + 0.10 age + 0.05 exercise.
func DefaultCardioConfig() CardioConfig {
	return CardioConfig{
		BloodPressureWeight: 0.35,
		CholesterolWeight:   0.30,
		SmokingWeight:       0.20,
		AgeWeight:           0.10,
		ExerciseWeight:      0.05,
	}
}

func (c CardioConfig) check() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return checkWeightSum(
		c.BloodPressureWeight, c.CholesterolWeight, c.SmokingWeight,
		c.AgeWeight, c.ExerciseWeight,
	)
}

// CardiovascularEvaluator scores cardiovascular disease risk from blood
// pressure, cholesterol, smoking status, age, and exercise frequency.
// It is stateless and safe for concurrent execution.
type CardiovascularEvaluator struct {
	name   string
	config CardioConfig
}

// NewCardiovascularEvaluator creates a cardiovascular evaluator with the
// given composite weighting. Returns ErrEmptyEvaluatorName for an empty
// name or a validation error when the weights are inconsistent.
func NewCardiovascularEvaluator(name string, config CardioConfig) (*CardiovascularEvaluator, error) {
	if name == "" {
		return nil, ErrEmptyEvaluatorName
	}
	if err := config.check(); err != nil {
		return nil, err
	}
	return &CardiovascularEvaluator{name: name, config: config}, nil
}

// Name returns the unique identifier for this evaluator instance.
func (e *CardiovascularEvaluator) Name() string { return e.name }

// Evaluate scores cardiovascular risk for the given metrics.
// It requires age, systolic, diastolic, cholesterol, is_smoker, and
// exercise_days; a missing field yields a ValidationError naming every
// absent input.
func (e *CardiovascularEvaluator) Evaluate(ctx context.Context, m domain.Metrics) (domain.EvaluatorResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EvaluatorResult{}, err
	}

	if err := m.Require(e.name,
		domain.FieldSystolic, domain.FieldDiastolic, domain.FieldCholesterol,
		domain.FieldSmoker, domain.FieldAge, domain.FieldExerciseDays,
	); err != nil {
		return domain.EvaluatorResult{}, err
	}

	bpScore, bpLabel := cardioBPLadder.lookup(*m.Systolic, *m.Diastolic)
	cholScore, cholLabel := cardioCholesterolLadder.lookup(float64(*m.Cholesterol))
	smokingScore := nonSmokerScore
	if *m.Smoker {
		smokingScore = smokerScore
	}
	ageScore := cardioAgeLadder.score(float64(*m.Age))
	exerciseScore := cardioExerciseScores.score(*m.ExerciseDays)

	composite := bpScore*e.config.BloodPressureWeight +
		cholScore*e.config.CholesterolWeight +
		smokingScore*e.config.SmokingWeight +
		ageScore*e.config.AgeWeight +
		exerciseScore*e.config.ExerciseWeight
	composite = domain.Round2(composite)

	return domain.EvaluatorResult{
		Category:  "Cardiovascular",
		RiskScore: composite,
		RiskLevel: domain.LevelForScore(composite),
		Breakdown: map[string]float64{
			"blood_pressure": bpScore,
			"cholesterol":    cholScore,
			"smoking":        smokingScore,
			"age":            ageScore,
			"exercise":       exerciseScore,
		},
		Details: map[string]any{
			"bp_classification":          bpLabel,
			"cholesterol_classification": cholLabel,
		},
	}, nil
}

// Recommend returns the cardiovascular advice tier for the given score.
func (e *CardiovascularEvaluator) Recommend(riskScore float64) []string {
	return cardioAdvice.forScore(riskScore)
}

// Validate checks if the evaluator is properly configured.
func (e *CardiovascularEvaluator) Validate() error {
	if e.name == "" {
		return ErrEmptyEvaluatorName
	}
	return e.config.check()
}

// UnmarshalParameters deserializes YAML configuration parameters and
// returns a new evaluator instance with the updated weighting.
func (e *CardiovascularEvaluator) UnmarshalParameters(params yaml.Node) (*CardiovascularEvaluator, error) {
	config := DefaultCardioConfig()
	if err := params.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return NewCardiovascularEvaluator(e.name, config)
}

// CreateCardiovascularEvaluator is the factory used by the evaluator
// registry for dynamic creation from a configuration map.
func CreateCardiovascularEvaluator(id string, config map[string]any) (ports.Evaluator, error) {
	cfg := DefaultCardioConfig()
	if err := decodeConfigMap(config, &cfg); err != nil {
		return nil, err
	}
	return NewCardiovascularEvaluator(id, cfg)
}

// decodeConfigMap overlays a flexible configuration map onto a typed
// config struct via a YAML round trip, matching how engine configuration
// parameters are declared.
func decodeConfigMap(config map[string]any, out any) error {
	if len(config) == 0 {
		return nil
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
