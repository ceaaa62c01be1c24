package evaluators

import (
	"context"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-vitals/internal/domain"
	"github.com/ahrav/go-vitals/internal/ports"
)

var _ ports.Evaluator = (*MetabolicEvaluator)(nil)

// BMI ladder. Underweight scores worse than normal weight: low BMI is
// its own health risk.
var metabolicBMILadder = ladder{
	{upper: 18.5, score: 40, label: "Underweight"},
	{upper: 25, score: 10, label: "Normal Weight"},
	{upper: 30, score: 45, label: "Overweight"},
	{upper: 35, score: 70, label: "Obese Class I"},
	{upper: 40, score: 85, label: "Obese Class II"},
	{upper: math.Inf(1), score: 95, label: "Obese Class III (Severe)"},
}

// Lipid ladder: same cholesterol cutoffs as the cardiovascular ladder
// but with metabolic-specific scores.
var metabolicLipidLadder = ladder{
	{upper: 200, score: 10, label: "Optimal"},
	{upper: 240, score: 40, label: "Borderline"},
	{upper: 280, score: 70, label: "High"},
	{upper: math.Inf(1), score: 90, label: "Very High"},
}

// Age ladder for metabolic risk (years).
var metabolicAgeLadder = ladder{
	{upper: 30, score: 10},
	{upper: 45, score: 25},
	{upper: 60, score: 45},
	{upper: math.Inf(1), score: 65},
}

var metabolicExerciseScores = exerciseScores{active: 10, moderate: 25, light: 50, sedentary: 80}

var metabolicAdvice = adviceTiers{
	low: []string{
		"Maintain your healthy weight and lifestyle",
		"Continue balanced diet and regular exercise",
		"Annual metabolic health screening recommended",
	},
	moderate: []string{
		"Consult with a nutritionist for diet optimization",
		"Increase physical activity to 30-45 minutes daily",
		"Monitor weight and BMI regularly",
		"Consider metabolic panel blood work",
	},
	high: []string{
		"Schedule consultation with endocrinologist",
		"Implement structured weight management program",
		"Regular monitoring of blood glucose and lipids",
		"Consider working with certified diabetes educator",
		"Increase exercise to 60 minutes daily, 5-6 days/week",
	},
	critical: []string{
		domain.UrgentPrefix + " Immediate medical evaluation required",
		"Comprehensive metabolic assessment needed",
		"May require medication management",
		"Intensive lifestyle modification program",
		"Regular medical monitoring essential",
	},
}

// SyndromeIndicators flags the simplified metabolic syndrome screen.
// A full diagnosis requires additional tests; this only reports the two
// indicators derivable from the available inputs.
type SyndromeIndicators struct {
	ElevatedBMI         bool `json:"elevated_bmi"`
	ElevatedCholesterol bool `json:"elevated_cholesterol"`
	RiskPresent         bool `json:"risk_present"`
}

// MetabolicConfig controls the composite weighting of the metabolic
// sub-scores. Weights must sum to 1.
type MetabolicConfig struct {
	// BMIWeight scales the BMI sub-score.
	BMIWeight float64 `yaml:"bmi_weight" json:"bmi_weight" validate:"min=0,max=1"`
	// LipidWeight scales the lipid-profile sub-score.
	LipidWeight float64 `yaml:"lipid_weight" json:"lipid_weight" validate:"min=0,max=1"`
	// ExerciseWeight scales the exercise sub-score.
	ExerciseWeight float64 `yaml:"exercise_weight" json:"exercise_weight" validate:"min=0,max=1"`
	// AgeWeight scales the age sub-score.
	AgeWeight float64 `yaml:"age_weight" json:"age_weight" validate:"min=0,max=1"`
}

// DefaultMetabolicConfig returns the standard composite weighting:
// 0.40 BMI + 0.30 lipid + 0.20 exercise + 0.10 age.
func DefaultMetabolicConfig() MetabolicConfig {
	return MetabolicConfig{
		BMIWeight:      0.40,
		LipidWeight:    0.30,
		ExerciseWeight: 0.20,
		AgeWeight:      0.10,
	}
}

func (c MetabolicConfig) check() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return checkWeightSum(c.BMIWeight, c.LipidWeight, c.ExerciseWeight, c.AgeWeight)
}

// MetabolicEvaluator scores metabolic risk (obesity, lipids, metabolic
// syndrome indicators) from body measurements, cholesterol, age, and
// exercise frequency. It is stateless and safe for concurrent execution.
type MetabolicEvaluator struct {
	name   string
	config MetabolicConfig
}

// NewMetabolicEvaluator creates a metabolic evaluator with the given
// composite weighting.
func NewMetabolicEvaluator(name string, config MetabolicConfig) (*MetabolicEvaluator, error) {
	if name == "" {
		return nil, ErrEmptyEvaluatorName
	}
	if err := config.check(); err != nil {
		return nil, err
	}
	return &MetabolicEvaluator{name: name, config: config}, nil
}

// Name returns the unique identifier for this evaluator instance.
func (e *MetabolicEvaluator) Name() string { return e.name }

// BMI computes the body mass index from weight and height.
func BMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// Evaluate scores metabolic risk for the given metrics.
// It requires weight_kg, height_cm, age, exercise_days, and cholesterol.
// The result reports the derived BMI (two decimals), its classification,
// and the metabolic syndrome indicator flags.
func (e *MetabolicEvaluator) Evaluate(ctx context.Context, m domain.Metrics) (domain.EvaluatorResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EvaluatorResult{}, err
	}

	if err := m.Require(e.name,
		domain.FieldWeightKg, domain.FieldHeightCm, domain.FieldAge,
		domain.FieldExerciseDays, domain.FieldCholesterol,
	); err != nil {
		return domain.EvaluatorResult{}, err
	}

	bmi := BMI(*m.WeightKg, *m.HeightCm)

	bmiScore, bmiLabel := metabolicBMILadder.lookup(bmi)
	lipidScore, _ := metabolicLipidLadder.lookup(float64(*m.Cholesterol))
	exerciseScore := metabolicExerciseScores.score(*m.ExerciseDays)
	ageScore := metabolicAgeLadder.score(float64(*m.Age))

	composite := bmiScore*e.config.BMIWeight +
		lipidScore*e.config.LipidWeight +
		exerciseScore*e.config.ExerciseWeight +
		ageScore*e.config.AgeWeight
	composite = domain.Round2(composite)

	roundedBMI := domain.Round2(bmi)

	return domain.EvaluatorResult{
		Category:  "Metabolic",
		RiskScore: composite,
		RiskLevel: domain.LevelForScore(composite),
		BMI:       &roundedBMI,
		Breakdown: map[string]float64{
			"bmi":           bmiScore,
			"lipid_profile": lipidScore,
			"exercise":      exerciseScore,
			"age":           ageScore,
		},
		Details: map[string]any{
			"bmi_classification": bmiLabel,
			"metabolic_syndrome_indicators": SyndromeIndicators{
				ElevatedBMI:         bmi >= 30,
				ElevatedCholesterol: *m.Cholesterol >= 240,
				RiskPresent:         bmi >= 30 || *m.Cholesterol >= 240,
			},
		},
	}, nil
}

// Recommend returns the metabolic advice tier for the given score.
func (e *MetabolicEvaluator) Recommend(riskScore float64) []string {
	return metabolicAdvice.forScore(riskScore)
}

// Validate checks if the evaluator is properly configured.
func (e *MetabolicEvaluator) Validate() error {
	if e.name == "" {
		return ErrEmptyEvaluatorName
	}
	return e.config.check()
}

// UnmarshalParameters deserializes YAML configuration parameters and
// returns a new evaluator instance with the updated weighting.
func (e *MetabolicEvaluator) UnmarshalParameters(params yaml.Node) (*MetabolicEvaluator, error) {
	config := DefaultMetabolicConfig()
	if err := params.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return NewMetabolicEvaluator(e.name, config)
}

// CreateMetabolicEvaluator is the factory used by the evaluator registry
// for dynamic creation from a configuration map.
func CreateMetabolicEvaluator(id string, config map[string]any) (ports.Evaluator, error) {
	cfg := DefaultMetabolicConfig()
	if err := decodeConfigMap(config, &cfg); err != nil {
		return nil, err
	}
	return NewMetabolicEvaluator(id, cfg)
}
