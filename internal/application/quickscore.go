package application

import (
	"github.com/ahrav/go-vitals/infrastructure/evaluators"
	"github.com/ahrav/go-vitals/internal/domain"
)

// QuickScore weights. They sum to 1 so the composite stays on the 0-100
// scale without renormalization.
const (
	quickWeightAge      = 0.15
	quickWeightBMI      = 0.20
	quickWeightBP       = 0.25
	quickWeightChol     = 0.20
	quickWeightSmoking  = 0.10
	quickWeightExercise = 0.10
)

// QuickAssessment is the result of the single-pass composite scorer. It
// trades the full engine's per-domain depth for one weighted pass over
// all six factors, with a coarser three-band risk level.
type QuickAssessment struct {
	OverallScore float64            `json:"overall_score"`
	RiskLevel    domain.RiskLevel   `json:"risk_level"`
	BMI          float64            `json:"bmi"`
	Breakdown    map[string]float64 `json:"breakdown"`
}

// QuickScore computes a composite risk score in one pass, without
// running the evaluator pipeline. It uses intentionally coarser scoring
// ladders than the clinical evaluators: this is the screening path, not
// the assessment path. All eight metric fields are required.
func QuickScore(m domain.Metrics) (*QuickAssessment, error) {
	if err := m.Require("quick assessment",
		domain.FieldAge, domain.FieldWeightKg, domain.FieldHeightCm,
		domain.FieldSystolic, domain.FieldDiastolic, domain.FieldCholesterol,
		domain.FieldSmoker, domain.FieldExerciseDays,
	); err != nil {
		return nil, err
	}

	bmi := evaluators.BMI(*m.WeightKg, *m.HeightCm)

	breakdown := map[string]float64{
		"age":            quickAgeScore(*m.Age),
		"bmi":            quickBMIScore(bmi),
		"blood_pressure": quickBPScore(*m.Systolic, *m.Diastolic),
		"cholesterol":    quickCholesterolScore(*m.Cholesterol),
		"smoking":        quickSmokingScore(*m.Smoker),
		"exercise":       quickExerciseScore(*m.ExerciseDays),
	}

	overall := breakdown["age"]*quickWeightAge +
		breakdown["bmi"]*quickWeightBMI +
		breakdown["blood_pressure"]*quickWeightBP +
		breakdown["cholesterol"]*quickWeightChol +
		breakdown["smoking"]*quickWeightSmoking +
		breakdown["exercise"]*quickWeightExercise

	return &QuickAssessment{
		OverallScore: domain.Round2(overall),
		RiskLevel:    quickLevel(overall),
		BMI:          domain.Round2(bmi),
		Breakdown:    breakdown,
	}, nil
}

// quickLevel maps a composite score to the screening path's three-band
// level; anything at 50 or above is High rather than splitting out a
// Critical band.
func quickLevel(score float64) domain.RiskLevel {
	switch {
	case score < 25:
		return domain.LevelLow
	case score < 50:
		return domain.LevelModerate
	default:
		return domain.LevelHigh
	}
}

func quickBMIScore(bmi float64) float64 {
	switch {
	case bmi < 18.5:
		return 30
	case bmi < 25:
		return 10
	case bmi < 30:
		return 40
	default:
		return 70
	}
}

func quickAgeScore(age int) float64 {
	switch {
	case age < 30:
		return 10
	case age < 45:
		return 20
	case age < 60:
		return 40
	default:
		return 60
	}
}

func quickBPScore(systolic, diastolic int) float64 {
	switch {
	case systolic < 120 && diastolic < 80:
		return 10
	case systolic < 130 && diastolic < 80:
		return 20
	case systolic < 140 || diastolic < 90:
		return 50
	default:
		return 80
	}
}

func quickCholesterolScore(cholesterol int) float64 {
	switch {
	case cholesterol < 200:
		return 10
	case cholesterol < 240:
		return 40
	default:
		return 70
	}
}

func quickSmokingScore(smoker bool) float64 {
	if smoker {
		return 60
	}
	return 10
}

func quickExerciseScore(days int) float64 {
	switch {
	case days >= 5:
		return 10
	case days >= 3:
		return 20
	case days >= 1:
		return 40
	default:
		return 60
	}
}
