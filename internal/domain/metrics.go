package domain

// Field identifies a single clinical input on a Metrics record.
// Evaluators declare the subset of fields they require and reject
// a call when any of them is absent.
type Field string

// Clinical input fields carried by a Metrics record.
const (
	FieldAge          Field = "age"
	FieldWeightKg     Field = "weight_kg"
	FieldHeightCm     Field = "height_cm"
	FieldSystolic     Field = "systolic"
	FieldDiastolic    Field = "diastolic"
	FieldCholesterol  Field = "cholesterol"
	FieldSmoker       Field = "is_smoker"
	FieldExerciseDays Field = "exercise_days"
)

// Metrics is the immutable clinical input for one assessment.
// Fields are pointers so that "absent" is distinguishable from a zero
// value; presence validation is an explicit nil check, never a falsy one.
// Range validation of present values is the caller's responsibility.
type Metrics struct {
	// Age in whole years.
	Age *int `json:"age,omitempty" yaml:"age,omitempty"`

	// WeightKg is body weight in kilograms.
	WeightKg *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`

	// HeightCm is body height in centimeters.
	HeightCm *float64 `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`

	// Systolic blood pressure in mmHg.
	Systolic *int `json:"systolic,omitempty" yaml:"systolic,omitempty"`

	// Diastolic blood pressure in mmHg.
	Diastolic *int `json:"diastolic,omitempty" yaml:"diastolic,omitempty"`

	// Cholesterol is total cholesterol in mg/dL.
	Cholesterol *int `json:"cholesterol,omitempty" yaml:"cholesterol,omitempty"`

	// Smoker reports current tobacco use.
	Smoker *bool `json:"is_smoker,omitempty" yaml:"is_smoker,omitempty"`

	// ExerciseDays is exercise frequency in days per week (0-7).
	ExerciseDays *int `json:"exercise_days,omitempty" yaml:"exercise_days,omitempty"`
}

// Has reports whether the given field is present on the record.
func (m Metrics) Has(f Field) bool {
	switch f {
	case FieldAge:
		return m.Age != nil
	case FieldWeightKg:
		return m.WeightKg != nil
	case FieldHeightCm:
		return m.HeightCm != nil
	case FieldSystolic:
		return m.Systolic != nil
	case FieldDiastolic:
		return m.Diastolic != nil
	case FieldCholesterol:
		return m.Cholesterol != nil
	case FieldSmoker:
		return m.Smoker != nil
	case FieldExerciseDays:
		return m.ExerciseDays != nil
	default:
		return false
	}
}

// Require checks that every listed field is present and returns a
// ValidationError naming all missing fields, attributed to entity.
// Returns nil when the record satisfies the requirement.
func (m Metrics) Require(entity string, fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if !m.Has(f) {
			missing = append(missing, string(f))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return NewMissingFieldsError(entity, missing)
}

// NewMetrics builds a fully populated Metrics record from plain values.
// It exists for callers (tests, mock device sources) that always have
// every field on hand.
func NewMetrics(
	age int,
	weightKg, heightCm float64,
	systolic, diastolic, cholesterol int,
	smoker bool,
	exerciseDays int,
) Metrics {
	return Metrics{
		Age:          &age,
		WeightKg:     &weightKg,
		HeightCm:     &heightCm,
		Systolic:     &systolic,
		Diastolic:    &diastolic,
		Cholesterol:  &cholesterol,
		Smoker:       &smoker,
		ExerciseDays: &exerciseDays,
	}
}
