package main

import (
	"github.com/spf13/cobra"

	"github.com/ahrav/go-vitals/infrastructure/wearable"
	"github.com/ahrav/go-vitals/internal/domain"
)

// metricsFlags collects the clinical input flags shared by the scoring
// commands. Only flags the user actually set become present fields, so
// evaluator field-requirement errors surface exactly as they would for
// any other caller.
type metricsFlags struct {
	age          int
	weightKg     float64
	heightCm     float64
	systolic     int
	diastolic    int
	cholesterol  int
	smoker       bool
	exerciseDays int

	sample  bool
	subject string
}

func (f *metricsFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.age, "age", 0, "Age in years")
	cmd.Flags().Float64Var(&f.weightKg, "weight-kg", 0, "Body weight in kilograms")
	cmd.Flags().Float64Var(&f.heightCm, "height-cm", 0, "Body height in centimeters")
	cmd.Flags().IntVar(&f.systolic, "systolic", 0, "Systolic blood pressure in mmHg")
	cmd.Flags().IntVar(&f.diastolic, "diastolic", 0, "Diastolic blood pressure in mmHg")
	cmd.Flags().IntVar(&f.cholesterol, "cholesterol", 0, "Total cholesterol in mg/dL")
	cmd.Flags().BoolVar(&f.smoker, "smoker", false, "Current tobacco use")
	cmd.Flags().IntVar(&f.exerciseDays, "exercise-days", 0, "Exercise days per week (0-7)")

	cmd.Flags().BoolVar(&f.sample, "sample", false, "Sample metrics from the mock wearable device instead of flags")
	cmd.Flags().StringVar(&f.subject, "subject", "", "Subject identifier for sampling and persistence")
}

// metrics materializes the input record. With --sample it comes from the
// deterministic mock device; otherwise each set flag becomes a present
// field.
func (f *metricsFlags) metrics(cmd *cobra.Command) domain.Metrics {
	if f.sample {
		return wearable.NewMockDevice(f.subject).SampleMetrics()
	}

	var m domain.Metrics
	if cmd.Flags().Changed("age") {
		m.Age = &f.age
	}
	if cmd.Flags().Changed("weight-kg") {
		m.WeightKg = &f.weightKg
	}
	if cmd.Flags().Changed("height-cm") {
		m.HeightCm = &f.heightCm
	}
	if cmd.Flags().Changed("systolic") {
		m.Systolic = &f.systolic
	}
	if cmd.Flags().Changed("diastolic") {
		m.Diastolic = &f.diastolic
	}
	if cmd.Flags().Changed("cholesterol") {
		m.Cholesterol = &f.cholesterol
	}
	if cmd.Flags().Changed("smoker") {
		m.Smoker = &f.smoker
	}
	if cmd.Flags().Changed("exercise-days") {
		m.ExerciseDays = &f.exerciseDays
	}
	return m
}
