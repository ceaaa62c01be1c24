package application

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-vitals/infrastructure/middleware"
	"github.com/ahrav/go-vitals/internal/ports"
)

// validate is the shared validator instance for configuration structs.
var validate = validator.New()

// EngineConfig is the declarative description of an assessment engine:
// which evaluators run, with what parameters and aggregation weights,
// and how the pipeline behaves.
type EngineConfig struct {
	// Version identifies the configuration schema version.
	Version string `yaml:"version" validate:"required"`

	// Metadata carries free-form descriptive fields.
	Metadata ConfigMetadata `yaml:"metadata,omitempty"`

	// Evaluators lists the evaluator instances to build, in execution
	// order.
	Evaluators []EvaluatorConfig `yaml:"evaluators" validate:"required,min=1,dive"`

	// Performance tunes the pipeline's latency accounting and fan-out.
	Performance PerformanceConfig `yaml:"performance,omitempty"`
}

// ConfigMetadata holds descriptive fields that do not affect behavior.
type ConfigMetadata struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// EvaluatorConfig describes a single evaluator instance.
type EvaluatorConfig struct {
	// ID uniquely identifies this instance within the engine.
	ID string `yaml:"id" validate:"required"`

	// Type selects the registered evaluator factory.
	Type string `yaml:"type" validate:"required"`

	// Weight is this evaluator's share of the overall index.
	Weight float64 `yaml:"weight" validate:"required,gt=0,lte=1"`

	// Parameters holds the type-specific configuration, decoded by the
	// evaluator factory itself.
	Parameters yaml.Node `yaml:"parameters,omitempty"`
}

// PerformanceConfig tunes the aggregator's latency budget and execution
// mode. The budget is observational: overruns degrade the reported
// status without interrupting the assessment.
type PerformanceConfig struct {
	BudgetMs int  `yaml:"budget_ms,omitempty" validate:"omitempty,gt=0"`
	Parallel bool `yaml:"parallel,omitempty"`
}

// DefaultEngineConfig returns the standard three-evaluator engine with
// default scoring parameters and the stock 3-second budget.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Version: "1.0",
		Metadata: ConfigMetadata{
			Name:        "default-health-engine",
			Description: "Cardiovascular, metabolic, and neurological risk assessment",
		},
		Evaluators: []EvaluatorConfig{
			{ID: "cardio", Type: TypeCardiovascular, Weight: DefaultWeights[TypeCardiovascular]},
			{ID: "metabolic", Type: TypeMetabolic, Weight: DefaultWeights[TypeMetabolic]},
			{ID: "neuro", Type: TypeNeurological, Weight: DefaultWeights[TypeNeurological]},
		},
		Performance: PerformanceConfig{BudgetMs: DefaultBudgetMs},
	}
}

// LoadEngineConfig parses and validates an engine configuration from
// YAML. Unknown fields are rejected so typos fail loudly instead of
// silently running defaults.
func LoadEngineConfig(r io.Reader) (*EngineConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg EngineConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEngineConfigFile reads an engine configuration from a file path.
func LoadEngineConfigFile(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config %s: %w", path, err)
	}
	return LoadEngineConfig(bytes.NewReader(data))
}

// Validate checks structural constraints: required fields, weight
// ranges, and evaluator ID uniqueness.
func (c *EngineConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Evaluators))
	for _, ec := range c.Evaluators {
		if _, dup := seen[ec.ID]; dup {
			return fmt.Errorf("invalid engine config: duplicate evaluator ID %q", ec.ID)
		}
		seen[ec.ID] = struct{}{}
	}
	return nil
}

// BuildAggregator instantiates every configured evaluator through the
// registry, wraps each in a timed decorator sharing the given observer,
// and assembles the aggregator. The observer and extra options may be
// nil.
func (c *EngineConfig) BuildAggregator(
	registry ports.EvaluatorRegistry,
	observer middleware.EvaluationObserver,
	opts ...AggregatorOption,
) (*Aggregator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	set := make([]WeightedEvaluator, 0, len(c.Evaluators))
	for _, ec := range c.Evaluators {
		params, err := parametersToMap(ec.Parameters)
		if err != nil {
			return nil, fmt.Errorf("evaluator %s: %w", ec.ID, err)
		}

		ev, err := registry.CreateEvaluator(ec.Type, ec.ID, params)
		if err != nil {
			return nil, err
		}
		set = append(set, WeightedEvaluator{
			Evaluator: middleware.NewTimedEvaluator(ev, middleware.NewPerformanceLog(), observer),
			Weight:    ec.Weight,
		})
	}

	options := make([]AggregatorOption, 0, len(opts)+2)
	if c.Performance.BudgetMs > 0 {
		options = append(options, WithBudget(time.Duration(c.Performance.BudgetMs)*time.Millisecond))
	}
	options = append(options, WithParallel(c.Performance.Parallel))
	options = append(options, opts...)

	return NewAggregator(set, NewAssessmentLog(), options...)
}

// parametersToMap converts the raw YAML parameters node into the generic
// map form the evaluator factories accept.
func parametersToMap(node yaml.Node) (map[string]any, error) {
	if node.IsZero() {
		return nil, nil
	}

	var params map[string]any
	if err := node.Decode(&params); err != nil {
		return nil, fmt.Errorf("failed to decode evaluator parameters: %w", err)
	}
	return params, nil
}
