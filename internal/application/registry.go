// Package application wires the domain evaluators into a running
// assessment engine: evaluator registry, engine configuration, the
// aggregator, and its process-lifetime performance accounting.
package application

import (
	"fmt"
	"sync"

	"github.com/ahrav/go-vitals/infrastructure/evaluators"
	"github.com/ahrav/go-vitals/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.EvaluatorRegistry = (*DefaultEvaluatorRegistry)(nil)

// Built-in evaluator type names.
const (
	TypeCardiovascular = "cardiovascular"
	TypeMetabolic      = "metabolic"
	TypeNeurological   = "neurological"
)

// DefaultWeights are the fixed aggregation weights of the built-in
// evaluator set. They sum to 1 by construction, though the aggregator
// renormalizes by the weights actually used, so extensions need not
// preserve that property.
var DefaultWeights = map[string]float64{
	TypeCardiovascular: 0.35,
	TypeMetabolic:      0.35,
	TypeNeurological:   0.30,
}

// DefaultEvaluatorRegistry implements the EvaluatorRegistry interface,
// providing a factory for creating evaluators based on type and
// configuration. It supports dynamic registration of custom evaluator
// types at runtime.
type DefaultEvaluatorRegistry struct {
	// factories maps evaluator type strings to their factory functions.
	factories map[string]ports.EvaluatorFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultEvaluatorRegistry creates a registry with the standard
// evaluator types pre-registered: cardiovascular, metabolic, and
// neurological.
func NewDefaultEvaluatorRegistry() *DefaultEvaluatorRegistry {
	r := &DefaultEvaluatorRegistry{factories: make(map[string]ports.EvaluatorFactory)}
	r.factories[TypeCardiovascular] = evaluators.CreateCardiovascularEvaluator
	r.factories[TypeMetabolic] = evaluators.CreateMetabolicEvaluator
	r.factories[TypeNeurological] = evaluators.CreateNeurologicalEvaluator
	return r
}

// CreateEvaluator creates a new evaluator instance based on the provided
// type, identifier, and configuration map.
func (r *DefaultEvaluatorRegistry) CreateEvaluator(
	evaluatorType, id string,
	config map[string]any,
) (ports.Evaluator, error) {
	r.mu.RLock()
	factory, exists := r.factories[evaluatorType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported evaluator type: %s", evaluatorType)
	}
	if id == "" {
		return nil, fmt.Errorf("evaluator ID cannot be empty")
	}
	if config == nil {
		config = make(map[string]any)
	}

	evaluator, err := factory(id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator %s of type %s: %w", id, evaluatorType, err)
	}
	return evaluator, nil
}

// RegisterFactory registers a factory for a custom evaluator type.
// This allows extending the registry beyond the built-in clinical
// domains without touching the aggregator.
func (r *DefaultEvaluatorRegistry) RegisterFactory(
	evaluatorType string,
	factory ports.EvaluatorFactory,
) error {
	if evaluatorType == "" {
		return fmt.Errorf("evaluator type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[evaluatorType] = factory
	return nil
}

// SupportedTypes returns a list of all registered evaluator types.
func (r *DefaultEvaluatorRegistry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}
