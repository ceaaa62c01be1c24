// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-vitals/internal/domain"
)

// Evaluator is a domain-specific risk scorer. Each implementation covers
// one clinical domain (cardiovascular, metabolic, neurological, ...) and
// is selected by name through an EvaluatorRegistry rather than by type.
// Evaluators must be stateless and safe for concurrent execution: every
// call reads only its own copy of the input.
type Evaluator interface {
	// Name returns a unique identifier for this evaluator.
	// The name is used for registry lookup, logging, and result keys.
	Name() string

	// Evaluate scores the given metrics and returns a fresh result.
	// It must first check presence of its required fields and return a
	// *domain.ValidationError naming every missing one. Any other error
	// is treated as a computation failure by the aggregator.
	//
	// The context parameter allows for cancellation propagation; the
	// scoring itself is CPU-only arithmetic with no suspension points.
	Evaluate(ctx context.Context, m domain.Metrics) (domain.EvaluatorResult, error)

	// Recommend generates tiered advisory strings for a risk score
	// produced by this evaluator. The Critical tier's first entry carries
	// domain.UrgentPrefix so the merge step can prioritize it.
	Recommend(riskScore float64) []string

	// Validate checks if the evaluator is properly configured and ready
	// for execution. It is typically called at registry construction.
	Validate() error
}

// EvaluatorFactory creates an evaluator instance from a flexible
// configuration map. Factories are registered with an EvaluatorRegistry
// keyed by evaluator type.
type EvaluatorFactory func(id string, config map[string]any) (Evaluator, error)

// EvaluatorRegistry is a factory for creating evaluators based on type
// and configuration, with support for registering custom types at runtime.
type EvaluatorRegistry interface {
	// CreateEvaluator creates a new evaluator of the given type.
	CreateEvaluator(evaluatorType, id string, config map[string]any) (Evaluator, error)

	// RegisterFactory registers a factory for a custom evaluator type.
	RegisterFactory(evaluatorType string, factory EvaluatorFactory) error

	// SupportedTypes returns all registered evaluator types.
	SupportedTypes() []string
}
