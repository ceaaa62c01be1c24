package application

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vitals/internal/ports"
)

func TestDefaultEvaluatorRegistryCreate(t *testing.T) {
	registry := NewDefaultEvaluatorRegistry()

	for _, typ := range []string{TypeCardiovascular, TypeMetabolic, TypeNeurological} {
		t.Run(typ, func(t *testing.T) {
			e, err := registry.CreateEvaluator(typ, "my-"+typ, nil)
			require.NoError(t, err)
			assert.Equal(t, "my-"+typ, e.Name())
			assert.NoError(t, e.Validate())
		})
	}
}

func TestDefaultEvaluatorRegistryErrors(t *testing.T) {
	registry := NewDefaultEvaluatorRegistry()

	_, err := registry.CreateEvaluator("genetic", "x", nil)
	assert.ErrorContains(t, err, "unsupported evaluator type")

	_, err = registry.CreateEvaluator(TypeCardiovascular, "", nil)
	assert.ErrorContains(t, err, "ID cannot be empty")
}

func TestRegisterFactory(t *testing.T) {
	registry := NewDefaultEvaluatorRegistry()

	err := registry.RegisterFactory("custom", func(id string, config map[string]any) (ports.Evaluator, error) {
		return &stubEvaluator{name: id, score: 50}, nil
	})
	require.NoError(t, err)

	e, err := registry.CreateEvaluator("custom", "mine", nil)
	require.NoError(t, err)
	assert.Equal(t, "mine", e.Name())

	assert.Error(t, registry.RegisterFactory("", nil))
	assert.Error(t, registry.RegisterFactory("x", nil))
}

func TestSupportedTypes(t *testing.T) {
	registry := NewDefaultEvaluatorRegistry()
	types := registry.SupportedTypes()

	assert.ElementsMatch(t,
		[]string{TypeCardiovascular, TypeMetabolic, TypeNeurological}, types)
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	var total float64
	for _, w := range DefaultWeights {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewDefaultEvaluatorRegistry()
	done := make(chan struct{})

	for i := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			typ := fmt.Sprintf("custom-%d", i)
			_ = registry.RegisterFactory(typ, func(id string, config map[string]any) (ports.Evaluator, error) {
				return &stubEvaluator{name: id}, nil
			})
			_, _ = registry.CreateEvaluator(TypeCardiovascular, "c", nil)
			_ = registry.SupportedTypes()
		}()
	}
	for range 8 {
		<-done
	}

	assert.Len(t, registry.SupportedTypes(), 11)
}
