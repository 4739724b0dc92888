package application

import (
	"fmt"
	"sync"

	"github.com/palcode/ELL/infrastructure/aggregators"
	"github.com/palcode/ELL/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.AggregatorRegistry = (*DefaultAggregatorRegistry)(nil)

// DefaultAggregatorRegistry implements the AggregatorRegistry interface,
// providing a factory for creating metric accumulators based on type
// and configuration. It supports dynamic registration of factories for
// custom aggregator types.
type DefaultAggregatorRegistry struct {
	// factories maps aggregator type strings to their factory functions.
	factories map[string]ports.AggregatorFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultAggregatorRegistry creates a registry with the standard
// aggregator types pre-registered: loss, binary_error, and auc.
func NewDefaultAggregatorRegistry() *DefaultAggregatorRegistry {
	registry := &DefaultAggregatorRegistry{
		factories: make(map[string]ports.AggregatorFactory),
	}
	registry.registerBuiltinFactories()
	return registry
}

// registerBuiltinFactories registers the standard aggregator types
// provided by the harness.
func (r *DefaultAggregatorRegistry) registerBuiltinFactories() {
	r.factories["loss"] = aggregators.NewLossFromConfig
	r.factories["binary_error"] = aggregators.NewBinaryErrorFromConfig
	r.factories["auc"] = aggregators.NewAUCFromConfig
}

// CreateAggregator creates a new aggregator instance based on the
// provided type, identifier, and configuration. It looks up the
// appropriate factory function and delegates creation.
func (r *DefaultAggregatorRegistry) CreateAggregator(
	aggType string,
	id string,
	config map[string]any,
) (ports.Aggregator, error) {
	r.mu.RLock()
	factory, exists := r.factories[aggType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported aggregator type: %s", aggType)
	}

	if id == "" {
		return nil, fmt.Errorf("aggregator ID cannot be empty")
	}

	if config == nil {
		config = make(map[string]any)
	}

	agg, err := factory(id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create aggregator %s of type %s: %w", id, aggType, err)
	}

	return agg, nil
}

// RegisterFactory registers a new factory function for a specific
// aggregator type. This allows extending the registry with custom
// aggregator types at runtime.
func (r *DefaultAggregatorRegistry) RegisterFactory(
	aggType string,
	factory ports.AggregatorFactory,
) error {
	if aggType == "" {
		return fmt.Errorf("aggregator type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[aggType] = factory
	return nil
}

// ListTypes returns a list of all registered aggregator types.
// This is useful for validation, documentation, and introspection.
func (r *DefaultAggregatorRegistry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for aggType := range r.factories {
		types = append(types, aggType)
	}
	return types
}
