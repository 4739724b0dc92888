// Package application wires configuration, the aggregator registry, and
// the evaluation engine together into loadable evaluator instances.
package application

import (
	"gopkg.in/yaml.v3"

	"github.com/palcode/ELL/internal/evaluation"
)

// EvaluationConfig defines the complete specification for an evaluator
// and serves as the primary configuration entry point for the harness.
type EvaluationConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across updates.
	Version string `yaml:"version" validate:"required"`
	// Metadata contains descriptive information about the evaluator
	// for organization and discovery.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Evaluation holds the engine schedule parameters.
	Evaluation evaluation.Parameters `yaml:"evaluation" validate:"required"`
	// Aggregators defines the ordered metric accumulators the engine
	// dispatches to. Order here is dispatch order.
	Aggregators []AggregatorConfig `yaml:"aggregators" validate:"required,min=1,dive"`
}

// Metadata provides descriptive information about an evaluator
// configuration to support organization and operational management.
type Metadata struct {
	// Name is the human-readable identifier for this evaluator.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description explains the evaluator's purpose.
	Description string `yaml:"description" validate:"max=1000"`
	// Labels are arbitrary key-value pairs for integration with
	// external systems.
	Labels map[string]string `yaml:"labels" validate:"max=50"`
}

// AggregatorConfig defines one metric accumulator within an evaluator,
// including its implementation type and type-specific parameters.
type AggregatorConfig struct {
	// ID is the unique identifier for this aggregator within the
	// evaluator configuration.
	ID string `yaml:"id" validate:"required,alphanum,min=1,max=100"`
	// Type specifies the aggregator implementation to instantiate.
	Type string `yaml:"type" validate:"required,oneof=loss binary_error auc custom"`
	// Parameters contains type-specific configuration as flexible YAML
	// validated by the aggregator implementation itself.
	Parameters yaml.Node `yaml:"parameters"`
}
