package aggregators

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/palcode/ELL/internal/ports"
)

var _ ports.Aggregator = (*LossAggregator)(nil)

// LossKind selects the per-example loss function applied by a
// LossAggregator.
type LossKind string

// Supported loss functions.
const (
	// LossSquared accumulates squared error, reporting weighted MSE.
	LossSquared LossKind = "squared"

	// LossAbsolute accumulates absolute error, reporting weighted MAE.
	LossAbsolute LossKind = "absolute"
)

// LossConfig controls which loss function a LossAggregator applies and
// how its single value column is named. Configuration is immutable
// after aggregator creation.
type LossConfig struct {
	// Kind selects the per-example loss function.
	Kind LossKind `yaml:"kind" json:"kind" validate:"required,oneof=squared absolute"`

	// ValueName is the column name the aggregator reports. Defaults to
	// "loss" when empty.
	ValueName string `yaml:"value_name" json:"value_name" validate:"omitempty,min=1,max=100"`
}

// LossAggregator accumulates the weighted mean of a per-example loss
// over (prediction, label, weight) triples. It reports a single value:
// sum(weight * loss(prediction, label)) / sum(weight), or 0 when no
// weight has been accumulated.
//
// The aggregator is exclusively owned by one engine and is reset at the
// start of every performed evaluation pass.
type LossAggregator struct {
	// name is the unique identifier for this aggregator instance.
	name string
	// config contains the validated configuration parameters.
	config LossConfig

	sumLoss   float64
	sumWeight float64
}

// NewLossAggregator creates a LossAggregator with a validated loss
// configuration. Returns ErrEmptyAggregatorName if name is empty, or a
// validation error for an unknown loss kind.
func NewLossAggregator(name string, config LossConfig) (*LossAggregator, error) {
	if name == "" {
		return nil, ErrEmptyAggregatorName
	}
	if config.ValueName == "" {
		config.ValueName = "loss"
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &LossAggregator{name: name, config: config}, nil
}

// Name returns the unique identifier for this aggregator instance.
func (la *LossAggregator) Name() string { return la.name }

// Reset returns the accumulator to its initial state.
func (la *LossAggregator) Reset() {
	la.sumLoss = 0
	la.sumWeight = 0
}

// Update folds one example's outcome into the weighted loss sum.
func (la *LossAggregator) Update(prediction, label, weight float64) error {
	if err := checkSample(prediction, label, weight); err != nil {
		return err
	}

	diff := prediction - label
	var loss float64
	switch la.config.Kind {
	case LossAbsolute:
		loss = math.Abs(diff)
	default:
		loss = diff * diff
	}

	la.sumLoss += weight * loss
	la.sumWeight += weight
	return nil
}

// GetValue reports the weighted mean loss accumulated so far.
func (la *LossAggregator) GetValue() []float64 {
	if la.sumWeight == 0 {
		return []float64{0}
	}
	return []float64{la.sumLoss / la.sumWeight}
}

// GetValueNames reports the single configured column name.
func (la *LossAggregator) GetValueNames() []string {
	return []string{la.config.ValueName}
}

// UnmarshalParameters deserializes YAML configuration into the
// aggregator's parameters with validation. The configuration remains
// unchanged on error.
func (la *LossAggregator) UnmarshalParameters(params yaml.Node) error {
	var config LossConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if config.ValueName == "" {
		config.ValueName = "loss"
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	la.config = config
	return nil
}

// DefaultLossConfig returns a LossConfig computing weighted mean
// squared error under the column name "loss".
func DefaultLossConfig() LossConfig {
	return LossConfig{Kind: LossSquared, ValueName: "loss"}
}

// NewLossFromConfig creates a LossAggregator from a configuration map.
// This is the boundary adapter for YAML/JSON configuration.
func NewLossFromConfig(id string, config map[string]any) (ports.Aggregator, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	// Start with defaults, then overlay user config.
	cfg := DefaultLossConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewLossAggregator(id, cfg)
}
