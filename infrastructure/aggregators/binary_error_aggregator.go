package aggregators

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/palcode/ELL/internal/ports"
)

var _ ports.Aggregator = (*BinaryErrorAggregator)(nil)

// BinaryErrorConfig controls how a BinaryErrorAggregator maps scalar
// predictions and labels onto binary classes.
type BinaryErrorConfig struct {
	// DecisionThreshold separates positive from non-positive
	// predictions: an example is predicted positive when its prediction
	// is strictly greater than this threshold.
	DecisionThreshold float64 `yaml:"decision_threshold" json:"decision_threshold"`

	// PositiveLabel separates positive from non-positive ground truth:
	// an example is actually positive when its label is strictly
	// greater than this threshold.
	PositiveLabel float64 `yaml:"positive_label" json:"positive_label"`
}

// BinaryErrorAggregator accumulates weighted binary classification
// statistics over (prediction, label, weight) triples. It reports four
// values: error_rate, precision, recall, and f1, all weight-adjusted.
//
// Degenerate denominators report 0 rather than NaN so that history
// entries stay finite.
type BinaryErrorAggregator struct {
	// name is the unique identifier for this aggregator instance.
	name string
	// config contains the validated configuration parameters.
	config BinaryErrorConfig

	truePositive  float64
	falsePositive float64
	trueNegative  float64
	falseNegative float64
}

// NewBinaryErrorAggregator creates a BinaryErrorAggregator with the
// given thresholds. Returns ErrEmptyAggregatorName if name is empty.
func NewBinaryErrorAggregator(name string, config BinaryErrorConfig) (*BinaryErrorAggregator, error) {
	if name == "" {
		return nil, ErrEmptyAggregatorName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &BinaryErrorAggregator{name: name, config: config}, nil
}

// Name returns the unique identifier for this aggregator instance.
func (ba *BinaryErrorAggregator) Name() string { return ba.name }

// Reset returns the accumulator to its initial state.
func (ba *BinaryErrorAggregator) Reset() {
	ba.truePositive = 0
	ba.falsePositive = 0
	ba.trueNegative = 0
	ba.falseNegative = 0
}

// Update classifies one example against the configured thresholds and
// accumulates its weight into the matching confusion-matrix cell.
func (ba *BinaryErrorAggregator) Update(prediction, label, weight float64) error {
	if err := checkSample(prediction, label, weight); err != nil {
		return err
	}

	predictedPositive := prediction > ba.config.DecisionThreshold
	actualPositive := label > ba.config.PositiveLabel

	switch {
	case predictedPositive && actualPositive:
		ba.truePositive += weight
	case predictedPositive && !actualPositive:
		ba.falsePositive += weight
	case !predictedPositive && actualPositive:
		ba.falseNegative += weight
	default:
		ba.trueNegative += weight
	}
	return nil
}

// GetValue reports error_rate, precision, recall, and f1 in that order.
func (ba *BinaryErrorAggregator) GetValue() []float64 {
	total := ba.truePositive + ba.falsePositive + ba.trueNegative + ba.falseNegative

	var errorRate float64
	if total > 0 {
		errorRate = (ba.falsePositive + ba.falseNegative) / total
	}

	var precision float64
	if ba.truePositive+ba.falsePositive > 0 {
		precision = ba.truePositive / (ba.truePositive + ba.falsePositive)
	}

	var recall float64
	if ba.truePositive+ba.falseNegative > 0 {
		recall = ba.truePositive / (ba.truePositive + ba.falseNegative)
	}

	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * (precision * recall) / (precision + recall)
	}

	return []float64{errorRate, precision, recall, f1}
}

// GetValueNames reports the four statistic names.
func (ba *BinaryErrorAggregator) GetValueNames() []string {
	return []string{"error_rate", "precision", "recall", "f1"}
}

// UnmarshalParameters deserializes YAML configuration into the
// aggregator's parameters with validation. The configuration remains
// unchanged on error.
func (ba *BinaryErrorAggregator) UnmarshalParameters(params yaml.Node) error {
	var config BinaryErrorConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	ba.config = config
	return nil
}

// DefaultBinaryErrorConfig returns a BinaryErrorConfig classifying
// around zero for both predictions and labels.
func DefaultBinaryErrorConfig() BinaryErrorConfig {
	return BinaryErrorConfig{DecisionThreshold: 0, PositiveLabel: 0}
}

// NewBinaryErrorFromConfig creates a BinaryErrorAggregator from a
// configuration map. This is the boundary adapter for YAML/JSON
// configuration.
func NewBinaryErrorFromConfig(id string, config map[string]any) (ports.Aggregator, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultBinaryErrorConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewBinaryErrorAggregator(id, cfg)
}
