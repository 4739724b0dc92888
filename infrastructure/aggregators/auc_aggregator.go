package aggregators

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/palcode/ELL/internal/ports"
)

var _ ports.Aggregator = (*AUCAggregator)(nil)

// AUCConfig controls how an AUCAggregator maps labels onto binary
// classes.
type AUCConfig struct {
	// PositiveLabel separates positive from non-positive ground truth:
	// an example is positive when its label is strictly greater than
	// this threshold.
	PositiveLabel float64 `yaml:"positive_label" json:"positive_label"`
}

// aucSample is one retained (prediction, weight, class) observation.
type aucSample struct {
	prediction float64
	weight     float64
	positive   bool
}

// AUCAggregator computes the weighted area under the ROC curve. Unlike
// the streaming aggregators it retains every updated sample and ranks
// them when GetValue is called, so its memory grows with the dataset
// snapshot size.
//
// When the accumulated samples contain no positive or no negative
// weight the curve is undefined; the aggregator reports the
// uninformative value 0.5 in that case to keep history entries finite.
type AUCAggregator struct {
	// name is the unique identifier for this aggregator instance.
	name string
	// config contains the validated configuration parameters.
	config AUCConfig

	samples []aucSample
}

// NewAUCAggregator creates an AUCAggregator. Returns
// ErrEmptyAggregatorName if name is empty.
func NewAUCAggregator(name string, config AUCConfig) (*AUCAggregator, error) {
	if name == "" {
		return nil, ErrEmptyAggregatorName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &AUCAggregator{name: name, config: config}, nil
}

// Name returns the unique identifier for this aggregator instance.
func (aa *AUCAggregator) Name() string { return aa.name }

// Reset discards all retained samples.
func (aa *AUCAggregator) Reset() { aa.samples = aa.samples[:0] }

// Update retains one example's prediction, weight, and class.
func (aa *AUCAggregator) Update(prediction, label, weight float64) error {
	if err := checkSample(prediction, label, weight); err != nil {
		return err
	}
	aa.samples = append(aa.samples, aucSample{
		prediction: prediction,
		weight:     weight,
		positive:   label > aa.config.PositiveLabel,
	})
	return nil
}

// GetValue ranks the retained samples by prediction and reports the
// weighted ROC AUC. Tied predictions contribute half credit.
func (aa *AUCAggregator) GetValue() []float64 {
	ranked := make([]aucSample, len(aa.samples))
	copy(ranked, aa.samples)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].prediction < ranked[j].prediction
	})

	var totalPositive, totalNegative float64
	for _, s := range ranked {
		if s.positive {
			totalPositive += s.weight
		} else {
			totalNegative += s.weight
		}
	}
	if totalPositive == 0 || totalNegative == 0 {
		return []float64{0.5}
	}

	// Walk groups of equal predictions; each positive scores the
	// negative weight strictly below it plus half the tied negative
	// weight.
	var auc, negativeBelow float64
	for i := 0; i < len(ranked); {
		j := i
		var tiedPositive, tiedNegative float64
		for j < len(ranked) && ranked[j].prediction == ranked[i].prediction {
			if ranked[j].positive {
				tiedPositive += ranked[j].weight
			} else {
				tiedNegative += ranked[j].weight
			}
			j++
		}
		auc += tiedPositive * (negativeBelow + 0.5*tiedNegative)
		negativeBelow += tiedNegative
		i = j
	}

	return []float64{auc / (totalPositive * totalNegative)}
}

// GetValueNames reports the single column name "auc".
func (aa *AUCAggregator) GetValueNames() []string { return []string{"auc"} }

// UnmarshalParameters deserializes YAML configuration into the
// aggregator's parameters with validation. The configuration remains
// unchanged on error.
func (aa *AUCAggregator) UnmarshalParameters(params yaml.Node) error {
	var config AUCConfig
	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	aa.config = config
	return nil
}

// DefaultAUCConfig returns an AUCConfig treating labels above zero as
// positive.
func DefaultAUCConfig() AUCConfig {
	return AUCConfig{PositiveLabel: 0}
}

// NewAUCFromConfig creates an AUCAggregator from a configuration map.
// This is the boundary adapter for YAML/JSON configuration.
func NewAUCFromConfig(id string, config map[string]any) (ports.Aggregator, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultAUCConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewAUCAggregator(id, cfg)
}
