// Package aggregators provides metric accumulators that implement the
// ports.Aggregator interface for the evaluation engine.
package aggregators

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by aggregator implementations.
var (
	// ErrEmptyAggregatorName is returned when attempting to create an
	// aggregator with an empty name.
	ErrEmptyAggregatorName = errors.New("aggregator name cannot be empty")

	// ErrInvalidSample is returned when an update carries a NaN or
	// infinite prediction, label, or weight.
	ErrInvalidSample = errors.New("invalid sample value")

	// ErrNegativeWeight is returned when an update carries a negative
	// example weight.
	ErrNegativeWeight = errors.New("example weight cannot be negative")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// checkSample validates one (prediction, label, weight) triple before it
// is folded into an accumulator. All aggregators in this package share
// the same admission rules.
func checkSample(prediction, label, weight float64) error {
	for _, v := range [...]float64{prediction, label, weight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: prediction=%f, label=%f, weight=%f",
				ErrInvalidSample, prediction, label, weight)
		}
	}
	if weight < 0 {
		return fmt.Errorf("%w: weight=%f", ErrNegativeWeight, weight)
	}
	return nil
}
