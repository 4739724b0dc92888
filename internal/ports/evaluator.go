// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"io"

	"github.com/palcode/ELL/internal/domain"
)

// Predictor produces a scalar prediction from a feature vector.
// Implementations must be pure functions of their input for an
// evaluation pass to be well-defined; the engine invokes Predict once
// per example per real pass and expects no side effects.
type Predictor interface {
	// Predict maps a feature vector to a scalar prediction.
	// An error aborts the evaluation pass and propagates to the caller
	// of Evaluate unmodified.
	Predict(features domain.FeatureVector) (float64, error)
}

// PredictorFunc adapts a plain function to the Predictor interface.
type PredictorFunc func(features domain.FeatureVector) (float64, error)

// Predict calls f(features).
func (f PredictorFunc) Predict(features domain.FeatureVector) (float64, error) {
	return f(features)
}

// Aggregator is a stateful accumulator over (prediction, label, weight)
// triples producing a fixed-length numeric summary plus matching names.
// The lengths of GetValue and GetValueNames must be equal and constant
// for the aggregator's lifetime; the engine verifies this at
// construction and relies on it when shaping history entries.
// Aggregators are exclusively owned by one engine and are not safe for
// concurrent use.
type Aggregator interface {
	// Reset returns the accumulator to its initial state.
	// The engine calls Reset at the start of every performed pass.
	Reset()

	// Update folds one example's outcome into the accumulator.
	// An error aborts the evaluation pass; partial mutations up to that
	// point are not rolled back.
	Update(prediction, label, weight float64) error

	// GetValue reports the current summary values.
	GetValue() []float64

	// GetValueNames reports the static names of the summary values.
	// Names are fixed schema and may be queried independently of any
	// evaluation having run.
	GetValueNames() []string
}

// ExampleIterator produces a finite sequence of labeled, weighted
// examples. The engine consumes an iterator exactly once, fully, at
// construction to build its immutable dataset snapshot.
type ExampleIterator interface {
	// Next returns the next example and true, or a zero example and
	// false once the sequence is exhausted.
	Next() (domain.Example, bool)
}

// Evaluator is the type-erased handle to an evaluation engine.
// It lets a training driver hold evaluators with heterogeneous
// aggregator compositions and drive them through one uniform contract.
// An Evaluator instance is not safe for concurrent invocation; the
// owning loop must serialize calls on a given instance.
type Evaluator interface {
	// Evaluate runs one scheduled evaluation step for the given
	// predictor snapshot. Depending on the configured frequency the
	// call either performs a full pass over the dataset snapshot and
	// appends one history entry, or returns without touching history.
	Evaluate(predictor Predictor) error

	// GetGoodness returns the first value of the first aggregator from
	// the most recent history entry. It fails with
	// domain.ErrInvalidState when no evaluation has been recorded.
	GetGoodness() (float64, error)

	// Print writes the recorded evaluations as a textual table.
	Print(w io.Writer) error
}

// AggregatorFactory creates an aggregator from a configuration map.
// Factories are registered per aggregator type and invoked by the
// configuration loader when assembling an engine.
type AggregatorFactory func(id string, config map[string]any) (Aggregator, error)

// AggregatorRegistry provides lookup of aggregator factories by type.
// Implementations must be safe for concurrent registration and lookup.
type AggregatorRegistry interface {
	// CreateAggregator instantiates an aggregator of the given type
	// with the provided configuration. It returns an error for unknown
	// types or invalid configuration.
	CreateAggregator(aggType, id string, config map[string]any) (Aggregator, error)

	// RegisterFactory registers a factory for an aggregator type,
	// replacing any existing registration for that type. It returns an
	// error for an empty type name or nil factory.
	RegisterFactory(aggType string, factory AggregatorFactory) error

	// ListTypes returns the registered aggregator type names.
	ListTypes() []string
}
