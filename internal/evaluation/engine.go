// Package evaluation implements the evaluation engine: it scores predictor
// snapshots against a fixed dataset, dispatches per-example results to a
// configured set of aggregators, and records their outputs in a
// time-ordered history.
package evaluation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/palcode/ELL/internal/domain"
	"github.com/palcode/ELL/internal/ports"
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// Compile-time verification that Engine satisfies the type-erased
// evaluator contract and the printable convention.
var (
	_ ports.Evaluator = (*Engine)(nil)
	_ ports.Printable = (*Engine)(nil)
)

// Parameters controls when the engine performs a real evaluation pass.
type Parameters struct {
	// EvaluationFrequency is the period of the evaluation schedule:
	// a real pass is performed on the first call to Evaluate and every
	// EvaluationFrequency'th call thereafter. Zero is invalid.
	EvaluationFrequency uint64 `yaml:"evaluation_frequency" validate:"required,min=1"`

	// AddZeroEvaluation inserts a synthetic all-zero baseline entry
	// before the first real computation when set.
	AddZeroEvaluation bool `yaml:"add_zero_evaluation"`
}

// DefaultParameters returns Parameters that evaluate on every call with
// no synthetic baseline entry.
func DefaultParameters() Parameters {
	return Parameters{EvaluationFrequency: 1}
}

// Engine evaluates predictor snapshots against an immutable dataset
// snapshot and records aggregator outputs across repeated calls.
//
// The engine is strictly single-threaded: Evaluate performs a direct,
// blocking pass with no internal locks, and a given instance must not
// be invoked concurrently. The dataset snapshot is immutable after
// construction; aggregator state and history are exclusively owned by
// the instance.
type Engine struct {
	// dataset is the immutable snapshot drained from the iterator at
	// construction. It is never mutated.
	dataset *domain.Dataset

	// params holds the validated evaluation schedule configuration.
	params Parameters

	// aggregators is the fixed, ordered aggregator set. Dispatch order
	// equals construction order throughout Reset, Update, and GetValue.
	aggregators []ports.Aggregator

	// evaluateCounter counts calls to Evaluate, whether or not a real
	// pass was performed.
	evaluateCounter uint64

	// history is the append-only record of evaluation entries.
	history *domain.History
}

// NewEngine constructs an evaluation engine. It drains the example
// iterator into an owned immutable snapshot, stores the aggregators in
// construction order, and fixes the history shape from the aggregators'
// static schema.
//
// NewEngine fails with an error matching domain.ErrInvalidConfiguration
// when the evaluation frequency is zero or when any aggregator's value
// count disagrees with its value-name count.
func NewEngine(iter ports.ExampleIterator, params Parameters, aggregators ...ports.Aggregator) (*Engine, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidConfiguration, err)
	}

	shape := make([]int, len(aggregators))
	for i, agg := range aggregators {
		names := agg.GetValueNames()
		values := agg.GetValue()
		if len(names) != len(values) {
			return nil, domain.NewConfigurationError(
				fmt.Sprintf("aggregator[%d]", i),
				fmt.Sprintf("reports %d values but %d value names", len(values), len(names)),
			)
		}
		shape[i] = len(names)
	}

	var examples []domain.Example
	for {
		ex, ok := iter.Next()
		if !ok {
			break
		}
		examples = append(examples, ex)
	}

	owned := make([]ports.Aggregator, len(aggregators))
	copy(owned, aggregators)

	return &Engine{
		dataset:     domain.NewDataset(examples),
		params:      params,
		aggregators: owned,
		history:     domain.NewHistory(shape),
	}, nil
}

// NewEvaluator constructs an engine and returns it through the
// type-erased evaluator interface. This is the factory a training
// driver uses when it holds evaluators with heterogeneous aggregator
// compositions.
func NewEvaluator(iter ports.ExampleIterator, params Parameters, aggregators ...ports.Aggregator) (ports.Evaluator, error) {
	return NewEngine(iter, params, aggregators...)
}

// Evaluate runs one scheduled evaluation step for the given predictor.
//
// The first call inserts the synthetic zero entry when configured.
// Every call increments the evaluate counter; a real pass is performed
// on the first call and every EvaluationFrequency'th call thereafter.
// Skipped calls leave history untouched.
//
// A real pass resets every aggregator, feeds each dataset row's
// (prediction, label, weight) triple to every aggregator in
// construction order, and appends one history entry. Collaborator
// errors propagate unmodified; history is left unchanged for that call,
// though partial aggregator mutations are not rolled back.
func (e *Engine) Evaluate(predictor ports.Predictor) error {
	if e.evaluateCounter == 0 && e.params.AddZeroEvaluation {
		if err := e.evaluateZero(); err != nil {
			return err
		}
	}

	e.evaluateCounter++
	if (e.evaluateCounter-1)%e.params.EvaluationFrequency != 0 {
		return nil
	}

	for _, agg := range e.aggregators {
		agg.Reset()
	}

	for i := 0; i < e.dataset.Len(); i++ {
		ex := e.dataset.Example(i)
		prediction, err := predictor.Predict(ex.Features)
		if err != nil {
			return err
		}
		for _, agg := range e.aggregators {
			if err := agg.Update(prediction, ex.Label, ex.Weight); err != nil {
				return err
			}
		}
	}

	entry := make([][]float64, len(e.aggregators))
	for i, agg := range e.aggregators {
		entry[i] = agg.GetValue()
	}
	return e.history.Append(entry)
}

// evaluateZero appends the synthetic all-zero baseline entry. It is
// shaped identically to a real entry but involves no computation.
func (e *Engine) evaluateZero() error {
	return e.history.Append(e.history.Zero())
}

// GetGoodness returns the first value of the first aggregator from the
// most recently appended history entry. It fails with
// domain.ErrInvalidState when no evaluation has been recorded.
func (e *Engine) GetGoodness() (float64, error) {
	last, ok := e.history.Last()
	if !ok {
		return 0, fmt.Errorf("%w: no evaluations recorded", domain.ErrInvalidState)
	}
	if len(last) == 0 || len(last[0]) == 0 {
		return 0, fmt.Errorf("%w: first aggregator reports no values", domain.ErrInvalidState)
	}
	return last[0][0], nil
}

// GetValueNames returns, for each aggregator in construction order, its
// fixed sequence of value names. The schema is static and independent
// of history.
func (e *Engine) GetValueNames() [][]string {
	names := make([][]string, len(e.aggregators))
	for i, agg := range e.aggregators {
		names[i] = agg.GetValueNames()
	}
	return names
}

// GetValues returns the full history indexed as
// entry -> aggregator -> value. The returned slices are owned by the
// engine and must be treated as read-only.
func (e *Engine) GetValues() [][][]float64 { return e.history.Entries() }

// Len returns the number of recorded history entries.
func (e *Engine) Len() int { return e.history.Len() }

// Print writes a header line concatenating every aggregator's value
// names, followed by one tab-separated line per history entry with its
// flattened values in the same order. Values render in fixed decimal
// notation.
func (e *Engine) Print(w io.Writer) error {
	var names []string
	for _, agg := range e.aggregators {
		names = append(names, agg.GetValueNames()...)
	}
	if _, err := fmt.Fprintln(w, strings.Join(names, "\t")); err != nil {
		return err
	}

	for _, entry := range e.history.Entries() {
		cols := make([]string, 0, len(names))
		for _, values := range entry {
			for _, v := range values {
				cols = append(cols, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	return nil
}
