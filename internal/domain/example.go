// Package domain contains pure, dependency-free domain models and types
// for the evaluation harness.
package domain

import "fmt"

// FeatureVector holds the input features for a single example.
type FeatureVector []float64

// Clone returns an independent copy of the feature vector.
// It returns nil when the receiver is nil.
func (fv FeatureVector) Clone() FeatureVector {
	if fv == nil {
		return nil
	}
	out := make(FeatureVector, len(fv))
	copy(out, fv)
	return out
}

// Example represents a single labeled, weighted row of the evaluation set.
type Example struct {
	// Features is the input vector fed to the predictor.
	Features FeatureVector

	// Label is the ground-truth target value for this example.
	Label float64

	// Weight scales this example's contribution to aggregated metrics.
	Weight float64
}

// Dataset is an immutable, in-memory snapshot of labeled examples.
// It is built once by draining an iterator and never mutated afterwards.
// A Dataset may be read concurrently, but the engines built over it own
// their aggregator state exclusively.
type Dataset struct {
	examples []Example
}

// NewDataset builds a Dataset by copying the provided examples.
// Feature vectors are cloned so later mutation of the inputs cannot
// alter the snapshot.
func NewDataset(examples []Example) *Dataset {
	owned := make([]Example, len(examples))
	for i, ex := range examples {
		owned[i] = Example{
			Features: ex.Features.Clone(),
			Label:    ex.Label,
			Weight:   ex.Weight,
		}
	}
	return &Dataset{examples: owned}
}

// Len returns the number of examples in the snapshot.
func (d *Dataset) Len() int { return len(d.examples) }

// Example returns the i'th example of the snapshot.
// The returned value shares its feature slice with the snapshot; callers
// must treat it as read-only.
func (d *Dataset) Example(i int) Example { return d.examples[i] }

// String implements fmt.Stringer for debugging output.
func (d *Dataset) String() string {
	return fmt.Sprintf("dataset(%d examples)", len(d.examples))
}

// SliceIterator walks a fixed slice of examples exactly once.
// It satisfies the example iterator contract expected by engine
// construction and is the canonical in-memory dataset source.
type SliceIterator struct {
	examples []Example
	pos      int
}

// NewSliceIterator creates an iterator over the given examples.
// The slice is not copied; the engine copies rows as it drains the iterator.
func NewSliceIterator(examples []Example) *SliceIterator {
	return &SliceIterator{examples: examples}
}

// Next returns the next example and true, or a zero example and false
// once the sequence is exhausted.
func (it *SliceIterator) Next() (Example, bool) {
	if it.pos >= len(it.examples) {
		return Example{}, false
	}
	ex := it.examples[it.pos]
	it.pos++
	return ex, true
}
