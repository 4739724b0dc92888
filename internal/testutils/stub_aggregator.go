package testutils

import "github.com/palcode/ELL/internal/ports"

// Compile-time verification that StubAggregator implements Aggregator.
var _ ports.Aggregator = (*StubAggregator)(nil)

// StubAggregator is a configurable test double for the aggregator
// contract. It records every call so tests can assert on dispatch
// order, reset cadence, and received triples.
type StubAggregator struct {
	// Names is the static value-name schema the stub reports.
	Names []string

	// ValueFn computes GetValue from the updates received since the
	// last reset. When nil the stub reports zeros matching Names.
	ValueFn func(updates [][3]float64) []float64

	// UpdateErr, when set, is returned by every Update call.
	UpdateErr error

	// ResetCalls counts Reset invocations.
	ResetCalls int

	// Updates holds the (prediction, label, weight) triples received
	// since the last reset.
	Updates [][3]float64
}

// Reset clears the received triples and counts the invocation.
func (s *StubAggregator) Reset() {
	s.ResetCalls++
	s.Updates = nil
}

// Update records the triple, or fails when UpdateErr is set.
func (s *StubAggregator) Update(prediction, label, weight float64) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.Updates = append(s.Updates, [3]float64{prediction, label, weight})
	return nil
}

// GetValue reports ValueFn over the received triples, or zeros.
func (s *StubAggregator) GetValue() []float64 {
	if s.ValueFn != nil {
		return s.ValueFn(s.Updates)
	}
	return make([]float64, len(s.Names))
}

// GetValueNames reports the configured schema.
func (s *StubAggregator) GetValueNames() []string { return s.Names }
