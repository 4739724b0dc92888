package domain

import "fmt"

// History is the append-only, time-ordered record of evaluation results.
// Each entry holds one value sequence per aggregator; the shape
// (aggregator count and per-aggregator arity) is fixed at construction
// and identical across all entries.
//
// History never removes or mutates an entry once appended. It is not
// safe for concurrent use; the owning engine serializes access.
type History struct {
	// shape holds the number of values each aggregator reports,
	// in aggregator construction order.
	shape []int

	// entries is indexed as entry -> aggregator -> value.
	entries [][][]float64
}

// NewHistory creates an empty History whose entries must match the given
// per-aggregator value counts.
func NewHistory(shape []int) *History {
	owned := make([]int, len(shape))
	copy(owned, shape)
	return &History{shape: owned}
}

// Shape returns the per-aggregator value counts fixed at construction.
func (h *History) Shape() []int {
	out := make([]int, len(h.shape))
	copy(out, h.shape)
	return out
}

// Append records one evaluation entry. The entry is copied, so callers
// may reuse their slices. It returns ErrShapeMismatch when the entry
// does not match the construction-time shape.
func (h *History) Append(entry [][]float64) error {
	if len(entry) != len(h.shape) {
		return fmt.Errorf("%w: got %d aggregators, want %d",
			ErrShapeMismatch, len(entry), len(h.shape))
	}
	owned := make([][]float64, len(entry))
	for i, values := range entry {
		if len(values) != h.shape[i] {
			return fmt.Errorf("%w: aggregator %d reported %d values, want %d",
				ErrShapeMismatch, i, len(values), h.shape[i])
		}
		owned[i] = make([]float64, len(values))
		copy(owned[i], values)
	}
	h.entries = append(h.entries, owned)
	return nil
}

// Zero returns a synthetic entry of the construction-time shape with
// every value set to 0.0. It performs no computation and represents the
// pre-evaluation baseline.
func (h *History) Zero() [][]float64 {
	entry := make([][]float64, len(h.shape))
	for i, n := range h.shape {
		entry[i] = make([]float64, n)
	}
	return entry
}

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }

// Last returns the most recently appended entry, or false when the
// history is empty. The returned slices are owned by the history and
// must be treated as read-only.
func (h *History) Last() ([][]float64, bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	return h.entries[len(h.entries)-1], true
}

// Entries returns the full record indexed as
// entry -> aggregator -> value. The returned slices are owned by the
// history and must be treated as read-only.
func (h *History) Entries() [][][]float64 { return h.entries }
