package evaluation

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/palcode/ELL/internal/ports"
)

// DefaultSetConcurrency bounds how many evaluators an EvaluatorSet
// drives at once when no explicit limit is configured.
const DefaultSetConcurrency = 4

// EvaluatorSet drives a named collection of independent evaluators.
// A training loop uses it to score one predictor snapshot against
// several held-out sets or aggregator compositions in a single call.
//
// Each evaluator instance is only ever invoked from one goroutine at a
// time; concurrency exists across instances, which own their aggregator
// state and history exclusively.
type EvaluatorSet struct {
	names      []string
	evaluators map[string]ports.Evaluator
	limit      int
}

// NewEvaluatorSet creates an empty set with the given concurrency
// limit. A limit below one falls back to DefaultSetConcurrency.
func NewEvaluatorSet(limit int) *EvaluatorSet {
	if limit < 1 {
		limit = DefaultSetConcurrency
	}
	return &EvaluatorSet{
		evaluators: make(map[string]ports.Evaluator),
		limit:      limit,
	}
}

// Add registers an evaluator under a unique name. It returns an error
// when the name is empty or already taken.
func (s *EvaluatorSet) Add(name string, evaluator ports.Evaluator) error {
	if name == "" {
		return fmt.Errorf("evaluator name cannot be empty")
	}
	if _, exists := s.evaluators[name]; exists {
		return fmt.Errorf("evaluator %q already registered", name)
	}
	s.names = append(s.names, name)
	s.evaluators[name] = evaluator
	return nil
}

// Len returns the number of registered evaluators.
func (s *EvaluatorSet) Len() int { return len(s.names) }

// Get returns the evaluator registered under name, if any.
func (s *EvaluatorSet) Get(name string) (ports.Evaluator, bool) {
	ev, ok := s.evaluators[name]
	return ev, ok
}

// EvaluateAll runs Evaluate on every registered evaluator for the same
// predictor snapshot. Independent evaluators run concurrently, bounded
// by the set's limit; the predictor must be pure, which the evaluator
// contract already requires. The first failure cancels nothing that is
// already running but is returned once all evaluators finish.
func (s *EvaluatorSet) EvaluateAll(predictor ports.Predictor) error {
	var g errgroup.Group
	g.SetLimit(s.limit)

	for _, name := range s.names {
		evaluator := s.evaluators[name]
		g.Go(func() error {
			if err := evaluator.Evaluate(predictor); err != nil {
				return fmt.Errorf("evaluator %q: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Goodness returns the latest goodness of every evaluator keyed by
// name. Evaluators with no recorded entries are skipped.
func (s *EvaluatorSet) Goodness() map[string]float64 {
	out := make(map[string]float64, len(s.names))
	for _, name := range s.names {
		if g, err := s.evaluators[name].GetGoodness(); err == nil {
			out[name] = g
		}
	}
	return out
}

// Print writes each evaluator's table preceded by its name, in sorted
// name order for stable output.
func (s *EvaluatorSet) Print(w io.Writer) error {
	names := make([]string, len(s.names))
	copy(names, s.names)
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
			return err
		}
		if err := s.evaluators[name].Print(w); err != nil {
			return err
		}
	}
	return nil
}
