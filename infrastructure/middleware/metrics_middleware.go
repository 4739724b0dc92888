package middleware

import (
	"io"
	"time"

	"github.com/palcode/ELL/internal/ports"
)

var _ ports.Evaluator = (*metricsEvaluator)(nil)

// metricsEvaluator records operational metrics around every evaluator
// operation without altering its semantics.
type metricsEvaluator struct {
	next    ports.Evaluator
	metrics ports.MetricsCollector
	name    string
}

// NewMetricsEvaluator decorates an evaluator with metric collection.
// The name labels all emitted metrics so multiple evaluators can share
// one collector. A nil collector returns the evaluator unwrapped.
func NewMetricsEvaluator(next ports.Evaluator, metrics ports.MetricsCollector, name string) ports.Evaluator {
	if metrics == nil {
		return next
	}
	return &metricsEvaluator{next: next, metrics: metrics, name: name}
}

// Evaluate delegates to the wrapped evaluator, recording pass latency,
// an operation counter, and the latest goodness gauge when one exists.
func (m *metricsEvaluator) Evaluate(predictor ports.Predictor) error {
	labels := map[string]string{"evaluator": m.name}
	start := time.Now()

	err := m.next.Evaluate(predictor)

	m.metrics.RecordLatency("evaluate", time.Since(start), labels)
	if err != nil {
		m.metrics.RecordCounter("evaluate", 1, map[string]string{
			"evaluator": m.name,
			"status":    "error",
		})
		return err
	}
	m.metrics.RecordCounter("evaluate", 1, labels)

	if goodness, err := m.next.GetGoodness(); err == nil {
		m.metrics.RecordGauge("goodness", goodness, labels)
	}
	return nil
}

// GetGoodness delegates to the wrapped evaluator.
func (m *metricsEvaluator) GetGoodness() (float64, error) {
	return m.next.GetGoodness()
}

// Print delegates to the wrapped evaluator.
func (m *metricsEvaluator) Print(w io.Writer) error {
	return m.next.Print(w)
}
