package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/palcode/ELL/internal/ports"
)

// stubEvaluator is a controllable ports.Evaluator double shared by the
// decorator tests in this package.
type stubEvaluator struct {
	evaluateErr   error
	goodness      float64
	goodnessErr   error
	printed       string
	evaluateCalls int
}

var _ ports.Evaluator = (*stubEvaluator)(nil)

func (s *stubEvaluator) Evaluate(ports.Predictor) error {
	s.evaluateCalls++
	return s.evaluateErr
}

func (s *stubEvaluator) GetGoodness() (float64, error) {
	return s.goodness, s.goodnessErr
}

func (s *stubEvaluator) Print(w io.Writer) error {
	_, err := io.WriteString(w, s.printed)
	return err
}

// recordingCollector captures metric calls for assertions. The real
// Prometheus collector registers globally, so decorator tests use this
// double instead.
type recordingCollector struct {
	latencies []recordedLatency
	counters  []recordedCounter
	gauges    []recordedGauge
}

type recordedLatency struct {
	operation string
	duration  time.Duration
	labels    map[string]string
}

type recordedCounter struct {
	metric string
	value  float64
	labels map[string]string
}

type recordedGauge struct {
	metric string
	value  float64
	labels map[string]string
}

var _ ports.MetricsCollector = (*recordingCollector)(nil)

func (r *recordingCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	r.latencies = append(r.latencies, recordedLatency{operation, duration, labels})
}

func (r *recordingCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	r.counters = append(r.counters, recordedCounter{metric, value, labels})
}

func (r *recordingCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	r.gauges = append(r.gauges, recordedGauge{metric, value, labels})
}

var errEvaluateFailed = errors.New("evaluate failed")
