// Package middleware provides cross-cutting concerns for the evaluation
// harness: metrics, logging, and tracing decorators around the
// type-erased evaluator interface.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/palcode/ELL/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides monitoring of evaluation cadence, pass
// latency, and metric trajectories for the harness.
type PrometheusMetrics struct {
	evaluationLatency *prometheus.HistogramVec
	operationCounter  *prometheus.CounterVec
	systemGauges      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		evaluationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evaluation_duration_seconds",
				Help:    "Execution time of evaluator operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "evaluator"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluation_operations_total",
				Help: "Total number of operations performed by evaluators.",
			},
			[]string{"operation", "status", "evaluator"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "evaluation_state",
				Help: "Current state values for evaluators, such as the latest goodness.",
			},
			[]string{"metric", "evaluator"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.evaluationLatency.WithLabelValues(operation, evaluatorLabel(labels)).
		Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by
// incrementing Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	status, ok := labels["status"]
	if !ok {
		status = "success"
	}
	pm.operationCounter.WithLabelValues(metric, status, evaluatorLabel(labels)).Add(value)
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric, evaluatorLabel(labels)).Set(value)
}

func evaluatorLabel(labels map[string]string) string {
	evaluator, ok := labels["evaluator"]
	if !ok {
		return "unknown"
	}
	return evaluator
}
