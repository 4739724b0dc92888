package middleware

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/palcode/ELL/internal/ports"
)

var _ ports.Evaluator = (*tracedEvaluator)(nil)

// tracedEvaluator wraps evaluator operations in OpenTelemetry spans for
// debugging and performance analysis of long training runs.
type tracedEvaluator struct {
	next   ports.Evaluator
	tracer trace.Tracer
	name   string
}

// NewTracedEvaluator decorates an evaluator with OpenTelemetry tracing.
// Spans are created under the "evaluation-harness" tracer and labeled
// with the evaluator name.
func NewTracedEvaluator(next ports.Evaluator, name string) ports.Evaluator {
	return &tracedEvaluator{
		next:   next,
		tracer: otel.Tracer("evaluation-harness"),
		name:   name,
	}
}

// Evaluate delegates to the wrapped evaluator within a span. The span
// records the latest goodness on success and an error status on
// failure.
func (t *tracedEvaluator) Evaluate(predictor ports.Predictor) error {
	// The evaluator contract is synchronous and carries no context;
	// spans root at Background.
	_, span := t.tracer.Start(context.Background(), "Evaluator.Evaluate",
		trace.WithAttributes(attribute.String("evaluator.name", t.name)),
	)
	defer span.End()

	if err := t.next.Evaluate(predictor); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if goodness, err := t.next.GetGoodness(); err == nil {
		span.SetAttributes(attribute.Float64("evaluator.goodness", goodness))
	}
	return nil
}

// GetGoodness delegates to the wrapped evaluator.
func (t *tracedEvaluator) GetGoodness() (float64, error) {
	return t.next.GetGoodness()
}

// Print delegates to the wrapped evaluator.
func (t *tracedEvaluator) Print(w io.Writer) error {
	return t.next.Print(w)
}
