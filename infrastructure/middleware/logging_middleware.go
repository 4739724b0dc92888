package middleware

import (
	"io"
	"log/slog"
	"time"

	"github.com/palcode/ELL/internal/ports"
)

var _ ports.Evaluator = (*loggingEvaluator)(nil)

// loggingEvaluator emits structured logs around evaluator operations.
type loggingEvaluator struct {
	next   ports.Evaluator
	logger *slog.Logger
	name   string
}

// NewLoggingEvaluator decorates an evaluator with structured logging.
// If logger is nil, slog.Default() is used.
func NewLoggingEvaluator(next ports.Evaluator, logger *slog.Logger, name string) ports.Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingEvaluator{next: next, logger: logger, name: name}
}

// Evaluate delegates to the wrapped evaluator, logging duration and the
// resulting goodness, or the error on failure.
func (l *loggingEvaluator) Evaluate(predictor ports.Predictor) error {
	start := time.Now()
	err := l.next.Evaluate(predictor)
	elapsed := time.Since(start)

	if err != nil {
		l.logger.Error("evaluation failed",
			"evaluator", l.name,
			"duration", elapsed,
			"error", err,
		)
		return err
	}

	attrs := []any{
		"evaluator", l.name,
		"duration", elapsed,
	}
	if goodness, gerr := l.next.GetGoodness(); gerr == nil {
		attrs = append(attrs, "goodness", goodness)
	}
	l.logger.Info("evaluation step", attrs...)
	return nil
}

// GetGoodness delegates to the wrapped evaluator.
func (l *loggingEvaluator) GetGoodness() (float64, error) {
	return l.next.GetGoodness()
}

// Print delegates to the wrapped evaluator.
func (l *loggingEvaluator) Print(w io.Writer) error {
	return l.next.Print(w)
}
