package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during evaluation operations.
var (
	// ErrInvalidConfiguration indicates that engine or aggregator
	// configuration is invalid or incomplete. It is fatal to construction.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidState indicates that an operation was invoked before the
	// engine reached a state in which it is meaningful, for example
	// querying goodness before any evaluation was recorded.
	ErrInvalidState = errors.New("invalid state")

	// ErrShapeMismatch indicates that a history entry does not match the
	// shape fixed at construction time.
	ErrShapeMismatch = errors.New("entry shape mismatch")
)

// ConfigurationError describes why engine construction was rejected.
// It wraps ErrInvalidConfiguration so callers can match with errors.Is.
type ConfigurationError struct {
	// Field names the configuration element that failed validation.
	Field string

	// Reason describes the violated constraint.
	Reason string
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: field=%s, reason=%s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ConfigurationError against ErrInvalidConfiguration.
func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

// NewConfigurationError creates a ConfigurationError with the given details.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}
