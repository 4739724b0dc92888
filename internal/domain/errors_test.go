package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		reason  string
		wantMsg string
	}{
		{
			name:    "zero frequency",
			field:   "evaluation_frequency",
			reason:  "must be at least 1",
			wantMsg: "configuration error: field=evaluation_frequency, reason=must be at least 1",
		},
		{
			name:    "arity mismatch",
			field:   "aggregator[2]",
			reason:  "reports 3 values but 2 value names",
			wantMsg: "configuration error: field=aggregator[2], reason=reports 3 values but 2 value names",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigurationError(tt.field, tt.reason)

			assert.Equal(t, tt.wantMsg, err.Error(), "Error message mismatch")
			assert.Equal(t, tt.field, err.Field, "Field mismatch")
			assert.True(t, errors.Is(err, ErrInvalidConfiguration),
				"ConfigurationError should match ErrInvalidConfiguration")
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{ErrInvalidConfiguration, ErrInvalidState, ErrShapeMismatch}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
