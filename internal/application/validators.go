package application

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ValidateAggregatorParameters validates the parameters for a specific
// aggregator type before any aggregator is instantiated, so a malformed
// configuration fails at load time rather than at build time.
// ValidateAggregatorParameters supports the loss, binary_error, auc,
// and custom aggregator types with type-specific validation rules.
func ValidateAggregatorParameters(aggType string, params yaml.Node) error {
	paramMap := make(map[string]any)
	if !params.IsZero() {
		if err := params.Decode(&paramMap); err != nil {
			return fmt.Errorf("failed to decode parameters: %w", err)
		}
	}

	switch aggType {
	case "loss":
		return validateLossParams(paramMap)
	case "binary_error":
		return validateBinaryErrorParams(paramMap)
	case "auc":
		return validateAUCParams(paramMap)
	case "custom":
		// Custom aggregators have flexible validation.
		return nil
	default:
		return fmt.Errorf("unknown aggregator type: %s", aggType)
	}
}

// validateLossParams validates parameters for loss aggregators,
// ensuring the loss kind is one of the supported values and the value
// name, if given, is a non-empty string.
func validateLossParams(params map[string]any) error {
	if kind, ok := params["kind"]; ok {
		kindStr, ok := kind.(string)
		if !ok {
			return fmt.Errorf("kind must be a string")
		}
		if kindStr != "squared" && kindStr != "absolute" {
			return fmt.Errorf("kind must be 'squared' or 'absolute', got %q", kindStr)
		}
	}
	if valueName, ok := params["value_name"]; ok {
		nameStr, ok := valueName.(string)
		if !ok {
			return fmt.Errorf("value_name must be a string")
		}
		if nameStr == "" {
			return fmt.Errorf("value_name must not be empty")
		}
	}
	return nil
}

// validateBinaryErrorParams validates parameters for binary error
// aggregators.
func validateBinaryErrorParams(params map[string]any) error {
	if threshold, ok := params["decision_threshold"]; ok {
		if !isNumeric(threshold) {
			return fmt.Errorf("decision_threshold must be a number")
		}
	}
	if label, ok := params["positive_label"]; ok {
		if !isNumeric(label) {
			return fmt.Errorf("positive_label must be a number")
		}
	}
	return nil
}

// validateAUCParams validates parameters for AUC aggregators.
func validateAUCParams(params map[string]any) error {
	if label, ok := params["positive_label"]; ok {
		if !isNumeric(label) {
			return fmt.Errorf("positive_label must be a number")
		}
	}
	return nil
}

// isNumeric reports whether a decoded YAML scalar holds a numeric
// value. YAML decodes whole numbers as int and fractions as float64.
func isNumeric(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	default:
		return false
	}
}
