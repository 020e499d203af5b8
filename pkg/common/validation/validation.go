package validation

import (
	"math"

	gperrors "github.com/vnykmshr/gopace/pkg/common/errors"
)

// ValidatePositiveFloat validates that a float64 value is positive (> 0)
// and finite. Returns a ValidationError otherwise.
func ValidatePositiveFloat(module, field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return gperrors.NewValidationError(module, field, value, "must be finite").
			WithHint("NaN and infinite values are not allowed")
	}
	if value <= 0 {
		return gperrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateFiniteFloat validates that a float64 value is a finite number.
// Returns a ValidationError if the value is NaN or infinite.
func ValidateFiniteFloat(module, field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return gperrors.NewValidationError(module, field, value, "must be finite").
			WithHint("NaN and infinite values are not allowed")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return gperrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return gperrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
