package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrInvalidPrior     = errors.New("invalid prior specification")
	ErrInvalidInterval  = errors.New("invalid credible interval")
	ErrInvalidBusiness  = errors.New("invalid business inputs")
	ErrInvalidDesign    = errors.New("invalid test design")
	ErrInvalidCosts     = errors.New("invalid cost inputs")
	ErrInvalidSamples   = errors.New("invalid sample count")
	ErrUnsupportedShape = errors.New("unsupported prior shape")

	// Numerical errors
	ErrNonFinite  = errors.New("non-finite value produced during computation")
	ErrDegenerate = errors.New("degenerate derived quantity")
)

// NewValidationError builds a field-level validation error
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// NewFieldError wraps a domain sentinel with the offending field and value
func NewFieldError(sentinel error, field string, value interface{}) error {
	return fmt.Errorf("%w: %s = %v", sentinel, field, value)
}

// IsValidationError reports whether err stems from malformed inputs
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPrior) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidBusiness) ||
		errors.Is(err, ErrInvalidDesign) ||
		errors.Is(err, ErrInvalidCosts) ||
		errors.Is(err, ErrInvalidSamples) ||
		errors.Is(err, ErrUnsupportedShape)
}

// IsNumericalError reports whether err stems from a failed computation
func IsNumericalError(err error) bool {
	return errors.Is(err, ErrNonFinite) || errors.Is(err, ErrDegenerate)
}
