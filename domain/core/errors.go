package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound            = errors.New("resource not found")
	ErrExplanationNotFound = fmt.Errorf("%w: explanation", ErrNotFound)

	// Parsing and layout errors
	ErrMalformedRule = errors.New("malformed discretization rule")
	ErrShapeMismatch = errors.New("explanation shape mismatch")

	// Scaler errors
	ErrNotFitted         = errors.New("scaler is not fitted")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrUnknownScaler     = errors.New("unknown scaler kind")
)

// Error constructors with context
func NewExplanationNotFoundError(id ExplanationID) error {
	return fmt.Errorf("%w: %s", ErrExplanationNotFound, id)
}

func NewMalformedRuleError(name string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedRule, name, reason)
}

func NewShapeError(expected, actual int, field string) error {
	return fmt.Errorf("%w: %s has %d entries, layout needs %d", ErrShapeMismatch, field, actual, expected)
}

func NewDimensionError(expected, actual int) error {
	return fmt.Errorf("%w: expected %d features, got %d", ErrDimensionMismatch, expected, actual)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrMalformedRule)
}

func IsScalerError(err error) bool {
	return errors.Is(err, ErrNotFitted) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrUnknownScaler)
}
