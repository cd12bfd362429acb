package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrExperimentNotFound = fmt.Errorf("%w: experiment", ErrNotFound)
	ErrResultNotFound     = fmt.Errorf("%w: analysis result", ErrNotFound)

	// Input validation errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrZeroTrials         = fmt.Errorf("%w: trial count must be positive", ErrInvalidInput)
	ErrDegenerateVariance = fmt.Errorf("%w: null variance of rate difference is zero", ErrInvalidInput)
	ErrZeroDelta          = fmt.Errorf("%w: minimum detectable difference must be nonzero", ErrInvalidInput)

	// Numeric domain errors (arguments outside the domain of the math)
	ErrNumericDomain = errors.New("argument outside numeric domain")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Error constructors with context
func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

func NewNumericDomainError(arg string, value float64) error {
	return fmt.Errorf("%w: %s = %v, want value in (0,1)", ErrNumericDomain, arg, value)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsNumericDomainError(err error) bool {
	return errors.Is(err, ErrNumericDomain)
}
