package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnknownRegression    = fmt.Errorf("%w: unknown regression strategy", ErrInvalidConfiguration)
	ErrInvalidIterations    = fmt.Errorf("%w: iteration count must be positive", ErrInvalidConfiguration)

	// Shape errors
	ErrShapeMismatch = errors.New("observation count mismatch")
	ErrEmptyInput    = errors.New("empty input")

	// Estimation errors
	ErrEstimationFailed = errors.New("estimation failed")
	ErrRankDeficient    = fmt.Errorf("%w: rank-deficient design matrix", ErrEstimationFailed)

	// Persistence errors
	ErrRunNotFound = errors.New("run not found")
)

// Error constructors with context

// NewShapeMismatchError names the offending component and its row count
// against the expected observation count.
func NewShapeMismatchError(component string, got, want int) error {
	return fmt.Errorf("%w: %s has %d rows, expected %d", ErrShapeMismatch, component, got, want)
}

// NewRegressionError names the valid strategy identifiers alongside the
// rejected one.
func NewRegressionError(got string, valid ...string) error {
	return fmt.Errorf("%w %q (valid: %v)", ErrUnknownRegression, got, valid)
}

// NewTrialError identifies which permutation trial aborted the run.
func NewTrialError(trial int, err error) error {
	return fmt.Errorf("trial %d: %w", trial, err)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

func IsShapeError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) || errors.Is(err, ErrEmptyInput)
}

func IsEstimationError(err error) bool {
	return errors.Is(err, ErrEstimationFailed)
}
