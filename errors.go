package portdiff

import (
	"errors"
	"fmt"
	"strings"
)

// RuntimeError represents an operational error that should lead to exit code 2
// Examples include configuration errors, unreadable output files, an unwritable report path.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// RegressionError is returned when the ported implementation fails tests the reference
// passes and the run was asked to fail on regressions (exit code 1)
type RegressionError struct {
	Names []string
}

func (e *RegressionError) Error() string {
	return fmt.Sprintf("%d regression(s): %s", len(e.Names), strings.Join(e.Names, ", "))
}

// NewRegressionError creates a new RegressionError
func NewRegressionError(names []string) *RegressionError {
	return &RegressionError{Names: names}
}

// IsRegressionError checks if the error is or wraps a RegressionError
func IsRegressionError(err error) bool {
	var regressionErr *RegressionError
	return err != nil && errors.As(err, &regressionErr)
}
