// Package tools error types for distinguishing caller mistakes from
// execution failures.
package tools

import (
	"errors"
	"fmt"
)

// ValidationError indicates invalid input that won't succeed on retry
// without a corrected request. Examples: missing required argument,
// invalid argument type, malformed patch.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewValidationErrorf creates a validation error with formatting.
func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
