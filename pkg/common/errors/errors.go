// Package errors defines the error types shared by gopace components.
package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the gopace library

var (
	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument indicates an invalid per-call argument
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRateLimited indicates that a request was rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")
)

// ValidationError describes a configuration value that failed validation.
// It unwraps to ErrInvalidConfiguration.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// ArgumentError describes a per-call argument that failed validation.
// Unlike ValidationError it reports a caller mistake on an individual
// operation, not a broken configuration. It unwraps to ErrInvalidArgument.
type ArgumentError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: bad argument %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidArgument so callers can match with errors.Is.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// NewArgumentError creates an ArgumentError for the given module and field.
func NewArgumentError(module, field string, value interface{}, reason string) *ArgumentError {
	return &ArgumentError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// OperationError wraps a failure that occurred while performing a named
// operation within a module.
type OperationError struct {
	Module  string
	Op      string
	Cause   error
	Context string
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Module, e.Op, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, op string, cause error) *OperationError {
	return &OperationError{
		Module: module,
		Op:     op,
		Cause:  cause,
	}
}

// WithContext attaches additional context and returns the same error for chaining.
func (e *OperationError) WithContext(ctx string) *OperationError {
	e.Context = ctx
	return e
}

// IsRetryable returns true if the error indicates a condition that might
// be resolved by retrying the operation
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsValidationError returns true if the error is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsArgumentError returns true if the error is, or wraps, an ArgumentError
func IsArgumentError(err error) bool {
	var aerr *ArgumentError
	return errors.As(err, &aerr)
}
