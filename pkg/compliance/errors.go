package compliance

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrInvalidPolicy indicates the engine was constructed with an
	// unusable policy configuration.
	ErrInvalidPolicy = errors.New("invalid compliance policy")

	// ErrInvalidInput indicates a malformed document fact was supplied.
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidInputError reports a malformed document fact. Policy violations are
// never errors; they are reported through a Result's issue list. This error
// is reserved for inputs the engine cannot meaningfully evaluate, such as a
// negative size.
type InvalidInputError struct {
	// Field is the name of the offending input.
	Field string

	// Value is the rejected value.
	Value any

	// Reason explains why the value was rejected.
	Reason string
}

// Error returns the error message.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidInput so callers can match with errors.Is.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// newInvalidInput constructs an InvalidInputError.
func newInvalidInput(field string, value any, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}
