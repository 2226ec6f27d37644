package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected input at a creation boundary.
// Handlers translate it to HTTP 400; it is never retried.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NewValidationError creates a ValidationError for a missing required field
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// NewInvalidFieldError creates a ValidationError with a reason
func NewInvalidFieldError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
