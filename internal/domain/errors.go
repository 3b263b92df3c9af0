package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports an out-of-range or inconsistent parameter. It is
// surfaced to HTTP callers as a 4xx response with the message intact.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for a named field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
