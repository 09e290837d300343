package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrParticipantNotFound = errors.New("no participant with that email")
	ErrDuplicateEmail      = errors.New("this email is already registered")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrInvalidRequest      = errors.New("invalid payload")
	ErrInternalError       = errors.New("server error")
)

// ValidationError reports the first field of a request that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid field: %s", e.Field)
}

// MissingField returns the validation error for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "Missing field: " + field}
}

// InvalidField returns a validation error with a field-specific message.
func InvalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrParticipantNotFound)
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
