package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both absent records and records owned by another
	// user; callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError marks malformed or out-of-range input, including an
// allergy referencing a meal the acting user does not own.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
