package standup

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when the user already submitted today.
	ErrConflict = errors.New("standup already submitted today")
	// ErrNotFound is returned when no matching standup exists.
	ErrNotFound = errors.New("standup not found")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("standup validation failed")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
