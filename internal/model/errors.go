package model

import "fmt"

// ValidationError describes a rejected field before anything is persisted.
// It is returned by the model-level Validate functions and translated by the
// HTTP boundary into a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
