package domain

import "fmt"

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ErrNotFound builds a NotFoundError for the given entity kind and id.
func ErrNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InsufficientPointsError reports an unlock attempted with balance below cost.
type InsufficientPointsError struct {
	Required  int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: required %d, available %d", e.Required, e.Available)
}

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrValidation builds a ValidationError.
func ErrValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
