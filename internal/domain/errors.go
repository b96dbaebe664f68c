package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every layer.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("invoice already registered")
	ErrDependency    = errors.New("dependency failure")
)

// FieldError describes a validation failure for a single field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned for documents or requests the caller must fix.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// DependencyError reports a failed call to an external store. Store and Op
// identify the call for operators; the cause stays reachable through Unwrap
// but is never shown to API clients.
type DependencyError struct {
	Store string
	Op    string
	Err   error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s store: %s: %v", e.Store, e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDependency) hold for every DependencyError.
func (e *DependencyError) Is(target error) bool { return target == ErrDependency }

// NewDependencyError wraps err unless it already is a DependencyError.
func NewDependencyError(store, op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DependencyError
	if errors.As(err, &de) {
		return err
	}
	return &DependencyError{Store: store, Op: op, Err: err}
}
