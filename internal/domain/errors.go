package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors that can occur during assessment operations.
var (
	// ErrMissingField indicates that a required clinical input is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrEmptyValue indicates that a required value is empty or nil.
	ErrEmptyValue = errors.New("empty value")

	// ErrInvalidConfiguration indicates that configuration is invalid or
	// incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNoEvaluators indicates an assessment was requested with no
	// evaluators registered.
	ErrNoEvaluators = errors.New("no evaluators registered")
)

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("%s: %v", e.Entity, e.Errors)
}

// Is marks ValidationError as matching ErrMissingField so callers can
// classify evaluator rejections with errors.Is.
func (e *ValidationError) Is(target error) bool { return target == ErrMissingField }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}

// NewMissingFieldsError builds the validation error an evaluator returns
// when required inputs are absent. The message names every missing field.
func NewMissingFieldsError(entity string, missing []string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: []string{
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		},
	}
}
