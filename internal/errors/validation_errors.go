package errors

import (
	"fmt"
)

// ErrorCategory represents different types of errors that can occur during a
// validation or comparison run
type ErrorCategory string

const (
	// Fatal errors that abort the run immediately
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// Recoverable errors contained to a single window or strategy
	ErrorCategoryDataInsufficiency ErrorCategory = "DATA"
	ErrorCategoryTraining          ErrorCategory = "TRAINING"

	// Computation-level problems that still produce a defined value
	ErrorCategoryComputation ErrorCategory = "COMPUTATION"
)

// ValidationError represents a categorized error with context
type ValidationError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s in %s: %v", e.Category, e.Component, e.Message, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s in %s", e.Category, e.Component, e.Message, e.Operation)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ValidationError) Unwrap() error {
	return e.Underlying
}

// IsFatal returns whether this error should abort the whole run. Only
// configuration errors escalate to the caller; window-local failures are
// skipped and logged.
func (e *ValidationError) IsFatal() bool {
	return e.Category == ErrorCategoryConfiguration
}

// IsSkippable returns whether this error is contained to a single window
func (e *ValidationError) IsSkippable() bool {
	return e.Category == ErrorCategoryDataInsufficiency || e.Category == ErrorCategoryTraining
}

// NewValidationError creates a new categorized error
func NewValidationError(category ErrorCategory, component, operation, message string) *ValidationError {
	return &ValidationError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with validation error context
func WrapError(err error, category ErrorCategory, component, operation string) *ValidationError {
	if err == nil {
		return nil
	}

	return &ValidationError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *ValidationError) WithContext(key string, value interface{}) *ValidationError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Convenience constructors for the common categories

// NewConfigError creates a fatal configuration error
func NewConfigError(component, operation, message string) *ValidationError {
	return NewValidationError(ErrorCategoryConfiguration, component, operation, message)
}

// NewDataInsufficiencyError creates a skippable data error for one window
func NewDataInsufficiencyError(component, operation, message string) *ValidationError {
	return NewValidationError(ErrorCategoryDataInsufficiency, component, operation, message)
}

// NewTrainingError wraps a trainer failure for one window
func NewTrainingError(err error, component, operation string) *ValidationError {
	return WrapError(err, ErrorCategoryTraining, component, operation)
}
