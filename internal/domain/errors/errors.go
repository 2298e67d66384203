package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies generator failures per the pipeline's error taxonomy:
// configuration and constraint errors abort the run, drift and financial
// findings are surfaced by the validators without blocking output.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeConstraint    ErrorType = "constraint"
	ErrorTypeDrift         ErrorType = "drift"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Fatal   bool                   `json:"fatal"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Error constructors

// NewValidationError reports malformed input to a domain constructor.
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
		Fatal:   true,
	}
}

// NewConfigurationError reports an internally-inconsistent configuration
// (weights not summing to one, inverted bands). Always fatal before
// generation starts.
func NewConfigurationError(code, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Code:    code,
		Message: message,
		Fatal:   true,
	}
}

// NewConstraintError reports a generated record that breaks an invariant.
// These are impossible by construction, so one occurring means a generator
// bug; the pipeline treats it as a fatal assertion failure.
func NewConstraintError(code, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConstraint,
		Code:    code,
		Message: message,
		Fatal:   true,
	}
}

// NewDriftWarning reports an aggregate distribution deviating from target
// beyond tolerance. Non-fatal; surfaced for operator review.
func NewDriftWarning(code, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeDrift,
		Code:    code,
		Message: message,
		Fatal:   false,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
		Fatal:   true,
	}
}

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsFatal reports whether an error must halt the pipeline. Unclassified
// errors are treated as fatal.
func IsFatal(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fatal
	}
	return err != nil
}
