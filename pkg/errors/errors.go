// Package errors provides the standardized error type shared across the
// solver and its collaborators.
package errors

import "fmt"

// AppError represents a standardized application error with a
// machine-readable code and an optional wrapped internal cause.
type AppError struct {
	Code        string                 `json:"code"`              // Machine-readable error code
	Message     string                 `json:"message"`           // Human-readable error message
	Status      int                    `json:"-"`                 // Classifier used by callers that map errors onto their own surface
	InternalErr error                  `json:"-"`                 // Internal error (not exposed to callers)
	Details     map[string]interface{} `json:"details,omitempty"` // Additional error details
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.InternalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.InternalErr)
	}
	return e.Message
}

// Unwrap returns the internal error for error wrapping.
func (e *AppError) Unwrap() error {
	return e.InternalErr
}

// WithDetails adds additional details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithInternal sets the internal error.
func (e *AppError) WithInternal(err error) *AppError {
	e.InternalErr = err
	return e
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *AppError {
	if message == "" {
		message = "validation failed"
	}
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "internal error"
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts AppError from error, or creates a generic internal error.
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return &AppError{
		Code:        "INTERNAL_ERROR",
		Message:     "internal error",
		InternalErr: err,
	}
}

// Wrap wraps an error with a message and converts it to AppError.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		appErr.Message = message
		return appErr
	}

	return &AppError{
		Code:        "INTERNAL_ERROR",
		Message:     message,
		InternalErr: err,
	}
}

// WrapWithCode wraps an error with a custom code and status classifier.
func WrapWithCode(err error, code string, message string, status int) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Code:        code,
		Message:     message,
		Status:      status,
		InternalErr: err,
	}
}
