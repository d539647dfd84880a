// Package apperrors defines the error taxonomy shared by repositories and the
// HTTP layer: validation failures, missing records, and storage failures.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Type categorizes an error for response formatting
type Type string

const (
	// TypeValidation indicates malformed or missing input (HTTP 400)
	TypeValidation Type = "validation_error"
	// TypeNotFound indicates a lookup with no match (HTTP 404)
	TypeNotFound Type = "not_found"
	// TypeStorage indicates an underlying database failure (HTTP 500)
	TypeStorage Type = "storage_error"
)

// Error is a structured error with a machine-readable type and human message
type Error struct {
	Type    Type
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error type to an HTTP status code
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a validation error
func Validation(format string, args ...interface{}) *Error {
	return &Error{Type: TypeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a database failure
func Storage(message string, cause error) *Error {
	return &Error{Type: TypeStorage, Message: message, Cause: cause}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return isType(err, TypeValidation)
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return isType(err, TypeNotFound)
}

func isType(err error, t Type) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}
