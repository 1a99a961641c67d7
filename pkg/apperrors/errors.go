// Package apperrors defines the error type shared by services, the HTTP API
// and the CLI.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application error
type Code int

const (
	CodeInternal Code = iota + 1
	CodeNotFound
	CodeValidation
	CodeForbidden
	CodeConflict
	CodeConfig
)

// Exit codes for the itam CLI
const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitNotFound   = 2
	ExitValidation = 3
	ExitConfig     = 6
)

// Error is the base error type of the application
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps an existing error
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NotFound returns an error for a missing record
func NotFound(kind string, id any) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s with id `%v` does not exist", kind, id))
}

// Validation returns an error for rejected input
func Validation(message string, cause error) *Error {
	return Wrap(CodeValidation, message, cause)
}

// Forbidden returns an error for a denied action
func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// Conflict returns an error for a uniqueness violation
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// Internal wraps an unexpected failure
func Internal(message string, cause error) *Error {
	return Wrap(CodeInternal, message, cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *Error {
	return Wrap(CodeConfig, message, cause)
}

// CodeOf extracts the code from err, CodeInternal when err is not an *Error
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// HTTPStatus maps err to a response status
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ExitCode maps err to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch CodeOf(err) {
	case CodeNotFound:
		return ExitNotFound
	case CodeValidation:
		return ExitValidation
	case CodeConfig:
		return ExitConfig
	default:
		return ExitGeneral
	}
}
