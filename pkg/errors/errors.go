// Package errors provides structured error types for the wordcloud module.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map onto the layout pipeline's failure taxonomy:
//   - INVALID_*, EMPTY_WORDS: configuration errors, rejected before or by the engine
//   - TRANSPORT: the offload boundary could not carry a message
//   - ENGINE, ACCESSOR_PANIC: the computation itself failed
//   - CLOSED, INTERNAL, UNSUPPORTED: lifecycle and unexpected failures
//
// Discarding a stale result is not an error and has no code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimensions, "width must be positive, got %v", w)
//	if errors.Is(err, errors.ErrCodeInvalidDimensions) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "send request %d", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeEmptyWords        Code = "EMPTY_WORDS"
	ErrCodeInvalidSpiral     Code = "INVALID_SPIRAL"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Boundary errors
	ErrCodeTransport Code = "TRANSPORT"

	// Computation errors
	ErrCodeEngine        Code = "ENGINE"
	ErrCodeAccessorPanic Code = "ACCESSOR_PANIC"

	// Lifecycle and internal errors
	ErrCodeClosed      Code = "CLOSED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConfiguration reports whether err is a configuration error: one that a new
// configuration, not a retry, can fix.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDimensions, ErrCodeEmptyWords,
		ErrCodeInvalidSpiral, ErrCodeInvalidFormat:
		return true
	}
	return false
}

// PanicError converts a recovered panic value into an ACCESSOR_PANIC error.
func PanicError(v any, format string, args ...any) *Error {
	if err, ok := v.(error); ok {
		return Wrap(ErrCodeAccessorPanic, err, format, args...)
	}
	return Wrap(ErrCodeAccessorPanic, fmt.Errorf("%v", v), format, args...)
}
