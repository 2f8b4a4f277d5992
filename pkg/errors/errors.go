// Package errors provides structured error types for slidesmith.
//
// Every fatal condition in the engine (an unreadable template, an outline
// whose top level is neither an object nor an array, an output directory that
// cannot be written) is reported as an *Error carrying a machine-readable
// [Code]. Recoverable conditions such as a missing shape or an unfetchable
// image are logged and skipped instead, so they never surface here.
//
// # Error Codes
//
// Codes follow a category prefix convention:
//   - INVALID_*: input, outline or configuration validation failures
//   - NOT_FOUND: resource not found
//   - TEMPLATE_LOAD / OUTPUT_WRITE: deck I/O failures
//   - NETWORK_ERROR / TIMEOUT: image fetch failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOutline, "outline must be an object or array, got %s", kind)
//	if errors.Is(err, errors.ErrCodeInvalidOutline) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTemplateLoad, origErr, "open template %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidOutline Code = "INVALID_OUTLINE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidURL     Code = "INVALID_URL"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeDeckNotFound Code = "DECK_NOT_FOUND"

	// Deck I/O errors
	ErrCodeTemplateLoad Code = "TEMPLATE_LOAD"
	ErrCodeOutputWrite  Code = "OUTPUT_WRITE"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err should abort deck generation.
// Template, outline, configuration and output failures are fatal; everything
// else the engine encounters is recovered locally.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeTemplateLoad, ErrCodeInvalidOutline, ErrCodeInvalidConfig, ErrCodeOutputWrite:
		return true
	}
	return false
}
