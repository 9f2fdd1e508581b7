// Package errors provides structured error types for lottieframes.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes that matter most for the export workflow are:
//   - INVALID_FILE: a dropped or opened file was rejected (nil, no type, not JSON)
//   - PARSE_ERROR: the file content is not a valid Lottie JSON document
//   - EMPTY_EXPORT: an export was requested with no registered files
//   - RENDER_ERROR: the rendering capability failed while capturing frames
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFile, "File is not a .json file!")
//	if errors.Is(err, errors.ErrCodeInvalidFile) {
//	    // Report to the user, keep the session alive
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "capture %s", name)
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
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidFile  Code = "INVALID_FILE"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeParse        Code = "PARSE_ERROR"

	// Workflow errors
	ErrCodeEmptyExport Code = "EMPTY_EXPORT"
	ErrCodeRender      Code = "RENDER_ERROR"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
		return e.Message
	}
	return err.Error()
}

// FileError describes why a single file could not be opened.
// Its message mirrors the alert shown by the drop zone:
// "There was an error opening the file <name>: <reason>".
type FileError struct {
	Code   Code   // ErrCodeInvalidFile or ErrCodeParse
	Name   string // Offending file name, "" when unidentifiable
	Reason string // Short human-readable reason
	Cause  error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *FileError) Error() string {
	name := ""
	if e.Name != "" {
		name = " " + e.Name
	}
	return fmt.Sprintf("There was an error opening the file%s: %s", name, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *FileError) Unwrap() error { return e.Cause }

// As lets errors.As(err, **Error) see a FileError as a coded Error, so
// Is and GetCode work uniformly.
func (e *FileError) As(target any) bool {
	t, ok := target.(**Error)
	if !ok {
		return false
	}
	*t = &Error{Code: e.Code, Message: e.Error(), Cause: e.Cause}
	return true
}

// InvalidFile returns a FileError for a rejected input.
func InvalidFile(name, reason string) *FileError {
	return &FileError{Code: ErrCodeInvalidFile, Name: name, Reason: reason}
}

// ParseFailure returns a FileError for content that is not valid Lottie JSON.
func ParseFailure(name string, cause error) *FileError {
	return &FileError{Code: ErrCodeParse, Name: name, Reason: cause.Error(), Cause: cause}
}
