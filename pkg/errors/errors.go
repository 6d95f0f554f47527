package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors
	ErrManifestRead  ErrorCode = "MANIFEST_READ"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Pattern errors
	ErrPatternInvalid ErrorCode = "PATTERN_INVALID"

	// Resolution errors
	ErrInvalidRoot ErrorCode = "INVALID_ROOT"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Packaging errors
	ErrArchiveWrite   ErrorCode = "ARCHIVE_WRITE"
	ErrExportConflict ErrorCode = "EXPORT_CONFLICT"
	ErrExportExecute  ErrorCode = "EXPORT_EXECUTE"
)

// PacklistError represents a structured error with code and details
type PacklistError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PacklistError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PacklistError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PacklistError) Is(target error) bool {
	var targetErr *PacklistError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PacklistError with the given code and message
func New(code ErrorCode, message string) *PacklistError {
	return &PacklistError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PacklistError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PacklistError {
	return &PacklistError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PacklistError
func Wrap(err error, code ErrorCode, message string) *PacklistError {
	if err == nil {
		return nil
	}
	return &PacklistError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PacklistError {
	if err == nil {
		return nil
	}
	return &PacklistError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PacklistError) WithDetail(key string, value interface{}) *PacklistError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PacklistError) WithDetails(details map[string]interface{}) *PacklistError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var plErr *PacklistError
	if errors.As(err, &plErr) {
		return plErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PacklistError
func GetErrorCode(err error) ErrorCode {
	var plErr *PacklistError
	if errors.As(err, &plErr) {
		return plErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PacklistError
func GetErrorDetails(err error) map[string]interface{} {
	var plErr *PacklistError
	if errors.As(err, &plErr) {
		return plErr.Details
	}
	return nil
}
