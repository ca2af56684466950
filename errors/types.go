package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Command execution errors
	ErrCodeCommandTimeout  ErrorCode = "COMMAND_TIMEOUT"
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// Repository errors
	ErrCodeNotARepository ErrorCode = "NOT_A_REPOSITORY"

	// Watcher errors
	ErrCodeWatchFailed ErrorCode = "WATCH_FAILED"

	// Daemon errors
	ErrCodeDaemonRunning ErrorCode = "DAEMON_ALREADY_RUNNING"
)

// StatusError represents a structured error with context
type StatusError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *StatusError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *StatusError) WithDetail(key string, value interface{}) *StatusError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *StatusError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new StatusError
func New(code ErrorCode, message string) *StatusError {
	return &StatusError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a StatusError
func Wrap(err error, code ErrorCode, message string) *StatusError {
	return &StatusError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific StatusError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	statusErr, ok := err.(*StatusError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return statusErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	statusErr, ok := err.(*StatusError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return statusErr.Code
}
