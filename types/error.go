package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the framework.
type ErrorCode string

const (
	// ErrValidationFailed marks an unknown task kind or a missing required
	// parameter, surfaced as FAILED before any handler runs.
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrUnsupportedTask marks a handler lookup miss after validation passed,
	// a programming-error condition reported rather than crashed on.
	ErrUnsupportedTask ErrorCode = "UNSUPPORTED_TASK"
	// ErrExecutionFailed marks a handler error or panic, wrapped with
	// agent/task context.
	ErrExecutionFailed ErrorCode = "EXECUTION_FAILED"
	// ErrDelegationFailed marks a subordinate call that failed or raised;
	// caught at the parent and excluded from aggregation.
	ErrDelegationFailed ErrorCode = "DELEGATION_FAILED"
	// ErrProviderExhausted marks an external call that used up all retries.
	ErrProviderExhausted ErrorCode = "PROVIDER_EXHAUSTED"
	// ErrProviderUnavailable marks a transient external provider failure.
	ErrProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrNotConfigured marks a capability port left as its unconfigured stub.
	ErrNotConfigured ErrorCode = "NOT_CONFIGURED"
	// ErrNodeStopped marks a task submitted to a stopped node.
	ErrNodeStopped ErrorCode = "NODE_STOPPED"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Provider  string    `json:"provider,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Retryable bool      `json:"retryable"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// WithAttempts records how many attempts were made before giving up.
func (e *Error) WithAttempts(attempts int) *Error {
	e.Attempts = attempts
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// AsError extracts a *Error from err's chain, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsErrorCode reports whether err carries the given code anywhere in its chain.
func IsErrorCode(err error, code ErrorCode) bool {
	if e := AsError(err); e != nil {
		return e.Code == code
	}
	return false
}

// IsRetryable checks if an error is marked retryable.
func IsRetryable(err error) bool {
	if e := AsError(err); e != nil {
		return e.Retryable
	}
	return false
}
