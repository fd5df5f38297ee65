package errors

import (
	"errors"
	"fmt"
)

// Error codes for programmatic handling
const (
	// Precondition errors
	ErrCodePreconditionMissing = "PRECONDITION_MISSING"

	// Remote errors
	ErrCodeRemoteRequest        = "REMOTE_REQUEST"
	ErrCodeNetworkTimeout       = "NETWORK_TIMEOUT"
	ErrCodeNetworkUnavailable   = "NETWORK_UNAVAILABLE"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeNotFound             = "NOT_FOUND"

	// Configuration errors
	ErrCodeConfigInvalid = "CONFIG_INVALID"

	// Local state errors
	ErrCodeStateFile = "STATE_FILE"
)

// LinkError represents a standardized error with code and context.
//
// LinkError carries:
//   - Code: standardized error code for programmatic handling
//   - Message: human-readable error description
//   - Cause: underlying error that caused this error (optional)
//   - Context: additional contextual information as key-value pairs
//   - Operation: the operation that failed (optional)
//
// Example usage:
//
//	err := ErrPreconditionMissing("update directory", "organization id").
//		WithContext("connection_id", 42)
//	if IsCode(err, ErrCodePreconditionMissing) {
//	  // Report without sending anything
//	}
type LinkError struct {
	Code      string         // Standardized error code (see ErrCode* constants)
	Message   string         // Human-readable error message
	Cause     error          // Underlying error that caused this error
	Context   map[string]any // Additional contextual information
	Operation string         // The operation that failed
}

// Error implements the error interface
func (e *LinkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *LinkError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code
func (e *LinkError) Is(target error) bool {
	if t, ok := target.(*LinkError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error
func (e *LinkError) WithContext(key string, value any) *LinkError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsRemote reports whether the error came back from an external service,
// as opposed to a local precondition or configuration problem.
func (e *LinkError) IsRemote() bool {
	switch e.Code {
	case ErrCodeRemoteRequest,
		ErrCodeNetworkTimeout,
		ErrCodeNetworkUnavailable,
		ErrCodeAuthenticationFailed,
		ErrCodeNotFound:
		return true
	default:
		return false
	}
}

// NewLinkError creates a new standardized error
func NewLinkError(code, message string, cause error) *LinkError {
	return &LinkError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// NewLinkErrorf creates a new standardized error with formatted message
func NewLinkErrorf(code string, cause error, format string, args ...any) *LinkError {
	return &LinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// Precondition errors
func ErrPreconditionMissing(operation, what string) *LinkError {
	return NewLinkErrorf(ErrCodePreconditionMissing, nil, "%s: %s is required", operation, what).
		WithContext("operation", operation).
		WithContext("missing", what)
}

// Remote errors
func ErrRemoteRequest(operation string, status int, cause error) *LinkError {
	return NewLinkErrorf(ErrCodeRemoteRequest, cause, "%s failed with status %d", operation, status).
		WithContext("operation", operation).
		WithContext("status", status)
}

func ErrNetworkTimeout(operation string, cause error) *LinkError {
	return NewLinkErrorf(ErrCodeNetworkTimeout, cause, "network timeout during %s", operation).
		WithContext("operation", operation)
}

func ErrNetworkUnavailable(operation string, cause error) *LinkError {
	return NewLinkErrorf(ErrCodeNetworkUnavailable, cause, "network unavailable during %s", operation).
		WithContext("operation", operation)
}

func ErrAuthenticationFailed(operation string, cause error) *LinkError {
	return NewLinkErrorf(ErrCodeAuthenticationFailed, cause, "authentication failed during %s", operation).
		WithContext("operation", operation)
}

func ErrNotFound(kind string, id any) *LinkError {
	return NewLinkErrorf(ErrCodeNotFound, nil, "%s not found: %v", kind, id).
		WithContext("kind", kind).
		WithContext("id", id)
}

// Configuration errors
func ErrConfigInvalid(key, reason string) *LinkError {
	return NewLinkErrorf(ErrCodeConfigInvalid, nil, "invalid configuration %s: %s", key, reason).
		WithContext("key", key).
		WithContext("reason", reason)
}

// Local state errors
func ErrStateFile(path string, cause error) *LinkError {
	return NewLinkErrorf(ErrCodeStateFile, cause, "state file %s", path).
		WithContext("path", path)
}

// IsCode reports whether any error in err's chain is a LinkError with code.
func IsCode(err error, code string) bool {
	var linkErr *LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Code == code
	}
	return false
}

// GetErrorCode returns the LinkError code from any error, or "".
func GetErrorCode(err error) string {
	var linkErr *LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Code
	}
	return ""
}

// GetErrorContext returns the LinkError context from any error, or nil.
func GetErrorContext(err error) map[string]any {
	var linkErr *LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Context
	}
	return nil
}
