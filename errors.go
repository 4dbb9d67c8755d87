package nordgo

import (
	"fmt"
)

// ErrorKind classifies nordgo errors for easier handling and retry decisions.
type ErrorKind string

// ErrorKind values classify nordgo errors by their category.
const (
	// ErrInvalidConfig indicates user-supplied configuration is invalid.
	ErrInvalidConfig ErrorKind = "invalid_config"
	// ErrClientNotInstalled indicates the NordVPN client executable could not be located.
	ErrClientNotInstalled ErrorKind = "client_not_installed"
	// ErrServiceNotRunning indicates the NordVPN background service is not reachable.
	ErrServiceNotRunning ErrorKind = "service_not_running"
	// ErrUnsupportedPlatform indicates the host OS has no platform adapter.
	ErrUnsupportedPlatform ErrorKind = "unsupported_platform"
	// ErrConnectFailed indicates the external client reported a failed connect.
	ErrConnectFailed ErrorKind = "connect_failed"
	// ErrHTTPFailed indicates an HTTP request to an external endpoint failed.
	ErrHTTPFailed ErrorKind = "http_failed"
	// ErrTimeout indicates an operation exceeded its deadline.
	ErrTimeout ErrorKind = "timeout"
	// ErrIO wraps generic I/O errors.
	ErrIO ErrorKind = "io_error"
	// ErrUnknown is used when no specific classification is available.
	ErrUnknown ErrorKind = "unknown"
)

// NordgoError wraps an underlying error with a Kind and an optional operation
// label so callers can branch on error type while retaining context.
//
//revive:disable-next-line:exported
type NordgoError struct {
	// Kind classifies the error for programmatic handling.
	Kind ErrorKind
	// Op names the operation during which the error occurred.
	Op string
	// Msg carries an optional human-readable description.
	Msg string
	// Err stores the wrapped underlying error.
	Err error
}

// Error returns a formatted string that includes Kind, Op, and the wrapped error.
func (e *NordgoError) Error() string {
	if e == nil {
		return ""
	}

	message := string(e.Kind)
	if e.Op != "" {
		message = fmt.Sprintf("%s: %s", e.Op, message)
	}
	if e.Msg != "" {
		message = fmt.Sprintf("%s: %s", message, e.Msg)
	}
	if e.Err != nil {
		message = fmt.Sprintf("%s: %s", message, e.Err)
	}
	return message
}

// Unwrap exposes the underlying error for errors.Is / errors.As compatibility.
func (e *NordgoError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target has the same ErrorKind, enabling errors.Is checks.
func (e *NordgoError) Is(target error) bool {
	ne, ok := target.(*NordgoError)
	if !ok {
		return false
	}
	if e == nil {
		return false
	}
	return e.Kind != "" && e.Kind == ne.Kind
}

// newError constructs a NordgoError, defaulting Kind to ErrUnknown when empty.
func newError(kind ErrorKind, op, msg string, err error) *NordgoError {
	if kind == "" {
		kind = ErrUnknown
	}
	return &NordgoError{
		Kind: kind,
		Op:   op,
		Msg:  msg,
		Err:  err,
	}
}
