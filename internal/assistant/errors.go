package assistant

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned when no assistant backend URL is configured.
var ErrNotConfigured = errors.New("assistant backend URL is not configured")

// UpstreamError represents an error response returned by the assistant
// service. The message is extracted from the upstream error body when
// possible, otherwise it is the HTTP status text.
type UpstreamError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("assistant service error (status %d): %s", e.StatusCode, e.Message)
}

// TimeoutError represents an outbound call that exceeded its deadline.
type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %q timed out after %s", e.Endpoint, e.Timeout)
}

// ConnectionError represents a network-level failure reaching the
// assistant service.
type ConnectionError struct {
	Endpoint string
	Cause    error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %q failed: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ParseError represents a successful upstream response whose body was empty
// or not valid JSON. RawPrefix holds at most 500 characters of the raw body
// for diagnostics.
type ParseError struct {
	StatusCode int
	RawPrefix  string
	Cause      error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("assistant service returned an empty or unparseable response (status %d)", e.StatusCode)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
