package fetch

import (
	"fmt"
	"time"
)

// TimeoutError represents an upstream fetch that exceeded its deadline.
type TimeoutError struct {
	// URL is the upstream URL being fetched
	URL string

	// Timeout is the configured upstream timeout
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch %q: timeout after %s", e.URL, e.Timeout)
}

// StatusError represents an upstream response with a final status
// outside the 2xx range.
type StatusError struct {
	// URL is the upstream URL being fetched
	URL string

	// StatusCode is the HTTP status the upstream returned
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %q: upstream status %d", e.URL, e.StatusCode)
}

// TooLargeError represents an upstream body that ran past the
// configured byte cap.
type TooLargeError struct {
	// URL is the upstream URL being fetched
	URL string

	// Limit is the configured body cap in bytes
	Limit int64
}

// Error implements the error interface.
func (e *TooLargeError) Error() string {
	return fmt.Sprintf("fetch %q: body exceeds %d bytes", e.URL, e.Limit)
}

// ConnectionError represents a network-level failure reaching the
// upstream: DNS resolution, refused connections, resets mid-body.
type ConnectionError struct {
	// URL is the upstream URL being fetched
	URL string

	// Cause is the underlying transport error
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("fetch %q: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}
