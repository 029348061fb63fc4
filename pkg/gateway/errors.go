package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"inkwell-hq/scribe/pkg/fetch"
)

// Kind identifies the failure class of a conversion request.
type Kind string

const (
	// KindInvalidURL marks malformed input: missing scheme or host,
	// or a non-http(s) scheme.
	KindInvalidURL Kind = "invalid_url"

	// KindRateLimited marks a request rejected by the rate limiter.
	KindRateLimited Kind = "rate_limited"

	// KindContentTooLarge marks a fetched body over the configured cap.
	KindContentTooLarge Kind = "content_too_large"

	// KindUpstreamTimeout marks an upstream fetch that ran out of time.
	KindUpstreamTimeout Kind = "upstream_timeout"

	// KindUpstreamStatus marks a non-2xx upstream response.
	KindUpstreamStatus Kind = "upstream_status"

	// KindUpstreamConnection marks a transport-level failure reaching
	// upstream (DNS, connection refused, TLS).
	KindUpstreamConnection Kind = "upstream_connection"

	// KindInternal marks any other unhandled failure. The public
	// detail never carries internals.
	KindInternal Kind = "internal"
)

// Error is a classified pipeline failure. Detail is the public
// message returned to clients; Cause is for logs only.
type Error struct {
	// Kind is the failure class.
	Kind Kind

	// Detail is the human-readable message for the response body.
	Detail string

	// RetryAfter hints when a rate-limited caller may retry.
	RetryAfter time.Duration

	// Cause is the underlying error, never shown to clients.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying error for error wrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error kind to its external status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidURL:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindContentTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case KindUpstreamStatus, KindUpstreamConnection:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Classify wraps any failure into a gateway Error. Already-classified
// errors pass through unchanged; fetch errors map onto the upstream
// kinds; everything else becomes an internal error with a generic
// public message.
func Classify(err error) *Error {
	var gatewayErr *Error
	if errors.As(err, &gatewayErr) {
		return gatewayErr
	}

	var timeoutErr *fetch.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &Error{Kind: KindUpstreamTimeout, Detail: "Request timeout", Cause: err}
	}

	var tooLargeErr *fetch.TooLargeError
	if errors.As(err, &tooLargeErr) {
		return &Error{Kind: KindContentTooLarge, Detail: "Content too large", Cause: err}
	}

	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return &Error{
			Kind:   KindUpstreamStatus,
			Detail: fmt.Sprintf("Upstream error: %d", statusErr.StatusCode),
			Cause:  err,
		}
	}

	var connErr *fetch.ConnectionError
	if errors.As(err, &connErr) {
		return &Error{Kind: KindUpstreamConnection, Detail: connErr.Error(), Cause: err}
	}

	return &Error{Kind: KindInternal, Detail: "Internal server error", Cause: err}
}
