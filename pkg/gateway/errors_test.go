package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"inkwell-hq/scribe/pkg/fetch"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   Kind
		wantDetail string
	}{
		{
			name:       "timeout",
			err:        &fetch.TimeoutError{URL: "https://example.com"},
			wantKind:   KindUpstreamTimeout,
			wantDetail: "Request timeout",
		},
		{
			name:       "too large",
			err:        &fetch.TooLargeError{URL: "https://example.com", Limit: 1024},
			wantKind:   KindContentTooLarge,
			wantDetail: "Content too large",
		},
		{
			name:       "upstream status",
			err:        &fetch.StatusError{URL: "https://example.com", StatusCode: 503},
			wantKind:   KindUpstreamStatus,
			wantDetail: "Upstream error: 503",
		},
		{
			name:       "connection failure",
			err:        &fetch.ConnectionError{URL: "https://example.com", Cause: errors.New("connection refused")},
			wantKind:   KindUpstreamConnection,
			wantDetail: `fetch "https://example.com": connection refused`,
		},
		{
			name:       "unrecognized error",
			err:        errors.New("nil pointer somewhere"),
			wantKind:   KindInternal,
			wantDetail: "Internal server error",
		},
		{
			name:       "wrapped fetch error",
			err:        fmt.Errorf("fetching page: %w", &fetch.TimeoutError{URL: "https://example.com"}),
			wantKind:   KindUpstreamTimeout,
			wantDetail: "Request timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if tt.wantDetail != "" && got.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", got.Detail, tt.wantDetail)
			}
		})
	}
}

func TestClassify_PassesThroughOwnErrors(t *testing.T) {
	original := &Error{Kind: KindRateLimited, Detail: "Rate limit exceeded"}

	got := Classify(original)
	if got != original {
		t.Error("Classify() re-wrapped an *Error instead of returning it")
	}

	wrapped := fmt.Errorf("handling request: %w", original)
	if got := Classify(wrapped); got != original {
		t.Error("Classify() did not unwrap to the original *Error")
	}
}

func TestClassify_InternalNeverLeaksCause(t *testing.T) {
	cause := errors.New("pq: connection reset while reading credentials")

	got := Classify(cause)
	if got.Detail != "Internal server error" {
		t.Errorf("Detail = %q, leaked the cause", got.Detail)
	}
	if !errors.Is(got, cause) {
		t.Error("classified error lost its cause for logging")
	}
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidURL, http.StatusBadRequest},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindContentTooLarge, http.StatusRequestEntityTooLarge},
		{KindUpstreamTimeout, http.StatusGatewayTimeout},
		{KindUpstreamStatus, http.StatusBadGateway},
		{KindUpstreamConnection, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
		{Kind("unheard-of"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := &Error{Kind: tt.kind}
			if got := e.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	plain := &Error{Kind: KindInvalidURL, Detail: "Invalid URL format"}
	if got := plain.Error(); got != "invalid_url: Invalid URL format" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("dial tcp: refused")
	withCause := &Error{Kind: KindInternal, Detail: "Internal server error", Cause: cause}
	if got := withCause.Error(); got != "internal: Internal server error: dial tcp: refused" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(withCause, cause) {
		t.Error("Unwrap() does not expose the cause")
	}
}
