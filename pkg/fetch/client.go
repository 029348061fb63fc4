package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Config controls the upstream HTTP client.
type Config struct {
	// Timeout bounds the whole fetch, connection through body read
	Timeout time.Duration

	// MaxBodyBytes caps how much of an upstream body is read.
	// Zero means unlimited.
	MaxBodyBytes int64

	// UserAgent is sent with every upstream request
	UserAgent string

	// MaxIdleConns is the connection pool size across all hosts
	MaxIdleConns int

	// MaxIdleConnsPerHost is the connection pool size per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept pooled
	IdleConnTimeout time.Duration
}

// Result is a fetched upstream document.
type Result struct {
	// Body is the raw response body
	Body []byte

	// StatusCode is the upstream HTTP status
	StatusCode int

	// ContentType is the upstream Content-Type header, verbatim
	ContentType string
}

// Client fetches upstream pages over a pooled HTTP transport.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates an upstream client with connection pooling.
func NewClient(config Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		DisableCompression:  false,
		// Enable HTTP/2
		ForceAttemptHTTP2: true,
	}

	return &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Fetch retrieves the page at rawURL. Redirects are followed. Any
// status outside the 2xx range on the final response is returned as a
// StatusError; bodies longer than MaxBodyBytes are returned as a
// TooLargeError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &ConnectionError{URL: rawURL, Cause: err}
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	slog.Debug("fetching upstream", "url", rawURL)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{URL: rawURL, Timeout: c.config.Timeout}
		}
		return nil, &ConnectionError{URL: rawURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	var reader io.Reader = resp.Body
	if c.config.MaxBodyBytes > 0 {
		// One byte past the cap is enough to tell "at the cap" from
		// "over it".
		reader = io.LimitReader(resp.Body, c.config.MaxBodyBytes+1)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{URL: rawURL, Timeout: c.config.Timeout}
		}
		return nil, &ConnectionError{URL: rawURL, Cause: err}
	}
	if c.config.MaxBodyBytes > 0 && int64(len(body)) > c.config.MaxBodyBytes {
		return nil, &TooLargeError{URL: rawURL, Limit: c.config.MaxBodyBytes}
	}

	return &Result{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Close releases pooled connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// isTimeout reports whether err (or the request context) indicates a
// deadline rather than a reachability problem.
func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return false
}
