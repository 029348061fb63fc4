// Package fetch retrieves upstream web pages over a pooled HTTP client.
//
// Client performs a single GET per call. There is no retry logic:
// callers surface upstream failures to their own clients immediately,
// and a failed fetch is never worth a second upstream round trip.
// Failures are reported as typed errors (TimeoutError, StatusError,
// TooLargeError, ConnectionError) so callers can map them onto their
// own error taxonomy with errors.As.
//
// Response bodies are read through a cap of MaxBodyBytes plus one, so
// an oversized document is detected without buffering it whole.
//
// # Thread Safety
//
// Client is safe for concurrent use; it shares one http.Transport
// across all calls.
package fetch
