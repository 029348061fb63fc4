// Package gateway orchestrates one conversion request from identity
// resolution to serialized result.
//
// # Pipeline
//
// Each request runs the same short-circuiting sequence:
//
//  1. Resolve the client identity (only when a limiter is configured)
//  2. Rate-limit check; rejected callers pay no upstream cost
//  3. Percent-decode and validate the target URL
//  4. Cache lookup; a hit returns immediately
//  5. Upstream fetch with timeout and size cap
//  6. Conversion to the requested variant
//  7. Write-through cache store, empty results included
//
// Failures at any step are classified into exactly one Error kind and
// mapped to an HTTP status at the boundary. Partial results are never
// returned.
//
// # Collaborators
//
// The gateway depends only on interfaces: a Fetcher for upstream
// retrieval, a Converter for rendering, an optional limits.Limiter,
// and an optional cache.Cache. A nil limiter admits everything; a nil
// cache misses everything.
//
// Degradation policy: limiter and cache backend failures are logged
// and the request proceeds (fail open, treat as miss). Only the fetch
// and conversion steps can fail a request.
package gateway
