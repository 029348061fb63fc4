// Package limits provides per-client and global rate limiting for
// conversion requests.
//
// # Overview
//
// The limits package implements fixed-window rate limiting keyed by
// client identity, plus an optional process-wide throughput guard:
//
//   - Fixed window: at most N admissions per identity per window
//   - Global: token bucket capping total throughput across identities
//
// # Fixed Window
//
// Each identity gets a counter scoped to the current window. The
// window boundary is the wall clock truncated to the window length,
// so all limiter backends agree on where windows start. The first N
// requests in a window are admitted; the rest are rejected until the
// window rolls over.
//
//	limiter := limits.NewMemory(&limits.MemoryConfig{
//	    Limit:  60,
//	    Window: time.Minute,
//	})
//	decision, err := limiter.Admit(ctx, clientIP)
//	if err == nil && !decision.Allowed {
//	    // Reject with Retry-After from decision.RetryAfter
//	}
//
// # Backends
//
// Three fixed-window backends are provided:
//
//   - Memory: in-process counters, reset on restart
//   - SQLite: durable counters, survive restarts
//   - Redis: shared counters for multi-instance deployments
//
// Backends can be combined with a Chain, which admits a request only
// when every limiter in the chain admits it.
//
// # Thread Safety
//
// All limiters are safe for concurrent use.
package limits
