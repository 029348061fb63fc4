// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server applies middleware in a fixed order (innermost to
// outermost):
//
//	handler = Recovery(Logging(RequestID(CORS(config)(Timeout(d)(handler)))))
//
//  1. Timeout: per-request deadline, 504 on overrun
//  2. CORS: cross-origin headers, preflight handling
//  3. RequestID: unique ID in context and X-Request-ID header
//  4. Logging: one structured line per completed request
//  5. Recovery: panics become 500 responses
//
// Recovery sits outermost so it also covers the logging and request ID
// layers. Timeout sits innermost so its deadline excludes middleware
// overhead and the 504 body passes through the logging wrapper.
//
// # Error Bodies
//
// Middleware-produced errors use the same shape as the conversion
// handlers:
//
//	{"detail": "Internal server error"}
//
// # Context Values
//
// RequestID and Logging store values under typed context keys;
// handlers retrieve them with GetRequestID and GetStartTime.
package middleware
