// Package server provides the HTTP server for the page conversion gateway.
//
// This package ties together the gateway, its handlers, and the middleware
// chain, and provides server lifecycle management including start, graceful
// shutdown, and signal handling.
//
// # Basic Usage
//
// Creating and starting a server:
//
//	import (
//	    "context"
//	    "inkwell-hq/scribe/pkg/config"
//	    "inkwell-hq/scribe/pkg/gateway"
//	    "inkwell-hq/scribe/pkg/server"
//	)
//
//	if err := config.Initialize(configPath); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
//	gw, err := gateway.New(gateway.Config{...})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv := server.NewServer(cfg, gw, server.Options{})
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until the context is cancelled, a SIGTERM/SIGINT arrives,
// Stop is called, or the listener fails.
//
// # Routes
//
// The server routes by hand rather than through http.ServeMux: conversion
// targets such as /https://example.com contain consecutive slashes that
// ServeMux would clean and redirect away. Fixed paths dispatch first:
//
//   - GET /          - index.html when a static directory is configured,
//     404 otherwise
//   - GET /health    - liveness probe, always {"status":"ok"}
//   - GET /ready     - readiness probe, runs registered component checks
//   - GET /version   - build information
//   - GET /metrics   - Prometheus metrics (when enabled)
//   - GET /favicon.ico - served from the static directory, 404 when
//     missing or no directory is configured
//   - GET /static/*  - static assets (when the directory holds index.html)
//
// Every other path is a conversion request: the path after the leading
// slash is the target URL, and the format query parameter selects the
// output variant.
//
// The probe and metrics paths above are the defaults; they follow the
// telemetry config sections.
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. Timeout: enforces the per-request deadline (write_timeout)
//  2. CORS: adds Cross-Origin Resource Sharing headers
//  3. Logging: logs request/response details
//  4. RequestID: assigns the X-Request-ID
//  5. Recovery: turns panics into 500 responses
//
// # Graceful Shutdown
//
// The shutdown process:
//  1. Stops accepting new connections
//  2. Waits for active requests to complete (up to shutdown_timeout)
//  3. Forces connection closure if the timeout is exceeded
//
// # Thread Safety
//
// All server operations are safe for concurrent use.
package server
