// Package metrics provides Prometheus metrics collection for scribe.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring the
// conversion pipeline: client-facing request traffic, upstream page
// fetches, and cache effectiveness. Everything registers on one registry
// so a single /metrics endpoint serves the whole process.
//
// # Metrics Categories
//
//   - Request Metrics: Request count, duration, and response sizes by
//     output variant and status code
//   - Upstream Metrics: Fetch count, latency, and body sizes by host
//     and outcome
//   - Cache Metrics: Cache hits and misses
//
// The rate limiter registers its own counters on the shared registry
// via limits.NewMetrics.
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(cfg, nil)
//
//	// Record request metrics
//	collector.RecordRequest("markdown", 200, 1200*time.Millisecond, 4096)
//
//	// Record upstream metrics
//	collector.ObserveFetch("example.com", "ok", 300*time.Millisecond, 18432)
//
//	// Record cache metrics
//	collector.RecordCacheHit("page")
//
// # Cardinality
//
// Target URLs name arbitrary hosts, so the host label would be unbounded
// without intervention. A cardinality limiter caps unique label sets at
// 10K; hosts beyond the cap aggregate into "other".
//
// # Custom Histogram Buckets
//
// Request duration buckets come from the configuration and default to
// a range covering page fetch plus conversion latencies:
//
//	Request Duration: 0.1s, 0.25s, 0.5s, 1s, 2s, 5s, 10s, 30s
//	Body Sizes: exponential, 1KB to 4MB
//
// # Prometheus Endpoint
//
// All metrics are exposed on the configured metrics path in standard
// Prometheus exposition format via Collector.Handler.
package metrics
