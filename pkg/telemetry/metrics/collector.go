package metrics

import (
	"fmt"
	"sync"
	"time"

	"inkwell-hq/scribe/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics in scribe.
// It manages metric registration and provides a unified interface for
// recording metrics across the request pipeline.
//
// All Record* methods are cheap no-ops when metrics are disabled, so
// callers never need to guard their call sites.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestMetrics *RequestMetrics

	// Upstream fetch metrics
	upstreamMetrics *UpstreamMetrics

	// Cache metrics
	cacheMetrics *CacheMetrics

	// Cardinality tracking for the upstream host label
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "inkwell",
//		Subsystem: "scribe",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = "inkwell"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "scribe"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		// Covers page fetch plus conversion latencies (100ms - 30s)
		cfg.RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000), // Max 10K unique label sets
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)

	return c
}

// RecordRequest records metrics for a completed conversion request.
//
// Parameters:
//   - variant: Output representation ("markdown", "json")
//   - status: HTTP status code sent to the client
//   - duration: Total request duration
//   - responseBytes: Response body size in bytes
func (c *Collector) RecordRequest(variant string, status int, duration time.Duration, responseBytes int) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordRequest(variant, status, duration, responseBytes)
}

// ObserveFetch records one upstream fetch attempt. It satisfies the
// gateway's Observer interface.
//
// Parameters:
//   - host: Upstream host the fetch targeted
//   - outcome: "ok" or the failure kind ("upstream_timeout",
//     "upstream_status", "upstream_connection", "content_too_large")
//   - duration: Time spent on the fetch alone
//   - bodyBytes: Raw body size in bytes (0 on failure)
func (c *Collector) ObserveFetch(host, outcome string, duration time.Duration, bodyBytes int) {
	if !c.config.Enabled {
		return
	}

	// Check cardinality limit on the host label
	labelSet := fmt.Sprintf("fetch:%s", host)
	if !c.cardinalityLimiter.Allow(labelSet) {
		// Aggregate into "other" to prevent cardinality explosion
		host = "other"
	}

	c.upstreamMetrics.RecordFetch(host, outcome, duration, bodyBytes)
}

// RecordCacheHit records a cache hit.
//
// Parameters:
//   - cacheName: Name of the cache (e.g., "page")
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordHit(cacheName)
}

// RecordCacheMiss records a cache miss.
//
// Parameters:
//   - cacheName: Name of the cache
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordMiss(cacheName)
}

// Registry returns the Prometheus registry used by this collector.
// Components that register their own metrics (such as the rate limiter
// instrumentation) share it so everything surfaces on one endpoint.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric. Target URLs name
// arbitrary hosts, so the host label is unbounded without it.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the
// specified maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
