package metrics

import (
	"time"

	"inkwell-hq/scribe/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks metrics for upstream page fetches.
//
// Metrics:
//   - inkwell_scribe_upstream_fetches_total: Fetch count by host and outcome
//   - inkwell_scribe_upstream_fetch_duration_seconds: Fetch latency histogram
//   - inkwell_scribe_upstream_body_bytes: Raw body size histogram
//
// The host label is bounded by the collector's cardinality limiter;
// hosts beyond the limit aggregate into "other".
type UpstreamMetrics struct {
	// Fetch attempt counter
	fetchesTotal *prometheus.CounterVec

	// Fetch latency histogram
	fetchDuration *prometheus.HistogramVec

	// Raw upstream body size histogram
	bodyBytes *prometheus.HistogramVec
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_fetches_total",
				Help:      "Total number of upstream fetch attempts by outcome",
			},
			[]string{"host", "outcome"},
		),

		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_fetch_duration_seconds",
				Help:      "Upstream fetch latency in seconds",
				Buckets:   cfg.RequestDurationBuckets, // Reuse request duration buckets
			},
			[]string{"host"},
		),

		bodyBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_body_bytes",
				Help:      "Size of raw upstream bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 12), // 1KB to 4MB
			},
			[]string{"host"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		um.fetchesTotal,
		um.fetchDuration,
		um.bodyBytes,
	)

	return um
}

// RecordFetch records one upstream fetch attempt.
//
// Parameters:
//   - host: Upstream host
//   - outcome: "ok" or the failure kind
//   - duration: Fetch latency
//   - bodyBytes: Raw body size in bytes (0 when the fetch failed)
//
// Common outcomes:
//   - "ok": Fetch succeeded with a 2xx response
//   - "upstream_timeout": Fetch exceeded the configured deadline
//   - "upstream_status": Upstream answered with a non-2xx status
//   - "upstream_connection": DNS, connection, or TLS failure
//   - "content_too_large": Body exceeded the configured size cap
func (um *UpstreamMetrics) RecordFetch(host, outcome string, duration time.Duration, bodyBytes int) {
	um.fetchesTotal.WithLabelValues(host, outcome).Inc()
	um.fetchDuration.WithLabelValues(host).Observe(duration.Seconds())

	if bodyBytes > 0 {
		um.bodyBytes.WithLabelValues(host).Observe(float64(bodyBytes))
	}
}
