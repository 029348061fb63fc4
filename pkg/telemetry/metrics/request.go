package metrics

import (
	"strconv"
	"time"

	"inkwell-hq/scribe/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks metrics for the client-facing conversion endpoint.
//
// Metrics:
//   - inkwell_scribe_requests_total: Total request count by variant and status
//   - inkwell_scribe_request_duration_seconds: Request duration histogram
//   - inkwell_scribe_response_size_bytes: Response body size histogram
type RequestMetrics struct {
	// Total request count
	requestsTotal *prometheus.CounterVec

	// Request duration histogram
	requestDuration *prometheus.HistogramVec

	// Response body size in bytes
	responseSize *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of conversion requests processed",
			},
			[]string{"variant", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of conversion requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"variant"},
		),

		responseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "response_size_bytes",
				Help:      "Size of response bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 12), // 1KB to 4MB
			},
			[]string{"variant"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.responseSize,
	)

	return rm
}

// RecordRequest records metrics for a completed request.
//
// Parameters:
//   - variant: Output representation ("markdown", "json")
//   - status: HTTP status code sent to the client
//   - duration: Total request duration
//   - responseBytes: Response body size in bytes
func (rm *RequestMetrics) RecordRequest(variant string, status int, duration time.Duration, responseBytes int) {
	code := strconv.Itoa(status)

	rm.requestsTotal.WithLabelValues(variant, code).Inc()
	rm.requestDuration.WithLabelValues(variant).Observe(duration.Seconds())

	if responseBytes > 0 {
		rm.responseSize.WithLabelValues(variant).Observe(float64(responseBytes))
	}
}
