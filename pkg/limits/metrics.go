package limits

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for the limits package.
//
// Labels carry the limiter name ("per_client", "upstream"), never the
// identity: identities are client addresses and would blow up metric
// cardinality.
type Metrics struct {
	checks        *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance registered with reg. A nil
// reg falls back to the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_limits_checks_total",
				Help: "Total number of rate limit checks performed",
			},
			[]string{"limiter", "result"},
		),

		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_limits_rejections_total",
				Help: "Total number of requests rejected by rate limiting",
			},
			[]string{"limiter"},
		),

		checkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scribe_limits_check_duration_seconds",
				Help:    "Duration of rate limit checks in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"limiter"},
		),
	}
}

// RecordCheck records the outcome of a rate limit check.
func (m *Metrics) RecordCheck(limiter string, allowed bool) {
	result := "allowed"
	if !allowed {
		result = "blocked"
		m.rejections.WithLabelValues(limiter).Inc()
	}
	m.checks.WithLabelValues(limiter, result).Inc()
}

// RecordCheckDuration records how long a rate limit check took.
func (m *Metrics) RecordCheckDuration(limiter string, duration time.Duration) {
	m.checkDuration.WithLabelValues(limiter).Observe(duration.Seconds())
}

// instrumented wraps a Limiter with check metrics.
type instrumented struct {
	name    string
	next    Limiter
	metrics *Metrics
}

// Instrument wraps a limiter so every Admit records check metrics
// under the given limiter name. A nil metrics or limiter is returned
// unwrapped.
func Instrument(name string, next Limiter, metrics *Metrics) Limiter {
	if next == nil || metrics == nil {
		return next
	}
	return &instrumented{
		name:    name,
		next:    next,
		metrics: metrics,
	}
}

// Admit delegates to the wrapped limiter and records the outcome.
func (i *instrumented) Admit(ctx context.Context, identity string) (*Decision, error) {
	start := time.Now()
	decision, err := i.next.Admit(ctx, identity)
	i.metrics.RecordCheckDuration(i.name, time.Since(start))

	if err == nil && decision != nil {
		i.metrics.RecordCheck(i.name, decision.Allowed)
	}

	return decision, err
}

// Close delegates to the wrapped limiter.
func (i *instrumented) Close() error {
	return i.next.Close()
}
