package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func BenchmarkRecordRequest(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordRequest("markdown", 200, 250*time.Millisecond, 4096)
	}
}

func BenchmarkObserveFetch(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.ObserveFetch("example.com", "ok", 250*time.Millisecond, 18432)
	}
}

func BenchmarkCardinalityLimiter_Allow(b *testing.B) {
	limiter := NewCardinalityLimiter(10000)
	limiter.Allow("fetch:example.com")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("fetch:example.com")
	}
}
