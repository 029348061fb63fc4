package limits

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestInstrument_NilMetricsReturnsLimiterUnwrapped(t *testing.T) {
	stub := allowStub(5, 4)

	if got := Instrument("client", stub, nil); got != Limiter(stub) {
		t.Error("Instrument() with nil metrics wrapped the limiter")
	}
	if got := Instrument("client", nil, NewMetrics(prometheus.NewRegistry())); got != nil {
		t.Error("Instrument() with nil limiter returned non-nil")
	}
}

func TestInstrument_DelegatesDecision(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	stub := denyStub(10 * time.Second)

	wrapped := Instrument("client", stub, metrics)

	decision, err := wrapped.Admit(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Admit() failed: %v", err)
	}
	if decision.Allowed {
		t.Error("Admit() allowed, want stub's rejection")
	}
	if decision.RetryAfter != 10*time.Second {
		t.Errorf("RetryAfter = %v, want 10s", decision.RetryAfter)
	}
	if stub.calls != 1 {
		t.Errorf("stub calls = %d, want 1", stub.calls)
	}

	if err := wrapped.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if !stub.closed {
		t.Error("Close() did not reach wrapped limiter")
	}
}
