package limits

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubLimiter returns a fixed decision or error and records calls.
type stubLimiter struct {
	decision *Decision
	err      error
	calls    int
	closed   bool
}

func (s *stubLimiter) Admit(ctx context.Context, identity string) (*Decision, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.decision, nil
}

func (s *stubLimiter) Close() error {
	s.closed = true
	return nil
}

func allowStub(limit, remaining int64) *stubLimiter {
	return &stubLimiter{decision: &Decision{Allowed: true, Limit: limit, Remaining: remaining}}
}

func denyStub(retryAfter time.Duration) *stubLimiter {
	return &stubLimiter{decision: &Decision{Allowed: false, RetryAfter: retryAfter}}
}

func TestChain_AllAllowedReturnsFirstDecision(t *testing.T) {
	perClient := allowStub(5, 2)
	global := allowStub(100, 99)

	chain := NewChain(perClient, global)

	decision, err := chain.Admit(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Admit() failed: %v", err)
	}

	if !decision.Allowed {
		t.Error("Admit() rejected, want allowed")
	}
	if decision.Limit != 5 || decision.Remaining != 2 {
		t.Errorf("decision = limit %d remaining %d, want first limiter's 5/2",
			decision.Limit, decision.Remaining)
	}

	if perClient.calls != 1 || global.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", perClient.calls, global.calls)
	}
}

func TestChain_FirstRejectionWins(t *testing.T) {
	first := allowStub(5, 4)
	second := denyStub(30 * time.Second)
	third := allowStub(100, 99)

	chain := NewChain(first, second, third)

	decision, err := chain.Admit(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Admit() failed: %v", err)
	}

	if decision.Allowed {
		t.Error("Admit() allowed, want rejected")
	}
	if decision.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", decision.RetryAfter)
	}

	if third.calls != 0 {
		t.Errorf("limiter after rejection consulted %d times, want 0", third.calls)
	}
}

func TestChain_EmptyAdmitsEverything(t *testing.T) {
	chain := NewChain()

	for i := 0; i < 10; i++ {
		decision, err := chain.Admit(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("Admit() failed: %v", err)
		}
		if !decision.Allowed {
			t.Fatal("empty chain rejected a request")
		}
	}
}

func TestChain_SkipsNilLimiters(t *testing.T) {
	stub := allowStub(5, 4)

	chain := NewChain(nil, stub, nil)

	decision, err := chain.Admit(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Admit() failed: %v", err)
	}
	if !decision.Allowed {
		t.Error("Admit() rejected, want allowed")
	}
	if stub.calls != 1 {
		t.Errorf("stub calls = %d, want 1", stub.calls)
	}
}

func TestChain_PropagatesError(t *testing.T) {
	broken := &stubLimiter{err: errors.New("backend down")}

	chain := NewChain(allowStub(5, 4), broken)

	decision, err := chain.Admit(context.Background(), "203.0.113.7")
	if err == nil {
		t.Fatal("Admit() succeeded, want error")
	}
	if decision != nil {
		t.Errorf("decision = %+v, want nil on error", decision)
	}
}

func TestChain_CloseClosesAll(t *testing.T) {
	first := allowStub(5, 4)
	second := allowStub(100, 99)

	chain := NewChain(first, second)

	if err := chain.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if !first.closed || !second.closed {
		t.Errorf("closed = %v/%v, want true/true", first.closed, second.closed)
	}
}
