package limits

import (
	"context"
	"testing"
	"time"
)

func TestGlobal_Admit_BurstThenReject(t *testing.T) {
	ctx := context.Background()
	g := NewGlobal(1, 2) // 1 token/sec, burst 2

	for i := 0; i < 2; i++ {
		decision, err := g.Admit(ctx, "203.0.113.7")
		if err != nil {
			t.Fatalf("Admit() %d failed: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("Admit() %d rejected within burst", i)
		}
	}

	decision, err := g.Admit(ctx, "203.0.113.7")
	if err != nil {
		t.Fatalf("Admit() failed: %v", err)
	}
	if decision.Allowed {
		t.Error("Admit() beyond burst allowed, want rejected")
	}
	if decision.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", decision.RetryAfter)
	}
}

func TestGlobal_Admit_RefillsOverTime(t *testing.T) {
	ctx := context.Background()
	g := NewGlobal(100, 1) // refills every 10ms

	if d, _ := g.Admit(ctx, "203.0.113.7"); !d.Allowed {
		t.Fatal("first Admit() rejected")
	}
	if d, _ := g.Admit(ctx, "203.0.113.7"); d.Allowed {
		t.Fatal("Admit() with empty bucket allowed")
	}

	time.Sleep(50 * time.Millisecond)

	if d, _ := g.Admit(ctx, "203.0.113.7"); !d.Allowed {
		t.Error("Admit() after refill rejected")
	}
}

func TestGlobal_Admit_IgnoresIdentity(t *testing.T) {
	ctx := context.Background()
	g := NewGlobal(1, 1)

	if d, _ := g.Admit(ctx, "203.0.113.7"); !d.Allowed {
		t.Fatal("first Admit() rejected")
	}

	// A different identity draws from the same bucket.
	if d, _ := g.Admit(ctx, "198.51.100.23"); d.Allowed {
		t.Error("global budget not shared across identities")
	}
}

func TestGlobal_MinimumBurst(t *testing.T) {
	ctx := context.Background()
	g := NewGlobal(1, 0)

	if d, _ := g.Admit(ctx, "203.0.113.7"); !d.Allowed {
		t.Error("Admit() with coerced burst rejected")
	}
	if d, _ := g.Admit(ctx, "203.0.113.7"); d.Allowed {
		t.Error("second Admit() allowed, want burst of 1")
	}
}
