package limits

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Global implements Limiter with a process-wide token bucket that
// ignores identity. It caps total upstream fetch throughput no matter
// how many distinct clients are active.
type Global struct {
	limiter *rate.Limiter
	burst   int
}

// NewGlobal creates a global limiter refilling at perSecond tokens
// per second with the given burst capacity.
func NewGlobal(perSecond float64, burst int) *Global {
	if burst < 1 {
		burst = 1
	}
	return &Global{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		burst:   burst,
	}
}

// Admit takes one token if available. The identity is ignored.
func (g *Global) Admit(ctx context.Context, identity string) (*Decision, error) {
	if g.limiter.Allow() {
		return &Decision{
			Allowed:   true,
			Limit:     int64(g.burst),
			Remaining: int64(g.limiter.Tokens()),
		}, nil
	}

	// Reserve to learn the wait, then hand the token back.
	res := g.limiter.Reserve()
	retryAfter := res.Delay()
	res.Cancel()

	return &Decision{
		Allowed:    false,
		Limit:      int64(g.burst),
		Remaining:  0,
		Reset:      time.Now().Add(retryAfter),
		RetryAfter: retryAfter,
	}, nil
}

// Close is a no-op; the token bucket holds no resources.
func (g *Global) Close() error {
	return nil
}
