package limits

import (
	"context"
	"time"
)

// Decision contains the result of a rate limit check.
type Decision struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Limit is the configured limit value. 0 means unlimited.
	Limit int64

	// Remaining is how many admissions remain in the window.
	Remaining int64

	// Reset is when the limit window resets.
	Reset time.Time

	// RetryAfter suggests how long to wait before retrying.
	RetryAfter time.Duration
}

// Limiter decides whether a request from an identity may proceed.
// Implementations must be thread-safe.
type Limiter interface {
	// Admit checks and records one request for the identity. A nil
	// error with Allowed=false means the limit is exhausted; an error
	// means the backend could not decide.
	Admit(ctx context.Context, identity string) (*Decision, error)

	// Close releases any resources held by the limiter.
	Close() error
}

// Chain combines limiters; a request is admitted only when every
// limiter in the chain admits it. The first rejection wins and later
// limiters are not consulted (and not charged).
type Chain struct {
	limiters []Limiter
}

// NewChain creates a chain from the given limiters. Nil entries are
// skipped, so optional limiters can be passed unconditionally.
func NewChain(limiters ...Limiter) *Chain {
	chain := &Chain{}
	for _, l := range limiters {
		if l != nil {
			chain.limiters = append(chain.limiters, l)
		}
	}
	return chain
}

// Admit runs the chain in order. When every limiter admits, the first
// limiter's decision is returned so callers see the narrowest
// per-identity budget. An empty chain admits everything.
func (c *Chain) Admit(ctx context.Context, identity string) (*Decision, error) {
	var first *Decision

	for _, l := range c.limiters {
		decision, err := l.Admit(ctx, identity)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return decision, nil
		}
		if first == nil {
			first = decision
		}
	}

	if first == nil {
		return &Decision{Allowed: true}, nil
	}
	return first, nil
}

// Close closes every limiter in the chain, returning the first error.
func (c *Chain) Close() error {
	var firstErr error
	for _, l := range c.limiters {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
