package limits

import (
	"context"
	"sync"
	"time"
)

// MemoryConfig configures the in-memory fixed-window limiter.
type MemoryConfig struct {
	// Limit is the maximum number of admissions per identity per
	// window. 0 means unlimited.
	Limit int64

	// Window is the fixed window length.
	// Default: 1 minute
	Window time.Duration
}

// DefaultMemoryConfig returns the default in-memory limiter configuration.
func DefaultMemoryConfig() *MemoryConfig {
	return &MemoryConfig{
		Limit:  60,
		Window: time.Minute,
	}
}

// window tracks admissions for one identity within one fixed window.
type window struct {
	start time.Time
	count int64
}

// Memory implements Limiter with in-process fixed-window counters.
// Counters reset on restart.
type Memory struct {
	config *MemoryConfig

	mu      sync.Mutex
	windows map[string]*window

	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewMemory creates an in-memory fixed-window limiter. A background
// sweeper drops windows that ended more than one window ago.
func NewMemory(config *MemoryConfig) *Memory {
	if config == nil {
		config = DefaultMemoryConfig()
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	m := &Memory{
		config:  config,
		windows: make(map[string]*window),
		stopCh:  make(chan struct{}),
	}

	go m.sweepLoop()

	return m
}

// Admit checks and records one request for the identity.
func (m *Memory) Admit(ctx context.Context, identity string) (*Decision, error) {
	now := time.Now()
	start := now.Truncate(m.config.Window)
	reset := start.Add(m.config.Window)

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[identity]
	if !ok || w.start.Before(start) {
		w = &window{start: start}
		m.windows[identity] = w
	}

	if m.config.Limit > 0 && w.count >= m.config.Limit {
		return &Decision{
			Allowed:    false,
			Limit:      m.config.Limit,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: reset.Sub(now),
		}, nil
	}

	w.count++

	var remaining int64
	if m.config.Limit > 0 {
		remaining = m.config.Limit - w.count
	}

	return &Decision{
		Allowed:   true,
		Limit:     m.config.Limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

// Size returns the number of tracked identities.
func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// Close stops the background sweeper. Close is idempotent.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		close(m.stopCh)
	})
	return nil
}

// sweepLoop periodically drops stale windows so identities that went
// quiet do not accumulate forever.
func (m *Memory) sweepLoop() {
	interval := m.config.Window
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep(time.Now().Add(-2 * m.config.Window))
		case <-m.stopCh:
			return
		}
	}
}

// sweep removes windows that started before the cutoff.
func (m *Memory) sweep(cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for identity, w := range m.windows {
		if w.start.Before(cutoff) {
			delete(m.windows, identity)
		}
	}
}
