package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is one cached payload with its bookkeeping.
type memoryEntry struct {
	payload        []byte
	expiresAt      time.Time
	createdAt      time.Time
	lastAccessedAt time.Time
	accessCount    int64
}

// Memory implements Cache with an in-process map, TTL expiry and LRU
// eviction. When the cache reaches max capacity, it evicts the least
// recently accessed entry.
type Memory struct {
	// entries maps cache keys to stored payloads
	entries map[string]*memoryEntry

	// ttl is the time-to-live for entries (0 = no expiry)
	ttl time.Duration

	// maxEntries is the maximum number of entries (0 = unlimited)
	maxEntries int

	// mu protects concurrent access to the cache
	mu sync.RWMutex

	// stopCh signals the cleanup goroutine to stop
	stopCh    chan struct{}
	closeOnce sync.Once

	// cleanupInterval is how often to run expiry cleanup
	cleanupInterval time.Duration
}

// NewMemory creates an in-process cache with the specified TTL and max
// entries. If ttl is 0, entries never expire. If maxEntries is 0, the
// cache has unlimited size. The cleanup interval defaults to ttl/2,
// floored at 10 seconds.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	cleanupInterval := time.Minute
	if ttl > 0 {
		cleanupInterval = ttl / 2
		if cleanupInterval < 10*time.Second {
			cleanupInterval = 10 * time.Second
		}
	}

	m := &Memory{
		entries:         make(map[string]*memoryEntry),
		ttl:             ttl,
		maxEntries:      maxEntries,
		stopCh:          make(chan struct{}),
		cleanupInterval: cleanupInterval,
	}

	// Background cleanup only matters when entries can expire.
	if ttl > 0 {
		go m.cleanupExpired()
	}

	return m
}

// Get retrieves a payload from the cache. Expired entries read as
// absent. Callers must not mutate the returned slice.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	if !ok {
		m.mu.RUnlock()
		return nil, false, nil
	}
	if m.ttl > 0 && time.Now().After(entry.expiresAt) {
		m.mu.RUnlock()
		return nil, false, nil
	}
	payload := entry.payload
	m.mu.RUnlock()

	// Touch access time and count with the write lock.
	m.mu.Lock()
	// Re-check: the entry may have been deleted between locks.
	if entry, ok := m.entries[key]; ok {
		entry.lastAccessedAt = time.Now()
		entry.accessCount++
	}
	m.mu.Unlock()

	return payload, true, nil
}

// Set stores a payload with the configured TTL. If the cache is full,
// the least recently used entry is evicted first.
func (m *Memory) Set(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		// Only evict when the key is new; replacements fit in place.
		if _, exists := m.entries[key]; !exists {
			m.evictLRU()
		}
	}

	now := time.Now()
	expiresAt := time.Time{} // Zero time = no expiry
	if m.ttl > 0 {
		expiresAt = now.Add(m.ttl)
	}

	m.entries[key] = &memoryEntry{
		payload:        payload,
		expiresAt:      expiresAt,
		createdAt:      now,
		lastAccessedAt: now,
		accessCount:    1,
	}
	return nil
}

// Delete removes an entry from the cache.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

// Size returns the current number of entries.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Clear removes all entries from the cache.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*memoryEntry)
}

// Close stops the background cleanup goroutine. After calling Close,
// the cache should not be used.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		close(m.stopCh)
	})
	return nil
}

// evictLRU evicts the least recently used entry.
// Must be called with the write lock held.
func (m *Memory) evictLRU() {
	if len(m.entries) == 0 {
		return
	}

	var oldestKey string
	var oldestTime time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.lastAccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

// cleanupExpired runs periodically to drop expired entries.
// Runs in a background goroutine until Close() is called.
func (m *Memory) cleanupExpired() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stopCh:
			return
		}
	}
}

// removeExpired removes all expired entries from the cache.
func (m *Memory) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttl == 0 {
		return
	}

	now := time.Now()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}
