// Package ratelimit provides fixed-window request limiting keyed by
// caller identity, with in-memory and redis-backed implementations.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter reports whether another request is allowed within the window
// for the given key.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps per-key fixed-window counters in process memory.
// Suitable for single-instance deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewMemoryLimiter returns a limiter backed by an in-process map.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow increments the counter for key and reports whether the request
// fits inside the current window. Expired windows reset the counter.
func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[key]
	if !ok || now.After(entry.resetAt) {
		m.entries[key] = &windowEntry{count: 1, resetAt: now.Add(window)}
		return true, nil
	}
	entry.count++
	return entry.count <= limit, nil
}

// Prune drops expired windows. Callers may run it periodically to keep
// the map bounded.
func (m *MemoryLimiter) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, entry := range m.entries {
		if now.After(entry.resetAt) {
			delete(m.entries, key)
		}
	}
}

type counterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// RedisLimiter shares fixed-window counters across instances through redis.
type RedisLimiter struct {
	store counterStore
}

// NewRedisLimiter wraps a redis client as a shared limiter.
func NewRedisLimiter(store counterStore) *RedisLimiter {
	return &RedisLimiter{store: store}
}

// Allow increments the namespaced counter and lets redis key expiry
// close the window.
func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.store.IncrWithTTL(ctx, r.store.RateLimitKey(key), window)
	if err != nil {
		return false, err
	}
	return count <= int64(limit), nil
}
