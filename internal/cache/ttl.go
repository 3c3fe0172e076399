package cache

import (
	"context"
	"sync"
	"time"
)

// Loader fetches a fresh value for a cache key.
type Loader[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value      V
	observedAt time.Time
}

type call[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// TTL is a read-through cache with a fixed freshness window and per-key
// single-flight loading: while one loader runs for a key, concurrent callers
// for the same key wait on it and share its result instead of issuing their
// own fetches. Stale values are retained so callers can degrade to the
// last-known state when a reload fails.
type TTL[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	entries  map[string]entry[V]
	inflight map[string]*call[V]
}

func NewTTL[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]entry[V]),
		inflight: make(map[string]*call[V]),
	}
}

// Get returns the cached value for key while fresh. On a stale or missing
// entry exactly one loader call runs; concurrent callers block on it and
// receive the same value or error. Loader errors are not cached.
func (c *TTL[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.observedAt) < c.ttl {
		c.mu.Unlock()
		return e.value, nil
	}

	if pending, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-pending.done:
			return pending.value, pending.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	pending := &call[V]{done: make(chan struct{})}
	c.inflight[key] = pending
	c.mu.Unlock()

	value, err := load(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.entries[key] = entry[V]{value: value, observedAt: c.now()}
	}
	c.mu.Unlock()

	pending.value = value
	pending.err = err
	close(pending.done)
	return value, err
}

// Peek returns the last stored value for key regardless of freshness.
func (c *TTL[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, ok
}

// Put stores a value with an explicit observation time.
func (c *TTL[V]) Put(key string, value V, observedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, observedAt: observedAt}
}

// Invalidate drops the entry for key.
func (c *TTL[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// setClock overrides the time source for tests.
func (c *TTL[V]) setClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
