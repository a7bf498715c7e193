// Package query is a keyed read cache with stale times, per-key request dedupe and
// predicate invalidation.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"service-rider-web/internal/logx"
)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache stores read results per Key.
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]entry
	inflight  map[Key]uint64
	lastSweep time.Time

	group     singleflight.Group
	staleTime time.Duration
	perKind   map[Kind]time.Duration
	now       func() time.Time
	logger    logx.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithKindStaleTime overrides the stale time for one kind.
func WithKindStaleTime(kind Kind, d time.Duration) Option {
	return func(c *Cache) { c.perKind[kind] = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a Cache whose entries are fresh for staleTime.
func NewCache(staleTime time.Duration, logger logx.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = logx.Nop()
	}
	c := &Cache{
		entries:   make(map[Key]entry),
		inflight:  make(map[Key]uint64),
		staleTime: staleTime,
		perKind:   make(map[Kind]time.Duration),
		now:       time.Now,
		logger:    logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Cache) staleFor(k Kind) time.Duration {
	if d, ok := c.perKind[k]; ok {
		return d
	}
	return c.staleTime
}

func (c *Cache) lookup(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.maybeSweep(now)
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(e.fetchedAt) >= c.staleFor(key.Kind) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) sweepInterval() time.Duration {
	longest := c.staleTime
	for _, d := range c.perKind {
		longest = max(longest, d)
	}
	return max(time.Minute, longest/2)
}

// maybeSweep drops every stale entry at most once per sweep interval. Caller holds mu.
func (c *Cache) maybeSweep(now time.Time) {
	if now.Sub(c.lastSweep) < c.sweepInterval() {
		return
	}
	c.lastSweep = now
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.staleFor(k.Kind) {
			delete(c.entries, k)
		}
	}
}

// begin marks key as being fetched. At most one fetch per key runs at a time.
func (c *Cache) begin(key Key) {
	c.mu.Lock()
	c.inflight[key] = 0
	c.mu.Unlock()
}

// finish keeps v unless the key was invalidated while the fetch was in flight.
func (c *Cache) finish(key Key, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	invalidated := c.inflight[key] > 0
	delete(c.inflight, key)
	if err != nil || invalidated {
		return
	}
	c.entries[key] = entry{value: v, fetchedAt: c.now()}
}

// Invalidate drops every entry matching p and returns how many were dropped.
func (c *Cache) Invalidate(p Predicate) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if p(k) {
			delete(c.entries, k)
			n++
		}
	}
	for k := range c.inflight {
		if p(k) {
			c.inflight[k]++
		}
	}
	return n
}

// Len returns the number of cached entries, including stale ones not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fetch returns the fresh cached value for key or calls fn once for all concurrent callers
// and caches its result. Errors are never cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.lookup(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	// The shared call outlives any single waiter; values (the bearer token) are kept.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		c.begin(key)
		v, err := fn(shared)
		c.finish(key, v, err)
		if err != nil {
			return nil, err
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.logger.Debug("query fetch failed", logx.String("key", key.String()), logx.Err(res.Err))
			return zero, res.Err
		}
		t, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("query: key %s holds %T", key, res.Val)
		}
		return t, nil
	}
}
