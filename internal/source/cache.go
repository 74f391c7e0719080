package source

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache memoizes one fetched dataset with TTL expiry. A fetch failure after
// expiry serves the stale value instead of nothing, so the dashboard keeps
// working through a source outage. The zero TTL means entries never expire
// on their own; Invalidate is the only way out.
type Cache[T any] struct {
	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	primed    bool
	expired   bool
	ttl       time.Duration

	clock func() time.Time
}

// NewCache creates an empty cache with the given TTL.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl, clock: time.Now}
}

// Get returns the cached value if it is still fresh; otherwise it calls
// fetch and stores the result. When fetch fails and a stale value exists,
// the stale value is returned with stale=true and a nil error.
func (c *Cache[T]) Get(ctx context.Context, fetch func(context.Context) (T, error)) (value T, fetchedAt time.Time, stale bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.primed && !c.expired && (c.ttl <= 0 || now.Sub(c.fetchedAt) < c.ttl) {
		return c.value, c.fetchedAt, false, nil
	}

	fresh, err := fetch(ctx)
	if err != nil {
		if c.primed {
			zap.L().Warn("cache: fetch failed, serving stale data",
				zap.Time("fetched_at", c.fetchedAt),
				zap.Error(err),
			)
			return c.value, c.fetchedAt, true, nil
		}
		var zero T
		return zero, time.Time{}, false, err
	}

	c.value = fresh
	c.fetchedAt = now
	c.primed = true
	c.expired = false
	return c.value, c.fetchedAt, false, nil
}

// Put primes the cache directly, e.g. from a snapshot loaded at startup.
func (c *Cache[T]) Put(value T, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.fetchedAt = fetchedAt
	c.primed = true
	c.expired = false
}

// Invalidate expires the cached value so the next Get must fetch. The value
// itself stays behind as a stale fallback should that fetch fail.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expired = true
}

// Primed reports whether the cache currently holds a value.
func (c *Cache[T]) Primed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.primed
}
