// Package cache holds fully built search responses for a fixed TTL.
// Entries are never evicted in the background; a stale entry is dropped
// by the lookup that finds it.
package cache

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
)

// DefaultTTL is how long a response stays valid after it was stored.
const DefaultTTL = 30 * time.Minute

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Entry is one stored value and the time it was created.
type Entry[V any] struct {
	Value     V         `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the backing map. Implementations must be safe for concurrent
// use. Get reports ok=false for an absent key.
type Store[V any] interface {
	Get(ctx context.Context, key string) (Entry[V], bool, error)
	Set(ctx context.Context, key string, e Entry[V]) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Cache applies the TTL rule on top of a Store. An entry is valid while
// now - CreatedAt < TTL. Store failures are logged and read as misses.
type Cache[V any] struct {
	mu    sync.Mutex
	store Store[V]
	ttl   time.Duration
	now   Clock
	log   *zap.SugaredLogger
}

// New returns a Cache over store. A zero ttl means DefaultTTL; a nil clock
// means time.Now.
func New[V any](store Store[V], ttl time.Duration, clock Clock, log *zap.SugaredLogger) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Cache[V]{store: store, ttl: ttl, now: clock, log: log}
}

// TTL returns the validity window.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// Get returns the entry for key when it is still valid.
func (c *Cache[V]) Get(ctx context.Context, key string) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warnw("cache read failed", "key", key, "error", err)
		return Entry[V]{}, false
	}
	if !ok {
		return Entry[V]{}, false
	}
	if c.now().Sub(e.CreatedAt) >= c.ttl {
		c.log.Debugw("cache entry expired", "key", key, "created_at", e.CreatedAt)
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warnw("cache delete failed", "key", key, "error", err)
		}
		return Entry[V]{}, false
	}
	return e, true
}

// Set stores v under key, stamped with the current time, and returns the
// stored entry.
func (c *Cache[V]) Set(ctx context.Context, key string, v V) Entry[V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := Entry[V]{Value: v, CreatedAt: c.now()}
	if err := c.store.Set(ctx, key, e); err != nil {
		c.log.Warnw("cache write failed", "key", key, "error", err)
	}
	return e
}

// Clear discards every entry.
func (c *Cache[V]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clear(ctx)
}

// Key builds the cache key from the exact query and location and the
// sorted source set. Query text is not normalised.
func Key(query, location string, sources []model.Source) string {
	tags := make([]string, len(sources))
	for i, s := range sources {
		tags[i] = string(s)
	}
	slices.Sort(tags)
	tags = slices.Compact(tags)
	return query + ":" + location + ":" + strings.Join(tags, "-")
}
