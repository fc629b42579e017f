package resilience

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BaSui01/marketflow/types"
)

// FetchFunc loads a fresh payload for a cache key.
type FetchFunc func(ctx context.Context) (map[string]any, error)

// Entry is a cache read result. Stale marks a payload served past its TTL
// because the refresh failed.
type Entry struct {
	Payload   map[string]any
	FetchedAt time.Time
	Stale     bool
}

type cacheEntry struct {
	payload   map[string]any
	fetchedAt time.Time
}

// Cache is a TTL cache with stale fallback. It is owned by a single node;
// entries are replaced on refresh, never merged.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
	logger  *zap.Logger

	// now is the clock, injectable in tests.
	now func() time.Time
}

// NewCache creates an empty cache.
func NewCache(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		logger:  logger.With(zap.String("component", "cache")),
		now:     time.Now,
	}
}

// GetOrFetch returns the cached payload for key when it is younger than ttl.
// Otherwise it calls fetch: on success the entry is replaced and returned; on
// failure a stale entry, if any, is returned annotated as stale instead of
// propagating the error. With no entry at all the fetch error propagates.
//
// Concurrent misses for the same key collapse into a single underlying fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (*Entry, error) {
	c.mu.Lock()
	prev, hadPrev := c.entries[key]
	c.mu.Unlock()

	if hadPrev && c.now().Sub(prev.fetchedAt) < ttl {
		return &Entry{Payload: prev.payload, FetchedAt: prev.fetchedAt}, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have refreshed the entry while we waited.
		c.mu.Lock()
		cur, ok := c.entries[key]
		c.mu.Unlock()
		if ok && c.now().Sub(cur.fetchedAt) < ttl {
			return cur, nil
		}

		payload, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		fresh := cacheEntry{payload: payload, fetchedAt: c.now()}
		c.mu.Lock()
		c.entries[key] = fresh
		c.mu.Unlock()
		return fresh, nil
	})

	if err != nil {
		if hadPrev {
			c.logger.Warn("fetch failed, serving stale entry",
				zap.String("key", key),
				zap.Time("fetched_at", prev.fetchedAt),
				zap.Error(err),
			)
			return &Entry{Payload: prev.payload, FetchedAt: prev.fetchedAt, Stale: true}, nil
		}
		return nil, types.NewError(types.ErrProviderUnavailable, "fetch failed with no cached fallback").
			WithCause(err).
			WithRetryable(true)
	}

	e := v.(cacheEntry)
	return &Entry{Payload: e.payload, FetchedAt: e.fetchedAt}, nil
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry. Called when the owning node stops.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
