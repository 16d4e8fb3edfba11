package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Cache is the typed read-through layer over a Store. A cache miss triggers
// the caller-supplied fetch and the result is stored before being returned; a
// backend failure degrades to fetching directly, never to an error.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Cache with the given default TTL for all entries
func New(store Store, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Invalidate removes the given keys. Services call this after a successful
// mutation with exactly the keys that mutation is declared to affect; there is
// no global sweep.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) {
	if err := c.store.Delete(ctx, keys...); err != nil {
		// A failed invalidation only shortens freshness by at most one TTL
		c.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// Store exposes the underlying store, for health checks
func (c *Cache) Store() Store {
	return c.store
}

// GetOrFetch returns the cached value for key, fetching and storing it on a
// miss. The fetched entity is the server's truth; it is mirrored read-only.
func GetOrFetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (*T, error)) (*T, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed, fetching directly", "key", key, "error", err)
	} else if ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			return &value, nil
		}
		// Undecodable entry: drop it and fall through to fetch
		c.logger.Warn("cache entry corrupt, refetching", "key", key)
		c.Invalidate(ctx, key)
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	raw, err = json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}

	return value, nil
}
