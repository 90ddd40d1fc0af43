package tenant

import (
	"context"
	"time"

	"github.com/dmitrymomot/storefront/pkg/cache"
)

const (
	// DefaultCacheTTL bounds how stale a cached snapshot may be.
	DefaultCacheTTL = 60 * time.Second
	// DefaultCacheSize bounds the number of routing keys held in memory.
	DefaultCacheSize = 10_000
)

// Cache stores resolved snapshots by routing key. Subdomain keys never
// contain a dot and custom domains always do, so both share one namespace.
type Cache interface {
	// Get returns a live snapshot. Expired entries are reported as misses.
	Get(ctx context.Context, key string) (*Tenant, bool)
	// Set stores t under key for the cache's TTL.
	Set(ctx context.Context, key string, t *Tenant) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// MemoryCache is an instance-local Cache backed by a bounded LRU.
// An entry is live while its insertion time plus TTL is after the clock's
// current time. Each call takes a short internal lock; nothing is held while
// the store is queried, so concurrent misses on a cold key each reach the
// store.
type MemoryCache struct {
	lru *cache.LRU[string, *Tenant]
	ttl time.Duration
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*memoryCacheConfig)

type memoryCacheConfig struct {
	now        func() time.Time
	maxEntries int
}

// WithClock replaces time.Now, letting tests move time without sleeping.
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *memoryCacheConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxEntries bounds the cache size. Non-positive values are ignored.
func WithMaxEntries(n int) MemoryCacheOption {
	return func(c *memoryCacheConfig) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// NewMemoryCache creates a MemoryCache with the given TTL. A non-positive
// TTL stores nothing usable, which disables caching.
func NewMemoryCache(ttl time.Duration, opts ...MemoryCacheOption) *MemoryCache {
	cfg := &memoryCacheConfig{now: time.Now, maxEntries: DefaultCacheSize}
	for _, opt := range opts {
		opt(cfg)
	}
	return &MemoryCache{
		lru: cache.NewLRU[string, *Tenant](cfg.maxEntries, cfg.now),
		ttl: ttl,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Tenant, bool) {
	return c.lru.Get(key)
}

func (c *MemoryCache) Set(_ context.Context, key string, t *Tenant) error {
	c.lru.Add(key, t.Clone(), c.ttl)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// NoOpCache disables caching; every resolution reaches the store.
type NoOpCache struct{}

func (NoOpCache) Get(context.Context, string) (*Tenant, bool) { return nil, false }

func (NoOpCache) Set(context.Context, string, *Tenant) error { return nil }

func (NoOpCache) Delete(context.Context, string) error { return nil }
