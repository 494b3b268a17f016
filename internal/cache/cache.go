// Package cache is a TTL response cache over the data_cache table. It sits
// in front of the schema store purely as a performance optimization: every
// failure is logged and swallowed, never surfaced to the request.
package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Store is the key/value slice of the schema store.
type Store interface {
	CacheGet(ctx context.Context, key string) (value string, expiresAt time.Time, ok bool, err error)
	CacheUpsert(ctx context.Context, key, value string, expiresAt time.Time) error
}

type Cache struct {
	store      Store
	enabled    bool
	defaultTTL time.Duration
	now        func() time.Time
}

func New(store Store, enabled bool, defaultTTL time.Duration) *Cache {
	return &Cache{store: store, enabled: enabled, defaultTTL: defaultTTL, now: time.Now}
}

// Get unmarshals the cached value into dest and reports a hit. Disabled
// caches, absent keys, expired entries and store errors are all misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.enabled {
		return false
	}

	value, expiresAt, ok, err := c.store.CacheGet(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if !ok || !c.now().Before(expiresAt) {
		return false
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache value corrupt")
		return false
	}
	return true
}

// Set upserts the key with expiry now+ttl; ttl <= 0 uses the default.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.enabled {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	b, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.store.CacheUpsert(ctx, key, string(b), c.now().Add(ttl)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate overwrites the key with a null value that is already expired,
// the store's documented idiom for cache invalidation.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.enabled {
		return
	}
	if err := c.store.CacheUpsert(ctx, key, "null", c.now()); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}
