// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trademaster/internal/feature/instruments/domain/entity"
	"trademaster/internal/feature/instruments/usecase"
)

// CachingCatalogRepository decorates a CatalogRepository with Redis caching.
// The scrip master is tens of megabytes and changes once a day, so every
// process after the first reads it from Redis instead of the broker's CDN.
type CachingCatalogRepository struct {
	inner     usecase.CatalogRepository
	rdb       *redis.Client
	ttl       time.Duration
	ttlFn     func() time.Duration // 書き込み時に評価する。nilなら固定のttl
	namespace string
}

var (
	_ usecase.CatalogRepository  = (*CachingCatalogRepository)(nil)
	_ usecase.CatalogInvalidator = (*CachingCatalogRepository)(nil)
)

// NewCachingCatalogRepository decorates a CatalogRepository with Redis caching.
// If ttl is 0, it defaults to 1 hour. If namespace is empty, it uses "instruments".
func NewCachingCatalogRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CatalogRepository, namespace string) *CachingCatalogRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if namespace == "" {
		namespace = "instruments"
	}
	return &CachingCatalogRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// WithTTLFunc makes every cache write ask fn for its TTL, e.g. the time left
// until the next catalog refresh. A non-positive result falls back to the fixed ttl.
func (c *CachingCatalogRepository) WithTTLFunc(fn func() time.Duration) *CachingCatalogRepository {
	c.ttlFn = fn
	return c
}

func (c *CachingCatalogRepository) currentTTL() time.Duration {
	if c.ttlFn != nil {
		if d := c.ttlFn(); d > 0 {
			return d
		}
	}
	return c.ttl
}

// ListInstruments returns the catalog, checking cache first then falling back to the inner repository.
func (c *CachingCatalogRepository) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListInstruments(ctx)
	}

	key := c.cacheKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Instrument
		if err := json.Unmarshal(b, &out); err == nil && len(out) > 0 {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the source
	out, err := c.inner.ListInstruments(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort). Empty catalogs are never cached.
	if len(out) > 0 {
		if b, err := json.Marshal(out); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.currentTTL()).Err(); err != nil {
				slog.Warn("failed to cache instrument catalog", "key", key, "error", err)
			}
		}
	}

	return out, nil
}

// Invalidate drops the cached catalog.
func (c *CachingCatalogRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey()).Err()
}

// cacheKey generates the cache key for the catalog.
func (c *CachingCatalogRepository) cacheKey() string {
	return fmt.Sprintf("%s:%s", safe(c.namespace), "catalog")
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
