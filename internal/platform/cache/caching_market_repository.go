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

	"forecast_backend/internal/feature/forecast/domain/entity"
	"forecast_backend/internal/feature/forecast/usecase"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// Fetched series stay cached until the next bar boundary of their interval,
// so repeated forecasts within one bar reuse a single upstream call.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, entries expire at the next bar boundary. If namespace is empty, it uses "bars".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl < 0 {
		ttl = 0
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// GetTimeSeries returns bars from the cache, falling back to the inner repository.
func (c *CachingMarketRepository) GetTimeSeries(ctx context.Context, pair, interval string, outputsize int) ([]entity.Bar, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetTimeSeries(ctx, pair, interval, outputsize)
	}

	key := c.cacheKey(pair, interval, outputsize)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Bar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the upstream API
	out, err := c.inner.GetTimeSeries(ctx, pair, interval, outputsize)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.expiry(interval)).Err(); err != nil {
			slog.Warn("failed to cache bars", "key", key, "error", err)
		}
	}

	return out, nil
}

// Invalidate deletes every cached series of the pair.
func (c *CachingMarketRepository) Invalidate(ctx context.Context, pair string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(pair)+"*")
}

func (c *CachingMarketRepository) expiry(interval string) time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	step, err := entity.IntervalDuration(interval)
	if err != nil {
		return 5 * time.Minute
	}
	return TimeUntilNextBoundary(c.now(), step)
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(pair, interval string, outputsize int) string {
	return fmt.Sprintf("%s:%s:%s:%d",
		c.namespace,
		safe(pair),
		safe(interval),
		outputsize,
	)
}

// cacheKeyPrefix generates a prefix for invalidating every entry of a pair.
func (c *CachingMarketRepository) cacheKeyPrefix(pair string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(pair))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
