package barcache

import (
	"context"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/redis"
)

// RedisCache keeps bar series in Redis with the same TTL and version
// semantics as the file cache. Expiry is delegated to Redis TTLs, so
// Sweep is a no-op.
type RedisCache struct {
	cache   *redis.Cache
	cfg     config.CacheConfig
	version string
}

// NewRedisCache wraps a Redis client as a BarCache.
func NewRedisCache(cfg config.CacheConfig, client *redis.Client) *RedisCache {
	return &RedisCache{
		cache:   redis.NewCache(client, "screener"),
		cfg:     cfg,
		version: cfg.Version,
	}
}

// Get returns a cached series.
func (c *RedisCache) Get(code string, days int) (contracts.BarSeries, bool) {
	var bars contracts.BarSeries
	found, err := c.cache.Get(context.Background(), redis.BarsKey(code, days, c.version), &bars)
	if err != nil || !found {
		return nil, false
	}
	return bars, true
}

// Put stores a series with the configured TTL.
func (c *RedisCache) Put(code string, days int, bars contracts.BarSeries) error {
	return c.cache.Set(context.Background(), redis.BarsKey(code, days, c.version), bars, c.cfg.TTL)
}

// Sweep is a no-op; Redis expires entries itself.
func (c *RedisCache) Sweep() error { return nil }
