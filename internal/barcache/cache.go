package barcache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
	"github.com/wtopps/quantitative-stock-selection/pkg/redis"
)

// Stats counts cache traffic for the run summary.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Puts   int64 `json:"puts"`
}

// FileCache stores bar series as JSON files under a per-date directory.
// The key hashes code, window and version, so a version bump orphans
// every prior entry. Entries expire by file mtime.
type FileCache struct {
	dir     string
	ttl     time.Duration
	version string
	logger  *logger.Logger

	mu    sync.Mutex
	stats Stats
}

// NewFileCache creates the cache directory and returns the cache.
func NewFileCache(cfg config.CacheConfig, log *logger.Logger) (*FileCache, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	return &FileCache{
		dir:     cfg.Dir,
		ttl:     cfg.TTL,
		version: cfg.Version,
		logger:  log,
	}, nil
}

// key hashes the lookup tuple.
func (c *FileCache) key(code string, days int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d_%s", code, days, c.version)))
	return hex.EncodeToString(sum[:])
}

// path places today's entries in a dated subdirectory so Sweep can
// drop whole days at once.
func (c *FileCache) path(code string, days int) string {
	return filepath.Join(c.dir, time.Now().Format("20060102"), c.key(code, days)+".json")
}

// Get returns a cached series. Entries older than the TTL miss.
func (c *FileCache) Get(code string, days int) (contracts.BarSeries, bool) {
	path := c.path(code, days)

	info, err := os.Stat(path)
	if err != nil {
		c.count(func(s *Stats) { s.Misses++ })
		return nil, false
	}

	if time.Since(info.ModTime()) > c.ttl {
		c.count(func(s *Stats) { s.Misses++ })
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.count(func(s *Stats) { s.Misses++ })
		return nil, false
	}

	var bars contracts.BarSeries
	if err := json.Unmarshal(data, &bars); err != nil {
		// Corrupt entry, drop it
		_ = os.Remove(path)
		c.count(func(s *Stats) { s.Misses++ })
		return nil, false
	}

	c.count(func(s *Stats) { s.Hits++ })
	return bars, true
}

// Put stores a series under today's directory.
func (c *FileCache) Put(code string, days int, bars contracts.BarSeries) error {
	path := c.path(code, days)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache date dir: %w", err)
	}

	data, err := json.Marshal(bars)
	if err != nil {
		return fmt.Errorf("failed to marshal bars: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	c.count(func(s *Stats) { s.Puts++ })
	return nil
}

// Sweep removes date directories older than three days.
func (c *FileCache) Sweep() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache dir: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -3)
	removed := 0

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		day, err := time.Parse("20060102", entry.Name())
		if err != nil {
			// Foreign directory, leave it alone
			continue
		}

		if day.Before(cutoff) {
			if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
				c.logger.WithError(err).WithField("dir", entry.Name()).Warn("Failed to remove stale cache dir")
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		c.logger.WithField("removed_dirs", removed).Info("Swept stale cache directories")
	}

	return nil
}

// Stats returns a copy of the traffic counters.
func (c *FileCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *FileCache) count(fn func(*Stats)) {
	c.mu.Lock()
	fn(&c.stats)
	c.mu.Unlock()
}

// New selects the cache backend from config.
func New(cfg *config.Config, rdb *redis.Client, log *logger.Logger) (contracts.BarCache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return NewRedisCache(cfg.Cache, rdb), nil
	default:
		return NewFileCache(cfg.Cache, log)
	}
}
