package barcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func testBars(n int) contracts.BarSeries {
	bars := make(contracts.BarSeries, n)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{
			Date:   base.AddDate(0, 0, i),
			Close:  10 + float64(i),
			Volume: int64(1000 + i),
		}
	}
	return bars
}

func newTestCache(t *testing.T, ttl time.Duration, version string) *FileCache {
	t.Helper()
	c, err := NewFileCache(config.CacheConfig{
		Dir:     t.TempDir(),
		TTL:     ttl,
		Version: version,
	}, testLogger())
	require.NoError(t, err)
	return c
}

func TestFileCache_RoundTrip(t *testing.T) {
	c := newTestCache(t, 24*time.Hour, "v2")

	bars := testBars(5)
	require.NoError(t, c.Put("600519", 60, bars))

	got, ok := c.Get("600519", 60)
	require.True(t, ok)
	assert.Len(t, got, 5)
	assert.Equal(t, bars[4].Close, got[4].Close)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Puts)
}

func TestFileCache_MissOnAbsent(t *testing.T) {
	c := newTestCache(t, 24*time.Hour, "v2")

	_, ok := c.Get("600519", 60)
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestFileCache_TTLExpiry(t *testing.T) {
	c := newTestCache(t, 10*time.Millisecond, "v2")

	require.NoError(t, c.Put("600519", 60, testBars(3)))
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("600519", 60)
	assert.False(t, ok, "expired entry must miss")
}

func TestFileCache_VersionIsolation(t *testing.T) {
	dir := t.TempDir()
	log := testLogger()

	v2, err := NewFileCache(config.CacheConfig{Dir: dir, TTL: time.Hour, Version: "v2"}, log)
	require.NoError(t, err)
	v3, err := NewFileCache(config.CacheConfig{Dir: dir, TTL: time.Hour, Version: "v3"}, log)
	require.NoError(t, err)

	require.NoError(t, v2.Put("600519", 60, testBars(3)))

	// Same code and window, new version: must miss
	_, ok := v3.Get("600519", 60)
	assert.False(t, ok)

	// Old version still hits
	_, ok = v2.Get("600519", 60)
	assert.True(t, ok)
}

func TestFileCache_WindowIsolation(t *testing.T) {
	c := newTestCache(t, time.Hour, "v2")

	require.NoError(t, c.Put("600519", 60, testBars(3)))

	_, ok := c.Get("600519", 250)
	assert.False(t, ok, "different window is a different entry")
}

func TestFileCache_SweepRemovesOldDays(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(config.CacheConfig{Dir: dir, TTL: time.Hour, Version: "v2"}, testLogger())
	require.NoError(t, err)

	// Fabricate an old date directory and an unrelated directory
	oldDir := filepath.Join(dir, time.Now().AddDate(0, 0, -7).Format("20060102"))
	require.NoError(t, os.MkdirAll(oldDir, 0o755))
	foreign := filepath.Join(dir, "keepme")
	require.NoError(t, os.MkdirAll(foreign, 0o755))

	require.NoError(t, c.Put("600519", 60, testBars(3)))
	require.NoError(t, c.Sweep())

	_, err = os.Stat(oldDir)
	assert.True(t, os.IsNotExist(err), "old date dir should be removed")

	_, err = os.Stat(foreign)
	assert.NoError(t, err, "non-date dirs are left alone")

	// Today's entry survives
	_, ok := c.Get("600519", 60)
	assert.True(t, ok)
}

func TestFileCache_CorruptEntryMisses(t *testing.T) {
	c := newTestCache(t, time.Hour, "v2")

	require.NoError(t, c.Put("600519", 60, testBars(3)))

	// Corrupt the file in place
	path := c.path("600519", 60)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok := c.Get("600519", 60)
	assert.False(t, ok)

	// The corrupt file was dropped
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{
		Cache: config.CacheConfig{Dir: t.TempDir(), TTL: time.Hour, Version: "v2", Backend: "file"},
	}

	cache, err := New(cfg, nil, testLogger())
	require.NoError(t, err)
	_, ok := cache.(*FileCache)
	assert.True(t, ok)
}
