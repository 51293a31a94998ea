package jobs

import (
	"context"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// CacheSweepJob evicts expired bar series from the cache overnight.
type CacheSweepJob struct {
	cache  contracts.BarCache
	logger *logger.Logger
}

// NewCacheSweepJob creates a new cache sweep job
func NewCacheSweepJob(cache contracts.BarCache, log *logger.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

// Schedule returns the cron schedule (03:00 every day)
func (j *CacheSweepJob) Schedule() string {
	return "0 0 3 * * *"
}

// Run executes the cache sweep
func (j *CacheSweepJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache sweep")

	if err := j.cache.Sweep(); err != nil {
		return err
	}

	j.logger.Info("Cache sweep completed")
	return nil
}
