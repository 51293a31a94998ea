package marketdata

import (
	"context"
	"sync"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// Service fronts a provider with the bar cache and a bounded worker
// pool for batch history fetches. Degradable feeds (flow, disclosures)
// come back wrapped in the unavailable sentinel so callers can keep
// going without them.
type Service struct {
	provider contracts.MarketData
	cache    contracts.BarCache
	poolSize int
	logger   *logger.Logger
}

// NewService wires a provider to the cache. poolSize bounds concurrent
// history fetches; values below one collapse to serial fetching.
func NewService(provider contracts.MarketData, cache contracts.BarCache, poolSize int, log *logger.Logger) *Service {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Service{
		provider: provider,
		cache:    cache,
		poolSize: poolSize,
		logger:   log,
	}
}

// Snapshot passes through to the provider.
func (s *Service) Snapshot(ctx context.Context) (*contracts.Snapshot, error) {
	return s.provider.Snapshot(ctx)
}

// History returns daily bars, serving from cache when fresh.
func (s *Service) History(ctx context.Context, code string, days int) (contracts.BarSeries, error) {
	if bars, ok := s.cache.Get(code, days); ok {
		return bars, nil
	}

	bars, err := s.provider.History(ctx, code, days)
	if err != nil {
		return nil, contracts.Unavailable("history "+code, err)
	}

	if err := s.cache.Put(code, days, bars); err != nil {
		s.logger.WithError(err).WithField("stock_code", code).Warn("Failed to cache bars")
	}
	return bars, nil
}

// HistoryBatch fetches bars for many symbols through the worker pool.
// Symbols whose fetch fails are logged and omitted from the result, so
// a flaky feed degrades the batch instead of aborting it.
func (s *Service) HistoryBatch(ctx context.Context, codes []string, days int) map[string]contracts.BarSeries {
	results := make(map[string]contracts.BarSeries, len(codes))
	var mu sync.Mutex
	var failed int64

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < s.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for code := range jobs {
				bars, err := s.History(ctx, code, days)
				if err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					s.logger.WithError(err).WithField("stock_code", code).Warn("History fetch failed, skipping symbol")
					continue
				}
				mu.Lock()
				results[code] = bars
				mu.Unlock()
			}
		}()
	}

	for _, code := range codes {
		select {
		case <-ctx.Done():
			// Stop feeding; workers drain what remains of the channel
			close(jobs)
			wg.Wait()
			return results
		case jobs <- code:
		}
	}
	close(jobs)
	wg.Wait()

	s.logger.WithFields(map[string]interface{}{
		"requested": len(codes),
		"fetched":   len(results),
		"failed":    failed,
	}).Info("Batch history fetch complete")

	return results
}

// IndexHistory returns benchmark bars, cached under the index code.
func (s *Service) IndexHistory(ctx context.Context, code string, days int) (contracts.BarSeries, error) {
	if bars, ok := s.cache.Get("idx_"+code, days); ok {
		return bars, nil
	}

	bars, err := s.provider.IndexHistory(ctx, code, days)
	if err != nil {
		return nil, contracts.Unavailable("index history "+code, err)
	}

	if err := s.cache.Put("idx_"+code, days, bars); err != nil {
		s.logger.WithError(err).WithField("index_code", code).Warn("Failed to cache index bars")
	}
	return bars, nil
}

// IndexQuote passes through to the provider.
func (s *Service) IndexQuote(ctx context.Context, code string) (*contracts.Quote, error) {
	return s.provider.IndexQuote(ctx, code)
}

// FlowTable fetches the capital-flow table. Failures are wrapped in the
// unavailable sentinel; flow-dependent stages treat a nil table as
// neutral.
func (s *Service) FlowTable(ctx context.Context) (*contracts.FlowTable, error) {
	table, err := s.provider.FlowTable(ctx)
	if err != nil {
		return nil, contracts.Unavailable("flow table", err)
	}
	return table, nil
}

// Disclosures fetches dragon-tiger rows. Failures are wrapped in the
// unavailable sentinel; the smart-money factor treats missing rows as
// inactive.
func (s *Service) Disclosures(ctx context.Context, code string, lookbackDays int) (contracts.DisclosureSet, error) {
	set, err := s.provider.Disclosures(ctx, code, lookbackDays)
	if err != nil {
		return nil, contracts.Unavailable("disclosures "+code, err)
	}
	return set, nil
}

// MarketStats fetches breadth numbers for the sentiment gauge.
func (s *Service) MarketStats(ctx context.Context) (*contracts.MarketStats, error) {
	stats, err := s.provider.MarketStats(ctx)
	if err != nil {
		return nil, contracts.Unavailable("market stats", err)
	}
	return stats, nil
}
