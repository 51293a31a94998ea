package commands

import (
	"fmt"

	"github.com/wtopps/quantitative-stock-selection/internal/barcache"
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/history"
	"github.com/wtopps/quantitative-stock-selection/internal/marketdata"
	"github.com/wtopps/quantitative-stock-selection/internal/pipeline"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/database"
	"github.com/wtopps/quantitative-stock-selection/pkg/httputil"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
	"github.com/wtopps/quantitative-stock-selection/pkg/redis"
)

// deps bundles everything a command needs, wired once per invocation.
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategy.Config
	cache    contracts.BarCache
	store    contracts.BatchStore
	service  *marketdata.Service

	db  *database.DB
	rdb *redis.Client
}

// initDeps loads config and builds the full dependency graph.
// The database pool is only opened when the postgres store backend
// is selected.
func initDeps() (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load strategy parameters
	strat, err := strategy.LoadOrDefault(cfg.StrategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}

	// 4. Optional backends
	var db *database.DB
	if cfg.Store.Backend == "postgres" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Bar cache and batch store
	cache, err := barcache.New(cfg, rdb, log)
	if err != nil {
		return nil, fmt.Errorf("init bar cache: %w", err)
	}

	store, err := history.New(cfg, db, log)
	if err != nil {
		return nil, fmt.Errorf("init batch store: %w", err)
	}

	// 6. Market data provider behind the rate-limited HTTP client
	httpClient := httputil.New(cfg, log).
		WithRateLimit(cfg.Provider.RatePerSec, cfg.Provider.RateBurst)
	provider := marketdata.NewEastMoney(cfg, httpClient, log)
	service := marketdata.NewService(provider, cache, cfg.Provider.PoolSize, log)

	return &deps{
		cfg:      cfg,
		log:      log,
		strategy: strat,
		cache:    cache,
		store:    store,
		service:  service,
		db:       db,
		rdb:      rdb,
	}, nil
}

// orchestrator builds the pipeline over the wired dependencies.
func (d *deps) orchestrator() *pipeline.Orchestrator {
	return pipeline.New(d.service, d.store, d.strategy, d.log)
}

// close releases the optional connections.
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.rdb != nil {
		d.rdb.Close()
	}
}
