package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtopps/quantitative-stock-selection/internal/barcache"
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/history"
	"github.com/wtopps/quantitative-stock-selection/internal/marketdata"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// idealBars builds a 60-bar uptrend that satisfies every history stage:
// modest monthly gain, gently rising volume, aligned averages and a
// perfect win rate.
func idealBars() contracts.BarSeries {
	n := 60
	bars := make(contracts.BarSeries, n)
	base := time.Now().AddDate(0, 0, -n)

	for i := 0; i < n; i++ {
		c := 10 + 3*float64(i)/float64(n-1)
		vol := int64(1000)
		if i >= n-10 {
			vol = 1000 + int64(i-(n-10))*40
			if i >= n-5 {
				vol += 180
			}
		}
		bars[i] = contracts.Bar{
			Date:      base.AddDate(0, 0, i),
			Open:      c * 0.99,
			Close:     c,
			High:      c * 1.01,
			Low:       c * 0.985,
			Volume:    vol,
			Amount:    c * float64(vol),
			PctChange: 0.5,
		}
	}
	return bars
}

func passingQuote(code string) contracts.Quote {
	return contracts.Quote{
		Code:         code,
		Name:         "示例股份",
		Price:        13.0,
		PctChange:    4.0,
		VolumeRatio:  1.5,
		TurnoverRate: 12.0,
		FloatCap:     6e9,
		Industry:     "半导体",
	}
}

func newTestOrchestrator(t *testing.T, provider *marketdata.MockProvider) (*Orchestrator, *history.FileStore) {
	t.Helper()
	log := testLogger()

	cache, err := barcache.NewFileCache(config.CacheConfig{
		Dir: t.TempDir(), TTL: time.Hour, Version: "v2",
	}, log)
	require.NoError(t, err)

	store, err := history.NewFileStore(config.StoreConfig{Dir: t.TempDir()}, log)
	require.NoError(t, err)

	service := marketdata.NewService(provider, cache, 4, log)
	return New(service, store, strategy.Default(), log), store
}

func passingProvider() *marketdata.MockProvider {
	provider := marketdata.NewMockProvider()
	provider.Quotes = []contracts.Quote{passingQuote("600001")}
	provider.Bars["600001"] = idealBars()
	provider.IndexBars["000001"] = idealBarsFlatIndex()
	provider.IndexQuotes["000001"] = contracts.Quote{Code: "000001", PctChange: 1.0}
	provider.Flow = &contracts.FlowTable{
		Date: time.Now(),
		Rows: map[string]contracts.FlowRow{
			"600001": {Code: "600001", MainNet: 5e7, MainPct: 4.0, SuperNet: 3e7, LargeNet: 2e7},
		},
	}
	return provider
}

func idealBarsFlatIndex() contracts.BarSeries {
	bars := idealBars()
	for i := range bars {
		bars[i].Close = 3200
		bars[i].Open = 3195
		bars[i].High = 3210
		bars[i].Low = 3190
		bars[i].PctChange = 0.1
	}
	return bars
}

func TestRun_SelectsAndSaves(t *testing.T) {
	orchestrator, store := newTestOrchestrator(t, passingProvider())

	batch, err := orchestrator.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Stocks, 1)

	stock := batch.Stocks[0]
	assert.Equal(t, "600001", stock.Code)
	assert.Equal(t, 13.0, stock.SelectionPrice)
	assert.GreaterOrEqual(t, stock.CompositeScore, 55.0)
	assert.NotEmpty(t, stock.Rating)
	assert.Positive(t, stock.StopLoss)
	assert.Greater(t, stock.TakeProfit, stock.SelectionPrice)
	assert.Contains(t, stock.Themes, "半导体")

	// Persisted and loadable
	loaded, err := store.LoadBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Stocks, 1)

	// Sentiment rode along
	require.NotNil(t, batch.Sentiment)
}

func TestRunSector_ScopesToIndustry(t *testing.T) {
	provider := passingProvider()
	other := passingQuote("600002")
	other.Industry = "银行"
	provider.Quotes = append(provider.Quotes, other)
	provider.Bars["600002"] = idealBars()
	provider.Flow.Rows["600002"] = provider.Flow.Rows["600001"]

	orchestrator, store := newTestOrchestrator(t, provider)

	batch, err := orchestrator.RunSector(context.Background(), "半导体")
	require.NoError(t, err)

	assert.Equal(t, "半导体", batch.Sector)
	require.Len(t, batch.Stocks, 1, "other industries never enter the funnel")
	assert.Equal(t, "600001", batch.Stocks[0].Code)

	// The scope rides along with the persisted batch
	loaded, err := store.LoadBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "半导体", loaded.Sector)
}

func TestRunSector_EmptySectorScansWholeMarket(t *testing.T) {
	provider := passingProvider()
	other := passingQuote("600002")
	other.Industry = "银行"
	provider.Quotes = append(provider.Quotes, other)
	provider.Bars["600002"] = idealBars()
	provider.Flow.Rows["600002"] = provider.Flow.Rows["600001"]

	orchestrator, _ := newTestOrchestrator(t, provider)

	batch, err := orchestrator.RunSector(context.Background(), "")
	require.NoError(t, err)

	assert.Empty(t, batch.Sector)
	assert.Len(t, batch.Stocks, 2)
}

func TestRun_EmptyFunnelStillSavesBatch(t *testing.T) {
	provider := passingProvider()
	weak := passingQuote("600001")
	weak.VolumeRatio = 0.5 // dies at the volume ratio stage
	provider.Quotes = []contracts.Quote{weak}

	orchestrator, store := newTestOrchestrator(t, provider)

	batch, err := orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batch.Stocks)

	entries, err := store.Index(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1, "empty day is still recorded")
	assert.Equal(t, 0, entries[0].Count)
}

func TestRun_DegradesWhenFlowIsDown(t *testing.T) {
	provider := passingProvider()
	provider.FailFlow = true

	orchestrator, _ := newTestOrchestrator(t, provider)

	batch, err := orchestrator.Run(context.Background())
	require.NoError(t, err, "flow outage must not abort the run")
	require.NotNil(t, batch)

	// Without the table the fund and signal components read neutral,
	// which costs the composite its selection margin
	for _, stock := range batch.Stocks {
		assert.Equal(t, 0, stock.SignalStrength)
	}
}

func TestRun_HistoryFailureDropsSymbolOnly(t *testing.T) {
	provider := passingProvider()
	second := passingQuote("600002")
	provider.Quotes = append(provider.Quotes, second)
	provider.FailHistory["600002"] = true
	provider.Flow.Rows["600002"] = provider.Flow.Rows["600001"]

	orchestrator, _ := newTestOrchestrator(t, provider)

	batch, err := orchestrator.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Stocks, 1, "symbol without history fails the closed stages")
	assert.Equal(t, "600001", batch.Stocks[0].Code)
}

func TestScanPatterns(t *testing.T) {
	provider := marketdata.NewMockProvider()
	provider.Quotes = []contracts.Quote{
		{Code: "600001", Name: "示例股份"},
		{Code: "000002", Name: "深市股份"}, // outside the universe
	}
	provider.Bars["600001"] = patternBars()

	orchestrator, _ := newTestOrchestrator(t, provider)

	windows, err := orchestrator.ScanPatterns(context.Background())
	require.NoError(t, err)
	require.Len(t, windows, 1)

	w := windows[0]
	assert.Equal(t, "600001", w.Code)
	assert.GreaterOrEqual(t, w.Score, 50.0)
	assert.NotEmpty(t, w.Rating)
}

// patternBars ends with a textbook four-day setup.
func patternBars() contracts.BarSeries {
	var bars contracts.BarSeries
	base := time.Now()
	mk := func(daysAgo int, pct float64, vol int64) contracts.Bar {
		return contracts.Bar{
			Date:      base.AddDate(0, 0, -daysAgo),
			Close:     10,
			Open:      10,
			High:      10.5,
			Low:       9.5,
			Volume:    vol,
			PctChange: pct,
		}
	}
	for i := 30; i > 4; i-- {
		bars = append(bars, mk(i, 0.5, 1000))
	}
	bars = append(bars,
		mk(4, 10.0, 10000),
		mk(3, 1.0, 15000),
		mk(2, -2.0, 8000),
		mk(1, 0.5, 4000),
	)
	return bars
}
