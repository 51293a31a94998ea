package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/factors"
	"github.com/wtopps/quantitative-stock-selection/internal/history"
	"github.com/wtopps/quantitative-stock-selection/internal/marketdata"
	"github.com/wtopps/quantitative-stock-selection/internal/pattern"
	"github.com/wtopps/quantitative-stock-selection/internal/scoring"
	"github.com/wtopps/quantitative-stock-selection/internal/screening"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// analyzeWorkers bounds the concurrent factor scoring goroutines. The
// per-candidate disclosure fetch is the slow part and the HTTP client
// rate-limits upstream anyway.
const analyzeWorkers = 8

// Orchestrator wires the whole daily run: sentiment, snapshot, cascade,
// factor analysis, composite scoring, selection gates and batch save.
type Orchestrator struct {
	service  *marketdata.Service
	store    contracts.BatchStore
	strategy *strategy.Config
	logger   *logger.Logger
}

// New builds the orchestrator.
func New(service *marketdata.Service, store contracts.BatchStore, cfg *strategy.Config, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		service:  service,
		store:    store,
		strategy: cfg,
		logger:   log,
	}
}

// Run executes one full screening pass over the whole market and
// persists the batch.
func (o *Orchestrator) Run(ctx context.Context) (*contracts.Batch, error) {
	return o.RunSector(ctx, "")
}

// RunSector executes one screening pass, optionally scoped to a single
// industry. An empty sector means the whole market. Degradable feeds
// (sentiment, flow, disclosures) reduce depth but never abort the run;
// only the snapshot itself is fatal.
func (o *Orchestrator) RunSector(ctx context.Context, sector string) (*contracts.Batch, error) {
	started := time.Now()
	o.logger.WithFields(map[string]interface{}{
		"strategy": o.strategy.Meta.StrategyID,
		"sector":   sector,
	}).Info("Screening run starting")

	sentiment := o.gaugeSentiment(ctx)

	snapshot, err := o.service.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}

	candidates := make(contracts.CandidateSet, 0, snapshot.Count())
	for _, q := range snapshot.Quotes {
		if sector != "" && q.Industry != sector {
			continue
		}
		candidates = append(candidates, contracts.NewCandidate(q))
	}

	env := &screening.Env{Strategy: o.strategy}

	// Cheap quote-only funnel first
	quoteRunner := screening.NewRunner(o.logger,
		screening.BandStage(),
		screening.VolumeRatioStage(),
		screening.TurnoverStage(),
		screening.FloatCapStage(),
	)
	survivors, err := quoteRunner.Run(ctx, candidates, env)
	if err != nil {
		return nil, err
	}
	if len(survivors) == 0 {
		return o.finishEmpty(ctx, sentiment, sector, started)
	}

	// History, flow and index context for the deeper stages
	env.History = o.service.HistoryBatch(ctx, survivors.Codes(), o.strategy.Cascade.MonthlyGain.FetchHistoryDays)
	env.Flow = o.fetchFlow(ctx)
	env.IndexPct = o.fetchIndexPct(ctx)

	historyRunner := screening.NewRunner(o.logger,
		screening.MonthlyGainStage(),
		screening.FlowStage(),
		screening.VolumePatternStage(),
		screening.MATrendStage(),
		screening.IntradayStrengthStage(),
		screening.WinRateStage(),
		screening.ThemeStage(),
	)
	survivors, err = historyRunner.Run(ctx, survivors, env)
	if err != nil {
		return nil, err
	}
	if len(survivors) == 0 {
		return o.finishEmpty(ctx, sentiment, sector, started)
	}

	o.analyze(ctx, survivors, env, snapshot)

	selected := scoring.Select(survivors, o.strategy.Gates)
	batch := o.buildBatch(selected, sentiment, sector)

	if err := o.store.SaveBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("batch save failed: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"batch_id":    batch.ID,
		"selected":    len(batch.Stocks),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("Screening run complete")
	return batch, nil
}

// analyze runs the factor calculators and composite for each survivor.
// Candidates are scored concurrently; each worker only writes its own
// candidate. A disclosure miss leaves smart money inactive.
func (o *Orchestrator) analyze(ctx context.Context, set contracts.CandidateSet, env *screening.Env, snapshot *contracts.Snapshot) {
	indexBars, err := o.service.IndexHistory(ctx, o.strategy.Benchmark.Code, o.strategy.Cascade.MonthlyGain.FetchHistoryDays)
	if err != nil {
		o.logger.WithError(err).Warn("Index history unavailable, relative strength will be neutral")
	}

	tiers := factors.RankLeaders(snapshot)

	jobs := make(chan *contracts.Candidate)
	var wg sync.WaitGroup

	for i := 0; i < analyzeWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				o.analyzeOne(ctx, c, env, indexBars, tiers)
			}
		}()
	}

	for _, c := range set {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- c:
		}
	}
	close(jobs)
	wg.Wait()
}

func (o *Orchestrator) analyzeOne(ctx context.Context, c *contracts.Candidate, env *screening.Env, indexBars contracts.BarSeries, tiers map[string]string) {
	bars := env.History[c.Code]
	c.History = bars
	c.LeaderTier = tiers[c.Code]

	bundle := &contracts.FactorBundle{}

	if env.Flow != nil {
		if row, ok := env.Flow.Get(c.Code); ok {
			bundle.FundFlow = factors.FundFlow(&row)
		}
	}
	bundle.Strength = factors.Strength(c.Quote, bars, indexBars)
	bundle.Position = factors.Position(c.Quote, bars)

	disclosures, err := o.service.Disclosures(ctx, c.Code, o.strategy.SmartMoney.LookbackDays)
	if err != nil {
		o.logger.WithError(err).WithField("stock_code", c.Code).Debug("Disclosures unavailable")
	}
	bundle.SmartMoney = factors.SmartMoney(disclosures, bars, o.strategy.SmartMoney)

	c.Factors = bundle
	c.RiskReward = factors.RiskReward(c.Price, bars)
	c.Composite = scoring.Compose(c, o.strategy.Weights)
}

// buildBatch freezes the selection into its persisted form.
func (o *Orchestrator) buildBatch(selected contracts.CandidateSet, sentiment *contracts.SentimentReading, sector string) *contracts.Batch {
	now := time.Now()
	batch := &contracts.Batch{
		ID:        history.NewBatchID(now),
		Date:      now.Format("2006-01-02"),
		CreatedAt: now,
		Sector:    sector,
		Sentiment: sentiment,
	}

	for _, c := range selected {
		stock := contracts.BatchStock{
			Code:             c.Code,
			Name:             c.Name,
			SelectionPrice:   c.Price,
			Rating:           c.Composite.Rating,
			CompositeScore:   c.Composite.Total,
			RiskLevel:        c.Composite.RiskLevel,
			SignalStrength:   c.SignalStrength,
			Themes:           c.Themes,
			LeaderTier:       c.LeaderTier,
			SmartMoneyActive: c.SmartMoneyActive(),
		}
		if c.RiskReward != nil {
			stock.StopLoss = c.RiskReward.StopLoss
			stock.TakeProfit = c.RiskReward.TakeProfit
			stock.RiskRewardRatio = c.RiskReward.Ratio
		}
		batch.Stocks = append(batch.Stocks, stock)
	}
	return batch
}

// finishEmpty persists an empty batch so the day is still recorded.
func (o *Orchestrator) finishEmpty(ctx context.Context, sentiment *contracts.SentimentReading, sector string, started time.Time) (*contracts.Batch, error) {
	batch := o.buildBatch(nil, sentiment, sector)
	if err := o.store.SaveBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("batch save failed: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"batch_id":    batch.ID,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("Screening run ended with no survivors")
	return batch, nil
}

func (o *Orchestrator) gaugeSentiment(ctx context.Context) *contracts.SentimentReading {
	stats, err := o.service.MarketStats(ctx)
	if err != nil {
		o.logger.WithError(err).Warn("Market stats unavailable, skipping sentiment gauge")
		return nil
	}
	return screening.GaugeSentiment(stats, o.logger)
}

func (o *Orchestrator) fetchFlow(ctx context.Context) *contracts.FlowTable {
	table, err := o.service.FlowTable(ctx)
	if err != nil {
		o.logger.WithError(err).Warn("Flow table unavailable, flow stages pass through")
		return nil
	}
	return table
}

func (o *Orchestrator) fetchIndexPct(ctx context.Context) float64 {
	quote, err := o.service.IndexQuote(ctx, o.strategy.Benchmark.Code)
	if err != nil {
		o.logger.WithError(err).Warn("Index quote unavailable, intraday strength uses zero")
		return 0
	}
	return quote.PctChange
}

// ScanPatterns runs the four-day pattern scan over the Shanghai main
// board universe and returns scored windows, best first.
func (o *Orchestrator) ScanPatterns(ctx context.Context) ([]*contracts.PatternWindow, error) {
	snapshot, err := o.service.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}

	var codes []string
	names := make(map[string]string)
	for _, q := range snapshot.Quotes {
		if pattern.InUniverse(q.Code, q.Name) {
			codes = append(codes, q.Code)
			names[q.Code] = q.Name
		}
	}
	o.logger.WithField("universe", len(codes)).Info("Pattern scan starting")

	histories := o.service.HistoryBatch(ctx, codes, o.strategy.Cascade.MonthlyGain.FetchHistoryDays)

	detector := pattern.NewDetector(o.strategy.Pattern)
	now := time.Now()

	var windows []*contracts.PatternWindow
	for code, bars := range histories {
		w := detector.Detect(code, names[code], bars, now)
		if w == nil {
			continue
		}

		var smart *contracts.SmartMoneyFactor
		if disclosures, err := o.service.Disclosures(ctx, code, o.strategy.SmartMoney.LookbackDays); err == nil {
			smart = factors.SmartMoney(disclosures, bars, o.strategy.SmartMoney)
		}
		pattern.Score(w, bars, smart)
		windows = append(windows, w)
	}

	sort.SliceStable(windows, func(i, j int) bool { return windows[i].Score > windows[j].Score })
	o.logger.WithField("matches", len(windows)).Info("Pattern scan complete")
	return windows, nil
}
