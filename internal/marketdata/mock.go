package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// MockProvider is a deterministic in-memory MarketData used by tests
// and the pipeline's dry-run mode. Per-symbol failures can be injected
// to exercise degradation paths.
type MockProvider struct {
	mu sync.Mutex

	Quotes      []contracts.Quote
	Bars        map[string]contracts.BarSeries
	IndexBars   map[string]contracts.BarSeries
	IndexQuotes map[string]contracts.Quote
	Flow        *contracts.FlowTable
	Disclosure  map[string]contracts.DisclosureSet
	Stats       *contracts.MarketStats

	FailHistory map[string]bool
	FailFlow    bool

	HistoryCalls int
}

// NewMockProvider returns an empty mock ready for population.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Bars:        make(map[string]contracts.BarSeries),
		IndexBars:   make(map[string]contracts.BarSeries),
		IndexQuotes: make(map[string]contracts.Quote),
		Disclosure:  make(map[string]contracts.DisclosureSet),
		FailHistory: make(map[string]bool),
	}
}

func (m *MockProvider) Snapshot(ctx context.Context) (*contracts.Snapshot, error) {
	return &contracts.Snapshot{Time: time.Now(), Quotes: m.Quotes}, nil
}

func (m *MockProvider) History(ctx context.Context, code string, days int) (contracts.BarSeries, error) {
	m.mu.Lock()
	m.HistoryCalls++
	m.mu.Unlock()

	if m.FailHistory[code] {
		return nil, fmt.Errorf("injected history failure for %s", code)
	}
	bars, ok := m.Bars[code]
	if !ok {
		return nil, fmt.Errorf("no bars for %s", code)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (m *MockProvider) IndexHistory(ctx context.Context, code string, days int) (contracts.BarSeries, error) {
	bars, ok := m.IndexBars[code]
	if !ok {
		return nil, fmt.Errorf("no index bars for %s", code)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (m *MockProvider) IndexQuote(ctx context.Context, code string) (*contracts.Quote, error) {
	q, ok := m.IndexQuotes[code]
	if !ok {
		return nil, fmt.Errorf("no index quote for %s", code)
	}
	return &q, nil
}

func (m *MockProvider) FlowTable(ctx context.Context) (*contracts.FlowTable, error) {
	if m.FailFlow {
		return nil, fmt.Errorf("injected flow table failure")
	}
	if m.Flow == nil {
		return &contracts.FlowTable{Date: time.Now(), Rows: map[string]contracts.FlowRow{}}, nil
	}
	return m.Flow, nil
}

func (m *MockProvider) Disclosures(ctx context.Context, code string, lookbackDays int) (contracts.DisclosureSet, error) {
	return m.Disclosure[code], nil
}

func (m *MockProvider) MarketStats(ctx context.Context) (*contracts.MarketStats, error) {
	if m.Stats == nil {
		return &contracts.MarketStats{}, nil
	}
	return m.Stats, nil
}

// historyCallCount reports fetches made so far, for cache assertions.
func (m *MockProvider) historyCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HistoryCalls
}
