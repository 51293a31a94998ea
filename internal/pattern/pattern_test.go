package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
)

var anchor = time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

// bar builds one bar n trading days before the anchor.
func bar(daysAgo int, pct float64, volume int64) contracts.Bar {
	return contracts.Bar{
		Date:      anchor.AddDate(0, 0, -daysAgo),
		Close:     10,
		Open:      10,
		High:      10.5,
		Low:       9.5,
		Volume:    volume,
		PctChange: pct,
	}
}

// setupBars appends a textbook four-day window after quiet filler bars.
func setupBars(endDaysAgo int) contracts.BarSeries {
	var bars contracts.BarSeries
	for i := 30; i > endDaysAgo+3; i-- {
		bars = append(bars, bar(i, 0.5, 1000))
	}
	bars = append(bars,
		bar(endDaysAgo+3, 10.0, 10000), // D1 limit up
		bar(endDaysAgo+2, 1.0, 15000),  // D2 stall on heavier volume
		bar(endDaysAgo+1, -2.0, 8000),  // D3 shallow pullback
		bar(endDaysAgo, 0.5, 4000),     // D4 dry-up
	)
	return bars
}

func newDetector() *Detector {
	return NewDetector(strategy.Default().Pattern)
}

func TestDetect_TextbookWindow(t *testing.T) {
	w := newDetector().Detect("600001", "示例股份", setupBars(1), anchor)
	require.NotNil(t, w)

	assert.Equal(t, "600001", w.Code)
	assert.Equal(t, 1, w.AgeDays)
	assert.InDelta(t, 1.5, w.VolRatioD2, 0.001)
	assert.InDelta(t, 8.0/15.0, w.VolRatioD3, 0.001)
	assert.InDelta(t, 0.4, w.VolRatioD4, 0.001)
	assert.Equal(t, 10.0, w.Days[0].PctChange)
}

func TestDetect_StaleWindowRejected(t *testing.T) {
	w := newDetector().Detect("600001", "示例股份", setupBars(12), anchor)
	assert.Nil(t, w, "window older than the freshness cutoff")
}

func TestDetect_MostRecentWindowWins(t *testing.T) {
	// Two windows: one ending 8 days ago, one ending yesterday
	old := setupBars(8)
	fresh := append(old,
		bar(4, 10.0, 10000),
		bar(3, 1.0, 15000),
		bar(2, -2.0, 8000),
		bar(1, 0.5, 4000),
	)

	w := newDetector().Detect("600001", "示例股份", fresh, anchor)
	require.NotNil(t, w)
	assert.Equal(t, 1, w.AgeDays, "the newer window is reported")
}

func TestDetect_BrokenWindows(t *testing.T) {
	mutate := func(fn func(contracts.BarSeries)) contracts.BarSeries {
		bars := setupBars(1)
		fn(bars)
		return bars
	}
	n := len(setupBars(1))

	tests := []struct {
		name string
		bars contracts.BarSeries
	}{
		{"weak d1", mutate(func(b contracts.BarSeries) { b[n-4].PctChange = 7.0 })},
		{"d2 volume too light", mutate(func(b contracts.BarSeries) { b[n-3].Volume = 11000 })},
		{"d2 keeps running", mutate(func(b contracts.BarSeries) { b[n-3].PctChange = 5.0 })},
		{"d3 panic drop", mutate(func(b contracts.BarSeries) { b[n-2].PctChange = -7.0 })},
		{"d3 green day", mutate(func(b contracts.BarSeries) { b[n-2].PctChange = 1.0 })},
		{"d4 volume not dry", mutate(func(b contracts.BarSeries) { b[n-1].Volume = 9000 })},
		{"d4 too volatile", mutate(func(b contracts.BarSeries) { b[n-1].PctChange = 4.0 })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, newDetector().Detect("600001", "示例", tt.bars, anchor))
		})
	}
}

func TestInUniverse(t *testing.T) {
	assert.True(t, InUniverse("600519", "贵州茅台"))
	assert.True(t, InUniverse("601318", "中国平安"))
	assert.False(t, InUniverse("000001", "平安银行"), "Shenzhen main board excluded")
	assert.False(t, InUniverse("300750", "宁德时代"))
	assert.False(t, InUniverse("600123", "ST示例"))
	assert.False(t, InUniverse("600124", "示例退"))
}

func TestScore_StrongSetup(t *testing.T) {
	w := newDetector().Detect("600001", "示例股份", setupBars(1), anchor)
	require.NotNil(t, w)

	// Rising closes align the averages
	bars := setupBars(1)
	for i := range bars {
		bars[i].Close = 10 + float64(i)*0.1
	}

	Score(w, bars, &contracts.SmartMoneyFactor{Active: true})

	// base 50 + d2 (1.5 => 10) + d4 (0.4 => 10) + MA aligned 30
	// + d1 (10.0 => 10) + smart active 10
	assert.Equal(t, 120.0, w.Score)
	assert.Equal(t, contracts.RatingAAA, w.Rating)
	assert.Equal(t, MAAligned, w.MAStatus)
}

func TestScore_RealizedFollowThroughBonus(t *testing.T) {
	tests := []struct {
		name    string
		nextPct float64
		bonus   float64
	}{
		{"strong follow-through", 6.0, 10},
		{"mild follow-through", 1.0, 5},
		{"failed follow-through", -2.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newDetector().Detect("600001", "示例股份", setupBars(2), anchor)
			require.NotNil(t, w)

			base := *w
			Score(&base, setupBars(2), nil)

			extended := append(setupBars(2), bar(1, tt.nextPct, 5000))
			Score(w, extended, nil)

			assert.Equal(t, base.Score+tt.bonus, w.Score)
		})
	}
}

func TestScore_PlainSetup(t *testing.T) {
	w := newDetector().Detect("600001", "示例股份", setupBars(1), anchor)
	require.NotNil(t, w)

	// Flat closes leave the averages stacked flat
	bars := setupBars(1)

	Score(w, bars, nil)

	// base 50 + d2 10 + d4 10 + MA holding/neutral + d1 10
	assert.GreaterOrEqual(t, w.Score, 80.0)
	assert.NotEmpty(t, w.Rating)
}
