package factors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// trendBars builds n bars climbing from start to end with flat volume.
func trendBars(start, end float64, n int) contracts.BarSeries {
	bars := make(contracts.BarSeries, n)
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := start + (end-start)*float64(i)/float64(n-1)
		prev := c
		if i > 0 {
			prev = start + (end-start)*float64(i-1)/float64(n-1)
		}
		pct := 0.0
		if prev > 0 {
			pct = (c - prev) / prev * 100
		}
		bars[i] = contracts.Bar{
			Date:      base.AddDate(0, 0, i),
			Open:      c * 0.995,
			Close:     c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Volume:    10000,
			Amount:    c * 10000,
			PctChange: pct,
		}
	}
	return bars
}

func TestFundFlow(t *testing.T) {
	tests := []struct {
		name        string
		row         *contracts.FlowRow
		consistency float64
		ratio       float64
		pattern     string
	}{
		{
			name:        "aligned inflow",
			row:         &contracts.FlowRow{MainNet: 8e7, MainPct: 12, SuperNet: 5e7, LargeNet: 3e7, SmallNet: -6e7},
			consistency: 10, ratio: 10, pattern: "aligned_inflow",
		},
		{
			name:        "divergent but positive",
			row:         &contracts.FlowRow{MainNet: 1e7, MainPct: 1.5, SuperNet: 3e7, LargeNet: -2e7},
			consistency: 3, ratio: 3, pattern: "divergence",
		},
		{
			name:        "aligned outflow",
			row:         &contracts.FlowRow{MainNet: -9e7, MainPct: -12, SuperNet: -5e7, LargeNet: -4e7},
			consistency: -10, ratio: -10, pattern: "aligned_outflow",
		},
		{
			name:        "distribution to retail",
			row:         &contracts.FlowRow{MainNet: -2e7, MainPct: -4, SuperNet: -3e7, LargeNet: 1e7, SmallNet: 2e7},
			consistency: -5, ratio: -3, pattern: "distribution",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FundFlow(tt.row)
			assert.Equal(t, tt.consistency, f.Consistency)
			assert.Equal(t, tt.ratio, f.FlowRatio)
			assert.Equal(t, tt.pattern, f.Pattern)
		})
	}
}

func TestFundFlow_NoData(t *testing.T) {
	f := FundFlow(nil)
	assert.Equal(t, "no_data", f.Status)
	assert.Zero(t, f.Consistency)
}

func TestStrength_OutperformingStock(t *testing.T) {
	stock := trendBars(10, 13, 30)  // strong climb
	index := trendBars(100, 101, 30) // flat benchmark

	quote := contracts.Quote{Code: "600001", PctChange: 4.0}
	f := Strength(quote, stock, index)

	assert.Positive(t, f.Score)
	assert.Positive(t, f.Excess5D)
	assert.Greater(t, f.OutperformDays, 5)
	assert.Contains(t, []string{"strong", "very_strong"}, f.Status)
}

func TestStrength_ClampsAtFifteen(t *testing.T) {
	stock := trendBars(10, 20, 30)
	index := trendBars(100, 90, 30)

	f := Strength(contracts.Quote{PctChange: 9.0}, stock, index)
	assert.Equal(t, 15.0, f.Score)
}

func TestStrength_NoData(t *testing.T) {
	f := Strength(contracts.Quote{}, trendBars(10, 11, 5), trendBars(100, 101, 5))
	assert.Equal(t, "no_data", f.Status)
	assert.Zero(t, f.Score)
}

func TestPosition_BreakoutWithVolume(t *testing.T) {
	bars := trendBars(10, 15, 120)
	// Last bar breaks the high on heavy volume
	last := &bars[len(bars)-1]
	last.Close = 15.5
	last.High = 15.6
	last.Volume = 20000

	quote := contracts.Quote{Code: "600001", Price: 15.5}
	f := Position(quote, bars)

	assert.Equal(t, 10.0, f.BreakoutScore)
	assert.Equal(t, 8.0, f.SupportScore, "55% above the long low")
	assert.Zero(t, f.MidRangePenalty)
	assert.Equal(t, "breakout", f.Status)
}

func TestPosition_MidRangeDrift(t *testing.T) {
	// Flat series, price parked mid-range
	bars := trendBars(10, 10, 120)
	for i := range bars {
		bars[i].High = 12
		bars[i].Low = 8
	}

	f := Position(contracts.Quote{Price: 10}, bars)
	assert.Equal(t, -3.0, f.MidRangePenalty)
}

func TestPosition_NoData(t *testing.T) {
	f := Position(contracts.Quote{Price: 10}, trendBars(10, 11, 10))
	assert.Equal(t, "no_data", f.Status)
}

func TestRiskReward(t *testing.T) {
	bars := trendBars(10, 12, 30)
	rr := RiskReward(12.0, bars)
	require.NotNil(t, rr)

	assert.Less(t, rr.StopLoss, 12.0)
	assert.Greater(t, rr.TakeProfit, 12.0)
	assert.Positive(t, rr.Ratio)

	// MA5 sits just under the last close on a steady climb, so it is
	// the tightest stop of the three
	assert.Greater(t, rr.StopLoss, 12.0*0.97)
}

func TestRiskReward_NoData(t *testing.T) {
	assert.Nil(t, RiskReward(12.0, trendBars(10, 12, 5)))
	assert.Nil(t, RiskReward(0, trendBars(10, 12, 30)))
}

func TestRankLeaders(t *testing.T) {
	snapshot := &contracts.Snapshot{Quotes: []contracts.Quote{
		{Code: "600001", Industry: "半导体", PctChange: 9.0, TurnoverRate: 15},
		{Code: "600002", Industry: "半导体", PctChange: 7.0, TurnoverRate: 14},
		{Code: "600003", Industry: "半导体", PctChange: 5.0, TurnoverRate: 13},
		{Code: "600004", Industry: "半导体", PctChange: 3.0, TurnoverRate: 2},
		{Code: "600005", Industry: "", PctChange: 9.9, TurnoverRate: 20},
	}}

	tiers := RankLeaders(snapshot)

	assert.Equal(t, TierSuperLeader, tiers["600001"])
	assert.Equal(t, TierSuperLeader, tiers["600002"])
	assert.Equal(t, TierSuperLeader, tiers["600003"])
	assert.Equal(t, TierLeader, tiers["600004"])
	assert.Equal(t, TierFollower, tiers["600005"], "no industry label")
}
