package factors

import (
	"sort"
	"strings"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
)

// Timing stages for large-trade activity.
const (
	StageBuilding     = "building"
	StageAdding       = "adding"
	StageLifting      = "lifting"
	StageDistributing = "distributing"
	StageUnclear      = "unclear"
)

// SmartMoney grades dragon-tiger board activity. A symbol is active
// only when it met the appearance and net-buy minimums; inactive
// symbols score zero and the composite treats the factor as absent.
func SmartMoney(set contracts.DisclosureSet, bars contracts.BarSeries, cfg strategy.SmartMoney) *contracts.SmartMoneyFactor {
	f := &contracts.SmartMoneyFactor{}
	if len(set) == 0 {
		return f
	}

	dates := set.Dates()
	f.Appearances = len(dates)
	f.NetBuy = set.TotalNet()
	f.Desks = deskNames(set)

	if f.Appearances < cfg.MinAppearances || f.NetBuy < cfg.MinNetBuy {
		return f
	}
	f.Active = true

	f.Strength = strengthScore(set, dates, cfg)
	f.TimingStage, f.TimingScore = timingStage(set, bars)
	f.RiskScore, f.RiskSignals = riskScore(set, dates, cfg)
	f.Advice = advice(f.RiskScore)

	f.Score = f.Strength*0.4 + f.TimingScore*0.4 - f.RiskScore*0.3
	if f.Score < 0 {
		f.Score = 0
	}
	return f
}

// strengthScore is frequency + desk reputation + net buy + continuity,
// each component capped so no single one dominates.
func strengthScore(set contracts.DisclosureSet, dates []time.Time, cfg strategy.SmartMoney) float64 {
	var score float64

	// Frequency
	switch n := len(dates); {
	case n >= 5:
		score += 30
	case n >= 3:
		score += 25
	case n >= 2:
		score += 15
	default:
		score += 5
	}

	// Desk reputation, capped at 30
	var reputation float64
	seen := make(map[string]bool)
	for _, d := range set {
		if seen[d.Desk] {
			continue
		}
		seen[d.Desk] = true
		switch {
		case matchDesk(d.Desk, cfg.Tier1Desks):
			reputation += 10
		case matchDesk(d.Desk, cfg.Tier2Desks):
			reputation += 6
		case matchDesk(d.Desk, cfg.InstitutionalMarks):
			reputation += 3
		}
	}
	if reputation > 30 {
		reputation = 30
	}
	score += reputation

	// Net buy
	switch net := set.TotalNet(); {
	case net >= 5e7:
		score += 25
	case net >= 3e7:
		score += 20
	case net >= 1e7:
		score += 15
	case net >= 5e6:
		score += 10
	case net > 0:
		score += 5
	}

	// Continuity: count appearance runs with gaps of three days or less
	score += continuityScore(dates)

	return score
}

func continuityScore(dates []time.Time) float64 {
	if len(dates) == 0 {
		return 2
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Sub(sorted[i-1]).Hours() / 24
		if gap <= 3 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	switch {
	case longest >= 4:
		return 15
	case longest >= 3:
		return 10
	case longest >= 2:
		return 6
	default:
		return 2
	}
}

// timingStage reads where in the move the desks showed up, from the
// price position inside the recent range and the recent net direction.
func timingStage(set contracts.DisclosureSet, bars contracts.BarSeries) (string, float64) {
	if bars.Len() < 20 {
		return StageUnclear, 40
	}

	last, _ := bars.Last()
	high := bars.HighestHigh(60)
	low := bars.LowestLow(60)
	if high <= low {
		return StageUnclear, 40
	}
	rangePos := (last.Close - low) / (high - low)
	net := set.TotalNet()

	switch {
	case net > 0 && rangePos < 0.3:
		return StageBuilding, 85
	case net > 0 && rangePos < 0.6:
		return StageAdding, 75
	case net > 0:
		return StageLifting, 60
	case net < 0 && rangePos > 0.6:
		return StageDistributing, 20
	default:
		return StageUnclear, 40
	}
}

// riskScore flags distribution behavior hiding inside the activity.
func riskScore(set contracts.DisclosureSet, dates []time.Time, cfg strategy.SmartMoney) (float64, []string) {
	var score float64
	var signals []string

	if set.TotalNet() < 0 {
		score += 40
		signals = append(signals, "net_selling")
	}

	for _, d := range set {
		if d.Net >= 0 {
			continue
		}
		switch {
		case matchDesk(d.Desk, cfg.Tier1Desks):
			score += 30
			signals = append(signals, "tier1_selling")
		case matchDesk(d.Desk, cfg.Tier2Desks):
			score += 15
			signals = append(signals, "tier2_selling")
		}
		break
	}

	// A streak that went quiet: desks vanished after showing up often
	if len(dates) >= 3 {
		latest := dates[0]
		for _, d := range dates[1:] {
			if d.After(latest) {
				latest = d
			}
		}
		if daysSince(latest) >= 3 {
			score += 20
			signals = append(signals, "vanished_after_streak")
		}
	}

	if score > 100 {
		score = 100
	}
	return score, signals
}

func daysSince(t time.Time) int {
	return int(time.Since(t).Hours() / 24)
}

func advice(risk float64) string {
	switch {
	case risk >= 60:
		return "avoid"
	case risk >= 40:
		return "caution"
	case risk >= 20:
		return "watch"
	default:
		return "follow"
	}
}

func deskNames(set contracts.DisclosureSet) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range set {
		if !seen[d.Desk] {
			seen[d.Desk] = true
			out = append(out, d.Desk)
		}
	}
	return out
}

// matchDesk does substring matching both ways: configured desk names
// are often shortened forms of the published ones.
func matchDesk(desk string, known []string) bool {
	for _, k := range known {
		if strings.Contains(desk, k) || strings.Contains(k, desk) {
			return true
		}
	}
	return false
}
