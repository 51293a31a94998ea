package factors

import (
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// Strength grades a symbol's relative strength against the benchmark
// index on a -15..+15 scale. Today's excess carries the most weight,
// with multi-day excess and outperformance persistence layered on.
// Missing benchmark history leaves the factor neutral.
func Strength(quote contracts.Quote, bars, index contracts.BarSeries) *contracts.StrengthFactor {
	f := &contracts.StrengthFactor{Status: "no_data"}
	if index.Len() < 11 || bars.Len() < 11 {
		return f
	}

	idxLast, _ := index.Last()

	f.Excess1D = quote.PctChange - idxLast.PctChange
	f.Excess5D = bars.GainPct(5) - index.GainPct(5)
	f.Excess10D = bars.GainPct(10) - index.GainPct(10)
	f.OutperformDays = outperformDays(bars, index, 10)

	score := dailyExcessScore(f.Excess1D)

	switch {
	case f.Excess5D > 5:
		score += 5
	case f.Excess5D > 2:
		score += 3
	case f.Excess5D < -5:
		score -= 5
	}

	switch {
	case f.Excess10D > 8:
		score += 5
	case f.Excess10D < -8:
		score -= 5
	}

	// Persistence above half the window adds a small trend term
	if f.OutperformDays > 5 {
		score += float64(f.OutperformDays - 5)
	}

	if score > 15 {
		score = 15
	}
	if score < -15 {
		score = -15
	}
	f.Score = score

	switch {
	case score >= 10:
		f.Status = "very_strong"
	case score >= 5:
		f.Status = "strong"
	case score >= 0:
		f.Status = "neutral"
	case score >= -5:
		f.Status = "weak"
	default:
		f.Status = "very_weak"
	}
	return f
}

func dailyExcessScore(excess float64) float64 {
	switch {
	case excess > 5:
		return 10
	case excess > 3:
		return 7
	case excess > 1:
		return 5
	case excess > 0:
		return 3
	case excess > -2:
		return 0
	default:
		return -5
	}
}

// outperformDays counts the sessions in the window where the stock's
// daily change beat the index's.
func outperformDays(bars, index contracts.BarSeries, window int) int {
	sb := bars.LastN(window)
	si := index.LastN(window)
	if len(sb) != len(si) {
		if len(si) < len(sb) {
			sb = sb[len(sb)-len(si):]
		} else {
			si = si[len(si)-len(sb):]
		}
	}

	days := 0
	for i := range sb {
		if sb[i].PctChange > si[i].PctChange {
			days++
		}
	}
	return days
}
