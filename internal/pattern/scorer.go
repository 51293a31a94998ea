package pattern

import (
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// MA statuses attached to a scored window.
const (
	MAAligned = "aligned" // MA5 > MA10 > MA20 and close above MA5
	MARising  = "rising"  // MA5 > MA10
	MAHolding = "holding" // close above MA5
	MANeutral = "neutral"
)

// Score grades a detected window on a 0-100-ish scale starting at a
// base of 50. Sharper stall volume, a drier D4, aligned averages, a
// harder D1 and smart-money presence all add on top. When the series
// extends past the window the realized next-session move adds a
// follow-through bonus.
func Score(w *contracts.PatternWindow, bars contracts.BarSeries, smart *contracts.SmartMoneyFactor) {
	score := 50.0

	// D2 stall volume
	switch {
	case w.VolRatioD2 >= 2.0:
		score += 15
	case w.VolRatioD2 >= 1.5:
		score += 10
	case w.VolRatioD2 >= 1.2:
		score += 5
	}

	// D4 dry-up depth
	switch {
	case w.VolRatioD4 <= 0.3:
		score += 15
	case w.VolRatioD4 <= 0.4:
		score += 10
	case w.VolRatioD4 <= 0.55:
		score += 5
	}

	// Moving-average posture at the end of the window
	w.MAStatus = maStatus(bars)
	switch w.MAStatus {
	case MAAligned:
		score += 30
	case MARising:
		score += 20
	case MAHolding:
		score += 10
	}

	// D1 conviction
	switch {
	case w.Days[0].PctChange >= 9.9:
		score += 10
	case w.Days[0].PctChange >= 9.8:
		score += 5
	}

	// Smart money on the board during the setup
	if smart != nil {
		if smart.Active {
			score += 10
		} else if smart.Appearances > 0 {
			score += 5
		}
	}

	// Realized follow-through, for windows old enough to have one
	if chg, ok := nextSessionChange(w, bars); ok {
		switch {
		case chg > 5:
			score += 10
		case chg > 0:
			score += 5
		}
	}

	w.Score = score
	w.Rating = patternRating(score)
}

// nextSessionChange returns the percent move of the first session
// after the window end, when the series reaches past it.
func nextSessionChange(w *contracts.PatternWindow, bars contracts.BarSeries) (float64, bool) {
	for _, b := range bars {
		if b.Date.After(w.EndDate) {
			return b.PctChange, true
		}
	}
	return 0, false
}

func maStatus(bars contracts.BarSeries) string {
	if bars.Len() < 20 {
		return MANeutral
	}

	ma5 := bars.MA(5)
	ma10 := bars.MA(10)
	ma20 := bars.MA(20)
	last, _ := bars.Last()

	switch {
	case ma5 > ma10 && ma10 > ma20 && last.Close > ma5:
		return MAAligned
	case ma5 > ma10:
		return MARising
	case last.Close > ma5:
		return MAHolding
	default:
		return MANeutral
	}
}

func patternRating(score float64) contracts.Rating {
	switch {
	case score >= 85:
		return contracts.RatingAAA
	case score >= 75:
		return contracts.RatingAA
	case score >= 65:
		return contracts.RatingA
	case score >= 55:
		return contracts.RatingB
	default:
		return contracts.RatingC
	}
}
