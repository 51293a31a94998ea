package factors

import (
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// Position grades where the price sits in its recent range. Breakouts
// near the 120-day high with volume confirmation score best; drifting
// in the middle of the range is penalized as directionless.
func Position(quote contracts.Quote, bars contracts.BarSeries) *contracts.PositionFactor {
	f := &contracts.PositionFactor{Status: "no_data"}
	if bars.Len() < 60 {
		return f
	}

	last, _ := bars.Last()
	price := quote.Price
	if price <= 0 {
		price = last.Close
	}

	window := 120
	if bars.Len() < window {
		window = bars.Len()
	}
	f.High120 = bars.HighestHigh(window)
	f.Low120 = bars.LowestLow(window)

	volMA20 := bars.AvgVolume(20)
	vol := float64(last.Volume)

	// Breakout component
	switch {
	case f.High120 > 0 && price >= f.High120*0.98:
		switch {
		case volMA20 > 0 && vol > volMA20*1.5:
			f.BreakoutScore = 10
		case volMA20 > 0 && vol > volMA20*1.2:
			f.BreakoutScore = 7
		default:
			f.BreakoutScore = 3
		}
	case price >= bars.HighestHigh(20)*0.98:
		if volMA20 > 0 && vol > volMA20*1.3 {
			f.BreakoutScore = 6
		} else {
			f.BreakoutScore = 3
		}
	default:
		if vwap := bars.VWAP(60); vwap > 0 && price > vwap {
			f.BreakoutScore = 2
		} else {
			f.BreakoutScore = -2
		}
	}

	// Support component: distance above the long low
	if f.Low120 > 0 {
		dist := (price - f.Low120) / f.Low120 * 100
		switch {
		case dist > 50:
			f.SupportScore = 8
		case dist > 30:
			f.SupportScore = 5
		case dist > 15:
			f.SupportScore = 2
		case dist > 5:
			f.SupportScore = -2
		default:
			f.SupportScore = -5
		}
	}

	// Mid-range drift penalty over the 60-day range
	high60 := bars.HighestHigh(60)
	low60 := bars.LowestLow(60)
	if high60 > low60 {
		f.RangeRatio = (price - low60) / (high60 - low60)
		if f.RangeRatio >= 0.4 && f.RangeRatio <= 0.6 {
			f.MidRangePenalty = -3
		}
	}

	f.Score = f.BreakoutScore + f.SupportScore + f.MidRangePenalty

	switch {
	case f.Score >= 15:
		f.Status = "breakout"
	case f.Score >= 10:
		f.Status = "strong"
	case f.Score >= 5:
		f.Status = "favorable"
	case f.Score >= 0:
		f.Status = "neutral"
	default:
		f.Status = "weak"
	}
	return f
}
