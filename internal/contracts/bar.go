package contracts

import (
	"math"
	"time"
)

// Bar is a single daily OHLCV bar (forward adjusted).
type Bar struct {
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	Amount    float64   `json:"amount"`     // turnover in CNY
	PctChange float64   `json:"pct_change"` // day-over-day close change, percent
}

// BarSeries is a date-ascending series of daily bars.
type BarSeries []Bar

// Len returns the number of bars.
func (s BarSeries) Len() int { return len(s) }

// Last returns the most recent bar. The second return is false for an
// empty series.
func (s BarSeries) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// LastN returns the trailing n bars (fewer when the series is shorter).
func (s BarSeries) LastN(n int) BarSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Closes returns the close column.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// MA returns the simple moving average of the last n closes.
// Returns 0 when the series is shorter than n.
func (s BarSeries) MA(n int) float64 {
	if n <= 0 || len(s) < n {
		return 0
	}
	sum := 0.0
	for _, b := range s.LastN(n) {
		sum += b.Close
	}
	return sum / float64(n)
}

// AvgVolume returns the mean volume of the last n bars.
func (s BarSeries) AvgVolume(n int) float64 {
	if n <= 0 || len(s) < n {
		return 0
	}
	sum := 0.0
	for _, b := range s.LastN(n) {
		sum += float64(b.Volume)
	}
	return sum / float64(n)
}

// HighestHigh returns the highest high of the last n bars.
func (s BarSeries) HighestHigh(n int) float64 {
	high := math.Inf(-1)
	for _, b := range s.LastN(n) {
		if b.High > high {
			high = b.High
		}
	}
	if math.IsInf(high, -1) {
		return 0
	}
	return high
}

// LowestLow returns the lowest low of the last n bars.
func (s BarSeries) LowestLow(n int) float64 {
	low := math.Inf(1)
	for _, b := range s.LastN(n) {
		if b.Low < low {
			low = b.Low
		}
	}
	if math.IsInf(low, 1) {
		return 0
	}
	return low
}

// VWAP returns the volume-weighted average price over the last n bars,
// computed from amount and volume.
func (s BarSeries) VWAP(n int) float64 {
	var amount, volume float64
	for _, b := range s.LastN(n) {
		amount += b.Amount
		volume += float64(b.Volume)
	}
	if volume == 0 {
		return 0
	}
	return amount / volume
}

// GainPct returns the percent change of close over the last n bars
// (from the close n bars ago to the latest close).
func (s BarSeries) GainPct(n int) float64 {
	if n <= 0 || len(s) < n+1 {
		return 0
	}
	base := s[len(s)-1-n].Close
	if base == 0 {
		return 0
	}
	return (s[len(s)-1].Close - base) / base * 100
}

// FindDate returns the index of the bar whose date matches day
// (calendar date, timezone-insensitive), or -1 when absent.
func (s BarSeries) FindDate(day time.Time) int {
	y, m, d := day.Date()
	for i, b := range s {
		by, bm, bd := b.Date.Date()
		if by == y && bm == m && bd == d {
			return i
		}
	}
	return -1
}
