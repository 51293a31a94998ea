package contracts

import "time"

// FlowSignal classifies a symbol's intraday capital flow.
type FlowSignal string

const (
	FlowStrongBuy  FlowSignal = "STRONG_BUY"
	FlowBuy        FlowSignal = "BUY"
	FlowNeutral    FlowSignal = "NEUTRAL"
	FlowSell       FlowSignal = "SELL"
	FlowStrongSell FlowSignal = "STRONG_SELL"
	FlowUnknown    FlowSignal = "UNKNOWN"
)

// FlowRow is one symbol's capital-flow breakdown for the day.
// Net amounts are CNY; pcts are the share of turnover.
type FlowRow struct {
	Code      string  `json:"code"`
	MainNet   float64 `json:"main_net"` // super + large combined
	MainPct   float64 `json:"main_pct"`
	SuperNet  float64 `json:"super_net"`
	SuperPct  float64 `json:"super_pct"`
	LargeNet  float64 `json:"large_net"`
	LargePct  float64 `json:"large_pct"`
	MediumNet float64 `json:"medium_net"`
	MediumPct float64 `json:"medium_pct"`
	SmallNet  float64 `json:"small_net"`
	SmallPct  float64 `json:"small_pct"`
}

// Signal classifies the row.
func (r FlowRow) Signal() FlowSignal {
	switch {
	case r.SuperNet > 0 && r.LargeNet > 0 && r.SuperPct > 5:
		return FlowStrongBuy
	case r.MainNet > 0 && r.MainPct > 3:
		return FlowBuy
	case r.SuperNet < 0 && r.LargeNet < 0 && r.MainPct < -5:
		return FlowStrongSell
	case r.MainNet < 0 && r.MainPct < -3:
		return FlowSell
	default:
		return FlowNeutral
	}
}

// Strength maps the signal to the legacy signal-strength scale.
func (s FlowSignal) Strength() int {
	switch s {
	case FlowStrongBuy:
		return 10
	case FlowBuy:
		return 7
	case FlowSell:
		return -7
	case FlowStrongSell:
		return -10
	default:
		// NEUTRAL and UNKNOWN both read as neutral
		return 0
	}
}

// FlowTable is the whole-market flow table, fetched once per run.
type FlowTable struct {
	Date time.Time          `json:"date"`
	Rows map[string]FlowRow `json:"rows"` // key: stock code
}

// Get returns the row for a code.
func (t *FlowTable) Get(code string) (FlowRow, bool) {
	r, ok := t.Rows[code]
	return r, ok
}

// Signal returns the signal for a code. Codes absent from the table
// are Unknown, which downstream treats as neutral.
func (t *FlowTable) Signal(code string) FlowSignal {
	if t == nil || t.Rows == nil {
		return FlowUnknown
	}
	r, ok := t.Rows[code]
	if !ok {
		return FlowUnknown
	}
	return r.Signal()
}

// Count returns the number of rows.
func (t *FlowTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
