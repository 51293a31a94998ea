package contracts

// FundFlowFactor is the capital-flow analyzer output.
// Consistency and FlowRatio are both in [-10, 10].
type FundFlowFactor struct {
	Consistency float64 `json:"consistency"`
	FlowRatio   float64 `json:"flow_ratio"`
	Pattern     string  `json:"pattern"` // flow pattern classification
	Status      string  `json:"status"`
}

// StrengthFactor is the relative-strength analyzer output.
// Score is clamped to [-15, 15].
type StrengthFactor struct {
	Score          float64 `json:"score"`
	Status         string  `json:"status"`
	Excess1D       float64 `json:"excess_1d"`
	Excess5D       float64 `json:"excess_5d"`
	Excess10D      float64 `json:"excess_10d"`
	OutperformDays int     `json:"outperform_days"`
}

// PositionFactor is the price-position analyzer output.
type PositionFactor struct {
	Score           float64 `json:"score"`
	Status          string  `json:"status"`
	BreakoutScore   float64 `json:"breakout_score"`
	SupportScore    float64 `json:"support_score"`
	MidRangePenalty float64 `json:"mid_range_penalty"`
	High120         float64 `json:"high_120"`
	Low120          float64 `json:"low_120"`
	RangeRatio      float64 `json:"range_ratio"` // position inside the 60-day range
}

// SmartMoneyFactor is the large-trade disclosure analyzer output.
// Score is 0-100 scale (strength/timing blend minus risk).
type SmartMoneyFactor struct {
	Score       float64  `json:"score"`
	Active      bool     `json:"active"` // met appearance and net-buy minimums
	Strength    float64  `json:"strength"`
	TimingStage string   `json:"timing_stage"`
	TimingScore float64  `json:"timing_score"`
	RiskScore   float64  `json:"risk_score"` // 0-100
	RiskSignals []string `json:"risk_signals,omitempty"`
	Advice      string   `json:"advice,omitempty"`
	Appearances int      `json:"appearances"`
	NetBuy      float64  `json:"net_buy"`
	Desks       []string `json:"desks,omitempty"`
}

// FactorBundle carries the four analyzer outputs for one candidate.
// A nil member means the analyzer had no data and reads as neutral.
type FactorBundle struct {
	FundFlow   *FundFlowFactor   `json:"fund_flow,omitempty"`
	Strength   *StrengthFactor   `json:"strength,omitempty"`
	Position   *PositionFactor   `json:"position,omitempty"`
	SmartMoney *SmartMoneyFactor `json:"smart_money,omitempty"`
}

// RiskReward holds the per-candidate stop/target levels.
type RiskReward struct {
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	Ratio      float64 `json:"ratio"`
}
