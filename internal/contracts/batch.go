package contracts

import "time"

// BatchStock is one selected symbol as persisted with a batch.
type BatchStock struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	SelectionPrice   float64  `json:"selection_price"`
	Rating           Rating   `json:"rating"`
	CompositeScore   float64  `json:"composite_score"`
	RiskLevel        int      `json:"risk_level"`
	SignalStrength   int      `json:"signal_strength"`
	Themes           []string `json:"themes,omitempty"`
	LeaderTier       string   `json:"leader_tier,omitempty"`
	SmartMoneyActive bool     `json:"smart_money_active"`
	StopLoss         float64  `json:"stop_loss"`
	TakeProfit       float64  `json:"take_profit"`
	RiskRewardRatio  float64  `json:"risk_reward_ratio"`
}

// Batch is one run's selection result, append-only once saved.
type Batch struct {
	ID        string            `json:"batch_id"` // batch_20060102_150405
	Date      string            `json:"date"`     // 2006-01-02
	CreatedAt time.Time         `json:"created_at"`
	Sector    string            `json:"sector,omitempty"` // set when the run was scoped to one industry
	Sentiment *SentimentReading `json:"sentiment,omitempty"`
	Stocks    []BatchStock      `json:"stocks"`
}

// Codes returns the selected codes in order.
func (b *Batch) Codes() []string {
	out := make([]string, len(b.Stocks))
	for i, s := range b.Stocks {
		out[i] = s.Code
	}
	return out
}

// BatchIndexEntry is one line of the rolling batch index, newest first.
type BatchIndexEntry struct {
	ID    string `json:"batch_id"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyRecord is one day's selection inside a weekly record.
type DailyRecord struct {
	Date    string   `json:"date"`
	BatchID string   `json:"batch_id"`
	Codes   []string `json:"codes"`
}

// WeeklyRecord aggregates one ISO week of selections.
type WeeklyRecord struct {
	Week         string         `json:"week"` // 2006_W34
	DailyRecords []DailyRecord  `json:"daily_records"`
	AllStocks    map[string]int `json:"all_stocks"` // code -> appearance count
}

// ConsecutiveStock is a symbol selected on multiple recent days.
type ConsecutiveStock struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Appearances int      `json:"appearances"`
	Dates       []string `json:"dates"`
}

// SymbolReview is one symbol's performance since selection.
type SymbolReview struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Rating         Rating   `json:"rating"`
	SelectionPrice float64  `json:"selection_price"`
	CurrentPrice   float64  `json:"current_price"`
	ChangePct      float64  `json:"change_pct"`
	NextDayPct     *float64 `json:"next_day_pct,omitempty"` // nil when the selection date is missing from history
}

// ReviewStats aggregates a group of symbol reviews.
type ReviewStats struct {
	Count     int     `json:"count"`
	AvgChange float64 `json:"avg_change"`
	MaxChange float64 `json:"max_change"`
	MinChange float64 `json:"min_change"`
	WinRate   float64 `json:"win_rate"` // share with positive change
}

// ReviewReport is the backtest output for one past batch.
type ReviewReport struct {
	BatchID     string                 `json:"batch_id"`
	Date        string                 `json:"date"`
	GeneratedAt time.Time              `json:"generated_at"`
	Symbols     []SymbolReview         `json:"symbols"`
	Overall     ReviewStats            `json:"overall"`
	ByRating    map[Rating]ReviewStats `json:"by_rating"`
	Evaluation  string                 `json:"evaluation,omitempty"`
}
