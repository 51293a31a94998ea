package contracts

import "time"

// Quote is a single symbol's live snapshot row.
type Quote struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	PctChange    float64 `json:"pct_change"`    // percent vs previous close
	VolumeRatio  float64 `json:"volume_ratio"`  // today's pace vs 5-day average
	TurnoverRate float64 `json:"turnover_rate"` // percent of float traded
	Amount       float64 `json:"amount"`        // traded value today, CNY
	FloatCap     float64 `json:"float_cap"`     // float market cap, CNY
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	PrevClose    float64 `json:"prev_close"`
	Industry     string  `json:"industry,omitempty"`
}

// Snapshot is the whole-market quote table at a point in time.
type Snapshot struct {
	Time   time.Time `json:"time"`
	Quotes []Quote   `json:"quotes"`
}

// Count returns the number of quotes in the snapshot.
func (s *Snapshot) Count() int { return len(s.Quotes) }

// Get returns the quote for a code.
func (s *Snapshot) Get(code string) (Quote, bool) {
	for _, q := range s.Quotes {
		if q.Code == code {
			return q, true
		}
	}
	return Quote{}, false
}

// MarketStats holds the market-wide breadth numbers behind the
// sentiment gauge.
type MarketStats struct {
	UpCount             int     `json:"up_count"`
	DownCount           int     `json:"down_count"`
	LimitUpCount        int     `json:"limit_up_count"`
	LimitDownCount      int     `json:"limit_down_count"`
	TotalTurnover       float64 `json:"total_turnover"` // CNY
	IndexPctChange      float64 `json:"index_pct_change"`
	MaxContinuousBoards int     `json:"max_continuous_boards"`
}

// SentimentReading is the gauge output recorded with each batch.
type SentimentReading struct {
	Score  float64            `json:"score"` // 0-100
	Status string             `json:"status"`
	Detail map[string]float64 `json:"detail,omitempty"`
}
