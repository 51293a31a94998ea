package contracts

import "time"

// PatternWindow is one detected four-day launch window:
// a limit-up day, a high-volume follow-through, a shallow low-volume
// pullback, then a dried-up consolidation day.
type PatternWindow struct {
	Code string `json:"code"`
	Name string `json:"name"`

	// The matched days, oldest first: D1 surge, D2 follow, D3 pullback,
	// D4 shrink.
	Days [4]Bar `json:"days"`

	VolRatioD2 float64 `json:"vol_ratio_d2"` // V2 / V1
	VolRatioD3 float64 `json:"vol_ratio_d3"` // V3 / V2
	VolRatioD4 float64 `json:"vol_ratio_d4"` // V4 / V1

	EndDate  time.Time `json:"end_date"` // D4 date
	AgeDays  int       `json:"age_days"` // calendar days since D4
	Score    float64   `json:"score"`
	Rating   Rating    `json:"rating"`
	MAStatus string    `json:"ma_status,omitempty"`
}
