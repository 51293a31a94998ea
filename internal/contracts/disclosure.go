package contracts

import "time"

// Disclosure is one large-trade disclosure row for a symbol: a single
// desk's buy/sell on one board appearance.
type Disclosure struct {
	Date      time.Time `json:"date"`
	Desk      string    `json:"desk"` // trading desk / branch name
	Buy       float64   `json:"buy"`  // CNY
	Sell      float64   `json:"sell"` // CNY
	Net       float64   `json:"net"`
	PctChange float64   `json:"pct_change"` // symbol's change on that day
}

// DisclosureSet is a symbol's disclosure history, date ascending.
type DisclosureSet []Disclosure

// Dates returns the distinct appearance dates in order.
func (d DisclosureSet) Dates() []time.Time {
	var out []time.Time
	seen := map[string]bool{}
	for _, row := range d {
		key := row.Date.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			out = append(out, row.Date)
		}
	}
	return out
}

// TotalNet returns the summed net amount across rows.
func (d DisclosureSet) TotalNet() float64 {
	sum := 0.0
	for _, row := range d {
		sum += row.Net
	}
	return sum
}
