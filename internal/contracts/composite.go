package contracts

// Rating is the composite rating tier.
type Rating string

const (
	RatingAAA Rating = "AAA"
	RatingAA  Rating = "AA"
	RatingA   Rating = "A"
	RatingB   Rating = "B"
	RatingC   Rating = "C"
	RatingD   Rating = "D"
)

// RateComposite maps a composite score and risk level to a tier.
func RateComposite(score float64, riskLevel int) Rating {
	switch {
	case score >= 75 && riskLevel == 0:
		return RatingAAA
	case score >= 65 && riskLevel <= 1:
		return RatingAA
	case score >= 55 && riskLevel <= 1:
		return RatingA
	case score >= 45:
		return RatingB
	case score >= 35:
		return RatingC
	default:
		return RatingD
	}
}

// Composite is the weighted multi-factor score for one candidate.
// Component scores are normalized to [0, 100] before weighting.
type Composite struct {
	FundScore     float64 `json:"fund_score"`
	StrengthScore float64 `json:"strength_score"`
	PositionScore float64 `json:"position_score"`
	SignalScore   float64 `json:"signal_score"` // legacy flow-signal strength
	SmartScore    float64 `json:"smart_score"`

	Total     float64  `json:"total"`
	RiskLevel int      `json:"risk_level"`
	Warnings  []string `json:"warnings,omitempty"`
	Rating    Rating   `json:"rating"`
}
