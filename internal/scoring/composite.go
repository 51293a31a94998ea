package scoring

import (
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
)

// Compose blends the factor bundle into a single 0-100 composite.
// Each factor is normalized onto 0-100 first; missing factors read as
// the neutral midpoint of their raw scale. Contradictory factor pairs
// raise the risk level and leave a warning on the result.
func Compose(c *contracts.Candidate, weights strategy.Weights) *contracts.Composite {
	out := &contracts.Composite{}

	var fundRaw, rsRaw, posRaw float64
	var smart float64

	if f := c.Factors; f != nil {
		if f.FundFlow != nil {
			fundRaw = (f.FundFlow.Consistency + f.FundFlow.FlowRatio) / 2
		}
		if f.Strength != nil {
			rsRaw = f.Strength.Score
		}
		if f.Position != nil {
			posRaw = f.Position.Score
		}
		if f.SmartMoney != nil && f.SmartMoney.Active {
			smart = f.SmartMoney.Score
		}
	}

	out.FundScore = clamp((fundRaw + 10) * 5)
	out.StrengthScore = clamp((rsRaw + 15) * 3.33)
	out.PositionScore = clamp((posRaw + 10) * 4)
	out.SignalScore = clamp(float64(c.SignalStrength) * 10)
	out.SmartScore = clamp(smart)

	out.Total = clamp(out.FundScore*weights.Fund +
		out.StrengthScore*weights.Strength +
		out.PositionScore*weights.Position +
		out.SignalScore*weights.Signal +
		out.SmartScore*weights.Smart)

	checkContradictions(out, fundRaw, rsRaw, posRaw)

	out.Rating = contracts.RateComposite(out.Total, out.RiskLevel)
	return out
}

// checkContradictions flags factor pairs that disagree hard. Each hit
// bumps the risk level, which caps the reachable rating.
func checkContradictions(out *contracts.Composite, fund, rs, pos float64) {
	type rule struct {
		hit     bool
		warning string
	}

	rules := []rule{
		{fund > 5 && rs < -5, "inflow without price strength"},
		{fund < -5 && rs > 5, "price strength without inflow"},
		{rs > 5 && pos < -3, "strength at a weak position"},
		{fund > 5 && pos < -5, "inflow at a weak position"},
	}

	for _, r := range rules {
		if r.hit {
			out.RiskLevel++
			out.Warnings = append(out.Warnings, r.warning)
		}
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
