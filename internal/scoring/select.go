package scoring

import (
	"sort"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
)

// Select applies the final policy gates: minimum composite, minimum
// risk/reward, then ordering by composite with a bonus for active
// smart money, capped at the configured list size. Equal scores are
// broken by capital-flow signal strength, then theme score. Candidates
// without a computed composite never pass.
func Select(in contracts.CandidateSet, gates strategy.Gates) contracts.CandidateSet {
	passed := make(contracts.CandidateSet, 0, len(in))
	for _, c := range in {
		if c.Composite == nil {
			continue
		}
		if c.Composite.Total < gates.MinComposite {
			continue
		}
		if c.RiskReward == nil || c.RiskReward.Ratio < gates.MinRiskReward {
			continue
		}
		passed = append(passed, c)
	}

	sort.SliceStable(passed, func(i, j int) bool {
		a, b := passed[i], passed[j]
		if sa, sb := orderScore(a, gates), orderScore(b, gates); sa != sb {
			return sa > sb
		}
		if a.SignalStrength != b.SignalStrength {
			return a.SignalStrength > b.SignalStrength
		}
		return a.ThemeScore > b.ThemeScore
	})

	if gates.TopN > 0 && len(passed) > gates.TopN {
		passed = passed[:gates.TopN]
	}
	return passed
}

// orderScore is the ranking key: composite plus the smart-money bonus.
// The bonus affects ordering only, not the stored composite.
func orderScore(c *contracts.Candidate, gates strategy.Gates) float64 {
	score := c.Composite.Total
	if c.SmartMoneyActive() {
		score += gates.SmartMoneyBonus
	}
	return score
}
