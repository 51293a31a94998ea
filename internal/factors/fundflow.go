package factors

import (
	"math"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// FundFlow grades a symbol's capital-flow row into a consistency score
// and a flow-ratio score, both on a -10..+10 scale. A nil row means
// the table had no entry; the factor stays neutral.
func FundFlow(row *contracts.FlowRow) *contracts.FundFlowFactor {
	if row == nil {
		return &contracts.FundFlowFactor{Status: "no_data"}
	}

	f := &contracts.FundFlowFactor{}
	f.Consistency, f.Pattern = consistencyScore(row)
	f.FlowRatio = flowRatioScore(row.MainPct)

	switch {
	case f.Consistency >= 7 && f.FlowRatio >= 5:
		f.Status = "strong_inflow"
	case f.Consistency >= 3:
		f.Status = "inflow"
	case f.Consistency <= -7:
		f.Status = "heavy_outflow"
	case f.Consistency <= -3:
		f.Status = "outflow"
	default:
		f.Status = "mixed"
	}
	return f
}

// consistencyScore reads the alignment of the big-money tiers.
func consistencyScore(row *contracts.FlowRow) (float64, string) {
	retailNet := row.MediumNet + row.SmallNet

	switch {
	case row.SuperNet > 0 && row.LargeNet > 0:
		return 10, "aligned_inflow"
	case row.SuperNet > 0 && row.MainNet < 0 && math.Abs(row.MainNet) > math.Abs(retailNet):
		// Headline outflow masking super-sized accumulation
		return 7, "accumulation"
	case row.MainNet > 0:
		// Big buckets disagree but the total still flows in
		return 3, "divergence"
	case row.SuperNet < 0 && row.LargeNet < 0:
		return -10, "aligned_outflow"
	case row.SuperNet < 0 && retailNet > 0:
		// Institutions handing shares to retail
		return -5, "distribution"
	default:
		return 0, "balanced"
	}
}

// flowRatioScore bands the main net inflow as a percent of turnover.
func flowRatioScore(mainPct float64) float64 {
	switch {
	case mainPct > 10:
		return 10
	case mainPct > 5:
		return 7
	case mainPct > 2:
		return 5
	case mainPct > 0:
		return 3
	case mainPct > -2:
		return 0
	case mainPct > -5:
		return -3
	case mainPct > -10:
		return -7
	default:
		return -10
	}
}
