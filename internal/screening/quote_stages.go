package screening

import (
	"strings"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// BandStage keeps stocks inside the day's change band and drops the
// boards and name marks the strategy excludes. Zero-priced rows are
// suspended symbols and are dropped here too.
func BandStage() Stage {
	return &filterStage{
		name: "band",
		keep: func(c *contracts.Candidate, env *Env) bool {
			band := env.Strategy.Cascade.Band

			if c.Price <= 0 {
				return false
			}
			if c.PctChange < band.PctMin || c.PctChange > band.PctMax {
				return false
			}
			for _, prefix := range band.ExcludePrefixes {
				if strings.HasPrefix(c.Code, prefix) {
					return false
				}
			}
			for _, mark := range band.ExcludeNameMarks {
				if strings.Contains(c.Name, mark) {
					return false
				}
			}
			return true
		},
	}
}

// VolumeRatioStage requires today's volume ratio at or above the floor.
func VolumeRatioStage() Stage {
	return &filterStage{
		name: "volume_ratio",
		keep: func(c *contracts.Candidate, env *Env) bool {
			return c.VolumeRatio >= env.Strategy.Cascade.VolumeRatio
		},
	}
}

// TurnoverStage keeps turnover inside the active-but-not-churning band.
func TurnoverStage() Stage {
	return &filterStage{
		name: "turnover",
		keep: func(c *contracts.Candidate, env *Env) bool {
			r := env.Strategy.Cascade.Turnover
			return c.TurnoverRate >= r.Min && c.TurnoverRate <= r.Max
		},
	}
}

// FloatCapStage keeps the float market cap inside the mid-cap band.
func FloatCapStage() Stage {
	return &filterStage{
		name: "float_cap",
		keep: func(c *contracts.Candidate, env *Env) bool {
			r := env.Strategy.Cascade.FloatCap
			return c.FloatCap >= r.Min && c.FloatCap <= r.Max
		},
	}
}
