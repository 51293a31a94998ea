package screening

import (
	"math"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// MonthlyGainStage drops symbols that already ran too far this month.
// A gain inside the relaxed band survives only when the last few days
// were quiet. Fail-open: a symbol with no usable history is kept, the
// later history stages will judge it.
func MonthlyGainStage() Stage {
	return &filterStage{
		name: "monthly_gain",
		keep: func(c *contracts.Candidate, env *Env) bool {
			mg := env.Strategy.Cascade.MonthlyGain

			bars := env.History[c.Code]
			if bars.Len() < mg.LookbackBars+1 {
				return true
			}

			gain := bars.GainPct(mg.LookbackBars)
			if gain < mg.MaxPct {
				return true
			}
			if gain <= mg.RelaxedMaxPct && bars.Len() > mg.ShortLookback {
				return bars.GainPct(mg.ShortLookback) < mg.Relaxed3DayMax
			}
			return false
		},
	}
}

// FlowStage drops symbols the capital-flow table marks as distribution.
// Unknown symbols are neutral and kept. When the table itself is down
// (env.Flow nil) the whole stage passes through.
func FlowStage() Stage {
	return &filterStage{
		name: "capital_flow",
		keep: func(c *contracts.Candidate, env *Env) bool {
			if env.Flow == nil {
				return true
			}

			signal := env.Flow.Signal(c.Code)
			c.FlowSignal = signal
			c.SignalStrength = signal.Strength()

			switch signal {
			case contracts.FlowSell, contracts.FlowStrongSell:
				return false
			}

			// Consistent outflow: main and super both negative is a
			// quieter form of distribution than the signal bands catch
			if row, ok := env.Flow.Get(c.Code); ok {
				if row.MainNet < 0 && row.SuperNet < 0 {
					return false
				}
			}
			return true
		},
	}
}

// VolumePatternStage wants volume drifting up without spiking.
// Fail-closed: missing history drops the symbol, this deep in the
// funnel a symbol must prove itself.
func VolumePatternStage() Stage {
	return &filterStage{
		name: "volume_pattern",
		keep: func(c *contracts.Candidate, env *Env) bool {
			vp := env.Strategy.Cascade.VolumePattern

			bars := env.History[c.Code]
			if bars.Len() < vp.Window {
				return false
			}

			recent := bars.LastN(vp.Window)
			half := vp.Window / 2

			var firstSum, secondSum, total float64
			for i, bar := range recent {
				v := float64(bar.Volume)
				total += v
				if i < half {
					firstSum += v
				} else {
					secondSum += v
				}
			}

			firstMean := firstSum / float64(half)
			secondMean := secondSum / float64(len(recent)-half)
			if firstMean <= 0 {
				return false
			}
			if secondMean < firstMean*(1+vp.IncreaseMin) {
				return false
			}

			mean := total / float64(len(recent))
			var variance float64
			for _, bar := range recent {
				d := float64(bar.Volume) - mean
				variance += d * d
			}
			std := math.Sqrt(variance / float64(len(recent)))

			return std/mean < vp.VolatilityMax
		},
	}
}

// MATrendStage requires bullish moving-average alignment with a real
// spread between the fast and slow lines. Fail-closed.
func MATrendStage() Stage {
	return &filterStage{
		name: "ma_trend",
		keep: func(c *contracts.Candidate, env *Env) bool {
			bars := env.History[c.Code]
			if bars.Len() < 60 {
				return false
			}

			ma5 := bars.MA(5)
			ma10 := bars.MA(10)
			ma20 := bars.MA(20)
			ma60 := bars.MA(60)

			last, ok := bars.Last()
			if !ok || ma20 <= 0 {
				return false
			}

			if !(ma5 > ma10 && ma10 > ma20) {
				return false
			}
			if last.Close <= ma60 {
				return false
			}
			return (ma5-ma20)/ma20 > env.Strategy.Cascade.MATrend.SpreadMin
		},
	}
}

// IntradayStrengthStage keeps only symbols clearly outrunning the index
// today.
func IntradayStrengthStage() Stage {
	return &filterStage{
		name: "intraday_strength",
		keep: func(c *contracts.Candidate, env *Env) bool {
			return c.PctChange > env.IndexPct+env.Strategy.Cascade.Intraday.ExcessMin
		},
	}
}

// WinRateStage requires enough up-closes over the window. Fail-closed.
func WinRateStage() Stage {
	return &filterStage{
		name: "win_rate",
		keep: func(c *contracts.Candidate, env *Env) bool {
			wr := env.Strategy.Cascade.WinRate

			bars := env.History[c.Code]
			if bars.Len() < wr.Window {
				return false
			}

			up := 0
			for _, bar := range bars.LastN(wr.Window) {
				if bar.Close > bar.Open {
					up++
				}
			}
			return up >= wr.MinUpDays
		},
	}
}
