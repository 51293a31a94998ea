package strategy

import (
	"fmt"
	"math"
)

// ValidationError halts the run; a bad strategy file must never screen.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning flags a questionable but legal parameter.
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Cascade ===
	if cfg.Cascade.Band.PctMin >= cfg.Cascade.Band.PctMax {
		return ValidationError{"cascade.band", "pct_min must be < pct_max"}
	}
	if cfg.Cascade.VolumeRatio <= 0 {
		return ValidationError{"cascade.volume_ratio_min", "must be > 0"}
	}
	if cfg.Cascade.Turnover.Min >= cfg.Cascade.Turnover.Max {
		return ValidationError{"cascade.turnover", "min must be < max"}
	}
	if cfg.Cascade.FloatCap.Min >= cfg.Cascade.FloatCap.Max {
		return ValidationError{"cascade.float_cap_cny", "min must be < max"}
	}
	if cfg.Cascade.MonthlyGain.MaxPct > cfg.Cascade.MonthlyGain.RelaxedMaxPct {
		return ValidationError{"cascade.monthly_gain", "max_pct must be <= relaxed_max_pct"}
	}
	if cfg.Cascade.MonthlyGain.LookbackBars <= 0 {
		return ValidationError{"cascade.monthly_gain.lookback_bars", "must be > 0"}
	}
	if cfg.Cascade.VolumePattern.Window < 4 {
		return ValidationError{"cascade.volume_pattern.window", "must be >= 4"}
	}
	if cfg.Cascade.VolumePattern.VolatilityMax <= 0 {
		return ValidationError{"cascade.volume_pattern.volatility_max", "must be > 0"}
	}
	if cfg.Cascade.WinRate.Window <= 0 || cfg.Cascade.WinRate.MinUpDays <= 0 {
		return ValidationError{"cascade.win_rate", "window and min_up_days must be > 0"}
	}
	if cfg.Cascade.WinRate.MinUpDays > cfg.Cascade.WinRate.Window {
		return ValidationError{"cascade.win_rate", "min_up_days must be <= window"}
	}

	// === Benchmark ===
	if cfg.Benchmark.Code == "" {
		return ValidationError{"benchmark.code", "required"}
	}

	// === Themes ===
	for i, theme := range cfg.Themes {
		if theme.Name == "" {
			return ValidationError{fmt.Sprintf("themes[%d].name", i), "required"}
		}
		if len(theme.Keywords) == 0 {
			return ValidationError{fmt.Sprintf("themes[%d].keywords", i), "must not be empty"}
		}
	}

	// === Weights ===
	// Must sum to 1.0 within tolerance
	if math.Abs(cfg.Weights.Sum()-1.0) > 0.01 {
		return ValidationError{"weights", fmt.Sprintf("must sum to 1.0, got %.4f", cfg.Weights.Sum())}
	}
	for field, w := range map[string]float64{
		"weights.fund":     cfg.Weights.Fund,
		"weights.strength": cfg.Weights.Strength,
		"weights.position": cfg.Weights.Position,
		"weights.signal":   cfg.Weights.Signal,
		"weights.smart":    cfg.Weights.Smart,
	} {
		if w < 0 {
			return ValidationError{field, "must be >= 0"}
		}
	}

	// === Gates ===
	if cfg.Gates.TopN < 1 {
		return ValidationError{"gates.top_n", "must be >= 1"}
	}
	if cfg.Gates.MinRiskReward < 0 {
		return ValidationError{"gates.min_risk_reward", "must be >= 0"}
	}

	// === SmartMoney ===
	if cfg.SmartMoney.LookbackDays <= 0 {
		return ValidationError{"smart_money.lookback_days", "must be > 0"}
	}
	if cfg.SmartMoney.MinAppearances < 1 {
		return ValidationError{"smart_money.min_appearances", "must be >= 1"}
	}

	// === Pattern ===
	p := cfg.Pattern
	if p.D1PctMin <= 0 {
		return ValidationError{"pattern.d1_pct_min", "must be > 0"}
	}
	if p.D2VolRatioMin <= 1 {
		return ValidationError{"pattern.d2_vol_ratio_min", "must be > 1"}
	}
	if p.D3PctMin >= p.D3PctMax {
		return ValidationError{"pattern.d3", "pct_min must be < pct_max"}
	}
	if p.D4VolRatioMax <= 0 || p.D4VolRatioMax >= 1 {
		return ValidationError{"pattern.d4_vol_ratio_max", "must be in (0, 1)"}
	}
	if p.FreshnessDays < 1 {
		return ValidationError{"pattern.freshness_days", "must be >= 1"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal).
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Gates.MinComposite < 45 {
		warnings = append(warnings, Warning{
			Code:    "LOW_COMPOSITE_GATE",
			Message: "min_composite below 45 admits B-tier and worse candidates",
		})
	}

	if cfg.Gates.TopN > 50 {
		warnings = append(warnings, Warning{
			Code:    "WIDE_SELECTION",
			Message: "top_n above 50 dilutes the daily list",
		})
	}

	if cfg.SmartMoney.MinNetBuy < 1e6 {
		warnings = append(warnings, Warning{
			Code:    "LOW_NET_BUY_FLOOR",
			Message: "min_net_buy below 1M CNY picks up noise trades",
		})
	}

	return warnings
}
