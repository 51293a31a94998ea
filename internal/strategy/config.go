package strategy

// Config is the full parameter set for the daily screen. Everything a
// trader might tune lives here; code holds no magic thresholds beyond
// the defaults below.
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Cascade    Cascade    `yaml:"cascade" json:"cascade"`
	Benchmark  Benchmark  `yaml:"benchmark" json:"benchmark"`
	Themes     []Theme    `yaml:"themes" json:"themes"`
	Weights    Weights    `yaml:"weights" json:"weights"`
	Gates      Gates      `yaml:"gates" json:"gates"`
	SmartMoney SmartMoney `yaml:"smart_money" json:"smart_money"`
	Pattern    Pattern    `yaml:"pattern" json:"pattern"`
}

// Meta identifies the strategy revision.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Cascade holds the filter-stage thresholds, in cascade order.
type Cascade struct {
	Band          Band          `yaml:"band" json:"band"`
	VolumeRatio   float64       `yaml:"volume_ratio_min" json:"volume_ratio_min"`
	Turnover      Range         `yaml:"turnover" json:"turnover"`
	FloatCap      Range         `yaml:"float_cap_cny" json:"float_cap_cny"`
	MonthlyGain   MonthlyGain   `yaml:"monthly_gain" json:"monthly_gain"`
	VolumePattern VolumePattern `yaml:"volume_pattern" json:"volume_pattern"`
	MATrend       MATrend       `yaml:"ma_trend" json:"ma_trend"`
	Intraday      Intraday      `yaml:"intraday_strength" json:"intraday_strength"`
	WinRate       WinRate       `yaml:"win_rate" json:"win_rate"`
}

// Band is the first-stage change band plus symbol exclusions.
type Band struct {
	PctMin           float64  `yaml:"pct_min" json:"pct_min"`
	PctMax           float64  `yaml:"pct_max" json:"pct_max"`
	ExcludePrefixes  []string `yaml:"exclude_prefixes" json:"exclude_prefixes"`
	ExcludeNameMarks []string `yaml:"exclude_name_marks" json:"exclude_name_marks"`
}

// Range is a closed [Min, Max] band.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// MonthlyGain bounds the 20-day run-up. A gain inside
// (MaxPct, RelaxedMaxPct] survives only with a quiet last 3 days.
type MonthlyGain struct {
	MaxPct           float64 `yaml:"max_pct" json:"max_pct"`
	RelaxedMaxPct    float64 `yaml:"relaxed_max_pct" json:"relaxed_max_pct"`
	Relaxed3DayMax   float64 `yaml:"relaxed_3day_max" json:"relaxed_3day_max"`
	LookbackBars     int     `yaml:"lookback_bars" json:"lookback_bars"`
	ShortLookback    int     `yaml:"short_lookback" json:"short_lookback"`
	FetchHistoryDays int     `yaml:"fetch_history_days" json:"fetch_history_days"`
}

// VolumePattern is the gentle-volume-increase stage.
type VolumePattern struct {
	Window        int     `yaml:"window" json:"window"`
	IncreaseMin   float64 `yaml:"increase_min" json:"increase_min"`     // second-half vs first-half mean
	VolatilityMax float64 `yaml:"volatility_max" json:"volatility_max"` // std/mean
}

// MATrend is the moving-average alignment stage.
type MATrend struct {
	SpreadMin float64 `yaml:"spread_min" json:"spread_min"` // (MA5-MA20)/MA20
}

// Intraday is the stronger-than-index stage.
type Intraday struct {
	ExcessMin float64 `yaml:"excess_min" json:"excess_min"`
}

// WinRate is the up-day ratio stage.
type WinRate struct {
	Window    int `yaml:"window" json:"window"`
	MinUpDays int `yaml:"min_up_days" json:"min_up_days"`
}

// Benchmark names the index used for relative strength and the
// intraday stage.
type Benchmark struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Theme tags candidates by keyword match.
type Theme struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Weights are the composite factor weights. Must sum to 1.0.
type Weights struct {
	Fund     float64 `yaml:"fund" json:"fund"`
	Strength float64 `yaml:"strength" json:"strength"`
	Position float64 `yaml:"position" json:"position"`
	Signal   float64 `yaml:"signal" json:"signal"`
	Smart    float64 `yaml:"smart" json:"smart"`
}

// Sum returns the weight total.
func (w Weights) Sum() float64 {
	return w.Fund + w.Strength + w.Position + w.Signal + w.Smart
}

// Gates are the final selection policy knobs.
type Gates struct {
	MinComposite    float64 `yaml:"min_composite" json:"min_composite"`
	MinRiskReward   float64 `yaml:"min_risk_reward" json:"min_risk_reward"`
	TopN            int     `yaml:"top_n" json:"top_n"`
	SmartMoneyBonus float64 `yaml:"smart_money_bonus" json:"smart_money_bonus"`
}

// SmartMoney configures the disclosure analyzer.
type SmartMoney struct {
	LookbackDays       int      `yaml:"lookback_days" json:"lookback_days"`
	MinAppearances     int      `yaml:"min_appearances" json:"min_appearances"`
	MinNetBuy          float64  `yaml:"min_net_buy" json:"min_net_buy"`
	Tier1Desks         []string `yaml:"tier1_desks" json:"tier1_desks"`
	Tier2Desks         []string `yaml:"tier2_desks" json:"tier2_desks"`
	InstitutionalMarks []string `yaml:"institutional_marks" json:"institutional_marks"`
}

// Pattern holds the four-day volume pattern thresholds.
type Pattern struct {
	D1PctMin      float64 `yaml:"d1_pct_min" json:"d1_pct_min"`
	D2VolRatioMin float64 `yaml:"d2_vol_ratio_min" json:"d2_vol_ratio_min"`
	D2PctMax      float64 `yaml:"d2_pct_max" json:"d2_pct_max"`
	D3PctMin      float64 `yaml:"d3_pct_min" json:"d3_pct_min"`
	D3PctMax      float64 `yaml:"d3_pct_max" json:"d3_pct_max"`
	D3VolRatioMax float64 `yaml:"d3_vol_ratio_max" json:"d3_vol_ratio_max"`
	D4VolRatioMax float64 `yaml:"d4_vol_ratio_max" json:"d4_vol_ratio_max"`
	D4PctAbsMax   float64 `yaml:"d4_pct_abs_max" json:"d4_pct_abs_max"`
	FreshnessDays int     `yaml:"freshness_days" json:"freshness_days"`
}

// Default returns the shipped parameter set. A strategy file overrides
// it wholesale.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "a_share_breakout_daily",
			Version:    "v2",
			Timezone:   "Asia/Shanghai",
		},
		Cascade: Cascade{
			Band: Band{
				PctMin:           -1,
				PctMax:           5.5,
				ExcludePrefixes:  []string{"8", "4", "3", "688"},
				ExcludeNameMarks: []string{"ST", "st", "退"},
			},
			VolumeRatio: 1.2,
			Turnover:    Range{Min: 10, Max: 18},
			FloatCap:    Range{Min: 4e9, Max: 1.2e10},
			MonthlyGain: MonthlyGain{
				MaxPct:           30,
				RelaxedMaxPct:    50,
				Relaxed3DayMax:   5,
				LookbackBars:     20,
				ShortLookback:    3,
				FetchHistoryDays: 60,
			},
			VolumePattern: VolumePattern{
				Window:        10,
				IncreaseMin:   0.10,
				VolatilityMax: 0.8,
			},
			MATrend:  MATrend{SpreadMin: 0.02},
			Intraday: Intraday{ExcessMin: 2},
			WinRate:  WinRate{Window: 20, MinUpDays: 12},
		},
		Benchmark: Benchmark{
			Code: "000001",
			Name: "上证指数",
		},
		Themes: []Theme{
			{Name: "人工智能", Keywords: []string{"智能", "AI", "算力", "数据"}},
			{Name: "半导体", Keywords: []string{"半导体", "芯片", "集成电路"}},
			{Name: "新能源", Keywords: []string{"新能源", "锂电", "光伏", "储能"}},
			{Name: "医药", Keywords: []string{"医药", "生物", "医疗"}},
			{Name: "军工", Keywords: []string{"军工", "航天", "航空"}},
		},
		Weights: Weights{
			Fund:     0.35,
			Strength: 0.25,
			Position: 0.15,
			Signal:   0.10,
			Smart:    0.15,
		},
		Gates: Gates{
			MinComposite:    55,
			MinRiskReward:   1.5,
			TopN:            20,
			SmartMoneyBonus: 5,
		},
		SmartMoney: SmartMoney{
			LookbackDays:   30,
			MinAppearances: 2,
			MinNetBuy:      5e6,
			Tier1Desks: []string{
				"华鑫证券上海分公司",
				"国泰君安证券上海江苏路",
				"中信证券上海溧阳路",
				"银河证券绍兴",
				"华泰证券深圳益田路荣超商务中心",
			},
			Tier2Desks: []string{
				"东方财富拉萨团结路第二",
				"东方财富拉萨东环路第二",
				"平安证券深圳平安金融中心",
				"招商证券深圳蛇口工业七路",
			},
			InstitutionalMarks: []string{"机构专用", "沪股通专用", "深股通专用"},
		},
		Pattern: Pattern{
			D1PctMin:      9.8,
			D2VolRatioMin: 1.2,
			D2PctMax:      3.0,
			D3PctMin:      -5.0,
			D3PctMax:      0,
			D3VolRatioMax: 1.5,
			D4VolRatioMax: 0.55,
			D4PctAbsMax:   3.0,
			FreshnessDays: 10,
		},
	}
}
