package pattern

import (
	"strings"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
)

// Detector finds the four-day contraction setup: a limit-up day (D1),
// a higher-volume stall (D2), a quiet shallow pullback (D3) and a
// drying-up day (D4). The scan walks backward from the newest bar, so
// the most recent complete window wins.
type Detector struct {
	cfg strategy.Pattern
}

// NewDetector builds a detector from the strategy thresholds.
func NewDetector(cfg strategy.Pattern) *Detector {
	return &Detector{cfg: cfg}
}

// Detect returns the freshest matching window, or nil. now anchors the
// freshness cutoff; bars must be in ascending date order.
func (d *Detector) Detect(code, name string, bars contracts.BarSeries, now time.Time) *contracts.PatternWindow {
	if bars.Len() < 4 {
		return nil
	}

	cutoff := now.AddDate(0, 0, -d.cfg.FreshnessDays)

	// i indexes the D4 bar
	for i := bars.Len() - 1; i >= 3; i-- {
		d4 := bars[i]
		if d4.Date.Before(cutoff) {
			return nil
		}

		d1, d2, d3 := bars[i-3], bars[i-2], bars[i-1]
		if !d.matches(d1, d2, d3, d4) {
			continue
		}

		w := &contracts.PatternWindow{
			Code:    code,
			Name:    name,
			Days:    [4]contracts.Bar{d1, d2, d3, d4},
			EndDate: d4.Date,
			AgeDays: int(now.Sub(d4.Date).Hours() / 24),
		}
		if d1.Volume > 0 {
			w.VolRatioD2 = float64(d2.Volume) / float64(d1.Volume)
			w.VolRatioD4 = float64(d4.Volume) / float64(d1.Volume)
		}
		if d2.Volume > 0 {
			w.VolRatioD3 = float64(d3.Volume) / float64(d2.Volume)
		}
		return w
	}
	return nil
}

func (d *Detector) matches(d1, d2, d3, d4 contracts.Bar) bool {
	if d1.Volume <= 0 || d2.Volume <= 0 {
		return false
	}

	// D1: limit-up surge
	if d1.PctChange < d.cfg.D1PctMin {
		return false
	}

	// D2: volume pushes higher but price stalls
	if float64(d2.Volume) <= float64(d1.Volume)*d.cfg.D2VolRatioMin {
		return false
	}
	if d2.PctChange >= d.cfg.D2PctMax {
		return false
	}

	// D3: shallow pullback without panic volume
	if d3.PctChange <= d.cfg.D3PctMin || d3.PctChange >= d.cfg.D3PctMax {
		return false
	}
	if float64(d3.Volume) >= float64(d2.Volume)*d.cfg.D3VolRatioMax {
		return false
	}

	// D4: volume dries up, price goes quiet
	if float64(d4.Volume) > float64(d1.Volume)*d.cfg.D4VolRatioMax {
		return false
	}
	if d4.PctChange > d.cfg.D4PctAbsMax || d4.PctChange < -d.cfg.D4PctAbsMax {
		return false
	}

	return true
}

// InUniverse reports whether a symbol belongs to the pattern scan:
// Shanghai main board only, no ST or delisting names.
func InUniverse(code, name string) bool {
	if len(code) != 6 || !strings.HasPrefix(code, "60") {
		return false
	}
	for _, mark := range []string{"ST", "st", "退"} {
		if strings.Contains(name, mark) {
			return false
		}
	}
	return true
}
