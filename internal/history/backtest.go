package history

import (
	"context"
	"fmt"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// Reviewer re-prices a past batch against adjusted history and grades
// how the selections worked out, overall and per rating tier.
type Reviewer struct {
	data   contracts.MarketData
	logger *logger.Logger
}

// NewReviewer builds a reviewer over a market data source.
func NewReviewer(data contracts.MarketData, log *logger.Logger) *Reviewer {
	return &Reviewer{data: data, logger: log}
}

// Review prices every symbol in the batch. Symbols whose history fetch
// fails are skipped; symbols whose selection date is absent from the
// adjusted history keep their overall change but drop out of the
// next-day stat.
func (r *Reviewer) Review(ctx context.Context, batch *contracts.Batch) (*contracts.ReviewReport, error) {
	selectionDate, err := time.Parse("2006-01-02", batch.Date)
	if err != nil {
		return nil, fmt.Errorf("bad batch date %q: %w", batch.Date, err)
	}

	report := &contracts.ReviewReport{
		BatchID:     batch.ID,
		Date:        batch.Date,
		GeneratedAt: time.Now(),
		ByRating:    make(map[contracts.Rating]contracts.ReviewStats),
	}

	for _, stock := range batch.Stocks {
		bars, err := r.data.History(ctx, stock.Code, 60)
		if err != nil || bars.Len() == 0 {
			r.logger.WithField("stock_code", stock.Code).Warn("Skipping review symbol without history")
			continue
		}

		last, _ := bars.Last()
		review := contracts.SymbolReview{
			Code:           stock.Code,
			Name:           stock.Name,
			Rating:         stock.Rating,
			SelectionPrice: stock.SelectionPrice,
			CurrentPrice:   last.Close,
		}
		if stock.SelectionPrice > 0 {
			review.ChangePct = (last.Close - stock.SelectionPrice) / stock.SelectionPrice * 100
		}

		// Next trading day's move, when the selection date is present
		if idx := bars.FindDate(selectionDate); idx >= 0 && idx+1 < bars.Len() {
			next := bars[idx+1].PctChange
			review.NextDayPct = &next
		}

		report.Symbols = append(report.Symbols, review)
	}

	report.Overall = summarize(report.Symbols)
	for rating, group := range groupByRating(report.Symbols) {
		report.ByRating[rating] = summarize(group)
	}
	report.Evaluation = evaluate(report)

	return report, nil
}

func groupByRating(symbols []contracts.SymbolReview) map[contracts.Rating][]contracts.SymbolReview {
	groups := make(map[contracts.Rating][]contracts.SymbolReview)
	for _, s := range symbols {
		groups[s.Rating] = append(groups[s.Rating], s)
	}
	return groups
}

func summarize(symbols []contracts.SymbolReview) contracts.ReviewStats {
	stats := contracts.ReviewStats{Count: len(symbols)}
	if len(symbols) == 0 {
		return stats
	}

	stats.MaxChange = symbols[0].ChangePct
	stats.MinChange = symbols[0].ChangePct
	wins := 0
	var sum float64

	for _, s := range symbols {
		sum += s.ChangePct
		if s.ChangePct > stats.MaxChange {
			stats.MaxChange = s.ChangePct
		}
		if s.ChangePct < stats.MinChange {
			stats.MinChange = s.ChangePct
		}
		if s.ChangePct > 0 {
			wins++
		}
	}

	stats.AvgChange = sum / float64(len(symbols))
	stats.WinRate = float64(wins) / float64(len(symbols)) * 100
	return stats
}

// evaluate writes the one-line verdict comparing the top tier to the
// whole batch.
func evaluate(report *contracts.ReviewReport) string {
	if report.Overall.Count == 0 {
		return "no symbols could be reviewed"
	}

	aaa, ok := report.ByRating[contracts.RatingAAA]
	if !ok || aaa.Count == 0 {
		return fmt.Sprintf("batch averaged %+.2f%% with %.0f%% winners; no AAA selections to compare",
			report.Overall.AvgChange, report.Overall.WinRate)
	}

	verdict := "underperformed"
	if aaa.AvgChange >= report.Overall.AvgChange {
		verdict = "outperformed"
	}
	return fmt.Sprintf("AAA picks averaged %+.2f%% and %s the batch average of %+.2f%%",
		aaa.AvgChange, verdict, report.Overall.AvgChange)
}

// PatternOutcome tracks a scored pattern window over the days after
// its D4, up to ten sessions.
type PatternOutcome struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	EndDate    string  `json:"end_date"`
	Change1D   float64 `json:"change_1d"`
	Change3D   float64 `json:"change_3d"`
	Change5D   float64 `json:"change_5d"`
	MaxGainPct float64 `json:"max_gain_pct"`
	MaxLossPct float64 `json:"max_loss_pct"`
	BestExit   int     `json:"best_exit"` // session offset of the peak close
	Sessions   int     `json:"sessions"`  // sessions observed after D4
}

// ReviewPattern measures what happened after a detected window.
func ReviewPattern(w *contracts.PatternWindow, bars contracts.BarSeries) *PatternOutcome {
	idx := bars.FindDate(w.EndDate)
	if idx < 0 {
		return nil
	}

	base := bars[idx].Close
	if base <= 0 {
		return nil
	}

	out := &PatternOutcome{
		Code:    w.Code,
		Name:    w.Name,
		EndDate: w.EndDate.Format("2006-01-02"),
	}

	limit := idx + 10
	if limit > bars.Len()-1 {
		limit = bars.Len() - 1
	}

	for i := idx + 1; i <= limit; i++ {
		offset := i - idx
		change := (bars[i].Close - base) / base * 100

		switch offset {
		case 1:
			out.Change1D = change
		case 3:
			out.Change3D = change
		case 5:
			out.Change5D = change
		}
		if change > out.MaxGainPct {
			out.MaxGainPct = change
			out.BestExit = offset
		}
		if change < out.MaxLossPct {
			out.MaxLossPct = change
		}
		out.Sessions = offset
	}
	return out
}
