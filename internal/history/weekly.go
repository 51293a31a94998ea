package history

import (
	"context"
	"sort"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// Consecutive finds symbols selected more than once across the most
// recent batches. Repeat selection within a short window is the
// strongest persistence signal the store can offer.
func Consecutive(ctx context.Context, store contracts.BatchStore, lookback int) ([]contracts.ConsecutiveStock, error) {
	entries, err := store.Index(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > lookback {
		entries = entries[:lookback]
	}

	type seen struct {
		name  string
		dates []string
	}
	counts := make(map[string]*seen)

	for _, entry := range entries {
		batch, err := store.LoadBatch(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		for _, stock := range batch.Stocks {
			s, ok := counts[stock.Code]
			if !ok {
				s = &seen{name: stock.Name}
				counts[stock.Code] = s
			}
			s.dates = append(s.dates, batch.Date)
		}
	}

	var out []contracts.ConsecutiveStock
	for code, s := range counts {
		if len(s.dates) < 2 {
			continue
		}
		sort.Strings(s.dates)
		out = append(out, contracts.ConsecutiveStock{
			Code:        code,
			Name:        s.name,
			Appearances: len(s.dates),
			Dates:       s.dates,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Appearances != out[j].Appearances {
			return out[i].Appearances > out[j].Appearances
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
