package marketdata

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// parseDisclosureHTML extracts dragon-tiger rows from the per-symbol
// board page. The table lists one row per desk per session: date, desk
// name, buy amount, sell amount, net amount, day's change percent.
// Amounts are printed in units of 万元 and converted to yuan here.
func parseDisclosureHTML(r io.Reader) (contracts.DisclosureSet, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse disclosure page: %w", err)
	}

	var out contracts.DisclosureSet

	doc.Find("table.lhb-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		date, err := time.Parse("2006-01-02", cellText(cells, 0))
		if err != nil {
			return
		}

		desk := cellText(cells, 1)
		if desk == "" {
			return
		}

		out = append(out, contracts.Disclosure{
			Date:      date,
			Desk:      desk,
			Buy:       parseAmount(cellText(cells, 2)),
			Sell:      parseAmount(cellText(cells, 3)),
			Net:       parseAmount(cellText(cells, 4)),
			PctChange: parsePercent(cellText(cells, 5)),
		})
	})

	return out, nil
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}

// parseAmount converts a "1,234.56万" cell to yuan. Bare numbers pass
// through unscaled.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	scale := 1.0
	if strings.HasSuffix(s, "亿") {
		scale = 1e8
		s = strings.TrimSuffix(s, "亿")
	} else if strings.HasSuffix(s, "万") {
		scale = 1e4
		s = strings.TrimSuffix(s, "万")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * scale
}

func parsePercent(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
