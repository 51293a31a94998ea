package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/httputil"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// EastMoney implements contracts.MarketData against the eastmoney push2
// endpoints. All requests run through the shared retrying client.
type EastMoney struct {
	client   *httputil.Client
	quoteURL string
	klineURL string
	dataURL  string
	logger   *logger.Logger
}

// NewEastMoney builds the provider from config.
func NewEastMoney(cfg *config.Config, client *httputil.Client, log *logger.Logger) *EastMoney {
	return &EastMoney{
		client:   client,
		quoteURL: cfg.Provider.QuoteBaseURL,
		klineURL: cfg.Provider.KlineBaseURL,
		dataURL:  cfg.Provider.DataBaseURL,
		logger:   log,
	}
}

// listResponse is the generic clist payload shape.
type listResponse struct {
	Data struct {
		Total int                      `json:"total"`
		Diff  []map[string]interface{} `json:"diff"`
	} `json:"data"`
}

// klineResponse is the kline payload shape.
type klineResponse struct {
	Data struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// quoteResponse is the single-quote payload shape.
type quoteResponse struct {
	Data map[string]interface{} `json:"data"`
}

// Snapshot fetches the whole-market quote table.
func (e *EastMoney) Snapshot(ctx context.Context) (*contracts.Snapshot, error) {
	// f2 price, f3 pct, f6 amount, f8 turnover, f10 volume ratio,
	// f12 code, f14 name, f18 prev close, f15/f16/f17 high/low/open,
	// f21 float cap, f100 industry
	url := fmt.Sprintf(
		"%s/api/qt/clist/get?pn=1&pz=10000&po=1&np=1&fltt=2&invt=2"+
			"&fs=m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"+
			"&fields=f2,f3,f6,f8,f10,f12,f14,f15,f16,f17,f18,f21,f100",
		e.quoteURL,
	)

	var resp listResponse
	if err := e.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}

	snapshot := &contracts.Snapshot{
		Time:   time.Now(),
		Quotes: make([]contracts.Quote, 0, len(resp.Data.Diff)),
	}

	for _, row := range resp.Data.Diff {
		code := asString(row["f12"])
		if code == "" {
			continue
		}
		snapshot.Quotes = append(snapshot.Quotes, contracts.Quote{
			Code:         code,
			Name:         asString(row["f14"]),
			Price:        asFloat(row["f2"]),
			PctChange:    asFloat(row["f3"]),
			VolumeRatio:  asFloat(row["f10"]),
			TurnoverRate: asFloat(row["f8"]),
			Amount:       asFloat(row["f6"]),
			FloatCap:     asFloat(row["f21"]),
			High:         asFloat(row["f15"]),
			Low:          asFloat(row["f16"]),
			Open:         asFloat(row["f17"]),
			PrevClose:    asFloat(row["f18"]),
			Industry:     asString(row["f100"]),
		})
	}

	e.logger.WithField("quotes", len(snapshot.Quotes)).Debug("Snapshot fetched")
	return snapshot, nil
}

// History fetches forward-adjusted daily bars.
func (e *EastMoney) History(ctx context.Context, code string, days int) (contracts.BarSeries, error) {
	return e.fetchKlines(ctx, secID(code), days)
}

// IndexHistory fetches daily bars for a benchmark index.
func (e *EastMoney) IndexHistory(ctx context.Context, code string, days int) (contracts.BarSeries, error) {
	return e.fetchKlines(ctx, "1."+code, days)
}

func (e *EastMoney) fetchKlines(ctx context.Context, secid string, days int) (contracts.BarSeries, error) {
	beg := time.Now().AddDate(0, 0, -days*2).Format("20060102")
	url := fmt.Sprintf(
		"%s/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&beg=%s&end=20500101"+
			"&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61",
		e.klineURL, secid, beg,
	)

	var resp klineResponse
	if err := e.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("kline fetch failed for %s: %w", secid, err)
	}

	bars := make(contracts.BarSeries, 0, len(resp.Data.Klines))
	for _, line := range resp.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			e.logger.WithError(err).WithField("secid", secid).Warn("Skipping malformed kline")
			continue
		}
		bars = append(bars, bar)
	}

	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// parseKline decodes one comma-joined kline row:
// date,open,close,high,low,volume,amount,amplitude,pct,chg,turnover
func parseKline(line string) (contracts.Bar, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 9 {
		return contracts.Bar{}, fmt.Errorf("kline has %d fields", len(parts))
	}

	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return contracts.Bar{}, fmt.Errorf("bad kline date %q: %w", parts[0], err)
	}

	open, _ := strconv.ParseFloat(parts[1], 64)
	closePx, _ := strconv.ParseFloat(parts[2], 64)
	high, _ := strconv.ParseFloat(parts[3], 64)
	low, _ := strconv.ParseFloat(parts[4], 64)
	volume, _ := strconv.ParseInt(parts[5], 10, 64)
	amount, _ := strconv.ParseFloat(parts[6], 64)
	pct, _ := strconv.ParseFloat(parts[8], 64)

	return contracts.Bar{
		Date:      date,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePx,
		Volume:    volume,
		Amount:    amount,
		PctChange: pct,
	}, nil
}

// IndexQuote fetches the benchmark's live quote.
func (e *EastMoney) IndexQuote(ctx context.Context, code string) (*contracts.Quote, error) {
	// f43 price, f170 pct, f60 prev close; fltt=2 returns plain decimals
	url := fmt.Sprintf(
		"%s/api/qt/stock/get?secid=1.%s&fltt=2&invt=2&fields=f43,f57,f58,f60,f170",
		e.quoteURL, code,
	)

	var resp quoteResponse
	if err := e.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("index quote fetch failed for %s: %w", code, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("index quote empty for %s", code)
	}

	return &contracts.Quote{
		Code:      asString(resp.Data["f57"]),
		Name:      asString(resp.Data["f58"]),
		Price:     asFloat(resp.Data["f43"]),
		PctChange: asFloat(resp.Data["f170"]),
		PrevClose: asFloat(resp.Data["f60"]),
	}, nil
}

// FlowTable fetches the whole-market capital-flow table in one call.
func (e *EastMoney) FlowTable(ctx context.Context) (*contracts.FlowTable, error) {
	// f62/f184 main, f66/f69 super, f72/f75 large, f78/f81 medium,
	// f84/f87 small
	url := fmt.Sprintf(
		"%s/api/qt/clist/get?pn=1&pz=10000&po=1&np=1&fltt=2&invt=2&fid=f62"+
			"&fs=m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"+
			"&fields=f12,f62,f66,f69,f72,f75,f78,f81,f84,f87,f184",
		e.quoteURL,
	)

	var resp listResponse
	if err := e.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("flow table fetch failed: %w", err)
	}

	table := &contracts.FlowTable{
		Date: time.Now(),
		Rows: make(map[string]contracts.FlowRow, len(resp.Data.Diff)),
	}

	for _, row := range resp.Data.Diff {
		code := asString(row["f12"])
		if code == "" {
			continue
		}
		table.Rows[code] = contracts.FlowRow{
			Code:      code,
			MainNet:   asFloat(row["f62"]),
			MainPct:   asFloat(row["f184"]),
			SuperNet:  asFloat(row["f66"]),
			SuperPct:  asFloat(row["f69"]),
			LargeNet:  asFloat(row["f72"]),
			LargePct:  asFloat(row["f75"]),
			MediumNet: asFloat(row["f78"]),
			MediumPct: asFloat(row["f81"]),
			SmallNet:  asFloat(row["f84"]),
			SmallPct:  asFloat(row["f87"]),
		}
	}

	e.logger.WithField("rows", table.Count()).Debug("Flow table fetched")
	return table, nil
}

// Disclosures fetches and parses a symbol's dragon-tiger board page.
func (e *EastMoney) Disclosures(ctx context.Context, code string, lookbackDays int) (contracts.DisclosureSet, error) {
	url := fmt.Sprintf("%s/stock/lhb/%s.html", e.dataURL, code)

	resp, err := e.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("disclosure fetch failed for %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("disclosure fetch for %s returned %d", code, resp.StatusCode)
	}

	rows, err := parseDisclosureHTML(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("disclosure parse failed for %s: %w", code, err)
	}

	cutoff := time.Now().AddDate(0, 0, -lookbackDays)
	var out contracts.DisclosureSet
	for _, row := range rows {
		if row.Date.Before(cutoff) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// MarketStats derives the breadth numbers from the snapshot and the
// benchmark quote. The continuous-board count is not exposed by the
// list endpoints; the gauge treats zero as neutral.
func (e *EastMoney) MarketStats(ctx context.Context) (*contracts.MarketStats, error) {
	snapshot, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	index, err := e.IndexQuote(ctx, "000001")
	if err != nil {
		return nil, err
	}

	return DeriveMarketStats(snapshot, index), nil
}

// DeriveMarketStats computes breadth numbers from a snapshot.
func DeriveMarketStats(snapshot *contracts.Snapshot, index *contracts.Quote) *contracts.MarketStats {
	stats := &contracts.MarketStats{}
	for _, q := range snapshot.Quotes {
		switch {
		case q.PctChange > 0:
			stats.UpCount++
		case q.PctChange < 0:
			stats.DownCount++
		}
		if q.PctChange >= 9.8 {
			stats.LimitUpCount++
		}
		if q.PctChange <= -9.8 {
			stats.LimitDownCount++
		}
		stats.TotalTurnover += q.Amount
	}
	if index != nil {
		stats.IndexPctChange = index.PctChange
	}
	return stats
}

// secID maps a stock code to the provider's market-prefixed id.
func secID(code string) string {
	if strings.HasPrefix(code, "6") {
		return "1." + code
	}
	return "0." + code
}

// asFloat tolerates the provider's habit of sending "-" for missing
// numbers.
func asFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
