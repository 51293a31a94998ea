package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/httputil"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func newTestProvider(t *testing.T, handler http.Handler) (*EastMoney, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Provider: config.ProviderConfig{
			QuoteBaseURL: server.URL,
			KlineBaseURL: server.URL,
			DataBaseURL:  server.URL,
			Timeout:      5 * time.Second,
		},
	}

	client := httputil.New(cfg, testLogger())
	return NewEastMoney(cfg, client, testLogger()), server
}

func TestEastMoney_Snapshot(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/api/qt/clist/get")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"total":2,"diff":[
			{"f12":"600519","f14":"贵州茅台","f2":1700.5,"f3":2.1,"f6":5.36e9,"f8":1.2,"f10":1.5,"f21":2.1e12,"f100":"酿酒行业"},
			{"f12":"000001","f14":"平安银行","f2":"-","f3":-0.5,"f6":"-","f8":0.8,"f10":0.9,"f21":2.5e11,"f100":"银行"}
		]}}`))
	}))

	snapshot, err := provider.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, snapshot.Count())

	q, ok := snapshot.Get("600519")
	require.True(t, ok)
	assert.Equal(t, "贵州茅台", q.Name)
	assert.Equal(t, 1700.5, q.Price)
	assert.Equal(t, 2.1, q.PctChange)
	assert.Equal(t, 5.36e9, q.Amount)

	// Suspended symbols report "-" for price; parsed as zero
	suspended, ok := snapshot.Get("000001")
	require.True(t, ok)
	assert.Equal(t, 0.0, suspended.Price)
}

func TestEastMoney_History(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.RawQuery, "secid=1.600519")
		require.Contains(t, r.URL.RawQuery, "fqt=1")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"code":"600519","klines":[
			"2026-08-27,1690.0,1700.5,1710.0,1685.0,31500,5.36e9,1.48,0.62,10.5,0.25",
			"2026-08-28,1701.0,1720.0,1725.0,1698.0,42000,7.21e9,1.59,1.15,19.5,0.33",
			"garbage line"
		]}}`))
	}))

	bars, err := provider.History(context.Background(), "600519", 60)
	require.NoError(t, err)
	require.Len(t, bars, 2, "malformed klines are skipped")

	last, ok := bars.Last()
	require.True(t, ok)
	assert.Equal(t, 1720.0, last.Close)
	assert.Equal(t, int64(42000), last.Volume)
	assert.Equal(t, 1.15, last.PctChange)
}

func TestEastMoney_HistoryTrimsToWindow(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"klines":[
			"2026-08-25,10,10,10,10,100,1000,0,0,0,0",
			"2026-08-26,10,11,11,10,100,1000,0,10,1,0",
			"2026-08-27,11,12,12,11,100,1000,0,9,1,0"
		]}}`))
	}))

	bars, err := provider.History(context.Background(), "600519", 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 11.0, bars[0].Close, "oldest bars dropped first")
}

func TestEastMoney_IndexQuote(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.RawQuery, "secid=1.000001")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"f43":3250.2,"f57":"000001","f58":"上证指数","f60":3230.1,"f170":0.62}}`))
	}))

	q, err := provider.IndexQuote(context.Background(), "000001")
	require.NoError(t, err)
	assert.Equal(t, "上证指数", q.Name)
	assert.Equal(t, 3250.2, q.Price)
	assert.Equal(t, 0.62, q.PctChange)
}

func TestEastMoney_FlowTable(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.RawQuery, "fid=f62")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"total":1,"diff":[
			{"f12":"600519","f62":5.2e7,"f184":4.1,"f66":3.9e7,"f69":6.2,"f72":1.3e7,"f75":2.0,"f78":-8.0e6,"f81":-1.2,"f84":-4.4e7,"f87":-5.0}
		]}}`))
	}))

	table, err := provider.FlowTable(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Count())

	row, ok := table.Get("600519")
	require.True(t, ok)
	assert.Equal(t, 5.2e7, row.MainNet)
	assert.Equal(t, 6.2, row.SuperPct)
	assert.Equal(t, "STRONG_BUY", string(row.Signal()))
}

func TestEastMoney_SecID(t *testing.T) {
	assert.Equal(t, "1.600519", secID("600519"))
	assert.Equal(t, "0.000001", secID("000001"))
	assert.Equal(t, "0.300750", secID("300750"))
}

func TestDeriveMarketStats(t *testing.T) {
	snapshot := &contracts.Snapshot{}
	for _, pct := range []float64{10.0, 2.5, 0.0, -1.2, -9.9} {
		snapshot.Quotes = append(snapshot.Quotes, contracts.Quote{PctChange: pct, Amount: 3e11})
	}

	stats := DeriveMarketStats(snapshot, &contracts.Quote{PctChange: 0.8})

	assert.Equal(t, 2, stats.UpCount)
	assert.Equal(t, 2, stats.DownCount)
	assert.Equal(t, 1, stats.LimitUpCount)
	assert.Equal(t, 1, stats.LimitDownCount)
	assert.Equal(t, 0.8, stats.IndexPctChange)
	assert.InDelta(t, 1.5e12, stats.TotalTurnover, 1, "turnover is the summed traded value")
}

func TestEastMoney_HistoryServerError(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	_, err := provider.History(context.Background(), "600519", 60)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "kline fetch failed"))
}
