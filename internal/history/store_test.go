package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(config.StoreConfig{Dir: t.TempDir()}, testLogger())
	require.NoError(t, err)
	return store
}

func makeBatch(createdAt time.Time, codes ...string) *contracts.Batch {
	batch := &contracts.Batch{
		ID:        NewBatchID(createdAt),
		Date:      createdAt.Format("2006-01-02"),
		CreatedAt: createdAt,
		Sentiment: &contracts.SentimentReading{Score: 55, Status: "neutral"},
	}
	for _, code := range codes {
		batch.Stocks = append(batch.Stocks, contracts.BatchStock{
			Code:           code,
			Name:           "示例" + code,
			SelectionPrice: 10,
			Rating:         contracts.RatingA,
		})
	}
	return batch
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	batch := makeBatch(created, "600519", "600036")
	require.NoError(t, store.SaveBatch(ctx, batch))

	loaded, err := store.LoadBatch(ctx, batch.ID)
	require.NoError(t, err)

	assert.Equal(t, "batch_20260828_150000", loaded.ID)
	assert.Equal(t, "2026-08-28", loaded.Date)
	require.Len(t, loaded.Stocks, 2)
	assert.Equal(t, contracts.RatingA, loaded.Stocks[0].Rating)
	require.NotNil(t, loaded.Sentiment)
	assert.Equal(t, 55.0, loaded.Sentiment.Score)
}

func TestFileStore_IndexNewestFirstAndCapped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)
	for i := 0; i < indexCap+5; i++ {
		require.NoError(t, store.SaveBatch(ctx, makeBatch(base.AddDate(0, 0, i), "600519")))
	}

	entries, err := store.Index(ctx)
	require.NoError(t, err)
	require.Len(t, entries, indexCap, "index is capped")

	newest := base.AddDate(0, 0, indexCap+4)
	assert.Equal(t, NewBatchID(newest), entries[0].ID, "newest entry first")
	assert.Equal(t, 1, entries[0].Count)
}

func TestFileStore_WeeklyFoldsAndDedups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Monday and Tuesday of ISO week 2026-W35, plus a Tuesday rerun
	monday := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 8, 25, 15, 0, 0, 0, time.UTC)
	tuesdayRerun := time.Date(2026, 8, 25, 16, 30, 0, 0, time.UTC)

	require.NoError(t, store.SaveBatch(ctx, makeBatch(monday, "600519", "600036")))
	require.NoError(t, store.SaveBatch(ctx, makeBatch(tuesday, "600519")))
	require.NoError(t, store.SaveBatch(ctx, makeBatch(tuesdayRerun, "600519", "601318")))

	record, err := store.Weekly(ctx, WeekOf(monday))
	require.NoError(t, err)
	require.NotNil(t, record)

	require.Len(t, record.DailyRecords, 2, "rerun replaces the same date")
	assert.Equal(t, NewBatchID(tuesdayRerun), record.DailyRecords[1].BatchID)

	assert.Equal(t, 2, record.AllStocks["600519"], "counted once per day")
	assert.Equal(t, 1, record.AllStocks["601318"])
	assert.Equal(t, 1, record.AllStocks["600036"])
}

func TestFileStore_WeeklyAbsent(t *testing.T) {
	store := newTestStore(t)
	record, err := store.Weekly(context.Background(), "2026_W01")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestWeekOf(t *testing.T) {
	assert.Equal(t, "2026_W35", WeekOf(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)))
	// ISO week years roll at the year boundary
	assert.Equal(t, "2020_W53", WeekOf(time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestConsecutive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveBatch(ctx, makeBatch(base, "600519", "600036")))
	require.NoError(t, store.SaveBatch(ctx, makeBatch(base.AddDate(0, 0, 1), "600519", "601318")))
	require.NoError(t, store.SaveBatch(ctx, makeBatch(base.AddDate(0, 0, 2), "600519", "600036")))

	out, err := Consecutive(ctx, store, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "600519", out[0].Code)
	assert.Equal(t, 3, out[0].Appearances)
	assert.Len(t, out[0].Dates, 3)

	assert.Equal(t, "600036", out[1].Code)
	assert.Equal(t, 2, out[1].Appearances)
}

func TestConsecutive_LookbackWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		codes := []string{"600036"}
		if i < 2 {
			codes = append(codes, "600519") // only in the two oldest batches
		}
		require.NoError(t, store.SaveBatch(ctx, makeBatch(base.AddDate(0, 0, i), codes...)))
	}

	out, err := Consecutive(ctx, store, 3)
	require.NoError(t, err)

	require.Len(t, out, 1, "symbol outside the lookback window is ignored")
	assert.Equal(t, "600036", out[0].Code)
}

func TestNewBatchID(t *testing.T) {
	id := NewBatchID(time.Date(2026, 8, 28, 14, 35, 7, 0, time.UTC))
	assert.Equal(t, "batch_20260828_143507", id)
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Dir: t.TempDir(), Backend: "file"}}
	store, err := New(cfg, nil, testLogger())
	require.NoError(t, err)
	_, ok := store.(*FileStore)
	assert.True(t, ok)

	cfg.Store.Backend = "postgres"
	_, err = New(cfg, nil, testLogger())
	assert.Error(t, err, "postgres backend without a pool is refused")
}
