package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/database"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

const indexCap = 30

// FileStore keeps one JSON file per batch plus a rolling index and
// per-week aggregation files.
type FileStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileStore creates the storage directory and returns the store.
func NewFileStore(cfg config.StoreConfig, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create batch dir: %w", err)
	}
	return &FileStore{dir: cfg.Dir, logger: log}, nil
}

// SaveBatch writes the batch file, pushes it onto the index and folds
// it into the week record.
func (s *FileStore) SaveBatch(ctx context.Context, batch *contracts.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := os.WriteFile(s.batchPath(batch.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write batch file: %w", err)
	}

	if err := s.pushIndex(batch); err != nil {
		return err
	}
	if err := s.foldWeekly(batch); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"batch_id": batch.ID,
		"stocks":   len(batch.Stocks),
	}).Info("Batch saved")
	return nil
}

// LoadBatch reads one batch by id.
func (s *FileStore) LoadBatch(ctx context.Context, id string) (*contracts.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.batchPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read batch %s: %w", id, err)
	}

	var batch contracts.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch %s: %w", id, err)
	}
	return &batch, nil
}

// Index returns the rolling index, newest first.
func (s *FileStore) Index(ctx context.Context) ([]contracts.BatchIndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch index: %w", err)
	}

	var entries []contracts.BatchIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode batch index: %w", err)
	}
	return entries, nil
}

// Weekly returns one week's record, or nil when the week has no runs.
func (s *FileStore) Weekly(ctx context.Context, week string) (*contracts.WeeklyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.weeklyPath(week))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read weekly record: %w", err)
	}

	var record contracts.WeeklyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode weekly record: %w", err)
	}
	return &record, nil
}

func (s *FileStore) batchPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) indexPath() string {
	return filepath.Join(s.dir, "index.json")
}

func (s *FileStore) weeklyPath(week string) string {
	return filepath.Join(s.dir, "weekly_"+week+".json")
}

// pushIndex prepends the batch and trims the tail past the cap.
func (s *FileStore) pushIndex(batch *contracts.Batch) error {
	entries, err := s.Index(context.Background())
	if err != nil {
		return err
	}

	entry := contracts.BatchIndexEntry{
		ID:    batch.ID,
		Date:  batch.Date,
		Count: len(batch.Stocks),
	}
	entries = append([]contracts.BatchIndexEntry{entry}, entries...)
	if len(entries) > indexCap {
		entries = entries[:indexCap]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal batch index: %w", err)
	}
	if err := os.WriteFile(s.indexPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write batch index: %w", err)
	}
	return nil
}

// foldWeekly merges the batch into its ISO-week record. Reruns on the
// same date replace that date's entry instead of duplicating it.
func (s *FileStore) foldWeekly(batch *contracts.Batch) error {
	week := WeekOf(batch.CreatedAt)

	record, err := s.Weekly(context.Background(), week)
	if err != nil {
		return err
	}
	if record == nil {
		record = &contracts.WeeklyRecord{
			Week:      week,
			AllStocks: make(map[string]int),
		}
	}
	if record.AllStocks == nil {
		record.AllStocks = make(map[string]int)
	}

	daily := contracts.DailyRecord{
		Date:    batch.Date,
		BatchID: batch.ID,
		Codes:   batch.Codes(),
	}

	replaced := false
	for i, d := range record.DailyRecords {
		if d.Date == batch.Date {
			record.DailyRecords[i] = daily
			replaced = true
			break
		}
	}
	if !replaced {
		record.DailyRecords = append(record.DailyRecords, daily)
	}

	// Recount appearances from the deduped dailies
	for code := range record.AllStocks {
		delete(record.AllStocks, code)
	}
	for _, d := range record.DailyRecords {
		for _, code := range d.Codes {
			record.AllStocks[code]++
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weekly record: %w", err)
	}
	if err := os.WriteFile(s.weeklyPath(week), data, 0o644); err != nil {
		return fmt.Errorf("failed to write weekly record: %w", err)
	}
	return nil
}

// WeekOf formats a time as the store's ISO-week key.
func WeekOf(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d_W%02d", year, week)
}

// NewBatchID stamps a batch id from its creation time.
func NewBatchID(t time.Time) string {
	return "batch_" + t.Format("20060102_150405")
}

// New selects the store backend from config.
func New(cfg *config.Config, db *database.DB, log *logger.Logger) (contracts.BatchStore, error) {
	switch cfg.Store.Backend {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres store selected but no database configured")
		}
		return NewPostgresStore(db, log), nil
	default:
		return NewFileStore(cfg.Store, log)
	}
}
