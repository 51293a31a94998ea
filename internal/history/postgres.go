package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/database"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// PostgresStore persists batches in two tables with upsert semantics:
// batches (id, date, created_at, sector, sentiment) and batch_members
// (batch_id, code, payload). The weekly view is derived on read.
type PostgresStore struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPostgresStore wraps a connection pool as a BatchStore.
func NewPostgresStore(db *database.DB, log *logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: log}
}

// Schema returns the DDL the store needs. Callers run it at setup.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS batches (
    id         TEXT PRIMARY KEY,
    date       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    sector     TEXT NOT NULL DEFAULT '',
    sentiment  JSONB
);
CREATE TABLE IF NOT EXISTS batch_members (
    batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    code     TEXT NOT NULL,
    payload  JSONB NOT NULL,
    PRIMARY KEY (batch_id, code)
);
CREATE INDEX IF NOT EXISTS idx_batches_date ON batches(date);
`
}

// SaveBatch upserts the batch row and replaces its members.
func (s *PostgresStore) SaveBatch(ctx context.Context, batch *contracts.Batch) error {
	sentiment, err := json.Marshal(batch.Sentiment)
	if err != nil {
		return fmt.Errorf("failed to marshal sentiment: %w", err)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch save: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO batches (id, date, created_at, sector, sentiment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET date = EXCLUDED.date, created_at = EXCLUDED.created_at,
		    sector = EXCLUDED.sector, sentiment = EXCLUDED.sentiment`,
		batch.ID, batch.Date, batch.CreatedAt, batch.Sector, sentiment)
	if err != nil {
		return fmt.Errorf("failed to upsert batch: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM batch_members WHERE batch_id = $1`, batch.ID); err != nil {
		return fmt.Errorf("failed to clear batch members: %w", err)
	}

	for _, stock := range batch.Stocks {
		payload, err := json.Marshal(stock)
		if err != nil {
			return fmt.Errorf("failed to marshal member %s: %w", stock.Code, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO batch_members (batch_id, code, payload)
			VALUES ($1, $2, $3)`,
			batch.ID, stock.Code, payload)
		if err != nil {
			return fmt.Errorf("failed to insert member %s: %w", stock.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch save: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"batch_id": batch.ID,
		"stocks":   len(batch.Stocks),
	}).Info("Batch saved to postgres")
	return nil
}

// LoadBatch reads one batch and its members.
func (s *PostgresStore) LoadBatch(ctx context.Context, id string) (*contracts.Batch, error) {
	batch := &contracts.Batch{ID: id}
	var sentiment []byte

	err := s.db.Pool.QueryRow(ctx,
		`SELECT date, created_at, sector, sentiment FROM batches WHERE id = $1`, id).
		Scan(&batch.Date, &batch.CreatedAt, &batch.Sector, &sentiment)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", id, err)
	}

	if len(sentiment) > 0 {
		if err := json.Unmarshal(sentiment, &batch.Sentiment); err != nil {
			return nil, fmt.Errorf("failed to decode sentiment for %s: %w", id, err)
		}
	}

	rows, err := s.db.Pool.Query(ctx,
		`SELECT payload FROM batch_members WHERE batch_id = $1 ORDER BY code`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load members for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		var stock contracts.BatchStock
		if err := json.Unmarshal(payload, &stock); err != nil {
			return nil, fmt.Errorf("failed to decode member: %w", err)
		}
		batch.Stocks = append(batch.Stocks, stock)
	}
	return batch, rows.Err()
}

// Index lists the newest batches, capped like the file index.
func (s *PostgresStore) Index(ctx context.Context) ([]contracts.BatchIndexEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT b.id, b.date, COUNT(m.code)
		FROM batches b
		LEFT JOIN batch_members m ON m.batch_id = b.id
		GROUP BY b.id, b.date, b.created_at
		ORDER BY b.created_at DESC
		LIMIT $1`, indexCap)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch index: %w", err)
	}
	defer rows.Close()

	var entries []contracts.BatchIndexEntry
	for rows.Next() {
		var e contracts.BatchIndexEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Count); err != nil {
			return nil, fmt.Errorf("failed to scan index entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Weekly rebuilds the week record from the stored batches.
func (s *PostgresStore) Weekly(ctx context.Context, week string) (*contracts.WeeklyRecord, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT b.id, b.date, b.created_at, COALESCE(array_agg(m.code) FILTER (WHERE m.code IS NOT NULL), '{}')
		FROM batches b
		LEFT JOIN batch_members m ON m.batch_id = b.id
		GROUP BY b.id, b.date, b.created_at
		ORDER BY b.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly batches: %w", err)
	}
	defer rows.Close()

	record := &contracts.WeeklyRecord{Week: week, AllStocks: make(map[string]int)}
	byDate := make(map[string]contracts.DailyRecord)
	var order []string

	for rows.Next() {
		var id, date string
		var createdAt time.Time
		var codes []string
		if err := rows.Scan(&id, &date, &createdAt, &codes); err != nil {
			return nil, fmt.Errorf("failed to scan weekly row: %w", err)
		}
		if WeekOf(createdAt) != week {
			continue
		}
		if _, seen := byDate[date]; !seen {
			order = append(order, date)
		}
		byDate[date] = contracts.DailyRecord{Date: date, BatchID: id, Codes: codes}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(byDate) == 0 {
		return nil, nil
	}

	for _, date := range order {
		d := byDate[date]
		record.DailyRecords = append(record.DailyRecords, d)
		for _, code := range d.Codes {
			record.AllStocks[code]++
		}
	}
	return record, nil
}
