package contracts

import "context"

// MarketData is the provider surface the pipeline consumes. One
// implementation talks to the real provider; tests use a deterministic
// mock.
type MarketData interface {
	// Snapshot returns the whole-market quote table.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// History returns up to days daily bars for a symbol, forward
	// adjusted, date ascending.
	History(ctx context.Context, code string, days int) (BarSeries, error)

	// IndexHistory returns daily bars for a benchmark index.
	IndexHistory(ctx context.Context, code string, days int) (BarSeries, error)

	// IndexQuote returns the benchmark's live quote.
	IndexQuote(ctx context.Context, code string) (*Quote, error)

	// FlowTable returns the whole-market capital-flow table.
	FlowTable(ctx context.Context) (*FlowTable, error)

	// Disclosures returns a symbol's large-trade disclosures within the
	// lookback window.
	Disclosures(ctx context.Context, code string, lookbackDays int) (DisclosureSet, error)

	// MarketStats returns the breadth numbers behind the sentiment gauge.
	MarketStats(ctx context.Context) (*MarketStats, error)
}

// BarCache stores daily bar series with a TTL and a version tag.
// Entries older than the TTL or written under a previous version are
// never returned.
type BarCache interface {
	Get(code string, days int) (BarSeries, bool)
	Put(code string, days int, bars BarSeries) error
	Sweep() error
}

// BatchStore persists selection batches, the rolling index and the
// weekly aggregates. Implementations: JSON file store, Postgres.
type BatchStore interface {
	// SaveBatch appends a batch and updates the index and weekly record.
	SaveBatch(ctx context.Context, batch *Batch) error

	// LoadBatch returns a saved batch by id.
	LoadBatch(ctx context.Context, id string) (*Batch, error)

	// Index returns the rolling index, newest first, capped.
	Index(ctx context.Context) ([]BatchIndexEntry, error)

	// Weekly returns the record for an ISO week key (e.g. 2026_W34).
	Weekly(ctx context.Context, week string) (*WeeklyRecord, error)
}
