package domain

import "context"

// WatchlistRepository holds the set of tracked ticker symbols. Add and
// Remove report whether they changed the set instead of failing on
// duplicates or absent symbols.
type WatchlistRepository interface {
	Add(ctx context.Context, symbol string) (added bool, err error)
	Remove(ctx context.Context, symbol string) (removed bool, err error)
	List(ctx context.Context) ([]TrackedSymbol, error)
	Count(ctx context.Context) (int64, error)
}

// AlertLogRepository is the append-only record of fired alerts. Record must
// be atomic per (symbol, day): of any number of concurrent calls for the
// same pair, exactly one observes inserted == true.
type AlertLogRepository interface {
	Record(ctx context.Context, record AlertRecord) (inserted bool, err error)
	LastAlertDay(ctx context.Context, symbol string) (Day, bool, error)
	History(ctx context.Context, symbol string, limit int) ([]AlertRecord, error)
	PruneBefore(ctx context.Context, cutoff Day) (int64, error)
}
