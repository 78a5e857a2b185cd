package db

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmarchuk/tickersentry/internal/config"
	"github.com/dmarchuk/tickersentry/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"}
	gdb, err := Open(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestWatchlistAddRemove(t *testing.T) {
	repo := NewWatchlistRepository(openTestDB(t))
	ctx := context.Background()

	added, err := repo.Add(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !added {
		t.Error("first Add = false, want true")
	}

	added, err = repo.Add(ctx, "AAPL")
	if err != nil {
		t.Fatalf("duplicate Add failed: %v", err)
	}
	if added {
		t.Error("duplicate Add = true, want false")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}

	removed, err := repo.Remove(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Error("Remove = false, want true")
	}

	removed, err = repo.Remove(ctx, "AAPL")
	if err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if removed {
		t.Error("second Remove = true, want false")
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Count after Remove = %d, want 0", count)
	}
}

func TestWatchlistRestoresUntrackedSymbol(t *testing.T) {
	repo := NewWatchlistRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.Add(ctx, "AAPL"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := repo.Remove(ctx, "AAPL"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	added, err := repo.Add(ctx, "AAPL")
	if err != nil {
		t.Fatalf("re-Add failed: %v", err)
	}
	if !added {
		t.Error("re-Add after Remove = false, want true")
	}

	symbols, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Symbol != "AAPL" {
		t.Errorf("List = %v, want exactly one AAPL entry", symbols)
	}
}

func TestWatchlistListKeepsInsertionOrder(t *testing.T) {
	repo := NewWatchlistRepository(openTestDB(t))
	ctx := context.Background()

	for _, symbol := range []string{"AAPL", "MSFT", "TSLA"} {
		if _, err := repo.Add(ctx, symbol); err != nil {
			t.Fatalf("Add(%s) failed: %v", symbol, err)
		}
	}

	symbols, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"AAPL", "MSFT", "TSLA"}
	if len(symbols) != len(want) {
		t.Fatalf("List returned %d symbols, want %d", len(symbols), len(want))
	}
	for i, symbol := range symbols {
		if symbol.Symbol != want[i] {
			t.Errorf("List[%d] = %s, want %s", i, symbol.Symbol, want[i])
		}
	}
}

func TestAlertLogRecordOncePerDay(t *testing.T) {
	repo := NewAlertLogRepository(openTestDB(t))
	ctx := context.Background()
	day := domain.NewDay(2026, time.August, 24)
	record := domain.AlertRecord{Symbol: "AAPL", Day: day, Kind: domain.AlertKindDaily, Note: "moved +1.35%"}

	inserted, err := repo.Record(ctx, record)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if !inserted {
		t.Error("first Record = false, want true")
	}

	inserted, err = repo.Record(ctx, record)
	if err != nil {
		t.Fatalf("duplicate Record failed: %v", err)
	}
	if inserted {
		t.Error("duplicate Record = true, want false")
	}

	last, ok, err := repo.LastAlertDay(ctx, "AAPL")
	if err != nil {
		t.Fatalf("LastAlertDay failed: %v", err)
	}
	if !ok || last != day {
		t.Errorf("LastAlertDay = (%s, %v), want (%s, true)", last, ok, day)
	}

	if _, ok, err := repo.LastAlertDay(ctx, "MSFT"); err != nil || ok {
		t.Errorf("LastAlertDay for unalerted symbol = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestAlertLogConcurrentRecordAdmitsOne(t *testing.T) {
	repo := NewAlertLogRepository(openTestDB(t))
	ctx := context.Background()
	record := domain.AlertRecord{
		Symbol: "TSLA",
		Day:    domain.NewDay(2026, time.August, 24),
		Kind:   domain.AlertKindDaily,
		Note:   "moved -2.10%",
	}

	const workers = 16
	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := repo.Record(ctx, record)
			if err != nil {
				t.Errorf("Record failed: %v", err)
				return
			}
			if inserted {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := admitted.Load(); got != 1 {
		t.Errorf("concurrent Record admitted %d inserts, want exactly 1", got)
	}
}

func TestAlertLogLastAlertDayPicksLatest(t *testing.T) {
	repo := NewAlertLogRepository(openTestDB(t))
	ctx := context.Background()

	later := domain.NewDay(2026, time.August, 24)
	earlier := domain.NewDay(2026, time.August, 20)

	// Inserted newest first so recency cannot come from insertion order.
	for _, day := range []domain.Day{later, earlier} {
		if _, err := repo.Record(ctx, domain.AlertRecord{Symbol: "NVDA", Day: day, Kind: domain.AlertKindDaily}); err != nil {
			t.Fatalf("Record(%s) failed: %v", day, err)
		}
	}

	last, ok, err := repo.LastAlertDay(ctx, "NVDA")
	if err != nil {
		t.Fatalf("LastAlertDay failed: %v", err)
	}
	if !ok || last != later {
		t.Errorf("LastAlertDay = (%s, %v), want (%s, true)", last, ok, later)
	}
}

func TestAlertLogHistoryAndPrune(t *testing.T) {
	repo := NewAlertLogRepository(openTestDB(t))
	ctx := context.Background()

	days := []domain.Day{
		domain.NewDay(2026, time.August, 20),
		domain.NewDay(2026, time.August, 21),
		domain.NewDay(2026, time.August, 24),
	}
	for _, day := range days {
		if _, err := repo.Record(ctx, domain.AlertRecord{Symbol: "AAPL", Day: day, Kind: domain.AlertKindDaily}); err != nil {
			t.Fatalf("Record(%s) failed: %v", day, err)
		}
	}
	if _, err := repo.Record(ctx, domain.AlertRecord{Symbol: "MSFT", Day: days[0], Kind: domain.AlertKindDaily}); err != nil {
		t.Fatalf("Record for MSFT failed: %v", err)
	}

	history, err := repo.History(ctx, "AAPL", 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History returned %d records, want 2", len(history))
	}
	if history[0].Day != days[2] || history[1].Day != days[1] {
		t.Errorf("History order = [%s, %s], want newest first", history[0].Day, history[1].Day)
	}

	pruned, err := repo.PruneBefore(ctx, domain.NewDay(2026, time.August, 22))
	if err != nil {
		t.Fatalf("PruneBefore failed: %v", err)
	}
	if pruned != 3 {
		t.Errorf("PruneBefore removed %d rows, want 3", pruned)
	}

	history, err = repo.History(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("History after prune failed: %v", err)
	}
	if len(history) != 1 || history[0].Day != days[2] {
		t.Errorf("History after prune = %v, want only %s", history, days[2])
	}
}

func TestAlertHistorySurvivesUntrack(t *testing.T) {
	gdb := openTestDB(t)
	watchlist := NewWatchlistRepository(gdb)
	alerts := NewAlertLogRepository(gdb)
	ctx := context.Background()
	day := domain.NewDay(2026, time.August, 24)

	if _, err := watchlist.Add(ctx, "AAPL"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := alerts.Record(ctx, domain.AlertRecord{Symbol: "AAPL", Day: day, Kind: domain.AlertKindDaily}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := watchlist.Remove(ctx, "AAPL"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	history, err := alerts.History(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("History after untrack has %d records, want 1", len(history))
	}

	// Untracking must not reset the daily gate either.
	last, ok, err := alerts.LastAlertDay(ctx, "AAPL")
	if err != nil {
		t.Fatalf("LastAlertDay failed: %v", err)
	}
	if !ok || last != day {
		t.Errorf("LastAlertDay after untrack = (%s, %v), want (%s, true)", last, ok, day)
	}
}
