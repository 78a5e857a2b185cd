package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmarchuk/tickersentry/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Pipeline is run for every admitted alert.
type Pipeline interface {
	Run(ctx context.Context, symbol string, currentPrice, previousClose float64) error
}

type TrackerConfig struct {
	Interval      time.Duration
	Concurrency   int
	QuoteTimeout  time.Duration
	Threshold     decimal.Decimal
	RetentionDays int
}

func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Interval:     time.Hour,
		Concurrency:  4,
		QuoteTimeout: 10 * time.Second,
		Threshold:    decimal.RequireFromString("0.01"),
	}
}

type SymbolOutcome int

const (
	OutcomeSkipped SymbolOutcome = iota
	OutcomeQuiet
	OutcomeSuppressed
	OutcomeAdmitted
)

func (o SymbolOutcome) String() string {
	switch o {
	case OutcomeQuiet:
		return "quiet"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeAdmitted:
		return "admitted"
	default:
		return "skipped"
	}
}

type SymbolResult struct {
	Symbol      string
	Outcome     SymbolOutcome
	Movement    *domain.Movement
	Err         error
	PipelineErr error
}

type CycleReport struct {
	ID          uuid.UUID
	Started     time.Time
	Duration    time.Duration
	Results     []SymbolResult
	Checked     int
	Significant int
	Admitted    int
	Suppressed  int
	Skipped     int
}

// Tracker drives the periodic tracking cycle over the watchlist.
type Tracker struct {
	cfg       TrackerConfig
	watchlist domain.WatchlistRepository
	quotes    domain.QuoteProvider
	gate      *AlertGate
	pipeline  Pipeline
	logger    *zap.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	lastReport *CycleReport
}

func NewTracker(cfg TrackerConfig, watchlist domain.WatchlistRepository, quotes domain.QuoteProvider, gate *AlertGate, pipeline Pipeline, logger *zap.Logger) *Tracker {
	return &Tracker{
		cfg:       cfg,
		watchlist: watchlist,
		quotes:    quotes,
		gate:      gate,
		pipeline:  pipeline,
		logger:    logger,
		now:       time.Now,
	}
}

func (t *Tracker) Start(ctx context.Context) error {
	t.ctx, t.cancel = context.WithCancel(ctx)

	t.wg.Add(1)
	go t.run()

	t.logger.Info("tracker started",
		zap.Duration("interval", t.cfg.Interval),
		zap.Int("concurrency", t.cfg.Concurrency),
	)
	return nil
}

func (t *Tracker) Stop(ctx context.Context) error {
	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("tracker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	t.cycle()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			t.cycle()
		}
	}
}

func (t *Tracker) cycle() {
	if _, err := t.RunCycle(t.ctx); err != nil {
		t.logger.Error("tracking cycle failed", zap.Error(err))
	}
}

// RunCycle checks every tracked symbol once. Individual symbol failures are
// recorded in the report and never abort the rest of the cycle; only a
// watchlist read failure does.
func (t *Tracker) RunCycle(ctx context.Context) (*CycleReport, error) {
	report := &CycleReport{ID: uuid.New(), Started: t.now().UTC()}

	symbols, err := t.watchlist.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	if len(symbols) == 0 {
		t.logger.Debug("watchlist empty, nothing to track")
	}

	t.logger.Info("tracking cycle start",
		zap.String("cycle_id", report.ID.String()),
		zap.Int("symbols", len(symbols)),
	)

	report.Results = make([]SymbolResult, len(symbols))

	sem := make(chan struct{}, t.cfg.Concurrency)
	var wg sync.WaitGroup
	for i, tracked := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				report.Results[i] = SymbolResult{Symbol: symbol, Err: ctx.Err()}
				return
			}

			report.Results[i] = t.trackSymbol(ctx, symbol)
		}(i, tracked.Symbol)
	}
	wg.Wait()

	report.Checked = len(report.Results)
	for i := range report.Results {
		result := &report.Results[i]
		switch {
		case result.Err != nil:
			report.Skipped++
		case result.Outcome == OutcomeAdmitted:
			report.Significant++
			report.Admitted++
		case result.Outcome == OutcomeSuppressed:
			report.Significant++
			report.Suppressed++
		}
	}
	report.Duration = t.now().UTC().Sub(report.Started)

	t.logger.Info("tracking cycle complete",
		zap.String("cycle_id", report.ID.String()),
		zap.Int("checked", report.Checked),
		zap.Int("significant", report.Significant),
		zap.Int("admitted", report.Admitted),
		zap.Int("suppressed", report.Suppressed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration),
	)

	t.pruneOldAlerts(ctx)

	t.mu.Lock()
	t.lastReport = report
	t.mu.Unlock()

	return report, nil
}

// LastReport returns the most recently completed cycle report, or nil when
// no cycle has run yet.
func (t *Tracker) LastReport() *CycleReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastReport
}

func (t *Tracker) Config() TrackerConfig {
	return t.cfg
}

func (t *Tracker) trackSymbol(ctx context.Context, symbol string) SymbolResult {
	result := SymbolResult{Symbol: symbol}

	fetchCtx, cancel := context.WithTimeout(ctx, t.cfg.QuoteTimeout)
	snapshot, err := t.quotes.Fetch(fetchCtx, symbol)
	cancel()
	if err != nil {
		t.logger.Warn("symbol skipped, quote fetch failed", zap.String("symbol", symbol), zap.Error(err))
		result.Err = err
		return result
	}

	movement, err := domain.EvaluateMovement(snapshot, t.cfg.Threshold)
	if err != nil {
		t.logger.Warn("symbol skipped, quote unusable",
			zap.String("symbol", symbol),
			zap.Float64("price", snapshot.CurrentPrice),
			zap.Float64("previous_close", snapshot.PreviousClose),
			zap.Error(err),
		)
		result.Err = err
		return result
	}
	result.Movement = &movement

	if !movement.Significant {
		result.Outcome = OutcomeQuiet
		return result
	}

	today := domain.DayOf(t.now())
	note := fmt.Sprintf("%s: %s%% (%.2f from %.2f)",
		movement.Class, movement.PercentChange().StringFixed(2), snapshot.CurrentPrice, snapshot.PreviousClose)

	outcome, err := t.gate.TryFire(ctx, symbol, today, note)
	if err != nil {
		t.logger.Warn("symbol skipped, alert gate failed", zap.String("symbol", symbol), zap.Error(err))
		result.Err = err
		return result
	}
	if outcome == GateSuppressed {
		result.Outcome = OutcomeSuppressed
		return result
	}

	result.Outcome = OutcomeAdmitted
	if err := t.pipeline.Run(ctx, symbol, snapshot.CurrentPrice, snapshot.PreviousClose); err != nil {
		// The day's alert slot stays spent even when the pipeline fails.
		t.logger.Error("research pipeline failed", zap.String("symbol", symbol), zap.Error(err))
		result.PipelineErr = err
	}
	return result
}

func (t *Tracker) pruneOldAlerts(ctx context.Context) {
	if t.cfg.RetentionDays <= 0 {
		return
	}
	cutoff := domain.DayOf(t.now()).AddDays(-t.cfg.RetentionDays)
	pruned, err := t.gate.PruneBefore(ctx, cutoff)
	if err != nil {
		t.logger.Warn("alert retention prune failed", zap.Error(err))
		return
	}
	if pruned > 0 {
		t.logger.Info("old alerts pruned", zap.Int64("rows", pruned), zap.String("cutoff", cutoff.String()))
	}
}
