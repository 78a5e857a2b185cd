package usecase

import (
	"context"

	"github.com/dmarchuk/tickersentry/internal/domain"
	"go.uber.org/zap"
)

type GateOutcome int

const (
	GateSuppressed GateOutcome = iota
	GateAdmitted
)

func (o GateOutcome) String() string {
	if o == GateAdmitted {
		return "admitted"
	}
	return "suppressed"
}

// AlertGate admits at most one alert per symbol per UTC day. The decision
// rests on the alert log's atomic Record insert, so concurrent cycles and
// even separate processes sharing the database cannot double-admit.
type AlertGate struct {
	alerts domain.AlertLogRepository
	logger *zap.Logger
}

func NewAlertGate(alerts domain.AlertLogRepository, logger *zap.Logger) *AlertGate {
	return &AlertGate{alerts: alerts, logger: logger}
}

func (g *AlertGate) TryFire(ctx context.Context, symbol string, today domain.Day, note string) (GateOutcome, error) {
	last, ok, err := g.alerts.LastAlertDay(ctx, symbol)
	if err != nil {
		return GateSuppressed, err
	}
	if ok && last == today {
		g.logger.Debug("alert suppressed", zap.String("symbol", symbol), zap.String("day", today.String()))
		return GateSuppressed, nil
	}

	record := domain.AlertRecord{Symbol: symbol, Day: today, Kind: domain.AlertKindDaily, Note: note}
	inserted, err := g.alerts.Record(ctx, record)
	if err != nil {
		return GateSuppressed, err
	}
	if !inserted {
		// Lost the insert race to a concurrent admit.
		g.logger.Debug("alert suppressed after losing insert race", zap.String("symbol", symbol), zap.String("day", today.String()))
		return GateSuppressed, nil
	}

	g.logger.Info("alert admitted", zap.String("symbol", symbol), zap.String("day", today.String()))
	return GateAdmitted, nil
}

func (g *AlertGate) History(ctx context.Context, raw string, limit int) (string, []domain.AlertRecord, error) {
	symbol, err := domain.NormalizeSymbol(raw)
	if err != nil {
		return "", nil, err
	}
	records, err := g.alerts.History(ctx, symbol, limit)
	if err != nil {
		return symbol, nil, err
	}
	return symbol, records, nil
}

func (g *AlertGate) PruneBefore(ctx context.Context, cutoff domain.Day) (int64, error) {
	return g.alerts.PruneBefore(ctx, cutoff)
}
