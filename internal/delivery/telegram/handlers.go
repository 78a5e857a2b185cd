package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmarchuk/tickersentry/internal/domain"
	"github.com/dmarchuk/tickersentry/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handlers struct {
	watchlistUC *usecase.WatchlistUsecase
	quoteUC     *usecase.QuoteUsecase
	gate        *usecase.AlertGate
	tracker     *usecase.Tracker
	logger      *zap.Logger
}

func NewHandlers(watchlistUC *usecase.WatchlistUsecase, quoteUC *usecase.QuoteUsecase, gate *usecase.AlertGate, tracker *usecase.Tracker, logger *zap.Logger) *Handlers {
	return &Handlers{watchlistUC: watchlistUC, quoteUC: quoteUC, gate: gate, tracker: tracker, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	username := update.Message.From.UserName

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.String("username", username),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		h.reply(api, chatID, "Welcome to Ticker Sentry.\n\n"+HelpText)
	case "help":
		h.reply(api, chatID, HelpText)
	case "track":
		raw, err := ParseSymbolArg(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /track <symbol>")
			return
		}
		symbol, added, err := h.watchlistUC.Track(ctx, raw)
		if err != nil {
			h.logger.Warn("track command failed", zap.String("symbol", raw), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if !added {
			h.reply(api, chatID, fmt.Sprintf("%s is already tracked.", symbol))
			return
		}
		h.logger.Info("track command complete", zap.String("symbol", symbol))
		h.reply(api, chatID, fmt.Sprintf("Now tracking %s.", symbol))
	case "untrack":
		raw, err := ParseSymbolArg(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /untrack <symbol>")
			return
		}
		symbol, removed, err := h.watchlistUC.Untrack(ctx, raw)
		if err != nil {
			h.logger.Warn("untrack command failed", zap.String("symbol", raw), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if !removed {
			h.reply(api, chatID, fmt.Sprintf("%s is not tracked.", symbol))
			return
		}
		h.logger.Info("untrack command complete", zap.String("symbol", symbol))
		h.reply(api, chatID, fmt.Sprintf("Stopped tracking %s.", symbol))
	case "list":
		symbols, err := h.watchlistUC.List(ctx)
		if err != nil {
			h.logger.Warn("list command failed", zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if len(symbols) == 0 {
			h.reply(api, chatID, "The watchlist is empty. Use /track <symbol> to add one.")
			return
		}
		h.logger.Info("list command complete", zap.Int("count", len(symbols)))
		h.reply(api, chatID, formatWatchlist(symbols))
	case "price":
		raw, err := ParseSymbolArg(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /price <symbol>")
			return
		}
		snapshot, movement, err := h.quoteUC.Analyze(ctx, raw)
		if err != nil {
			h.logger.Warn("price command failed", zap.String("symbol", raw), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("price command complete", zap.String("symbol", snapshot.Symbol))
		h.reply(api, chatID, formatQuote(snapshot, movement))
	case "history":
		raw, limit, err := ParseHistoryArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /history <symbol> [n]")
			return
		}
		symbol, records, err := h.gate.History(ctx, raw, limit)
		if err != nil {
			h.logger.Warn("history command failed", zap.String("symbol", raw), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if len(records) == 0 {
			h.reply(api, chatID, fmt.Sprintf("No alerts recorded for %s.", symbol))
			return
		}
		h.logger.Info("history command complete", zap.String("symbol", symbol), zap.Int("count", len(records)))
		h.reply(api, chatID, formatHistory(symbol, records))
	case "status":
		symbols, err := h.watchlistUC.List(ctx)
		if err != nil {
			h.logger.Warn("status command failed", zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.logger.Info("status command complete")
		h.reply(api, chatID, formatStatus(len(symbols), h.tracker.Config(), h.tracker.LastReport()))
	default:
		h.logger.Warn("unknown command", zap.String("command", command))
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSymbol):
		return "That does not look like a ticker symbol. Try something like AAPL or BRK.B."
	case errors.Is(err, usecase.ErrUnknownSymbol):
		return "No quote found for that symbol. Check the ticker and try again."
	case errors.Is(err, usecase.ErrWatchlistFull):
		return "The watchlist is full. /untrack something you no longer need first."
	case errors.Is(err, domain.ErrInvalidQuote):
		return "The quote data for that symbol is unusable right now. Try again later."
	case errors.Is(err, domain.ErrQuoteUnavailable):
		return "The quote provider is unreachable. Try again in a moment."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func formatWatchlist(symbols []domain.TrackedSymbol) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Tracked symbols (%d):\n", len(symbols)))
	for _, tracked := range symbols {
		builder.WriteString(fmt.Sprintf("%s (since %s)\n", tracked.Symbol, tracked.CreatedAt.UTC().Format("2006-01-02")))
	}
	return builder.String()
}

func formatQuote(snapshot domain.PriceSnapshot, movement domain.Movement) string {
	return fmt.Sprintf(
		"%s: %.2f (prev close %.2f)\nMove: %s%% (%s)",
		snapshot.Symbol,
		snapshot.CurrentPrice,
		snapshot.PreviousClose,
		signedPercent(movement.PercentChange()),
		strings.ReplaceAll(string(movement.Class), "_", " "),
	)
}

func formatHistory(symbol string, records []domain.AlertRecord) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Alerts for %s:\n", symbol))
	for _, record := range records {
		if record.Note != "" {
			builder.WriteString(fmt.Sprintf("%s - %s\n", record.Day, record.Note))
			continue
		}
		builder.WriteString(record.Day.String() + "\n")
	}
	return builder.String()
}

func formatStatus(tracked int, cfg usecase.TrackerConfig, report *usecase.CycleReport) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Tracking %d symbols.\n", tracked))
	builder.WriteString(fmt.Sprintf(
		"Threshold: %s%%, interval: %s, concurrency: %d\n",
		cfg.Threshold.Mul(decimal.NewFromInt(100)).String(),
		cfg.Interval,
		cfg.Concurrency,
	))
	if report == nil {
		builder.WriteString("No cycle has completed yet.")
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf(
		"Last cycle at %s took %s: checked %d, significant %d, admitted %d, suppressed %d, skipped %d",
		report.Started.Format("2006-01-02 15:04 MST"),
		report.Duration.Round(10*time.Millisecond),
		report.Checked,
		report.Significant,
		report.Admitted,
		report.Suppressed,
		report.Skipped,
	))
	return builder.String()
}

func signedPercent(percent decimal.Decimal) string {
	fixed := percent.StringFixed(2)
	if percent.Sign() > 0 {
		return "+" + fixed
	}
	return fixed
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
