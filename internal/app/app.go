package app

import (
	"context"
	"time"

	"github.com/dmarchuk/tickersentry/internal/config"
	"github.com/dmarchuk/tickersentry/internal/delivery/telegram"
	"github.com/dmarchuk/tickersentry/internal/infra/db"
	"github.com/dmarchuk/tickersentry/internal/infra/log"
	"github.com/dmarchuk/tickersentry/internal/infra/yahoo"
	"github.com/dmarchuk/tickersentry/internal/research"
	"github.com/dmarchuk/tickersentry/internal/usecase"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	bot       *telegram.Bot
	tracker   *usecase.Tracker
	quoteUC   *usecase.QuoteUsecase
	pipeline  *research.Pipeline
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel, log.FileConfig{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	watchlistRepo := db.NewWatchlistRepository(dbConn)
	alertRepo := db.NewAlertLogRepository(dbConn)
	quoteClient := yahoo.NewClient(logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	notifier := telegram.NewNotifier(api, cfg.TelegramChatID, logger)
	llm := research.NewOpenAIClient(cfg.OpenAIAPIKey)
	pipeline := research.NewPipeline(llm, notifier, research.Config{
		ResearchModel: cfg.OpenAIResearchModel,
		SummaryModel:  cfg.OpenAIModel,
		Timeout:       cfg.OpenAITimeout,
	}, logger)

	threshold := decimal.NewFromFloat(cfg.MovementThreshold)
	gate := usecase.NewAlertGate(alertRepo, logger)
	tracker := usecase.NewTracker(usecase.TrackerConfig{
		Interval:      cfg.CycleInterval(),
		Concurrency:   cfg.CycleConcurrency,
		QuoteTimeout:  cfg.QuoteTimeout,
		Threshold:     threshold,
		RetentionDays: cfg.AlertRetentionDays,
	}, watchlistRepo, quoteClient, gate, pipeline, logger)

	watchlistUC := usecase.NewWatchlistUsecase(watchlistRepo, quoteClient, cfg.MaxTrackedSymbols)
	quoteUC := usecase.NewQuoteUsecase(quoteClient, threshold)

	handlers := telegram.NewHandlers(watchlistUC, quoteUC, gate, tracker, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{
		bot:       bot,
		tracker:   tracker,
		quoteUC:   quoteUC,
		pipeline:  pipeline,
		logger:    logger,
		cleanupFn: cleanup,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("tickersentry service starting")
	if err := a.tracker.Start(ctx); err != nil {
		return err
	}

	a.logger.Info("tickersentry service started")
	return a.bot.Start(ctx)
}

// RunCycleOnce runs a single tracking cycle without the timer or the bot.
func (a *App) RunCycleOnce(ctx context.Context) error {
	_, err := a.tracker.RunCycle(ctx)
	return err
}

// ResearchOnce runs the research pipeline for one symbol using its live
// quote, regardless of movement size or alert history.
func (a *App) ResearchOnce(ctx context.Context, raw string) error {
	snapshot, movement, err := a.quoteUC.Analyze(ctx, raw)
	if err != nil {
		return err
	}

	a.logger.Info("one-shot research",
		zap.String("symbol", snapshot.Symbol),
		zap.String("percent_change", movement.PercentChange().StringFixed(2)),
	)
	return a.pipeline.Run(ctx, snapshot.Symbol, snapshot.CurrentPrice, snapshot.PreviousClose)
}

func (a *App) Shutdown() {
	a.logger.Info("tickersentry service shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.tracker.Stop(stopCtx); err != nil {
		a.logger.Warn("tracker did not stop cleanly", zap.Error(err))
	}

	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
