package research

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const researchInstructions = `You are a financial research assistant. Given a stock ticker that moved
sharply today, investigate the most likely reasons: earnings, guidance,
analyst actions, sector or macro news, company announcements. Be factual
and list the two or three most probable drivers.`

const summarizerInstructions = `You turn stock research notes into a short alert for a Telegram chat.
Two or three sentences, most important driver first, keep the percentage
move. No greetings, no hashtags.`

const failureNotice = "%s moved sharply today, but the research run failed. Check the logs and look it up manually."

type Notifier interface {
	Notify(text string) error
}

type Config struct {
	ResearchModel string
	SummaryModel  string
	Timeout       time.Duration
}

// Pipeline chains a research completion and a summarizing completion, then
// delivers the summary. On a completion failure it still notifies the chat
// so a significant move is never silently dropped.
type Pipeline struct {
	llm      LLMClient
	notifier Notifier
	cfg      Config
	logger   *zap.Logger
}

func NewPipeline(llm LLMClient, notifier Notifier, cfg Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{llm: llm, notifier: notifier, cfg: cfg, logger: logger}
}

func (p *Pipeline) Run(ctx context.Context, symbol string, currentPrice, previousClose float64) error {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	p.logger.Info("research pipeline start", zap.String("symbol", symbol))

	notes, err := p.llm.CompleteWithSystem(ctx, p.cfg.ResearchModel, researchInstructions,
		fmt.Sprintf("Research why %s moved today.", symbol))
	if err != nil {
		p.notifyFailure(symbol)
		return fmt.Errorf("research %s: %w", symbol, err)
	}

	changePercent := (currentPrice/previousClose - 1) * 100
	briefing := fmt.Sprintf("%s moved %+.2f%% against yesterday's close (%.2f from %.2f).\n\nResearch notes:\n%s",
		symbol, changePercent, currentPrice, previousClose, notes)

	summary, err := p.llm.CompleteWithSystem(ctx, p.cfg.SummaryModel, summarizerInstructions, briefing)
	if err != nil {
		p.notifyFailure(symbol)
		return fmt.Errorf("summarize %s: %w", symbol, err)
	}

	if err := p.notifier.Notify(summary); err != nil {
		return fmt.Errorf("deliver summary %s: %w", symbol, err)
	}

	p.logger.Info("research pipeline complete",
		zap.String("symbol", symbol),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (p *Pipeline) notifyFailure(symbol string) {
	if err := p.notifier.Notify(fmt.Sprintf(failureNotice, symbol)); err != nil {
		p.logger.Error("failure notice not delivered", zap.String("symbol", symbol), zap.Error(err))
	}
}
