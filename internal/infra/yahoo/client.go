package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarchuk/tickersentry/internal/domain"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"go.uber.org/zap"
)

type Client struct {
	logger *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{logger: logger}
}

type fetchResult struct {
	quote *finance.Quote
	err   error
}

// Fetch looks a symbol up on Yahoo Finance. The underlying client has no
// context support, so the call runs in a goroutine and its result is
// abandoned once ctx expires.
func (c *Client) Fetch(ctx context.Context, symbol string) (domain.PriceSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.PriceSnapshot{}, err
	}

	start := time.Now()
	c.logger.Info("quote request start", zap.String("symbol", symbol))

	results := make(chan fetchResult, 1)
	go func() {
		q, err := quote.Get(symbol)
		results <- fetchResult{quote: q, err: err}
	}()

	select {
	case <-ctx.Done():
		c.logger.Error("quote request abandoned", zap.String("symbol", symbol), zap.Error(ctx.Err()))
		return domain.PriceSnapshot{}, ctx.Err()
	case result := <-results:
		if result.err != nil {
			c.logger.Error("quote request failed", zap.String("symbol", symbol), zap.Error(result.err))
			return domain.PriceSnapshot{}, fmt.Errorf("fetch quote %s: %w", symbol, result.err)
		}
		// quote.Get reports unknown symbols as a nil quote with no error.
		if result.quote == nil {
			c.logger.Warn("quote not found", zap.String("symbol", symbol))
			return domain.PriceSnapshot{}, fmt.Errorf("fetch quote %s: %w", symbol, domain.ErrQuoteUnavailable)
		}

		c.logger.Info(
			"quote request complete",
			zap.String("symbol", symbol),
			zap.Float64("price", result.quote.RegularMarketPrice),
			zap.Float64("previous_close", result.quote.RegularMarketPreviousClose),
			zap.Duration("duration", time.Since(start)),
		)
		return domain.PriceSnapshot{
			Symbol:        symbol,
			CurrentPrice:  result.quote.RegularMarketPrice,
			PreviousClose: result.quote.RegularMarketPreviousClose,
		}, nil
	}
}
