package usecase

import (
	"context"
	"errors"

	"github.com/dmarchuk/tickersentry/internal/domain"
	"github.com/shopspring/decimal"
)

type QuoteUsecase struct {
	quotes    domain.QuoteProvider
	threshold decimal.Decimal
}

func NewQuoteUsecase(quotes domain.QuoteProvider, threshold decimal.Decimal) *QuoteUsecase {
	return &QuoteUsecase{quotes: quotes, threshold: threshold}
}

func (u *QuoteUsecase) Analyze(ctx context.Context, raw string) (domain.PriceSnapshot, domain.Movement, error) {
	symbol, err := domain.NormalizeSymbol(raw)
	if err != nil {
		return domain.PriceSnapshot{}, domain.Movement{}, err
	}

	snapshot, err := u.quotes.Fetch(ctx, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrQuoteUnavailable) {
			return domain.PriceSnapshot{}, domain.Movement{}, ErrUnknownSymbol
		}
		return domain.PriceSnapshot{}, domain.Movement{}, err
	}

	movement, err := domain.EvaluateMovement(snapshot, u.threshold)
	if err != nil {
		return snapshot, domain.Movement{}, err
	}
	return snapshot, movement, nil
}
