package usecase

import (
	"context"
	"errors"

	"github.com/dmarchuk/tickersentry/internal/domain"
)

var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrWatchlistFull = errors.New("watchlist full")
)

type WatchlistUsecase struct {
	watchlist  domain.WatchlistRepository
	quotes     domain.QuoteProvider
	maxSymbols int
}

func NewWatchlistUsecase(watchlist domain.WatchlistRepository, quotes domain.QuoteProvider, maxSymbols int) *WatchlistUsecase {
	return &WatchlistUsecase{watchlist: watchlist, quotes: quotes, maxSymbols: maxSymbols}
}

// Track validates raw input, confirms the symbol resolves to a real quote
// and adds it to the watchlist. added reports whether the set changed, so
// re-tracking an already tracked symbol is not an error.
func (u *WatchlistUsecase) Track(ctx context.Context, raw string) (symbol string, added bool, err error) {
	symbol, err = domain.NormalizeSymbol(raw)
	if err != nil {
		return "", false, err
	}

	count, err := u.watchlist.Count(ctx)
	if err != nil {
		return symbol, false, err
	}
	if count >= int64(u.maxSymbols) {
		// Re-tracking an existing symbol stays a no-op even at capacity.
		symbols, err := u.watchlist.List(ctx)
		if err != nil {
			return symbol, false, err
		}
		for _, tracked := range symbols {
			if tracked.Symbol == symbol {
				return symbol, false, nil
			}
		}
		return symbol, false, ErrWatchlistFull
	}

	if _, err := u.quotes.Fetch(ctx, symbol); err != nil {
		if errors.Is(err, domain.ErrQuoteUnavailable) {
			return symbol, false, ErrUnknownSymbol
		}
		return symbol, false, err
	}

	added, err = u.watchlist.Add(ctx, symbol)
	if err != nil {
		return symbol, false, err
	}
	return symbol, added, nil
}

func (u *WatchlistUsecase) Untrack(ctx context.Context, raw string) (symbol string, removed bool, err error) {
	symbol, err = domain.NormalizeSymbol(raw)
	if err != nil {
		return "", false, err
	}

	removed, err = u.watchlist.Remove(ctx, symbol)
	if err != nil {
		return symbol, false, err
	}
	return symbol, removed, nil
}

func (u *WatchlistUsecase) List(ctx context.Context) ([]domain.TrackedSymbol, error) {
	return u.watchlist.List(ctx)
}
