package domain

import (
	"context"
	"errors"
)

var (
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrInvalidQuote     = errors.New("invalid quote")
)

type PriceSnapshot struct {
	Symbol        string
	CurrentPrice  float64
	PreviousClose float64
}

type QuoteProvider interface {
	Fetch(ctx context.Context, symbol string) (PriceSnapshot, error)
}
