package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dmarchuk/tickersentry/internal/domain"
	"github.com/shopspring/decimal"
)

func newTestQuoteUsecase() (*QuoteUsecase, *fakeQuotes) {
	quotes := newFakeQuotes()
	return NewQuoteUsecase(quotes, decimal.RequireFromString("0.01")), quotes
}

func TestAnalyzeReturnsSnapshotAndMovement(t *testing.T) {
	uc, quotes := newTestQuoteUsecase()
	quotes.setQuote("AAPL", 150.0, 148.0)

	snapshot, movement, err := uc.Analyze(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if snapshot.Symbol != "AAPL" || snapshot.CurrentPrice != 150.0 {
		t.Errorf("snapshot = %+v, want AAPL at 150", snapshot)
	}
	if !movement.Significant {
		t.Error("a +1.35% move reported as not significant")
	}
	if movement.Class != domain.MovementModerateRise {
		t.Errorf("Class = %s, want moderate_rise", movement.Class)
	}
}

func TestAnalyzeUnknownSymbol(t *testing.T) {
	uc, _ := newTestQuoteUsecase()

	if _, _, err := uc.Analyze(context.Background(), "NOSUCH"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Analyze error = %v, want ErrUnknownSymbol", err)
	}
}

func TestAnalyzeInvalidInput(t *testing.T) {
	uc, quotes := newTestQuoteUsecase()

	if _, _, err := uc.Analyze(context.Background(), "AA PL"); !errors.Is(err, domain.ErrInvalidSymbol) {
		t.Errorf("Analyze error = %v, want ErrInvalidSymbol", err)
	}
	if quotes.fetches.Load() != 0 {
		t.Error("invalid input reached the quote provider")
	}
}

func TestAnalyzeUnusableQuote(t *testing.T) {
	uc, quotes := newTestQuoteUsecase()
	quotes.setQuote("HALT", 0, 0)

	if _, _, err := uc.Analyze(context.Background(), "HALT"); !errors.Is(err, domain.ErrInvalidQuote) {
		t.Errorf("Analyze error = %v, want ErrInvalidQuote", err)
	}
}
