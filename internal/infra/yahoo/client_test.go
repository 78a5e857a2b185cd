package yahoo

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestFetchHonorsCanceledContext(t *testing.T) {
	client := NewClient(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, "AAPL")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Fetch error = %v, want context.Canceled", err)
	}
}
