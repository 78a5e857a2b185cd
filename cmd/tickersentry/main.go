package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmarchuk/tickersentry/internal/app"
	"github.com/dmarchuk/tickersentry/internal/config"
)

func main() {
	researchSymbol := flag.String("research", "", "run the research pipeline once for the given symbol and exit")
	runOnce := flag.Bool("once", false, "run a single tracking cycle and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize app:", err)
		os.Exit(1)
	}
	defer application.Shutdown()

	switch {
	case *researchSymbol != "":
		err = application.ResearchOnce(ctx, *researchSymbol)
	case *runOnce:
		err = application.RunCycleOnce(ctx)
	default:
		err = application.Run(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "application error:", err)
		os.Exit(1)
	}
}
