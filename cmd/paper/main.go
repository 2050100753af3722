// Binary paper runs the pivot pipeline against the in-memory simulated
// broker, so the decision rules can be watched without a live session.
package main

import (
	"context"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/config"
	"pivotbot-go/internal/engine"
	"pivotbot-go/internal/execution"
	"pivotbot-go/internal/metrics"
	"pivotbot-go/internal/pivots"
	"pivotbot-go/internal/recorder"
	"pivotbot-go/internal/risk"
	sig "pivotbot-go/internal/signal"
	"pivotbot-go/internal/strategy"
	"pivotbot-go/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		util.NewLogger("info").Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	books, settings, err := pivots.FileSource{Path: cfg.Pivots.File}.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load pivots")
	}

	// Seed the simulator near each symbol's first pivot so setups actually
	// come into range.
	basePrices := make(map[string]float64, len(books))
	for sym, book := range books {
		if len(book) > 0 {
			basePrices[sym] = book[0].Level * 1.001
		}
	}

	var journal recorder.Recorder = recorder.NewNoop()
	if cfg.Recorder.SQLitePath != "" {
		journal, err = recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("open journal")
		}
	}
	defer journal.Close()

	client := broker.NewPaper(basePrices)
	defer client.Close()

	exec := execution.NewExecutor(client, execution.Params{
		Profit:      cfg.Trading.Profit,
		Risk:        cfg.Trading.Risk,
		WaitForFill: time.Duration(cfg.Trading.WaitForFillSecs) * time.Second,
		Cooldown:    time.Duration(cfg.Trading.CooldownSecs) * time.Second,
	}, log, journal, nil)

	eng := engine.New(client,
		strategy.PivotEvaluator{Alpha: cfg.Strategy.Alpha, MinCorrelation: cfg.Strategy.CorrelationStrength},
		risk.Sizer{MaxOrder: cfg.Trading.MaximumOrder},
		exec, books, settings, cfg.WindowSize(), log, journal)

	if err := eng.Warmup(ctx); err != nil {
		log.Fatal().Err(err).Msg("warmup")
	}

	bars := make(chan sig.Bar, 1024)
	go func() {
		if err := client.StreamBars(ctx, eng.Symbols(), bars); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("bar stream stopped")
			cancel()
		}
	}()

	log.Info().Strs("symbols", eng.Symbols()).Msg("paper engine started")
	if err := eng.Run(ctx, bars); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("engine stopped")
	}
	log.Info().Msg("shutting down")
}
