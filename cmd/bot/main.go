// Binary bot runs the live pivot trading loop against the brokerage gateway.
package main

import (
	"context"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/config"
	"pivotbot-go/internal/engine"
	"pivotbot-go/internal/execution"
	"pivotbot-go/internal/metrics"
	"pivotbot-go/internal/notifier"
	"pivotbot-go/internal/pivots"
	"pivotbot-go/internal/recorder"
	"pivotbot-go/internal/risk"
	sig "pivotbot-go/internal/signal"
	"pivotbot-go/internal/strategy"
	"pivotbot-go/internal/util"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		util.NewLogger("info").Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var source pivots.Source
	switch cfg.Pivots.Mode {
	case "sheets":
		source = pivots.SheetsSource{
			SpreadsheetID:   cfg.Pivots.SpreadsheetID,
			CredentialsFile: cfg.Pivots.CredentialsFile,
			TokenFile:       cfg.Pivots.TokenFile,
		}
	default:
		source = pivots.FileSource{Path: cfg.Pivots.File}
	}
	books, settings, err := source.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load pivots")
	}

	var journal recorder.Recorder = recorder.NewNoop()
	if cfg.Recorder.SQLitePath != "" {
		journal, err = recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("open journal")
		}
	}
	defer journal.Close()

	var notify notifier.Notifier = notifier.Noop{}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" && cfg.Notifier.ChatID != "" {
		notify = notifier.NewTelegram(token, cfg.Notifier.ChatID, log)
	}

	client := broker.NewGateway(cfg.Broker.BaseURL, cfg.Broker.StreamURL, cfg.Broker.Exchange, cfg.Broker.Currency, log)
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("gateway disconnect")
		}
	}()

	exec := execution.NewExecutor(client, execution.Params{
		Profit:      cfg.Trading.Profit,
		Risk:        cfg.Trading.Risk,
		WaitForFill: time.Duration(cfg.Trading.WaitForFillSecs) * time.Second,
		Cooldown:    time.Duration(cfg.Trading.CooldownSecs) * time.Second,
	}, log, journal, notify)

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

	log.Info().Strs("symbols", eng.Symbols()).Msg("pivot engine started")
	if err := eng.Run(ctx, bars); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("engine stopped")
	}
	log.Info().Msg("shutting down")
}
