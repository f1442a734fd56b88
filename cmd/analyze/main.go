package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock_analysis/internal/app/batch"
	"stock_analysis/internal/app/di"
	watchlistadapters "stock_analysis/internal/feature/watchlist/adapters"
	watchlistusecase "stock_analysis/internal/feature/watchlist/usecase"
	"stock_analysis/internal/platform/config"
	infradb "stock_analysis/internal/platform/db"
	"stock_analysis/internal/platform/logger"
)

func main() {
	symbol := flag.String("symbol", "", "analyze a single symbol and exit")
	schedule := flag.Bool("cron", false, "run on the configured cron schedule until interrupted")
	cfgPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	closer := logger.Init("analyze", logger.OptionsFromEnv())
	defer func() { _ = closer.Close() }()

	if err := run(*cfgPath, *symbol, *schedule); err != nil {
		slog.Error("analyze failed", "error", err)
		os.Exit(1)
	}
}

func run(cfgPath, symbol string, schedule bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := infradb.Open(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}

	sink, err := di.NewSink(ctx, cfg)
	if err != nil {
		return err
	}
	uc := di.NewAnalysisUsecase(cfg, db, sink)

	// 単一銘柄モード
	if symbol != "" {
		_, err := uc.Analyze(ctx, symbol)
		return err
	}

	watchlist := watchlistusecase.NewSymbolUsecase(watchlistadapters.NewSymbolRepository(db))
	job := batch.NewJob(uc, watchlist, cfg.Symbols, 30*time.Minute)

	if !schedule {
		return job.RunOnce(ctx)
	}

	c, err := job.Schedule(ctx, cfg.Schedule.Cron)
	if err != nil {
		return err
	}
	if os.Getenv("RUN_ON_START") == "true" {
		if err := job.RunOnce(ctx); err != nil && !errors.Is(err, batch.ErrNoSymbols) {
			slog.Error("initial analysis failed", "error", err)
		}
	}

	c.Start()
	slog.Info("scheduler started", "cron", cfg.Schedule.Cron)
	<-ctx.Done()

	slog.Info("stopping scheduler")
	<-c.Stop().Done()
	return nil
}
