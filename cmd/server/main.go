package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_analysis/internal/app/di"
	"stock_analysis/internal/app/router"
	analysishandler "stock_analysis/internal/feature/analysis/transport/handler"
	lookuphandler "stock_analysis/internal/feature/lookup/transport/handler"
	watchlistadapters "stock_analysis/internal/feature/watchlist/adapters"
	watchlisthandler "stock_analysis/internal/feature/watchlist/transport/handler"
	watchlistusecase "stock_analysis/internal/feature/watchlist/usecase"
	"stock_analysis/internal/platform/config"
	infradb "stock_analysis/internal/platform/db"
	"stock_analysis/internal/platform/http/handler"
	jwtmw "stock_analysis/internal/platform/jwt"
	"stock_analysis/internal/platform/logger"
	infraredis "stock_analysis/internal/platform/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	closer := logger.Init("server", logger.OptionsFromEnv())
	defer func() { _ = closer.Close() }()

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// db
	db, err := infradb.Open(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}

	// Redis（未設定・接続失敗時はキャッシュなしで起動）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without shared cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Usecase
	lookupUC := di.NewLookupUsecase(cfg, rdb)
	analysisUC := di.NewAnalysisUsecase(cfg, db, nil)
	symbolUC := watchlistusecase.NewSymbolUsecase(watchlistadapters.NewSymbolRepository(db))

	checks := map[string]handler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	r := router.NewRouter(router.Handlers{
		Lookup:   lookuphandler.NewLookupHandler(lookupUC),
		Analysis: analysishandler.NewAnalysisHandler(analysisUC),
		Symbols:  watchlisthandler.NewSymbolHandler(symbolUC),
		Ready:    handler.Ready(checks),
	}, cfg.Server.CORSOrigins)

	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set; protected routes will respond 500")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
