package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	analysisadapters "stock_analysis/internal/feature/analysis/adapters"
	"stock_analysis/internal/feature/analysis/indicator"
	analysisusecase "stock_analysis/internal/feature/analysis/usecase"
	lookupusecase "stock_analysis/internal/feature/lookup/usecase"
	"stock_analysis/internal/platform/cache"
	"stock_analysis/internal/platform/config"
	"stock_analysis/internal/platform/storage"
	"stock_analysis/internal/shared/ratelimiter"
)

// NewLookupUsecase wires both lookups as memo → Redis (optional) → validation → provider.
func NewLookupUsecase(cfg *config.Config, rdb *redis.Client) *lookupusecase.LookupUsecase {
	alpha := NewAlphaVantage()
	google := NewSerpAPI()

	// 日足は次の引けまで有効。TTLは保存のたびに計算する
	alphaSrc := cache.NewCachingRawRepository(rdb, cache.TimeUntilNextMarketClose,
		lookupusecase.NewValidatedSource("alphavantage", lookupusecase.RawSourceFunc(alpha.DailyAdjustedRaw)), "alpha")
	googleSrc := cache.NewCachingRawRepository(rdb, cache.FixedTTL(15*time.Minute),
		lookupusecase.NewValidatedSource("serpapi", lookupusecase.RawSourceFunc(google.GoogleFinance)), "google")

	return lookupusecase.NewLookupUsecase(alphaSrc, googleSrc, cfg.Lookup.MemoSize)
}

// NewSink returns an S3 sink when a bucket is configured, otherwise a local directory sink.
func NewSink(ctx context.Context, cfg *config.Config) (analysisusecase.Sink, error) {
	if cfg.Export.S3Bucket == "" {
		return storage.NewLocalSink(cfg.Export.Dir), nil
	}
	s3cfg := storage.S3Config{
		Bucket:    cfg.Export.S3Bucket,
		Prefix:    cfg.Export.S3Prefix,
		Region:    cfg.Export.S3Region,
		Endpoint:  cfg.Export.S3Endpoint,
		PathStyle: cfg.Export.PathStyle,
	}.WithEnvCredentials()
	return storage.NewS3Sink(ctx, s3cfg)
}

// NewAnalysisUsecase wires the analysis pipeline. db and sink may be nil.
func NewAnalysisUsecase(cfg *config.Config, db *gorm.DB, sink analysisusecase.Sink) *analysisusecase.AnalysisUsecase {
	engine := indicator.NewEngine(cfg.Indicators.SMAWindow, cfg.Indicators.EMASpan, cfg.Indicators.RSIWindow)

	var store analysisusecase.ObservationRepository
	if db != nil {
		store = analysisadapters.NewObservationRepository(db)
	}
	var movers analysisusecase.MoversRepository
	if ms := NewMarketstack(); ms != nil {
		movers = ms
	}

	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit.PerMinute, time.Minute)
	return analysisusecase.NewAnalysisUsecase(engine, NewAlphaVantage(), movers, store, sink, limiter)
}
