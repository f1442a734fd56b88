// Package batch runs the analysis pipeline over the watchlist, once or on a cron schedule.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"stock_analysis/internal/platform/cache"
)

// ErrNoSymbols is returned when neither the watchlist nor the fallback list has symbols.
var ErrNoSymbols = errors.New("no symbols to analyze")

// Analyzer runs the full pipeline for a list of symbols.
type Analyzer interface {
	AnalyzeAll(ctx context.Context, symbols []string) error
}

// SymbolSource lists the symbols to analyze.
type SymbolSource interface {
	ActiveCodes(ctx context.Context) ([]string, error)
}

// Job analyzes every watch-listed symbol.
type Job struct {
	analyzer Analyzer
	symbols  SymbolSource
	fallback []string
	timeout  time.Duration
}

// NewJob creates a Job. symbols may be nil, in which case fallback is always used.
// timeout bounds one run; 0 means no bound.
func NewJob(analyzer Analyzer, symbols SymbolSource, fallback []string, timeout time.Duration) *Job {
	return &Job{analyzer: analyzer, symbols: symbols, fallback: fallback, timeout: timeout}
}

// RunOnce analyzes the current symbol list.
func (j *Job) RunOnce(ctx context.Context) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	log := slog.With("run_id", runID)

	symbols, err := j.resolve(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	log.Info("analysis run started", "symbols", len(symbols))
	err = j.analyzer.AnalyzeAll(ctx, symbols)
	log.Info("analysis run finished", "duration", time.Since(start), "error", err)
	return err
}

func (j *Job) resolve(ctx context.Context) ([]string, error) {
	if j.symbols != nil {
		codes, err := j.symbols.ActiveCodes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load symbols: %w", err)
		}
		if len(codes) > 0 {
			return codes, nil
		}
	}
	if len(j.fallback) == 0 {
		return nil, ErrNoSymbols
	}
	return j.fallback, nil
}

// Schedule registers RunOnce under a six-field (seconds-first) cron spec evaluated
// in market time. Runs do not overlap; a tick that fires while a run is in progress is skipped.
func (j *Job) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cache.MarketTimezone)
	if err != nil {
		slog.Warn("market timezone unavailable, scheduling in local time", "error", err)
		loc = time.Local
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(spec, func() {
		if err := j.RunOnce(ctx); err != nil {
			slog.Error("scheduled analysis failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("register analysis task: %w", err)
	}
	return c, nil
}
