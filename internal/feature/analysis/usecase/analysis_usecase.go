// Package usecase はanalysisフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"stock_analysis/internal/feature/analysis/adapters/csvexport"
	"stock_analysis/internal/feature/analysis/domain"
	"stock_analysis/internal/feature/analysis/domain/entity"
	"stock_analysis/internal/feature/analysis/indicator"
	reportcsv "stock_analysis/internal/feature/reports/adapters/csvexport"
	reportentity "stock_analysis/internal/feature/reports/domain/entity"
	"stock_analysis/internal/shared/ratelimiter"
)

// DefaultInterval は分析に使う既定の時間足です。
const DefaultInterval = "5min"

// IntervalDaily は日足を表す時間足です。
const IntervalDaily = "daily"

// supportedIntervals はAlpha Vantageで指定可能な時間足です。
var supportedIntervals = []string{"1min", "5min", "15min", "30min", "60min", IntervalDaily}

// MarketRepository は分析対象データを外部APIから取得するリポジトリのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetIntraday(ctx context.Context, symbol, interval string) ([]entity.RawObservation, error)
	GetDaily(ctx context.Context, symbol string) ([]entity.RawObservation, error)
	GetAnnualReports(ctx context.Context, symbol string) ([]reportentity.Record, error)
	GetETFProfile(ctx context.Context, symbol string) (json.RawMessage, error)
}

// MoversRepository は市場全体の銘柄一覧（値動き上位抽出用）を取得します。
type MoversRepository interface {
	GetMarketMovers(ctx context.Context) ([]reportentity.Record, error)
}

// ObservationRepository は正規化済みの観測値を永続化します。
type ObservationRepository interface {
	UpsertBatch(ctx context.Context, symbol, interval string, series entity.TimeSeries) error
	FindLatest(ctx context.Context, symbol, interval string, limit int) (entity.TimeSeries, error)
}

// Sink は出力ファイルの書き込み先です（ローカルディレクトリ、S3など）。
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// AnalysisUsecase は株価データの取得・指標計算・出力を行うユースケースです。
type AnalysisUsecase struct {
	engine      *indicator.Engine
	market      MarketRepository
	movers      MoversRepository
	store       ObservationRepository
	sink        Sink
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewAnalysisUsecase は新しい AnalysisUsecase を作成します。
// movers, store, sink は nil でもよく、その場合は該当処理をスキップします。
func NewAnalysisUsecase(engine *indicator.Engine, market MarketRepository, movers MoversRepository,
	store ObservationRepository, sink Sink, rateLimiter ratelimiter.RateLimiterInterface) *AnalysisUsecase {
	return &AnalysisUsecase{
		engine:      engine,
		market:      market,
		movers:      movers,
		store:       store,
		sink:        sink,
		rateLimiter: rateLimiter,
	}
}

// ComputeSeries は日中足を取得して指標を付与した時系列を返します。HTTPハンドラーから利用されます。
// 取得に失敗した場合、保存済みの観測値があればそこから指標を計算します。
func (u *AnalysisUsecase) ComputeSeries(ctx context.Context, symbol, interval string) (*entity.AugmentedSeries, error) {
	symbol, interval, err := normalizeRequest(symbol, interval)
	if err != nil {
		return nil, err
	}

	u.rateLimiter.WaitIfNeeded()
	raw, err := u.fetchSeries(ctx, symbol, interval)
	if err != nil {
		fetchErr := fmt.Errorf("fetch series %s: %w", symbol, err)
		if stored := u.storedSeries(ctx, symbol, interval); len(stored) > 0 {
			slog.Warn("serving stored observations", "symbol", symbol, "interval", interval, "error", fetchErr)
			return u.engine.Compute(symbol, interval, stored)
		}
		return nil, fetchErr
	}

	res, err := Run(u.engine, Payload{Symbol: symbol, Interval: interval, Series: raw})
	if err != nil {
		return nil, err
	}
	return res.Series, nil
}

func (u *AnalysisUsecase) fetchSeries(ctx context.Context, symbol, interval string) ([]entity.RawObservation, error) {
	if interval == IntervalDaily {
		return u.market.GetDaily(ctx, symbol)
	}
	return u.market.GetIntraday(ctx, symbol, interval)
}

func (u *AnalysisUsecase) storedSeries(ctx context.Context, symbol, interval string) entity.TimeSeries {
	if u.store == nil {
		return nil
	}
	series, err := u.store.FindLatest(ctx, symbol, interval, 0)
	if err != nil {
		slog.Warn("failed to load stored observations", "symbol", symbol, "error", err)
		return nil
	}
	return series
}

// Analyze は1銘柄分のデータを並行して取得し、分析・永続化・出力を行います。
// 時系列の取得失敗はエラーとして返し、レポート・市場データ・ETF情報の取得失敗は「取得不可」として続行します。
func (u *AnalysisUsecase) Analyze(ctx context.Context, symbol string) (*Result, error) {
	symbol, interval, err := normalizeRequest(symbol, DefaultInterval)
	if err != nil {
		return nil, err
	}

	p := Payload{Symbol: symbol, Interval: interval}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u.rateLimiter.WaitIfNeeded()
		raw, err := u.fetchSeries(gctx, symbol, interval)
		if err != nil {
			return fmt.Errorf("fetch series %s: %w", symbol, err)
		}
		p.Series = raw
		return nil
	})
	g.Go(func() error {
		u.rateLimiter.WaitIfNeeded()
		reports, err := u.market.GetAnnualReports(gctx, symbol)
		if err != nil {
			slog.Warn("annual reports unavailable", "symbol", symbol, "error", err)
			return nil
		}
		p.Reports = reports
		return nil
	})
	g.Go(func() error {
		u.rateLimiter.WaitIfNeeded()
		profile, err := u.market.GetETFProfile(gctx, symbol)
		if err != nil {
			slog.Warn("etf profile unavailable", "symbol", symbol, "error", err)
			return nil
		}
		p.ETFProfile = profile
		return nil
	})
	if u.movers != nil {
		g.Go(func() error {
			movers, err := u.movers.GetMarketMovers(gctx)
			if err != nil {
				slog.Warn("market movers unavailable", "error", err)
				return nil
			}
			p.Movers = movers
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := Run(u.engine, p)
	if err != nil {
		return nil, err
	}
	slog.Info("analysis computed",
		"symbol", symbol,
		"observations", len(res.Series.Series),
		"dropped", len(res.Dropped),
		"reports", reportState(res.Reports),
	)

	if u.store != nil {
		if err := u.store.UpsertBatch(ctx, symbol, interval, res.Series.Series); err != nil {
			// 永続化は補助的な処理のため失敗しても分析結果は返す
			slog.Warn("failed to persist observations", "symbol", symbol, "error", err)
		}
	}

	if u.sink != nil {
		if err := u.Export(ctx, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// AnalyzeAll は指定された全銘柄を順に分析します。1銘柄の失敗で処理は止めません。
func (u *AnalysisUsecase) AnalyzeAll(ctx context.Context, symbols []string) error {
	var failed []string
	for _, s := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := u.Analyze(ctx, s); err != nil {
			slog.Error("failed to analyze symbol", "symbol", s, "error", err)
			failed = append(failed, s)
			continue
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("analysis failed for %d of %d symbols: %s", len(failed), len(symbols), strings.Join(failed, ","))
	}
	return nil
}

// Export は分析結果をCSV/JSONとしてSinkへ書き出します。
// 複数銘柄の出力が衝突しないよう、ファイルは銘柄コードのディレクトリ配下に置きます。
func (u *AnalysisUsecase) Export(ctx context.Context, res *Result) error {
	if u.sink == nil {
		return errors.New("no export sink configured")
	}
	symbol := res.Series.Symbol

	var buf bytes.Buffer
	if err := csvexport.WriteSeries(&buf, res.Series); err != nil {
		return fmt.Errorf("encode series csv: %w", err)
	}
	if err := u.sink.Put(ctx, path.Join(symbol, csvexport.FileName(symbol)), buf.Bytes()); err != nil {
		return fmt.Errorf("write series csv: %w", err)
	}

	// 年次レポートは1件以上ある場合のみ出力する
	if res.Reports.Len() > 0 {
		if err := u.putTable(ctx, path.Join(symbol, reportcsv.ReportsFileName), res.Reports); err != nil {
			return err
		}
	}
	if res.Gainers.Len() > 0 {
		if err := u.putTable(ctx, path.Join(symbol, reportcsv.GainersFileName), res.Gainers); err != nil {
			return err
		}
	}
	if res.Losers.Len() > 0 {
		if err := u.putTable(ctx, path.Join(symbol, reportcsv.LosersFileName), res.Losers); err != nil {
			return err
		}
	}

	if hasContent(res.ETFProfile) {
		name := path.Join(symbol, fmt.Sprintf("%s_etf_profile.json", symbol))
		if err := u.sink.Put(ctx, name, res.ETFProfile); err != nil {
			return fmt.Errorf("write etf profile: %w", err)
		}
	}
	return nil
}

func (u *AnalysisUsecase) putTable(ctx context.Context, name string, t *reportentity.Table) error {
	var buf bytes.Buffer
	if err := reportcsv.WriteTable(&buf, t); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := u.sink.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func normalizeRequest(symbol, interval string) (string, string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", "", domain.ErrEmptySymbol
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if !slices.Contains(supportedIntervals, interval) {
		return "", "", fmt.Errorf("%q: %w", interval, domain.ErrInvalidInterval)
	}
	return symbol, interval, nil
}

func reportState(t *reportentity.Table) string {
	switch {
	case t == nil:
		return "unavailable"
	case t.Len() == 0:
		return "empty"
	default:
		return fmt.Sprintf("%d rows", t.Len())
	}
}

func hasContent(b json.RawMessage) bool {
	s := string(bytes.TrimSpace(b))
	return s != "" && s != "{}" && s != "null"
}
