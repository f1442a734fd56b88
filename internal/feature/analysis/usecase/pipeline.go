package usecase

import (
	"encoding/json"
	"time"

	"stock_analysis/internal/feature/analysis/domain/entity"
	"stock_analysis/internal/feature/analysis/indicator"
	"stock_analysis/internal/feature/analysis/normalizer"
	"stock_analysis/internal/feature/reports/aggregator"
	reportentity "stock_analysis/internal/feature/reports/domain/entity"
	"stock_analysis/internal/platform/metrics"
)

// moversTopN は値上がり・値下がり上位として抽出する件数です。
const moversTopN = 10

// Payload は1回の分析に必要な生データです。
// Reports / Movers が nil の場合は「取得不可」、空スライスの場合は「0件」として扱います。
type Payload struct {
	Symbol     string
	Interval   string
	Series     []entity.RawObservation
	Reports    []reportentity.Record
	Movers     []reportentity.Record
	ETFProfile json.RawMessage
}

// Result は分析結果です。
type Result struct {
	Series     *entity.AugmentedSeries
	Dropped    []*normalizer.ParseError
	Reports    *reportentity.Table
	Gainers    *reportentity.Table
	Losers     *reportentity.Table
	ETFProfile json.RawMessage
}

// Run は正規化→指標計算→レポート集約を同期的に実行します。I/Oは行いません。
func Run(engine *indicator.Engine, p Payload) (*Result, error) {
	start := time.Now()
	defer func() { metrics.AnalysisDuration.Observe(time.Since(start).Seconds()) }()

	series, dropped := normalizer.Normalize(p.Series)
	metrics.DroppedObservations.Add(float64(len(dropped)))

	augmented, err := engine.Compute(p.Symbol, p.Interval, series)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Series:     augmented,
		Dropped:    dropped,
		ETFProfile: p.ETFProfile,
	}
	if p.Reports != nil {
		res.Reports = aggregator.Aggregate(p.Reports)
	}
	if p.Movers != nil {
		res.Gainers = aggregator.Aggregate(aggregator.TopN(p.Movers, "close", moversTopN, true))
		res.Losers = aggregator.Aggregate(aggregator.TopN(p.Movers, "close", moversTopN, false))
	}
	return res, nil
}
