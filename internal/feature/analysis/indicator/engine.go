package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"stock_analysis/internal/feature/analysis/domain"
	"stock_analysis/internal/feature/analysis/domain/entity"
)

// 既定の期間
const (
	DefaultSMAWindow = 20
	DefaultEMASpan   = 50
	DefaultRSIWindow = 14
)

// ColumnVWAP is the VWAP column name; it takes no parameter.
const ColumnVWAP = "VWAP"

// Engine computes the standard indicator set for a series.
type Engine struct {
	SMAWindow int
	EMASpan   int
	RSIWindow int
}

// NewEngine returns an Engine. Zero values fall back to the defaults
// (SMA 20, EMA 50, RSI 14); negative values are rejected by Compute.
func NewEngine(smaWindow, emaSpan, rsiWindow int) *Engine {
	if smaWindow == 0 {
		smaWindow = DefaultSMAWindow
	}
	if emaSpan == 0 {
		emaSpan = DefaultEMASpan
	}
	if rsiWindow == 0 {
		rsiWindow = DefaultRSIWindow
	}
	return &Engine{SMAWindow: smaWindow, EMASpan: emaSpan, RSIWindow: rsiWindow}
}

// ColumnNames returns the column names Compute produces, in order.
func (e *Engine) ColumnNames() []string {
	return []string{
		fmt.Sprintf("SMA_%d", e.SMAWindow),
		fmt.Sprintf("EMA_%d", e.EMASpan),
		fmt.Sprintf("RSI_%d", e.RSIWindow),
		ColumnVWAP,
	}
}

// Validate checks the window parameters without touching any data.
// The first invalid parameter in SMA, EMA, RSI order is reported.
func (e *Engine) Validate() error {
	params := []struct {
		name string
		w    int
	}{
		{"sma", e.SMAWindow},
		{"ema", e.EMASpan},
		{"rsi", e.RSIWindow},
	}
	for _, p := range params {
		if p.w < 1 {
			return fmt.Errorf("%s window %d: %w", p.name, p.w, domain.ErrInvalidWindow)
		}
	}
	return nil
}

// Compute appends SMA, EMA, RSI and VWAP columns to the series.
// An empty series yields four empty columns.
func (e *Engine) Compute(symbol, interval string, series entity.TimeSeries) (*entity.AugmentedSeries, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	closes := series.Closes()
	names := e.ColumnNames()

	calcs := []func() ([]null.Float, error){
		func() ([]null.Float, error) { return SMA(closes, e.SMAWindow) },
		func() ([]null.Float, error) { return EMA(closes, e.EMASpan) },
		func() ([]null.Float, error) { return RSI(closes, e.RSIWindow) },
		func() ([]null.Float, error) { return VWAP(closes, series.Volumes()) },
	}

	out := &entity.AugmentedSeries{
		Symbol:   symbol,
		Interval: interval,
		Series:   series,
		Columns:  make([]entity.IndicatorColumn, 0, len(calcs)),
	}
	for i, calc := range calcs {
		values, err := calc()
		if err != nil {
			return nil, err
		}
		out.Columns = append(out.Columns, entity.IndicatorColumn{Name: names[i], Values: values})
	}
	return out, nil
}
