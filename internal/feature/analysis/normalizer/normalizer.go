// Package normalizer converts raw provider time-series payloads into an ordered,
// validated entity.TimeSeries.
package normalizer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_analysis/internal/feature/analysis/domain/entity"
)

var (
	// ErrMissingClose is reported when a row has no close price.
	ErrMissingClose = errors.New("missing close")
	// ErrNegative is reported for negative numeric values.
	ErrNegative = errors.New("negative value")
	// ErrNonPositivePrice is reported for open/high/low/close <= 0.
	ErrNonPositivePrice = errors.New("price must be positive")
	// ErrTimestamp is reported when the timestamp matches no known layout.
	ErrTimestamp = errors.New("unrecognized timestamp")
	// ErrOutOfRange is reported for values that do not fit a finite float64.
	ErrOutOfRange = errors.New("value out of range")
)

// ParseError describes one dropped observation.
type ParseError struct {
	Timestamp string
	Field     string
	Value     string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("observation %q: field %s=%q: %v", e.Timestamp, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Provider labels mapped onto observation fields. Anything else is ignored.
const (
	labelOpen   = "1. open"
	labelHigh   = "2. high"
	labelLow    = "3. low"
	labelClose  = "4. close"
	labelVolume = "5. volume"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// Normalize parses raw rows in provider order. Rows that fail validation are
// dropped and reported; the remaining rows are sorted ascending by time and
// de-duplicated, keeping the first-seen row for a repeated timestamp.
func Normalize(raw []entity.RawObservation) (entity.TimeSeries, []*ParseError) {
	series := make(entity.TimeSeries, 0, len(raw))
	var dropped []*ParseError

	for _, r := range raw {
		obs, perr := parseObservation(r)
		if perr != nil {
			slog.Warn("dropping observation", "timestamp", perr.Timestamp, "field", perr.Field, "value", perr.Value, "error", perr.Err)
			dropped = append(dropped, perr)
			continue
		}
		series = append(series, obs)
	}

	// 安定ソートで同一時刻は入力順を保持する
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	series = slices.CompactFunc(series, func(a, b entity.Observation) bool {
		return a.Time.Equal(b.Time)
	})

	return series, dropped
}

// NormalizeMap normalizes a payload that has already lost its key order.
// Keys are visited in lexical order so that duplicate resolution stays deterministic.
func NormalizeMap(raw map[string]map[string]string) (entity.TimeSeries, []*ParseError) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]entity.RawObservation, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, entity.RawObservation{Timestamp: k, Fields: raw[k]})
	}
	return Normalize(rows)
}

func parseObservation(r entity.RawObservation) (entity.Observation, *ParseError) {
	ts, err := parseTimestamp(r.Timestamp)
	if err != nil {
		return entity.Observation{}, &ParseError{Timestamp: r.Timestamp, Field: "timestamp", Value: r.Timestamp, Err: err}
	}

	obs := entity.Observation{Time: ts}
	targets := []struct {
		label string
		dst   *float64
		price bool
	}{
		{labelOpen, &obs.Open, true},
		{labelHigh, &obs.High, true},
		{labelLow, &obs.Low, true},
		{labelClose, &obs.Close, true},
		{labelVolume, &obs.Volume, false},
	}

	for _, t := range targets {
		v, ok := r.Fields[t.label]
		if !ok {
			if t.label == labelClose {
				return entity.Observation{}, &ParseError{Timestamp: r.Timestamp, Field: t.label, Err: ErrMissingClose}
			}
			continue
		}
		f, err := parseNumber(v, t.price)
		if err != nil {
			return entity.Observation{}, &ParseError{Timestamp: r.Timestamp, Field: t.label, Value: v, Err: err}
		}
		*t.dst = f
	}
	return obs, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrTimestamp
}

// parseNumber parses a decimal string into a finite float64.
// Prices must stay positive after conversion; "1e-400" underflows to 0 and is rejected.
func parseNumber(s string, price bool) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, ErrNegative
	}
	if price && !d.IsPositive() {
		return 0, ErrNonPositivePrice
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, ErrOutOfRange
	}
	if price && f <= 0 {
		return 0, ErrNonPositivePrice
	}
	return f, nil
}
