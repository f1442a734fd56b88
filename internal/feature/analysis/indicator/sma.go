// Package indicator computes technical indicators over a close (and volume) column.
// Every function returns a column aligned index-for-index with its input; values
// that cannot be computed are left undefined rather than set to NaN.
package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"stock_analysis/internal/feature/analysis/domain"
)

// SMA computes the trailing simple moving average over window closes.
// The first window-1 values are undefined; a window longer than the series
// leaves the whole column undefined.
func SMA(closes []float64, window int) ([]null.Float, error) {
	if window < 1 {
		return nil, fmt.Errorf("sma window %d: %w", window, domain.ErrInvalidWindow)
	}

	out := make([]null.Float, len(closes))
	for i := window - 1; i < len(closes); i++ {
		// 窓ごとに再集計して累積誤差を避ける
		sum := 0.0
		for _, c := range closes[i-window+1 : i+1] {
			sum += c
		}
		out[i] = null.FloatFrom(sum / float64(window))
	}
	return out, nil
}
