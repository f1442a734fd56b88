package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"stock_analysis/internal/feature/analysis/domain"
)

const (
	rsiMax     = 100.0
	rsiNeutral = 50.0
)

// RSI computes the Relative Strength Index from trailing simple means of gains
// and losses over window price changes. Index i needs window changes, so values
// before index window are undefined.
//
// Degenerate windows do not divide by zero: only gains gives 100, no movement
// at all gives 50.
func RSI(closes []float64, window int) ([]null.Float, error) {
	if window < 1 {
		return nil, fmt.Errorf("rsi window %d: %w", window, domain.ErrInvalidWindow)
	}

	out := make([]null.Float, len(closes))
	for i := window; i < len(closes); i++ {
		var gain, loss float64
		for j := i - window + 1; j <= i; j++ {
			d := closes[j] - closes[j-1]
			if d > 0 {
				gain += d
			} else {
				loss -= d
			}
		}
		avgGain := gain / float64(window)
		avgLoss := loss / float64(window)
		out[i] = null.FloatFrom(rsiValue(avgGain, avgLoss))
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return rsiNeutral
	case avgLoss == 0:
		return rsiMax
	}
	v := 100 - 100/(1+avgGain/avgLoss)
	return min(max(v, 0), rsiMax)
}
