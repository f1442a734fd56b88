package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"stock_analysis/internal/feature/analysis/domain"
)

// EMA computes the recursive exponential moving average with smoothing factor
// alpha = 2/(span+1), seeded with the first close. Every index is defined.
func EMA(closes []float64, span int) ([]null.Float, error) {
	if span < 1 {
		return nil, fmt.Errorf("ema span %d: %w", span, domain.ErrInvalidWindow)
	}

	out := make([]null.Float, len(closes))
	if len(closes) == 0 {
		return out, nil
	}

	alpha := 2.0 / float64(span+1)
	prev := closes[0]
	out[0] = null.FloatFrom(prev)
	for i := 1; i < len(closes); i++ {
		prev = alpha*closes[i] + (1-alpha)*prev
		out[i] = null.FloatFrom(prev)
	}
	return out, nil
}
