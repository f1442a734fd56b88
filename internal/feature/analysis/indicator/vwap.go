package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"stock_analysis/internal/feature/analysis/domain"
)

// VWAP computes the cumulative volume-weighted average price from the start of
// the series. Indices where cumulative volume is still 0 are undefined.
func VWAP(closes, volumes []float64) ([]null.Float, error) {
	if len(closes) != len(volumes) {
		return nil, fmt.Errorf("vwap: %d closes, %d volumes: %w", len(closes), len(volumes), domain.ErrLengthMismatch)
	}

	out := make([]null.Float, len(closes))
	var pv, vol float64
	for i := range closes {
		pv += closes[i] * volumes[i]
		vol += volumes[i]
		if vol > 0 {
			out[i] = null.FloatFrom(pv / vol)
		}
	}
	return out, nil
}
