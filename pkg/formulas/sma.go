package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SmaSeries calculates a Simple Moving Average series with the given window.
// The first window-1 positions are NaN in talib's output; they are returned
// as zero so the series stays aligned with its input.
func SmaSeries(values []float64, window int) []float64 {
	if window < 1 || len(values) < window {
		return []float64{}
	}

	sma := talib.Sma(values, window)
	out := make([]float64, len(sma))
	for i, v := range sma {
		if math.IsNaN(v) {
			out[i] = 0
			continue
		}
		out[i] = v
	}
	return out
}

// CalculateSMA returns the latest Simple Moving Average value, or nil when
// there is not enough data for the window.
func CalculateSMA(values []float64, window int) *float64 {
	sma := SmaSeries(values, window)
	if len(sma) == 0 {
		return nil
	}
	last := sma[len(sma)-1]
	return &last
}
