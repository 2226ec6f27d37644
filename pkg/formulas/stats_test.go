package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestCalculateReturns(t *testing.T) {
	assert.Empty(t, CalculateReturns([]float64{100}))

	returns := CalculateReturns([]float64{100, 110, 99})
	assert.InDelta(t, 0.1, returns[0], 1e-9)
	assert.InDelta(t, -0.1, returns[1], 1e-9)
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))

	returns := []float64{0.01, -0.02, 0.03, -0.01}
	expected := StdDev(returns) * math.Sqrt(252)
	assert.InDelta(t, expected, AnnualizedVolatility(returns), 1e-9)
}

func TestSmaSeries(t *testing.T) {
	assert.Empty(t, SmaSeries([]float64{1, 2}, 3))

	sma := SmaSeries([]float64{1, 2, 3, 4, 5}, 3)
	assert.Len(t, sma, 5)
	assert.Equal(t, 0.0, sma[0], "positions before the window are zeroed")
	assert.Equal(t, 0.0, sma[1])
	assert.InDelta(t, 2.0, sma[2], 1e-9)
	assert.InDelta(t, 4.0, sma[4], 1e-9)
}

func TestCalculateSMA(t *testing.T) {
	assert.Nil(t, CalculateSMA([]float64{1}, 3))

	last := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.NotNil(t, last)
	assert.InDelta(t, 4.0, *last, 1e-9)
}
