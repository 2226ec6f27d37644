package portfolio

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moni-app/moni/internal/domain"
	"github.com/moni-app/moni/internal/modules/prices"
)

type fakeHoldingReader struct {
	holdings []domain.ResolvedHolding
	err      error
}

func (f *fakeHoldingReader) ListWithAssets() ([]domain.ResolvedHolding, error) {
	return f.holdings, f.err
}

func TestServiceSummary(t *testing.T) {
	reader := &fakeHoldingReader{holdings: []domain.ResolvedHolding{
		holding("BTC", 2, 80000),
		holding("ETH", 10, 30000),
	}}
	source := prices.NewStaticSource(map[string]prices.Quote{
		"BTC": {Price: 50000},
		"ETH": {Price: 3000},
	})

	svc := NewService(reader, source, zerolog.Nop())

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, 130000.0, summary.TotalValue)
	assert.Equal(t, 110000.0, summary.TotalCost)
	assert.Equal(t, 2, summary.AssetCount)
}

func TestServiceSummaryStoreError(t *testing.T) {
	reader := &fakeHoldingReader{err: errors.New("disk gone")}
	svc := NewService(reader, prices.NewDefaultStaticSource(), zerolog.Nop())

	_, err := svc.Summary()
	require.Error(t, err)
}

func TestServiceHoldings(t *testing.T) {
	reader := &fakeHoldingReader{holdings: []domain.ResolvedHolding{
		holding("BTC", 2, 80000),
		holding("XYZ", 3, 300),
	}}
	source := prices.NewStaticSource(map[string]prices.Quote{
		"BTC": {Price: 50000, ChangePercent: 3.4, Series: []float64{49000, 50000}},
	})

	svc := NewService(reader, source, zerolog.Nop())

	views, err := svc.Holdings()
	require.NoError(t, err)
	require.Len(t, views, 2)

	btc := views[0]
	assert.Equal(t, "BTC", btc.Asset.Symbol)
	assert.Equal(t, 100000.0, btc.MarketValue)
	assert.Equal(t, 20000.0, btc.UnrealizedPnL)
	assert.Equal(t, []float64{49000, 50000}, btc.Sparkline)
	assert.False(t, btc.PriceFallback)

	// Unknown symbol is valued at the placeholder price and flagged.
	xyz := views[1]
	assert.Equal(t, prices.FallbackPrice, xyz.Price)
	assert.Equal(t, 3*prices.FallbackPrice, xyz.MarketValue)
	assert.True(t, xyz.PriceFallback)
}

func TestServiceAllocation(t *testing.T) {
	reader := &fakeHoldingReader{holdings: []domain.ResolvedHolding{
		holding("BTC", 2, 80000),
		holding("ETH", 10, 30000),
	}}
	source := prices.NewStaticSource(map[string]prices.Quote{
		"BTC": {Price: 50000},
		"ETH": {Price: 3000},
	})

	svc := NewService(reader, source, zerolog.Nop())

	allocation, err := svc.Allocation()
	require.NoError(t, err)
	require.Len(t, allocation, 2)
	assert.Equal(t, "BTC", allocation[0].Symbol)
	assert.InDelta(t, 76.9, allocation[0].AllocationPercent, 0.1)
}
