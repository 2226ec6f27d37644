package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moni-app/moni/internal/domain"
	"github.com/moni-app/moni/internal/modules/prices"
)

func holding(symbol string, quantity, costBasis float64) domain.ResolvedHolding {
	return domain.ResolvedHolding{
		Quantity:  quantity,
		CostBasis: costBasis,
		Asset: domain.AssetRef{
			Symbol:   symbol,
			Name:     symbol,
			Type:     domain.AssetTypeStock,
			Currency: "USD",
		},
	}
}

func priceTable(table map[string]float64) func(string) prices.Quote {
	source := make(map[string]prices.Quote, len(table))
	for symbol, price := range table {
		source[symbol] = prices.Quote{Price: price}
	}
	static := prices.NewStaticSource(source)
	return static.Quote
}

func TestComputeSummary_Example(t *testing.T) {
	holdings := []domain.ResolvedHolding{
		holding("BTC", 2, 80000),
		holding("ETH", 10, 30000),
	}
	priceOf := priceTable(map[string]float64{"BTC": 50000, "ETH": 3000})

	summary := ComputeSummary(holdings, priceOf)

	assert.Equal(t, 130000.0, summary.TotalValue)
	assert.Equal(t, 110000.0, summary.TotalCost)
	assert.Equal(t, 20000.0, summary.TotalReturn)
	assert.InDelta(t, 18.18, summary.TotalReturnPercent, 0.01)
	assert.Equal(t, 2, summary.AssetCount)

	assert.Equal(t, AssetTotals{Value: 100000, Cost: 80000}, summary.Assets["BTC"])
	assert.Equal(t, AssetTotals{Value: 30000, Cost: 30000}, summary.Assets["ETH"])
}

func TestComputeSummary_EmptyHoldings(t *testing.T) {
	summary := ComputeSummary(nil, priceTable(nil))

	assert.Equal(t, 0.0, summary.TotalValue)
	assert.Equal(t, 0.0, summary.TotalCost)
	assert.Equal(t, 0.0, summary.TotalReturn)
	assert.Equal(t, 0.0, summary.TotalReturnPercent)
	assert.Equal(t, 0, summary.AssetCount)
	assert.Empty(t, summary.Assets)
	assert.Empty(t, ComputeAllocation(summary))
}

func TestComputeSummary_ZeroCostAvoidsDivisionByZero(t *testing.T) {
	holdings := []domain.ResolvedHolding{holding("AAPL", 5, 0)}
	priceOf := priceTable(map[string]float64{"AAPL": 200})

	summary := ComputeSummary(holdings, priceOf)

	assert.Equal(t, 1000.0, summary.TotalValue)
	assert.Equal(t, 0.0, summary.TotalCost)
	// Percent return is defined as 0 when there is no cost basis
	assert.Equal(t, 0.0, summary.TotalReturnPercent)
}

func TestComputeSummary_UnknownSymbolUsesFallbackPrice(t *testing.T) {
	// OBSCURE is not in the table: it must be valued at the placeholder
	// price, not dropped and not a real valuation.
	holdings := []domain.ResolvedHolding{holding("OBSCURE", 3, 150)}
	priceOf := priceTable(map[string]float64{"BTC": 50000})

	summary := ComputeSummary(holdings, priceOf)

	assert.Equal(t, 3*prices.FallbackPrice, summary.TotalValue)
	assert.True(t, priceOf("OBSCURE").Fallback)
}

func TestComputeSummary_SameSymbolAcrossAccountsMerges(t *testing.T) {
	a := holding("BTC", 1, 30000)
	a.AccountID = "acct-1"
	b := holding("BTC", 2, 50000)
	b.AccountID = "acct-2"

	summary := ComputeSummary([]domain.ResolvedHolding{a, b}, priceTable(map[string]float64{"BTC": 40000}))

	assert.Equal(t, 1, summary.AssetCount)
	assert.Equal(t, AssetTotals{Value: 120000, Cost: 80000}, summary.Assets["BTC"])
}

func TestComputeSummary_Idempotent(t *testing.T) {
	holdings := []domain.ResolvedHolding{
		holding("BTC", 2, 80000),
		holding("ETH", 10, 30000),
	}
	priceOf := priceTable(map[string]float64{"BTC": 50000, "ETH": 3000})

	first := ComputeSummary(holdings, priceOf)
	second := ComputeSummary(holdings, priceOf)

	assert.Equal(t, first, second)
	assert.Equal(t, ComputeAllocation(first), ComputeAllocation(second))
}

func TestComputeAllocation_Example(t *testing.T) {
	holdings := []domain.ResolvedHolding{
		holding("BTC", 2, 80000),
		holding("ETH", 10, 30000),
	}
	summary := ComputeSummary(holdings, priceTable(map[string]float64{"BTC": 50000, "ETH": 3000}))

	allocation := ComputeAllocation(summary)
	require.Len(t, allocation, 2)

	assert.Equal(t, "BTC", allocation[0].Symbol)
	assert.InDelta(t, 76.9, allocation[0].AllocationPercent, 0.05)
	assert.Equal(t, "ETH", allocation[1].Symbol)
	assert.InDelta(t, 23.1, allocation[1].AllocationPercent, 0.05)
}

func TestComputeAllocation_PercentagesSumTo100(t *testing.T) {
	holdings := []domain.ResolvedHolding{
		holding("BTC", 2, 80000),
		holding("ETH", 10, 30000),
		holding("AAPL", 7, 1200),
		holding("OBSCURE", 3, 150), // fallback-priced
	}
	summary := ComputeSummary(holdings, priceTable(map[string]float64{
		"BTC": 50000, "ETH": 3000, "AAPL": 189.23,
	}))
	require.Greater(t, summary.TotalValue, 0.0)

	var sum float64
	for _, entry := range ComputeAllocation(summary) {
		sum += entry.AllocationPercent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestComputeAllocation_ZeroValuePortfolio(t *testing.T) {
	// Zero-quantity positions make totalValue 0; percentages must all be 0
	holdings := []domain.ResolvedHolding{
		holding("BTC", 0, 1000),
		holding("ETH", 0, 2000),
	}
	summary := ComputeSummary(holdings, priceTable(map[string]float64{"BTC": 50000, "ETH": 3000}))
	require.Equal(t, 0.0, summary.TotalValue)

	for _, entry := range ComputeAllocation(summary) {
		assert.Equal(t, 0.0, entry.AllocationPercent)
	}
}

func TestComputeAllocation_SortedByValueWithStableTieBreak(t *testing.T) {
	// ETH and TSLA have identical values; ETH appeared first and must stay first
	holdings := []domain.ResolvedHolding{
		holding("ETH", 1, 10),
		holding("TSLA", 2, 10),
		holding("BTC", 1, 10),
	}
	summary := ComputeSummary(holdings, priceTable(map[string]float64{
		"ETH": 500, "TSLA": 250, "BTC": 9000,
	}))

	allocation := ComputeAllocation(summary)
	require.Len(t, allocation, 3)
	assert.Equal(t, "BTC", allocation[0].Symbol)
	assert.Equal(t, "ETH", allocation[1].Symbol)
	assert.Equal(t, "TSLA", allocation[2].Symbol)
}
