// Package portfolio computes portfolio summaries and allocation breakdowns
// from holdings and a price source.
package portfolio

import (
	"sort"

	"github.com/moni-app/moni/internal/domain"
	"github.com/moni-app/moni/internal/modules/prices"
)

// AssetTotals is the aggregated value and cost of a single symbol.
// A symbol held in multiple accounts contributes to one entry.
type AssetTotals struct {
	Value float64 `json:"value"`
	Cost  float64 `json:"cost"`
}

// Summary is the derived portfolio roll-up. It is recomputed on every read
// and never persisted.
type Summary struct {
	TotalValue         float64                `json:"totalValue"`
	TotalCost          float64                `json:"totalCost"`
	TotalReturn        float64                `json:"totalReturn"`
	TotalReturnPercent float64                `json:"totalReturnPercent"`
	AssetCount         int                    `json:"assetCount"`
	Assets             map[string]AssetTotals `json:"assets"`

	// symbolOrder records first appearance of each symbol, the stable
	// tie-break for equal-value allocation entries.
	symbolOrder []string
}

// AllocationEntry is one symbol's share of the total portfolio value
type AllocationEntry struct {
	Symbol            string  `json:"symbol"`
	Value             float64 `json:"value"`
	AllocationPercent float64 `json:"allocation"`
}

// ComputeSummary rolls a list of resolved holdings and a price lookup into a
// portfolio summary.
//
// Pure function: no I/O, no hidden state, no errors. Degenerate inputs (empty
// holdings, zero cost) produce well-defined zero results. Unknown symbols are
// priced by the source's fallback quote, which the source flags as degraded
// data; the aggregator itself does not special-case them.
func ComputeSummary(holdings []domain.ResolvedHolding, priceOf func(symbol string) prices.Quote) Summary {
	summary := Summary{
		Assets: make(map[string]AssetTotals),
	}

	for _, h := range holdings {
		symbol := h.Asset.Symbol
		value := h.Quantity * priceOf(symbol).Price

		summary.TotalValue += value
		summary.TotalCost += h.CostBasis

		totals, seen := summary.Assets[symbol]
		if !seen {
			summary.symbolOrder = append(summary.symbolOrder, symbol)
		}
		totals.Value += value
		totals.Cost += h.CostBasis
		summary.Assets[symbol] = totals
	}

	summary.TotalReturn = summary.TotalValue - summary.TotalCost
	if summary.TotalCost > 0 {
		summary.TotalReturnPercent = summary.TotalReturn / summary.TotalCost * 100
	}
	summary.AssetCount = len(summary.Assets)

	return summary
}

// ComputeAllocation breaks a summary down into per-symbol allocation
// percentages, sorted by value descending. Symbols with equal value keep the
// order they first appeared in the holdings list. Percentages are 0 when the
// portfolio has no value.
func ComputeAllocation(summary Summary) []AllocationEntry {
	entries := make([]AllocationEntry, 0, len(summary.Assets))

	for _, symbol := range summary.symbolOrder {
		totals := summary.Assets[symbol]

		pct := 0.0
		if summary.TotalValue > 0 {
			pct = totals.Value / summary.TotalValue * 100
		}

		entries = append(entries, AllocationEntry{
			Symbol:            symbol,
			Value:             totals.Value,
			AllocationPercent: pct,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	return entries
}
