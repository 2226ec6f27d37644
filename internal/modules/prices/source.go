// Package prices provides price sources for the portfolio dashboard.
//
// A Source resolves a symbol to its current quote. The aggregator only
// consumes the price; change percent and the recent series exist for the
// holdings list sparklines.
package prices

import "strings"

// FallbackPrice is the placeholder unit price used when a symbol is unknown
// to the source. A quote carrying it is a degraded-data indicator, not a real
// valuation; the Fallback flag lets callers tell the two apart.
const FallbackPrice = 100.0

// Quote is the current market view of a single symbol
type Quote struct {
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"changePercent"`
	Series        []float64 `json:"series,omitempty"` // short ordered history, sparkline only
	Fallback      bool      `json:"fallback,omitempty"`
}

// Source supplies current quotes per symbol. A lookup miss is not an error:
// it resolves to the fallback quote so downstream valuation never fails.
type Source interface {
	Quote(symbol string) Quote
}

// FallbackQuote returns the quote used for symbols the source does not know
func FallbackQuote() Quote {
	return Quote{Price: FallbackPrice, Fallback: true}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
