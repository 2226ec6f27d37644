package portfolio

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/domain"
	"github.com/moni-app/moni/internal/modules/prices"
)

// HoldingReader is the holding store read contract: all holdings joined with
// their asset, ordered by quantity descending.
type HoldingReader interface {
	ListWithAssets() ([]domain.ResolvedHolding, error)
}

// HoldingView is a holding row enriched with market data for the dashboard
// holdings list.
type HoldingView struct {
	ID            string          `json:"id"`
	Asset         domain.AssetRef `json:"asset"`
	Quantity      float64         `json:"quantity"`
	CostBasis     float64         `json:"costBasis"`
	Price         float64         `json:"price"`
	ChangePercent float64         `json:"changePercent"`
	MarketValue   float64         `json:"marketValue"`
	UnrealizedPnL float64         `json:"unrealizedPnl"`
	Sparkline     []float64       `json:"sparkline,omitempty"`
	PriceFallback bool            `json:"priceFallback,omitempty"`
}

// Service orchestrates portfolio reads: it loads holdings, resolves prices
// and runs the pure aggregation core. It holds no mutable state, so summaries
// computed concurrently from the same store contents are identical.
type Service struct {
	holdings HoldingReader
	source   prices.Source
	log      zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(holdings HoldingReader, source prices.Source, log zerolog.Logger) *Service {
	return &Service{
		holdings: holdings,
		source:   source,
		log:      log.With().Str("service", "portfolio").Logger(),
	}
}

// Summary computes the current portfolio summary
func (s *Service) Summary() (Summary, error) {
	holdings, err := s.holdings.ListWithAssets()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get holdings: %w", err)
	}

	summary := ComputeSummary(holdings, func(symbol string) prices.Quote {
		return s.source.Quote(symbol)
	})

	s.logFallbacks(holdings)

	return summary, nil
}

// Allocation computes the per-asset allocation breakdown
func (s *Service) Allocation() ([]AllocationEntry, error) {
	summary, err := s.Summary()
	if err != nil {
		return nil, err
	}
	return ComputeAllocation(summary), nil
}

// Holdings returns all holdings enriched with current market data, in the
// store's order (quantity descending).
func (s *Service) Holdings() ([]HoldingView, error) {
	holdings, err := s.holdings.ListWithAssets()
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}

	views := make([]HoldingView, 0, len(holdings))
	for _, h := range holdings {
		quote := s.source.Quote(h.Asset.Symbol)
		marketValue := h.Quantity * quote.Price

		views = append(views, HoldingView{
			ID:            h.ID,
			Asset:         h.Asset,
			Quantity:      h.Quantity,
			CostBasis:     h.CostBasis,
			Price:         quote.Price,
			ChangePercent: quote.ChangePercent,
			MarketValue:   marketValue,
			UnrealizedPnL: marketValue - h.CostBasis,
			Sparkline:     quote.Series,
			PriceFallback: quote.Fallback,
		})
	}

	return views, nil
}

// logFallbacks surfaces symbols valued with the placeholder price. Soft
// visibility only, a price miss never blocks a summary.
func (s *Service) logFallbacks(holdings []domain.ResolvedHolding) {
	var degraded []string
	seen := make(map[string]bool)
	for _, h := range holdings {
		symbol := h.Asset.Symbol
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		if s.source.Quote(symbol).Fallback {
			degraded = append(degraded, symbol)
		}
	}
	if len(degraded) > 0 {
		s.log.Warn().
			Strs("symbols", degraded).
			Float64("fallback_price", prices.FallbackPrice).
			Msg("Symbols valued with placeholder price - valuations are degraded")
	}
}
