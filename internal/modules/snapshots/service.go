package snapshots

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/modules/portfolio"
)

// SummaryProvider supplies the current portfolio valuation.
type SummaryProvider interface {
	Summary() (portfolio.Summary, error)
}

// Service records portfolio snapshots. It is invoked on a schedule and on
// demand from the API.
type Service struct {
	portfolio SummaryProvider
	repo      *Repository
	log       zerolog.Logger
}

// NewService creates a new snapshot service
func NewService(portfolioSvc SummaryProvider, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		portfolio: portfolioSvc,
		repo:      repo,
		log:       log.With().Str("service", "snapshots").Logger(),
	}
}

// Record computes the current summary and persists it as a snapshot.
// An empty portfolio still records a zero-value snapshot so chart series
// have no gaps.
func (s *Service) Record() (Snapshot, error) {
	summary, err := s.portfolio.Summary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to compute summary for snapshot: %w", err)
	}

	snap := Snapshot{
		TakenAt:    time.Now().UTC(),
		TotalValue: summary.TotalValue,
		TotalCost:  summary.TotalCost,
	}
	if len(summary.Assets) > 0 {
		snap.Breakdown = make(map[string]SymbolTotals, len(summary.Assets))
		for symbol, totals := range summary.Assets {
			snap.Breakdown[symbol] = SymbolTotals{Value: totals.Value, Cost: totals.Cost}
		}
	}

	id, err := s.repo.Insert(snap)
	if err != nil {
		return Snapshot{}, err
	}
	snap.ID = id

	s.log.Info().
		Int64("id", id).
		Float64("total_value", snap.TotalValue).
		Int("symbols", len(snap.Breakdown)).
		Msg("Portfolio snapshot recorded")

	return snap, nil
}

// Recent returns the newest snapshots, most recent first.
func (s *Service) Recent(limit int) ([]Snapshot, error) {
	return s.repo.Recent(limit)
}

// Range returns snapshots in [from, to], oldest first.
func (s *Service) Range(from, to time.Time) ([]Snapshot, error) {
	return s.repo.Range(from, to)
}
