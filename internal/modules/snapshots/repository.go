// Package snapshots persists periodic portfolio valuations to history.db.
// Each snapshot stores the headline totals plus a per-symbol breakdown so
// charts can be rebuilt without replaying the ledger.
package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// SymbolTotals is one symbol's slice of a snapshot breakdown.
type SymbolTotals struct {
	Value float64 `msgpack:"value" json:"value"`
	Cost  float64 `msgpack:"cost" json:"cost"`
}

// Snapshot is a stored portfolio valuation at a point in time.
type Snapshot struct {
	ID         int64                   `json:"id"`
	TakenAt    time.Time               `json:"takenAt"`
	TotalValue float64                 `json:"totalValue"`
	TotalCost  float64                 `json:"totalCost"`
	Breakdown  map[string]SymbolTotals `json:"breakdown,omitempty"`
}

// Repository handles snapshot storage in history.db.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a snapshot repository backed by history.db.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "snapshots").Logger(),
	}
}

// Insert stores a snapshot. The breakdown is msgpack-encoded; a nil
// breakdown is stored as NULL.
func (r *Repository) Insert(s Snapshot) (int64, error) {
	var blob []byte
	if s.Breakdown != nil {
		var err error
		blob, err = msgpack.Marshal(s.Breakdown)
		if err != nil {
			return 0, fmt.Errorf("failed to encode snapshot breakdown: %w", err)
		}
	}

	result, err := r.db.Exec(`
		INSERT INTO portfolio_snapshots (taken_at, total_value, total_cost, breakdown)
		VALUES (?, ?, ?, ?)
	`, s.TakenAt.Unix(), s.TotalValue, s.TotalCost, blob)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return result.LastInsertId()
}

// Recent returns the newest snapshots, most recent first.
func (r *Repository) Recent(limit int) ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT id, taken_at, total_value, total_cost, breakdown
		FROM portfolio_snapshots
		ORDER BY taken_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent snapshots: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Range returns snapshots taken in [from, to], oldest first. Chart series
// are built from this ordering.
func (r *Repository) Range(from, to time.Time) ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT id, taken_at, total_value, total_cost, breakdown
		FROM portfolio_snapshots
		WHERE taken_at >= ? AND taken_at <= ?
		ORDER BY taken_at ASC
	`, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot range: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Latest returns the most recent snapshot, or nil when none exist.
func (r *Repository) Latest() (*Snapshot, error) {
	list, err := r.Recent(1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// Count returns the number of stored snapshots.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM portfolio_snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// PruneBefore deletes snapshots older than cutoff and returns how many
// rows were removed.
func (r *Repository) PruneBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM portfolio_snapshots WHERE taken_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return result.RowsAffected()
}

func (r *Repository) collect(rows *sql.Rows) ([]Snapshot, error) {
	var list []Snapshot
	for rows.Next() {
		var (
			s       Snapshot
			takenAt int64
			blob    []byte
		)
		if err := rows.Scan(&s.ID, &takenAt, &s.TotalValue, &s.TotalCost, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		s.TakenAt = time.Unix(takenAt, 0).UTC()

		if len(blob) > 0 {
			if err := msgpack.Unmarshal(blob, &s.Breakdown); err != nil {
				// A corrupt breakdown should not hide the totals.
				r.log.Warn().Err(err).Int64("id", s.ID).Msg("Failed to decode snapshot breakdown")
				s.Breakdown = nil
			}
		}

		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return list, nil
}
