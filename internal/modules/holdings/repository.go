// Package holdings provides the holding store: positions associating a
// quantity of an asset with an account.
//
// Holdings are maintained independently of the transaction log. Recording a
// transaction does not adjust a holding; reconciliation is a deliberate
// non-feature carried over from the data model.
package holdings

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/domain"
)

// Repository handles holding database operations (portfolio.db, holdings table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new holding repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "holdings").Logger(),
	}
}

// CreateInput describes a new holding. CostBasis is the total acquisition
// cost of the position.
type CreateInput struct {
	AssetID    string     `json:"assetId"`
	AccountID  string     `json:"accountId"`
	Quantity   float64    `json:"quantity"`
	CostBasis  float64    `json:"costBasis"`
	AcquiredAt *time.Time `json:"acquiredAt,omitempty"`
}

// Create validates the input and inserts a new holding
func (r *Repository) Create(in CreateInput) (domain.Holding, error) {
	if in.AssetID == "" {
		return domain.Holding{}, domain.NewValidationError("assetId")
	}
	if in.AccountID == "" {
		return domain.Holding{}, domain.NewValidationError("accountId")
	}

	holding := domain.Holding{
		ID:         uuid.NewString(),
		AssetID:    in.AssetID,
		AccountID:  in.AccountID,
		Quantity:   in.Quantity,
		CostBasis:  in.CostBasis,
		AcquiredAt: in.AcquiredAt,
		CreatedAt:  time.Now(),
	}

	var acquiredAt interface{}
	if holding.AcquiredAt != nil {
		acquiredAt = holding.AcquiredAt.Unix()
	}

	_, err := r.db.Exec(`
		INSERT INTO holdings (id, asset_id, account_id, quantity, cost_basis, acquired_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, holding.ID, holding.AssetID, holding.AccountID, holding.Quantity,
		holding.CostBasis, acquiredAt, holding.CreatedAt.Unix())
	if err != nil {
		return domain.Holding{}, fmt.Errorf("failed to insert holding: %w", err)
	}

	r.log.Info().
		Str("id", holding.ID).
		Str("asset_id", holding.AssetID).
		Float64("quantity", holding.Quantity).
		Msg("Holding created")
	return holding, nil
}

// GetByID returns the holding with the given id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (domain.Holding, error) {
	row := r.db.QueryRow(`
		SELECT id, asset_id, account_id, quantity, cost_basis, acquired_at, created_at
		FROM holdings WHERE id = ?
	`, id)
	return scanHolding(row)
}

// Update replaces quantity, cost basis and acquisition date of a holding
func (r *Repository) Update(h domain.Holding) error {
	var acquiredAt interface{}
	if h.AcquiredAt != nil {
		acquiredAt = h.AcquiredAt.Unix()
	}

	res, err := r.db.Exec(`
		UPDATE holdings
		SET quantity = ?, cost_basis = ?, acquired_at = ?
		WHERE id = ?
	`, h.Quantity, h.CostBasis, acquiredAt, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update holding %s: %w", h.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a holding by id
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM holdings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListWithAssets returns all holdings joined with their asset, ordered by
// quantity descending. This is the read contract the portfolio aggregator
// consumes.
func (r *Repository) ListWithAssets() ([]domain.ResolvedHolding, error) {
	rows, err := r.db.Query(`
		SELECT h.id, h.account_id, h.quantity, h.cost_basis, h.acquired_at,
		       a.id, a.symbol, a.name, a.type, a.currency
		FROM holdings h
		INNER JOIN assets a ON a.id = h.asset_id
		ORDER BY h.quantity DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var out []domain.ResolvedHolding
	for rows.Next() {
		var h domain.ResolvedHolding
		var acquiredAt sql.NullInt64

		err := rows.Scan(&h.ID, &h.AccountID, &h.Quantity, &h.CostBasis, &acquiredAt,
			&h.Asset.ID, &h.Asset.Symbol, &h.Asset.Name, &h.Asset.Type, &h.Asset.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		if acquiredAt.Valid {
			t := time.Unix(acquiredAt.Int64, 0).UTC()
			h.AcquiredAt = &t
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHolding(row rowScanner) (domain.Holding, error) {
	var h domain.Holding
	var acquiredAt sql.NullInt64
	var createdAt int64

	err := row.Scan(&h.ID, &h.AssetID, &h.AccountID, &h.Quantity, &h.CostBasis, &acquiredAt, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Holding{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Holding{}, fmt.Errorf("failed to scan holding: %w", err)
	}

	if acquiredAt.Valid {
		t := time.Unix(acquiredAt.Int64, 0).UTC()
		h.AcquiredAt = &t
	}
	h.CreatedAt = time.Unix(createdAt, 0).UTC()
	return h, nil
}
