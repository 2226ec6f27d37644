// Package ledger provides the append-only transaction log: buy, sell,
// dividend, split and transfer events. Rows are recorded once and never
// mutated.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/domain"
)

// DefaultRecentLimit is the number of transactions the dashboard shows
const DefaultRecentLimit = 10

// Repository handles transaction database operations (portfolio.db,
// transactions table). It exposes no update or delete operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new transaction repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "ledger").Logger(),
	}
}

// RecordInput describes a transaction to append. Price is the unit price and
// is required even when economically meaningless (transfers record 0).
type RecordInput struct {
	AssetID    string                 `json:"assetId"`
	AccountID  string                 `json:"accountId,omitempty"`
	Type       domain.TransactionType `json:"type"`
	Quantity   float64                `json:"quantity"`
	Price      float64                `json:"price"`
	Fee        float64                `json:"fee"`
	ExecutedAt time.Time              `json:"executedAt"`
	Notes      string                 `json:"notes,omitempty"`
}

// Record validates the input and appends a transaction to the log.
// Holdings are NOT adjusted; the two stores are independent.
func (r *Repository) Record(in RecordInput) (domain.Transaction, error) {
	if in.AssetID == "" {
		return domain.Transaction{}, domain.NewValidationError("assetId")
	}
	if in.Type == "" {
		return domain.Transaction{}, domain.NewValidationError("type")
	}
	if !domain.ValidTransactionType(in.Type) {
		return domain.Transaction{}, domain.NewInvalidFieldError("type", fmt.Sprintf("unknown transaction type %q", in.Type))
	}
	if in.ExecutedAt.IsZero() {
		return domain.Transaction{}, domain.NewValidationError("executedAt")
	}
	if in.Fee < 0 {
		return domain.Transaction{}, domain.NewInvalidFieldError("fee", "must not be negative")
	}

	txn := domain.Transaction{
		ID:         uuid.NewString(),
		AssetID:    in.AssetID,
		AccountID:  in.AccountID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Price:      in.Price,
		Fee:        in.Fee,
		ExecutedAt: in.ExecutedAt,
		Notes:      in.Notes,
		CreatedAt:  time.Now(),
	}

	var accountID interface{}
	if txn.AccountID != "" {
		accountID = txn.AccountID
	}
	var notes interface{}
	if txn.Notes != "" {
		notes = txn.Notes
	}

	_, err := r.db.Exec(`
		INSERT INTO transactions (id, asset_id, account_id, type, quantity, price, fee, executed_at, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, txn.AssetID, accountID, txn.Type, txn.Quantity, txn.Price, txn.Fee,
		txn.ExecutedAt.Unix(), notes, txn.CreatedAt.Unix())
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	r.log.Info().
		Str("id", txn.ID).
		Str("type", string(txn.Type)).
		Str("asset_id", txn.AssetID).
		Float64("quantity", txn.Quantity).
		Msg("Transaction recorded")
	return txn, nil
}

// Recent returns the limit most recent transactions joined with asset
// identity, ordered by execution time descending.
func (r *Repository) Recent(limit int) ([]domain.ResolvedTransaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := r.db.Query(`
		SELECT t.id, t.type, t.quantity, t.price, t.fee, t.executed_at, t.notes,
		       a.symbol, a.name, a.type
		FROM transactions t
		INNER JOIN assets a ON a.id = t.asset_id
		ORDER BY t.executed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.ResolvedTransaction
	for rows.Next() {
		var txn domain.ResolvedTransaction
		var executedAt int64
		var notes sql.NullString

		err := rows.Scan(&txn.ID, &txn.Type, &txn.Quantity, &txn.Price, &txn.Fee,
			&executedAt, &notes, &txn.Asset.Symbol, &txn.Asset.Name, &txn.Asset.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.ExecutedAt = time.Unix(executedAt, 0).UTC()
		txn.Notes = notes.String
		out = append(out, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return out, nil
}

// CountByAsset returns the number of logged transactions for an asset
func (r *Repository) CountByAsset(assetID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM transactions WHERE asset_id = ?", assetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for asset %s: %w", assetID, err)
	}
	return count, nil
}
