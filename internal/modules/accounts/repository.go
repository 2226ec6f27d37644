// Package accounts manages holding locations (brokerages, wallets, manual
// entries).
package accounts

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/domain"
)

// Repository handles account database operations (portfolio.db, accounts table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new account repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "accounts").Logger(),
	}
}

// CreateInput describes a new account. Accounts are manual unless created by
// an external integration that sets a plugin id.
type CreateInput struct {
	Name     string `json:"name"`
	PluginID string `json:"pluginId,omitempty"`
	IsManual *bool  `json:"isManual,omitempty"`
}

// Create validates the input and inserts a new account
func (r *Repository) Create(in CreateInput) (domain.Account, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Account{}, domain.NewValidationError("name")
	}

	account := domain.Account{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		PluginID: in.PluginID,
		IsManual: true,
	}
	if in.IsManual != nil {
		account.IsManual = *in.IsManual
	}
	account.CreatedAt = time.Now()

	isManual := 0
	if account.IsManual {
		isManual = 1
	}

	_, err := r.db.Exec(`
		INSERT INTO accounts (id, name, plugin_id, is_manual, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, account.ID, account.Name, nullableString(account.PluginID), isManual, account.CreatedAt.Unix())
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to insert account %s: %w", account.Name, err)
	}

	r.log.Info().Str("name", account.Name).Str("id", account.ID).Msg("Account created")
	return account, nil
}

// GetByID returns the account with the given id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (domain.Account, error) {
	row := r.db.QueryRow(`
		SELECT id, name, plugin_id, is_manual, created_at
		FROM accounts WHERE id = ?
	`, id)
	return scanAccount(row)
}

// List returns all accounts, oldest first
func (r *Repository) List() ([]domain.Account, error) {
	rows, err := r.db.Query(`
		SELECT id, name, plugin_id, is_manual, created_at
		FROM accounts ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return out, nil
}

// Delete removes an account by id
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	var pluginID sql.NullString
	var isManual int
	var createdAt int64

	err := row.Scan(&account.ID, &account.Name, &pluginID, &isManual, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to scan account: %w", err)
	}

	account.PluginID = pluginID.String
	account.IsManual = isManual != 0
	account.CreatedAt = time.Unix(createdAt, 0).UTC()
	return account, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
