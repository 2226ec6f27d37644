// Package assets provides the asset registry: tradable instrument
// definitions looked up by id or symbol.
package assets

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/domain"
)

// Repository handles asset database operations (portfolio.db, assets table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new asset repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "assets").Logger(),
	}
}

// CreateInput is the create-asset contract. Symbol, name and type are
// required; currency defaults to USD.
type CreateInput struct {
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
	Type     domain.AssetType `json:"type"`
	Currency string           `json:"currency,omitempty"`
	Exchange string           `json:"exchange,omitempty"`
	PluginID string           `json:"pluginId,omitempty"`
}

// Create validates the input and inserts a new asset. The new asset is
// visible in subsequent holding joins.
func (r *Repository) Create(in CreateInput) (domain.Asset, error) {
	if strings.TrimSpace(in.Symbol) == "" {
		return domain.Asset{}, domain.NewValidationError("symbol")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Asset{}, domain.NewValidationError("name")
	}
	if in.Type == "" {
		return domain.Asset{}, domain.NewValidationError("type")
	}
	if !domain.ValidAssetType(in.Type) {
		return domain.Asset{}, domain.NewInvalidFieldError("type", fmt.Sprintf("unknown asset type %q", in.Type))
	}

	asset := domain.Asset{
		ID:       uuid.NewString(),
		Type:     in.Type,
		Symbol:   strings.ToUpper(strings.TrimSpace(in.Symbol)),
		Name:     strings.TrimSpace(in.Name),
		Currency: in.Currency,
		Exchange: in.Exchange,
		PluginID: in.PluginID,
	}
	if asset.Currency == "" {
		asset.Currency = "USD"
	}

	now := time.Now()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO assets (id, type, symbol, name, currency, exchange, plugin_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, asset.ID, asset.Type, asset.Symbol, asset.Name, asset.Currency,
		nullable(asset.Exchange), nullable(asset.PluginID), now.Unix(), now.Unix())
	if err != nil {
		return domain.Asset{}, fmt.Errorf("failed to insert asset %s: %w", asset.Symbol, err)
	}

	r.log.Info().Str("symbol", asset.Symbol).Str("id", asset.ID).Msg("Asset created")
	return asset, nil
}

// GetByID returns the asset with the given id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (domain.Asset, error) {
	row := r.db.QueryRow(selectAssets+" WHERE id = ?", id)
	return scanAsset(row)
}

// GetBySymbol returns the asset with the given symbol (case-insensitive),
// or domain.ErrNotFound
func (r *Repository) GetBySymbol(symbol string) (domain.Asset, error) {
	row := r.db.QueryRow(selectAssets+" WHERE symbol = ? LIMIT 1",
		strings.ToUpper(strings.TrimSpace(symbol)))
	return scanAsset(row)
}

// List returns all assets, newest first
func (r *Repository) List() ([]domain.Asset, error) {
	rows, err := r.db.Query(selectAssets + " ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var out []domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return out, nil
}

// Update applies a corrective edit to an existing asset
func (r *Repository) Update(asset domain.Asset) error {
	if asset.ID == "" {
		return domain.NewValidationError("id")
	}
	if !domain.ValidAssetType(asset.Type) {
		return domain.NewInvalidFieldError("type", fmt.Sprintf("unknown asset type %q", asset.Type))
	}

	res, err := r.db.Exec(`
		UPDATE assets
		SET type = ?, symbol = ?, name = ?, currency = ?, exchange = ?, plugin_id = ?, updated_at = ?
		WHERE id = ?
	`, asset.Type, strings.ToUpper(strings.TrimSpace(asset.Symbol)), asset.Name, asset.Currency,
		nullable(asset.Exchange), nullable(asset.PluginID), time.Now().Unix(), asset.ID)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", asset.ID, err)
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

// Delete removes an asset by id
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", id, err)
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

const selectAssets = `
	SELECT id, type, symbol, name, currency, exchange, plugin_id, created_at, updated_at
	FROM assets`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (domain.Asset, error) {
	var asset domain.Asset
	var exchange, pluginID sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(&asset.ID, &asset.Type, &asset.Symbol, &asset.Name,
		&asset.Currency, &exchange, &pluginID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.Asset{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Asset{}, fmt.Errorf("failed to scan asset: %w", err)
	}

	asset.Exchange = exchange.String
	asset.PluginID = pluginID.String
	asset.CreatedAt = time.Unix(createdAt, 0).UTC()
	asset.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return asset, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
