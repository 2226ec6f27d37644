package testing

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moni-app/moni/internal/database"
)

// Fixtures insert rows with raw SQL so they stay usable from any module's
// tests without import cycles.

// SeedAsset inserts an asset and returns its id.
func SeedAsset(t *testing.T, db *database.DB, symbol, name, assetType string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().Unix()
	_, err := db.Exec(`
		INSERT INTO assets (id, symbol, name, type, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'USD', ?, ?)
	`, id, symbol, name, assetType, now, now)
	if err != nil {
		t.Fatalf("Failed to seed asset %s: %v", symbol, err)
	}
	return id
}

// SeedAccount inserts an account and returns its id.
func SeedAccount(t *testing.T, db *database.DB, name string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().Unix()
	_, err := db.Exec(`
		INSERT INTO accounts (id, name, is_manual, created_at)
		VALUES (?, ?, 1, ?)
	`, id, name, now)
	if err != nil {
		t.Fatalf("Failed to seed account %s: %v", name, err)
	}
	return id
}

// SeedHolding inserts a holding and returns its id.
func SeedHolding(t *testing.T, db *database.DB, assetID, accountID string, quantity, costBasis float64) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().Unix()
	_, err := db.Exec(`
		INSERT INTO holdings (id, asset_id, account_id, quantity, cost_basis, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, assetID, accountID, quantity, costBasis, now)
	if err != nil {
		t.Fatalf("Failed to seed holding for asset %s: %v", assetID, err)
	}
	return id
}

// SeedTransaction inserts a transaction and returns its id.
func SeedTransaction(t *testing.T, db *database.DB, assetID, txType string, quantity, price float64, executedAt time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO transactions (id, asset_id, type, quantity, price, fee, executed_at, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`, id, assetID, txType, quantity, price, executedAt.Unix(), time.Now().Unix())
	if err != nil {
		t.Fatalf("Failed to seed transaction for asset %s: %v", assetID, err)
	}
	return id
}

// SeedSnapshot inserts a portfolio snapshot with no breakdown.
func SeedSnapshot(t *testing.T, db *database.DB, takenAt time.Time, totalValue, totalCost float64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO portfolio_snapshots (taken_at, total_value, total_cost, breakdown)
		VALUES (?, ?, ?, NULL)
	`, takenAt.Unix(), totalValue, totalCost)
	if err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}
}
