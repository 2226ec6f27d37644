package ledger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moni-app/moni/internal/database"
	"github.com/moni-app/moni/internal/domain"
	monitesting "github.com/moni-app/moni/internal/testing"
)

func newTestRepo(t *testing.T) (*Repository, *database.DB, func()) {
	t.Helper()
	db, cleanup := monitesting.NewTestDB(t, "portfolio")
	return NewRepository(db.Conn(), zerolog.Nop()), db, cleanup
}

func TestRecord(t *testing.T) {
	repo, db, cleanup := newTestRepo(t)
	defer cleanup()

	assetID := monitesting.SeedAsset(t, db, "BTC", "Bitcoin", "crypto")

	tx, err := repo.Record(RecordInput{
		AssetID:    assetID,
		Type:       domain.TransactionBuy,
		Quantity:   0.5,
		Price:      60000,
		Fee:        12.5,
		ExecutedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, domain.TransactionBuy, tx.Type)
	assert.Equal(t, 0.5, tx.Quantity)
	assert.Equal(t, 12.5, tx.Fee)
}

func TestRecordValidation(t *testing.T) {
	repo, db, cleanup := newTestRepo(t)
	defer cleanup()

	assetID := monitesting.SeedAsset(t, db, "ETH", "Ethereum", "crypto")
	executed := time.Now()

	tests := []struct {
		name  string
		input RecordInput
	}{
		{"missing asset", RecordInput{Type: domain.TransactionBuy, Quantity: 1, ExecutedAt: executed}},
		{"missing type", RecordInput{AssetID: assetID, Quantity: 1, ExecutedAt: executed}},
		{"unknown type", RecordInput{AssetID: assetID, Type: "short", Quantity: 1, ExecutedAt: executed}},
		{"zero executed_at", RecordInput{AssetID: assetID, Type: domain.TransactionBuy, Quantity: 1}},
		{"negative fee", RecordInput{AssetID: assetID, Type: domain.TransactionBuy, Quantity: 1, Fee: -1, ExecutedAt: executed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Record(tt.input)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	repo, db, cleanup := newTestRepo(t)
	defer cleanup()

	assetID := monitesting.SeedAsset(t, db, "NVDA", "NVIDIA", "stock")

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 5; i++ {
		monitesting.SeedTransaction(t, db, assetID, "buy", 1, 800, base.Add(time.Duration(i)*time.Hour))
	}

	recent, err := repo.Recent(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Most recent first.
	assert.True(t, recent[0].ExecutedAt.After(recent[1].ExecutedAt))
	assert.True(t, recent[1].ExecutedAt.After(recent[2].ExecutedAt))
	assert.Equal(t, "NVDA", recent[0].Asset.Symbol)
}

func TestCountByAsset(t *testing.T) {
	repo, db, cleanup := newTestRepo(t)
	defer cleanup()

	btcID := monitesting.SeedAsset(t, db, "BTC", "Bitcoin", "crypto")
	ethID := monitesting.SeedAsset(t, db, "ETH", "Ethereum", "crypto")

	now := time.Now()
	monitesting.SeedTransaction(t, db, btcID, "buy", 1, 60000, now)
	monitesting.SeedTransaction(t, db, btcID, "sell", 0.5, 62000, now)
	monitesting.SeedTransaction(t, db, ethID, "buy", 5, 3000, now)

	count, err := repo.CountByAsset(btcID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
