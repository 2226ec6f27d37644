package assets

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moni-app/moni/internal/domain"
	monitesting "github.com/moni-app/moni/internal/testing"
)

func newTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := monitesting.NewTestDB(t, "portfolio")
	return NewRepository(db.Conn(), zerolog.Nop()), cleanup
}

func TestCreate(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	asset, err := repo.Create(CreateInput{
		Symbol: "btc",
		Name:   "Bitcoin",
		Type:   domain.AssetTypeCrypto,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, asset.ID)
	assert.Equal(t, "BTC", asset.Symbol, "symbol should be uppercased")
	assert.Equal(t, "USD", asset.Currency, "currency should default to USD")
	assert.Equal(t, domain.AssetTypeCrypto, asset.Type)
}

func TestCreateValidation(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"missing symbol", CreateInput{Name: "Bitcoin", Type: domain.AssetTypeCrypto}},
		{"missing name", CreateInput{Symbol: "BTC", Type: domain.AssetTypeCrypto}},
		{"missing type", CreateInput{Symbol: "BTC", Name: "Bitcoin"}},
		{"unknown type", CreateInput{Symbol: "BTC", Name: "Bitcoin", Type: "derivative"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(tt.input)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestGetBySymbol(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	created, err := repo.Create(CreateInput{Symbol: "NVDA", Name: "NVIDIA", Type: domain.AssetTypeStock})
	require.NoError(t, err)

	found, err := repo.GetBySymbol("NVDA")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetBySymbol("MISSING")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	asset, err := repo.Create(CreateInput{Symbol: "AAPL", Name: "Apple", Type: domain.AssetTypeStock})
	require.NoError(t, err)

	asset.Name = "Apple Inc."
	asset.Exchange = "NASDAQ"
	require.NoError(t, repo.Update(asset))

	updated, err := repo.GetByID(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", updated.Name)
	assert.Equal(t, "NASDAQ", updated.Exchange)
}

func TestDelete(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	asset, err := repo.Create(CreateInput{Symbol: "TSLA", Name: "Tesla", Type: domain.AssetTypeStock})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(asset.ID))

	_, err = repo.GetByID(asset.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = repo.Delete(asset.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	_, err := repo.Create(CreateInput{Symbol: "BTC", Name: "Bitcoin", Type: domain.AssetTypeCrypto})
	require.NoError(t, err)
	_, err = repo.Create(CreateInput{Symbol: "ETH", Name: "Ethereum", Type: domain.AssetTypeCrypto})
	require.NoError(t, err)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
}
