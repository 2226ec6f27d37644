package prices

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	monitesting "github.com/moni-app/moni/internal/testing"
)

func newTestStore(t *testing.T) (*StoreSource, func()) {
	t.Helper()
	db, cleanup := monitesting.NewTestDB(t, "history")
	return NewStoreSource(db.Conn(), zerolog.Nop()), cleanup
}

func TestStoreSourceUpsertAndQuote(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	require.NoError(t, store.Upsert("btc", Quote{
		Price:         67234.5,
		ChangePercent: 3.4,
		Series:        []float64{65000, 70000, 67234.5},
	}))

	q := store.Quote("BTC")
	assert.Equal(t, 67234.5, q.Price)
	assert.Equal(t, 3.4, q.ChangePercent)
	assert.Equal(t, []float64{65000, 70000, 67234.5}, q.Series)
	assert.False(t, q.Fallback)
}

func TestStoreSourceMissFallsBack(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	q := store.Quote("MISSING")
	assert.Equal(t, FallbackPrice, q.Price)
	assert.True(t, q.Fallback)
}

func TestStoreSourceUpsertReplaces(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	require.NoError(t, store.Upsert("ETH", Quote{Price: 3450}))
	require.NoError(t, store.Upsert("ETH", Quote{Price: 3500, ChangePercent: 1.4}))

	q := store.Quote("ETH")
	assert.Equal(t, 3500.0, q.Price)
	assert.Equal(t, 1.4, q.ChangePercent)
}

func TestStoreSourceSeedOnlyWhenEmpty(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	require.NoError(t, store.Seed(DefaultTable()))
	assert.Equal(t, 67234.5, store.Quote("BTC").Price)

	// Existing rows survive a re-seed.
	require.NoError(t, store.Upsert("BTC", Quote{Price: 70000}))
	require.NoError(t, store.Seed(DefaultTable()))
	assert.Equal(t, 70000.0, store.Quote("BTC").Price)
}
