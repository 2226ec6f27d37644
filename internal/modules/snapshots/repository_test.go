package snapshots

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	monitesting "github.com/moni-app/moni/internal/testing"
)

func newTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := monitesting.NewTestDB(t, "history")
	return NewRepository(db.Conn(), zerolog.Nop()), cleanup
}

func TestInsertAndLatest(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	id, err := repo.Insert(Snapshot{
		TakenAt:    time.Now(),
		TotalValue: 130000,
		TotalCost:  110000,
		Breakdown: map[string]SymbolTotals{
			"BTC": {Value: 100000, Cost: 80000},
			"ETH": {Value: 30000, Cost: 30000},
		},
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	latest, err := repo.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 130000.0, latest.TotalValue)
	require.NotNil(t, latest.Breakdown)
	assert.Equal(t, 100000.0, latest.Breakdown["BTC"].Value)
}

func TestInsertNilBreakdown(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	_, err := repo.Insert(Snapshot{TakenAt: time.Now(), TotalValue: 0, TotalCost: 0})
	require.NoError(t, err)

	latest, err := repo.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Nil(t, latest.Breakdown)
}

func TestRecentOrder(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	base := time.Now().Add(-3 * time.Hour)
	for i := 0; i < 3; i++ {
		_, err := repo.Insert(Snapshot{
			TakenAt:    base.Add(time.Duration(i) * time.Hour),
			TotalValue: float64(100 + i),
		})
		require.NoError(t, err)
	}

	recent, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 102.0, recent[0].TotalValue)
	assert.Equal(t, 101.0, recent[1].TotalValue)
}

func TestRange(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	now := time.Now()
	for _, age := range []time.Duration{72 * time.Hour, 24 * time.Hour, time.Hour} {
		_, err := repo.Insert(Snapshot{TakenAt: now.Add(-age), TotalValue: age.Hours()})
		require.NoError(t, err)
	}

	inRange, err := repo.Range(now.Add(-48*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, inRange, 2)

	// Oldest first.
	assert.Equal(t, 24.0, inRange[0].TotalValue)
	assert.Equal(t, 1.0, inRange[1].TotalValue)
}

func TestPruneBefore(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	now := time.Now()
	_, err := repo.Insert(Snapshot{TakenAt: now.Add(-100 * time.Hour)})
	require.NoError(t, err)
	_, err = repo.Insert(Snapshot{TakenAt: now})
	require.NoError(t, err)

	deleted, err := repo.PruneBefore(now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
