package snapshots

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moni-app/moni/internal/modules/portfolio"
	monitesting "github.com/moni-app/moni/internal/testing"
)

type fakeSummaryProvider struct {
	summary portfolio.Summary
	err     error
}

func (f *fakeSummaryProvider) Summary() (portfolio.Summary, error) {
	return f.summary, f.err
}

func TestRecord(t *testing.T) {
	db, cleanup := monitesting.NewTestDB(t, "history")
	defer cleanup()

	provider := &fakeSummaryProvider{summary: portfolio.Summary{
		TotalValue: 130000,
		TotalCost:  110000,
		AssetCount: 2,
		Assets: map[string]portfolio.AssetTotals{
			"BTC": {Value: 100000, Cost: 80000},
			"ETH": {Value: 30000, Cost: 30000},
		},
	}}

	svc := NewService(provider, NewRepository(db.Conn(), zerolog.Nop()), zerolog.Nop())

	snap, err := svc.Record()
	require.NoError(t, err)
	assert.Greater(t, snap.ID, int64(0))
	assert.Equal(t, 130000.0, snap.TotalValue)
	assert.Len(t, snap.Breakdown, 2)

	stored, err := svc.Recent(1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 130000.0, stored[0].TotalValue)
	assert.Equal(t, 80000.0, stored[0].Breakdown["BTC"].Cost)
}

func TestRecordEmptyPortfolio(t *testing.T) {
	db, cleanup := monitesting.NewTestDB(t, "history")
	defer cleanup()

	provider := &fakeSummaryProvider{summary: portfolio.Summary{}}
	svc := NewService(provider, NewRepository(db.Conn(), zerolog.Nop()), zerolog.Nop())

	snap, err := svc.Record()
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap.TotalValue)
	assert.Nil(t, snap.Breakdown)
}

func TestRecordSummaryError(t *testing.T) {
	db, cleanup := monitesting.NewTestDB(t, "history")
	defer cleanup()

	provider := &fakeSummaryProvider{err: errors.New("holdings unavailable")}
	svc := NewService(provider, NewRepository(db.Conn(), zerolog.Nop()), zerolog.Nop())

	_, err := svc.Record()
	require.Error(t, err)
}
