package charts

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE portfolio_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at    INTEGER NOT NULL,
			total_value REAL NOT NULL,
			total_cost  REAL NOT NULL,
			breakdown   BLOB
		)
	`)
	require.NoError(t, err)

	return NewService(db, zerolog.Nop()), db
}

func seedSnapshot(t *testing.T, db *sql.DB, takenAt time.Time, value, cost float64) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO portfolio_snapshots (taken_at, total_value, total_cost) VALUES (?, ?, ?)
	`, takenAt.Unix(), value, cost)
	require.NoError(t, err)
}

func TestPerformanceDailyBuckets(t *testing.T) {
	svc, db := newTestService(t)

	day := time.Now().UTC().AddDate(0, 0, -2)
	// Two snapshots on the same day average into one bucket.
	seedSnapshot(t, db, day, 100, 90)
	seedSnapshot(t, db, day.Add(time.Hour), 110, 90)
	seedSnapshot(t, db, day.AddDate(0, 0, 1), 120, 90)

	report, err := svc.Performance("1M")
	require.NoError(t, err)

	require.Len(t, report.Points, 2)
	assert.Equal(t, day.Format("2006-01-02"), report.Points[0].Time)
	assert.Equal(t, 105.0, report.Points[0].Value)
	assert.Equal(t, 120.0, report.Points[1].Value)
	assert.InDelta(t, 20.0, report.PeriodReturnPercent, 1e-9)
}

func TestPerformanceEmptyHistory(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Performance("1Y")
	require.NoError(t, err)
	assert.Empty(t, report.Points)
	assert.Equal(t, 0.0, report.PeriodReturnPercent)
	assert.Equal(t, 0.0, report.AnnualizedVol)
}

func TestPerformanceAllUsesMonthlyBuckets(t *testing.T) {
	svc, db := newTestService(t)

	jan := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	seedSnapshot(t, db, jan, 100, 100)
	seedSnapshot(t, db, feb, 140, 100)

	report, err := svc.Performance("ALL")
	require.NoError(t, err)

	require.Len(t, report.Points, 2)
	assert.Equal(t, "2026-01", report.Points[0].Time)
	assert.Equal(t, "2026-02", report.Points[1].Time)
}

func TestPerformanceInvalidRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Performance("2W")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPerformanceVolatility(t *testing.T) {
	svc, db := newTestService(t)

	base := time.Now().UTC().AddDate(0, 0, -10)
	values := []float64{100, 102, 101, 105, 104, 108}
	for i, v := range values {
		seedSnapshot(t, db, base.AddDate(0, 0, i), v, 100)
	}

	report, err := svc.Performance("1M")
	require.NoError(t, err)
	assert.Greater(t, report.AnnualizedVol, 0.0)
}
