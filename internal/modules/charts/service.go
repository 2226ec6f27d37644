// Package charts builds time-series chart data from stored portfolio
// snapshots. Reads go through a dedicated read-only handle on history.db so
// chart queries never contend with the snapshot writer.
package charts

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/moni-app/moni/pkg/formulas"
)

// ChartDataPoint represents a single point on a chart
type ChartDataPoint struct {
	Time  string  `json:"time"` // bucket label: YYYY-MM-DD, YYYY-W##, or YYYY-MM
	Value float64 `json:"value"`
	Cost  float64 `json:"cost"`
}

// PerformanceReport is the response for the performance chart endpoint.
type PerformanceReport struct {
	Range               string           `json:"range"`
	Points              []ChartDataPoint `json:"points"`
	SMA                 []float64        `json:"sma,omitempty"`
	PeriodReturnPercent float64          `json:"periodReturnPercent"`
	AnnualizedVol       float64          `json:"annualizedVolatility"`
}

// smaWindow is the moving-average overlay window, in buckets.
const smaWindow = 7

// ErrInvalidRange is returned for an unrecognized date range string.
var ErrInvalidRange = errors.New("invalid range")

// Service provides chart data operations
type Service struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewService creates a charts service on an existing history.db handle.
func NewService(db *sql.DB, log zerolog.Logger) *Service {
	return &Service{
		db:  db,
		log: log.With().Str("service", "charts").Logger(),
	}
}

// OpenHistoryReadOnly opens a separate read-only connection to history.db
// for chart queries.
func OpenHistoryReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database read-only: %w", err)
	}
	db.SetMaxOpenConns(2)
	return db, nil
}

// Performance returns the bucketed portfolio value series for a date range,
// with a moving-average overlay and period statistics. Valid ranges are
// 1M, 3M, 6M, 1Y and ALL.
func (s *Service) Performance(dateRange string) (PerformanceReport, error) {
	startDate, groupBy, err := parseDateRange(dateRange)
	if err != nil {
		return PerformanceReport{}, err
	}

	points, err := s.bucketedSeries(startDate, groupBy)
	if err != nil {
		return PerformanceReport{}, err
	}

	report := PerformanceReport{
		Range:  dateRange,
		Points: points,
	}
	if report.Points == nil {
		report.Points = []ChartDataPoint{}
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	report.SMA = formulas.SmaSeries(values, smaWindow)
	report.AnnualizedVol = formulas.AnnualizedVolatility(formulas.CalculateReturns(values))
	if len(values) >= 2 && values[0] != 0 {
		report.PeriodReturnPercent = (values[len(values)-1] - values[0]) / values[0] * 100
	}

	return report, nil
}

// bucketedSeries loads snapshots from startDate onward and averages them
// per day, ISO week or month.
func (s *Service) bucketedSeries(startDate time.Time, groupBy string) ([]ChartDataPoint, error) {
	rows, err := s.db.Query(`
		SELECT taken_at, total_value, total_cost
		FROM portfolio_snapshots
		WHERE taken_at >= ?
		ORDER BY taken_at ASC
	`, startDate.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	type bucket struct {
		values []float64
		costs  []float64
	}
	buckets := make(map[string]*bucket)

	for rows.Next() {
		var (
			takenAt     int64
			value, cost float64
		)
		if err := rows.Scan(&takenAt, &value, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		t := time.Unix(takenAt, 0).UTC()
		var period string
		switch groupBy {
		case "week":
			year, week := t.ISOWeek()
			period = fmt.Sprintf("%d-W%02d", year, week)
		case "month":
			period = t.Format("2006-01")
		default:
			period = t.Format("2006-01-02")
		}

		b, ok := buckets[period]
		if !ok {
			b = &bucket{}
			buckets[period] = b
		}
		b.values = append(b.values, value)
		b.costs = append(b.costs, cost)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	periods := make([]string, 0, len(buckets))
	for period := range buckets {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	var points []ChartDataPoint
	for _, period := range periods {
		b := buckets[period]
		points = append(points, ChartDataPoint{
			Time:  period,
			Value: formulas.Mean(b.values),
			Cost:  formulas.Mean(b.costs),
		})
	}

	return points, nil
}

// parseDateRange converts a range string to a start date and bucket size.
func parseDateRange(rangeStr string) (time.Time, string, error) {
	now := time.Now().UTC()

	switch rangeStr {
	case "1M":
		return now.AddDate(0, -1, 0), "day", nil
	case "3M":
		return now.AddDate(0, -3, 0), "day", nil
	case "6M":
		return now.AddDate(0, -6, 0), "week", nil
	case "1Y":
		return now.AddDate(-1, 0, 0), "week", nil
	case "ALL", "all", "":
		return time.Unix(0, 0).UTC(), "month", nil
	default:
		return time.Time{}, "", fmt.Errorf("%w: %s (must be 1M, 3M, 6M, 1Y or ALL)", ErrInvalidRange, rangeStr)
	}
}
