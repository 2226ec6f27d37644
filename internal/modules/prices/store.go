package prices

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// StoreSource serves quotes from the price_quotes table in history.db.
// The recent series is stored as a msgpack blob. Behavior matches
// StaticSource: a miss resolves to the fallback quote, never an error.
type StoreSource struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStoreSource creates a store-backed price source
func NewStoreSource(db *sql.DB, log zerolog.Logger) *StoreSource {
	return &StoreSource{
		db:  db,
		log: log.With().Str("component", "price_store").Logger(),
	}
}

// Quote returns the stored quote for symbol, or the fallback quote on a miss
func (s *StoreSource) Quote(symbol string) Quote {
	var q Quote
	var series []byte
	err := s.db.QueryRow(`
		SELECT price, change_percent, series
		FROM price_quotes WHERE symbol = ?
	`, normalizeSymbol(symbol)).Scan(&q.Price, &q.ChangePercent, &series)
	if err == sql.ErrNoRows {
		return FallbackQuote()
	}
	if err != nil {
		// Degrade like a miss; valuation must not fail on a price lookup
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote lookup failed, using fallback")
		return FallbackQuote()
	}

	if len(series) > 0 {
		if err := msgpack.Unmarshal(series, &q.Series); err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to decode quote series")
			q.Series = nil
		}
	}

	return q
}

// Upsert stores or replaces the quote for symbol
func (s *StoreSource) Upsert(symbol string, q Quote) error {
	symbol = normalizeSymbol(symbol)

	var series []byte
	if len(q.Series) > 0 {
		encoded, err := msgpack.Marshal(q.Series)
		if err != nil {
			return fmt.Errorf("failed to encode series for %s: %w", symbol, err)
		}
		series = encoded
	}

	_, err := s.db.Exec(`
		INSERT INTO price_quotes (symbol, price, change_percent, series, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			change_percent = excluded.change_percent,
			series = excluded.series,
			updated_at = excluded.updated_at
	`, symbol, q.Price, q.ChangePercent, series, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert quote for %s: %w", symbol, err)
	}
	return nil
}

// Seed populates the table from the given quotes, skipping symbols that
// already have a row. Used at startup to load the built-in table once.
func (s *StoreSource) Seed(table map[string]Quote) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM price_quotes").Scan(&count); err != nil {
		return fmt.Errorf("failed to count quotes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for symbol, q := range table {
		if err := s.Upsert(symbol, q); err != nil {
			return err
		}
	}

	s.log.Info().Int("symbols", len(table)).Msg("Seeded price quotes")
	return nil
}
