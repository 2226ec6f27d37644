package prices

// StaticSource serves quotes from a fixed in-memory table. It is the
// default price backend; swapping in a live feed means implementing Source
// elsewhere, the aggregation logic never changes.
type StaticSource struct {
	table map[string]Quote
}

// NewStaticSource creates a static source from the given table.
// Symbols are normalized to uppercase.
func NewStaticSource(table map[string]Quote) *StaticSource {
	normalized := make(map[string]Quote, len(table))
	for symbol, q := range table {
		normalized[normalizeSymbol(symbol)] = q
	}
	return &StaticSource{table: normalized}
}

// NewDefaultStaticSource creates a static source seeded with the built-in table
func NewDefaultStaticSource() *StaticSource {
	return NewStaticSource(DefaultTable())
}

// Quote returns the quote for symbol, or the fallback quote on a miss
func (s *StaticSource) Quote(symbol string) Quote {
	if q, ok := s.table[normalizeSymbol(symbol)]; ok {
		return q
	}
	return FallbackQuote()
}

// Symbols returns all symbols the source knows
func (s *StaticSource) Symbols() []string {
	out := make([]string, 0, len(s.table))
	for symbol := range s.table {
		out = append(out, symbol)
	}
	return out
}

// DefaultTable returns the built-in quote table used until a live price
// plugin is wired up.
func DefaultTable() map[string]Quote {
	return map[string]Quote{
		"BTC": {
			Price:         67234.5,
			ChangePercent: 3.4,
			Series:        []float64{65000, 68000, 64000, 70000, 67000, 72000, 69000, 74000, 71000, 67234.5},
		},
		"NVDA": {
			Price:         876.12,
			ChangePercent: 5.2,
			Series:        []float64{780, 820, 800, 850, 880, 840, 900, 870, 920, 876.12},
		},
		"AAPL": {
			Price:         189.23,
			ChangePercent: 1.2,
			Series:        []float64{182, 185, 183, 188, 186, 190, 187, 191, 189, 189.23},
		},
		"ETH": {
			Price:         3450.0,
			ChangePercent: -0.8,
			Series:        []float64{3500, 3480, 3520, 3450, 3470, 3430, 3460, 3440, 3450, 3450},
		},
		"TSLA": {
			Price:         178.5,
			ChangePercent: -1.5,
			Series:        []float64{185, 182, 188, 180, 183, 178, 181, 176, 179, 178.5},
		},
	}
}
