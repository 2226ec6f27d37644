package prices

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticSourceKnownSymbol(t *testing.T) {
	source := NewDefaultStaticSource()

	q := source.Quote("BTC")
	assert.Equal(t, 67234.5, q.Price)
	assert.False(t, q.Fallback)
	assert.NotEmpty(t, q.Series)
}

func TestStaticSourceNormalizesSymbol(t *testing.T) {
	source := NewStaticSource(map[string]Quote{"nvda": {Price: 876.12}})

	assert.Equal(t, 876.12, source.Quote("NVDA").Price)
	assert.Equal(t, 876.12, source.Quote(" nvda ").Price)
}

func TestStaticSourceUnknownSymbolFallsBack(t *testing.T) {
	source := NewDefaultStaticSource()

	q := source.Quote("DOGE")
	assert.Equal(t, FallbackPrice, q.Price)
	assert.True(t, q.Fallback)
	assert.Empty(t, q.Series)
}

func TestDefaultTableCoversDashboardSymbols(t *testing.T) {
	table := DefaultTable()
	for _, symbol := range []string{"BTC", "NVDA", "AAPL", "ETH", "TSLA"} {
		_, ok := table[symbol]
		assert.True(t, ok, "missing %s", symbol)
	}
}
