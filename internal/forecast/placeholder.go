package forecast

import (
	"math/rand"
	"sync"
)

const (
	// PlaceholderMin and PlaceholderMax bound synthesized temperatures.
	PlaceholderMin = 15
	PlaceholderMax = 25

	// DefaultSeed is used when no placeholder source is supplied.
	DefaultSeed int64 = 1
)

// DefaultFallbackTable is the series charted when no provider is reachable.
var DefaultFallbackTable = []float64{22, 25, 20, 28, 24}

// Placeholder supplies temperatures for days the provider did not cover.
type Placeholder interface {
	Temperature() float64
}

// SeededPlaceholder yields whole degrees in [PlaceholderMin, PlaceholderMax)
// from a seeded generator. Safe for concurrent use.
type SeededPlaceholder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSeededPlaceholder(seed int64) *SeededPlaceholder {
	return &SeededPlaceholder{rnd: rand.New(rand.NewSource(seed))}
}

func (p *SeededPlaceholder) Temperature() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float64(PlaceholderMin + p.rnd.Intn(PlaceholderMax-PlaceholderMin))
}

// FixedPlaceholder cycles through a fixed table of values.
type FixedPlaceholder struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewFixedPlaceholder returns a source cycling over values. An empty table
// falls back to DefaultFallbackTable.
func NewFixedPlaceholder(values ...float64) *FixedPlaceholder {
	if len(values) == 0 {
		values = DefaultFallbackTable
	}
	table := make([]float64, len(values))
	copy(table, values)
	return &FixedPlaceholder{values: table}
}

func (p *FixedPlaceholder) Temperature() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.values[p.next%len(p.values)]
	p.next++
	return v
}
