package forecast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededPlaceholder_SameSeedSameSequence(t *testing.T) {
	a := NewSeededPlaceholder(7)
	b := NewSeededPlaceholder(7)

	for i := 0; i < 50; i++ {
		va, vb := a.Temperature(), b.Temperature()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, float64(PlaceholderMin))
		assert.Less(t, va, float64(PlaceholderMax))
	}
}

func TestSeededPlaceholder_ConcurrentUse(t *testing.T) {
	p := NewSeededPlaceholder(3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Temperature()
			}
		}()
	}
	wg.Wait()
}

func TestFixedPlaceholder_Cycles(t *testing.T) {
	p := NewFixedPlaceholder(1, 2)

	got := []float64{p.Temperature(), p.Temperature(), p.Temperature()}

	assert.Equal(t, []float64{1, 2, 1}, got)
}

func TestFixedPlaceholder_EmptyUsesDefaultTable(t *testing.T) {
	p := NewFixedPlaceholder()

	assert.Equal(t, DefaultFallbackTable[0], p.Temperature())
}
