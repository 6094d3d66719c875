package timezone

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolder(t *testing.T) {
	london := newTestEngine(t, false)
	h := NewHolder(london)
	assert.Same(t, london, h.Engine())

	uk := newTestEngine(t, true)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := h.Engine()
			assert.Equal(t, "Europe/London", e.CurrentTimezone())
		}()
	}
	h.Store(uk)
	wg.Wait()

	assert.True(t, h.Engine().ParsesUKDates())
	assert.False(t, london.ParsesUKDates())
}
