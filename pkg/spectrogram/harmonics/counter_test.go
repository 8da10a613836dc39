package harmonics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seriesWithOvertones(n int) *Series {
	partials := make([]Harmonic, n+1)
	for i := range partials {
		partials[i] = Harmonic{Frequency: 220 * float64(i+1), Strength: 1}
	}
	return &Series{Fundamental: 220, Harmonics: partials}
}

func TestCounterMonotonicWhileRecording(t *testing.T) {
	var c CounterState

	wantCurrent := []int{3, 3, 4, 4}
	wantBest := []int{3, 3, 4, 4}
	for i, n := range []int{3, 1, 4, 2} {
		c = c.Update(seriesWithOvertones(n), true)
		assert.Equal(t, wantCurrent[i], c.Current, "pass %d", i)
		assert.Equal(t, wantBest[i], c.Best, "pass %d", i)
	}
}

func TestCounterTracksExactlyWhenIdle(t *testing.T) {
	var c CounterState

	c = c.Update(seriesWithOvertones(5), false)
	assert.Equal(t, 5, c.Current)

	c = c.Update(seriesWithOvertones(2), false)
	assert.Equal(t, 2, c.Current)
	assert.Equal(t, 5, c.Best, "best survives the drop")
}

func TestCounterNilSeries(t *testing.T) {
	c := CounterState{Current: 3, Best: 7}

	recorded := c.Update(nil, true)
	assert.Equal(t, 3, recorded.Current, "dropout holds the count while recording")
	assert.Equal(t, 7, recorded.Best)

	idle := c.Update(nil, false)
	assert.Equal(t, 0, idle.Current, "idle tracks the silence")
	assert.Equal(t, 7, idle.Best)
}

func TestCounterBestFollowsCurrent(t *testing.T) {
	var c CounterState

	c = c.Update(seriesWithOvertones(6), true)
	assert.Equal(t, 6, c.Best)

	c = c.Update(seriesWithOvertones(9), true)
	assert.Equal(t, 9, c.Best)
}

func TestCounterReset(t *testing.T) {
	c := CounterState{Current: 4, Best: 9}
	assert.Equal(t, CounterState{}, c.Reset())
}
