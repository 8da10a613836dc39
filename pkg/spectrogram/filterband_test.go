package spectrogram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterBandClampEnforcesSeparation(t *testing.T) {
	band := FilterBand{LowFreq: 400, HighFreq: 420}.Clamp()
	assert.Equal(t, 400.0, band.LowFreq)
	assert.Equal(t, 450.0, band.HighFreq)

	// Already-valid bands pass through untouched.
	band = FilterBand{LowFreq: 200, HighFreq: 2000}.Clamp()
	assert.Equal(t, FilterBand{LowFreq: 200, HighFreq: 2000}, band)
}

func TestFilterBandClampNegativeLow(t *testing.T) {
	band := FilterBand{LowFreq: -100, HighFreq: 20}.Clamp()
	assert.Equal(t, 0.0, band.LowFreq)
	assert.Equal(t, 50.0, band.HighFreq)
}

func TestFilterBandContains(t *testing.T) {
	band := FilterBand{LowFreq: 200, HighFreq: 2000}
	assert.True(t, band.Contains(200))
	assert.True(t, band.Contains(1000))
	assert.True(t, band.Contains(2000))
	assert.False(t, band.Contains(199))
	assert.False(t, band.Contains(2001))
}

func TestFilterBandApplyAttenuatesOutOfBand(t *testing.T) {
	const sampleRate = 48000
	samples := make([]float64, sampleRate/4)
	for i := range samples {
		ts := float64(i) / sampleRate
		// In-band 500 Hz plus out-of-band 6 kHz.
		samples[i] = 0.5*math.Sin(2*math.Pi*500*ts) + 0.5*math.Sin(2*math.Pi*6000*ts)
	}

	band := FilterBand{LowFreq: 300, HighFreq: 800}
	filtered := band.Apply(samples, sampleRate)
	require.Len(t, filtered, len(samples))

	// Output energy must drop: the 6 kHz component is outside the band.
	assert.Less(t, rms(filtered[sampleRate/8:]), rms(samples[sampleRate/8:]))
}

func rms(samples []float64) float64 {
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
