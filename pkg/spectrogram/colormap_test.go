package spectrogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclutterZeroThresholdIsIdentity(t *testing.T) {
	mags := []float64{0.0, 0.01, 0.5, 1.0}
	got := Declutter(mags, 0)
	assert.Equal(t, mags, got)
}

func TestDeclutterGatesRelativeToPeak(t *testing.T) {
	mags := []float64{0.05, 0.2, 0.8, 0.4}

	// Gate = 0.8 * 0.5 = 0.4; bins below it zero out.
	got := Declutter(mags, 0.5)
	assert.Equal(t, []float64{0, 0, 0.8, 0.4}, got)

	// Original slice is untouched.
	assert.Equal(t, []float64{0.05, 0.2, 0.8, 0.4}, mags)
}

func TestDeclutterMonotoneSuppression(t *testing.T) {
	mags := []float64{0.05, 0.1, 0.3, 0.55, 0.7, 1.0}

	low := Declutter(mags, 0.3)
	high := Declutter(mags, 0.6)

	for i := range mags {
		if low[i] == 0 {
			assert.Zero(t, high[i], "bin %d zeroed at low threshold must stay zeroed", i)
		}
	}
}

func TestIntensityZeroInputIsZero(t *testing.T) {
	for _, scale := range []IntensityScale{ScaleLinear, ScaleLogarithmic, ScalePower} {
		m := ColorMap{Scale: scale, Scheme: SchemeDefault, Boost: 1, Brightness: 1}
		assert.Zero(t, m.Intensity(0), "scale %v", scale)
	}
}

func TestIntensityClampsAtOne(t *testing.T) {
	for _, scale := range []IntensityScale{ScaleLinear, ScaleLogarithmic, ScalePower} {
		m := ColorMap{Scale: scale, Scheme: SchemeDefault, Boost: 1, Brightness: 1}
		assert.Equal(t, 1.0, m.Intensity(1.0), "scale %v", scale)
		// Boost pushes past saturation; output still clamps.
		boosted := ColorMap{Scale: scale, Scheme: SchemeDefault, Boost: 3, Brightness: 1}
		assert.Equal(t, 1.0, boosted.Intensity(1.0), "scale %v with boost", scale)
	}
}

func TestIntensityBrightnessLayersAfterScaling(t *testing.T) {
	m := ColorMap{Scale: ScaleLinear, Scheme: SchemeDefault, Boost: 1, Brightness: 0.5}
	assert.InDelta(t, 0.25, m.Intensity(0.5), 1e-12)

	// Brightness cannot push a saturated value past 1.
	bright := ColorMap{Scale: ScaleLinear, Scheme: SchemeDefault, Boost: 1, Brightness: 2}
	assert.Equal(t, 1.0, bright.Intensity(1.0))
}

func TestLogScaleCompressesDynamicRange(t *testing.T) {
	linear := ColorMap{Scale: ScaleLinear, Scheme: SchemeDefault, Boost: 1, Brightness: 1}
	logm := ColorMap{Scale: ScaleLogarithmic, Scheme: SchemeDefault, Boost: 1, Brightness: 1}

	// The log curve lifts weak signal presence above linear.
	assert.Greater(t, logm.Intensity(0.1), linear.Intensity(0.1))
}

func TestPixelAlphaTracksIntensity(t *testing.T) {
	m := ColorMap{Scale: ScaleLinear, Scheme: SchemeMonochrome, Boost: 1, Brightness: 1}

	assert.Equal(t, uint8(0), m.Pixel(0).A)
	assert.Equal(t, uint8(255), m.Pixel(1).A)

	mid := m.Pixel(0.5)
	assert.InDelta(t, 128, int(mid.A), 1)
}

func TestRampContinuityAtStops(t *testing.T) {
	// Sampling just below and above each interior stop must not jump.
	for scheme, stops := range colorRamps {
		for _, s := range stops[1 : len(stops)-1] {
			r0, g0, b0 := scheme.ramp(s.pos - 1e-9)
			r1, g1, b1 := scheme.ramp(s.pos + 1e-9)
			assert.InDelta(t, int(r0), int(r1), 1, "scheme %v stop %v", scheme, s.pos)
			assert.InDelta(t, int(g0), int(g1), 1, "scheme %v stop %v", scheme, s.pos)
			assert.InDelta(t, int(b0), int(b1), 1, "scheme %v stop %v", scheme, s.pos)
		}
	}
}

func TestParseIntensityScale(t *testing.T) {
	got, err := ParseIntensityScale("logarithmic")
	require.NoError(t, err)
	assert.Equal(t, ScaleLogarithmic, got)

	_, err = ParseIntensityScale("bogus")
	assert.Error(t, err)
}

func TestParseColorScheme(t *testing.T) {
	got, err := ParseColorScheme("warm")
	require.NoError(t, err)
	assert.Equal(t, SchemeWarm, got)

	_, err = ParseColorScheme("neon")
	assert.Error(t, err)
}
