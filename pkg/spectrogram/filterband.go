package spectrogram

import (
	"github.com/RyanBlaney/sonido-sonar/algorithms/filters"
)

// MinBandSeparation is the smallest allowed gap between the edges of a
// frequency-band filter. Interaction layers keep drag handles apart by at
// least this much; Clamp enforces it for programmatic callers.
const MinBandSeparation = 50.0

// FilterBand is a frequency band in Hz that drives both the dimming overlay
// outside the band and, when wired to playback, a band-pass filter stage.
type FilterBand struct {
	LowFreq  float64
	HighFreq float64
}

// Clamp returns the band with a non-negative low edge and the minimum
// separation restored by pushing the high edge up.
func (b FilterBand) Clamp() FilterBand {
	if b.LowFreq < 0 {
		b.LowFreq = 0
	}
	if b.HighFreq < b.LowFreq+MinBandSeparation {
		b.HighFreq = b.LowFreq + MinBandSeparation
	}
	return b
}

// Contains reports whether freq falls inside the band.
func (b FilterBand) Contains(freq float64) bool {
	return freq >= b.LowFreq && freq <= b.HighFreq
}

// Apply runs a band-pass filter over PCM samples for filtered playback or
// export. The band is clamped first, so a degenerate band never produces a
// zero-bandwidth filter.
func (b FilterBand) Apply(samples []float64, sampleRate int) []float64 {
	b = b.Clamp()
	center := (b.LowFreq + b.HighFreq) / 2
	bandwidth := b.HighFreq - b.LowFreq
	bp := filters.NewBandpassFilter(sampleRate, center, bandwidth)
	return bp.ProcessBuffer(samples)
}
