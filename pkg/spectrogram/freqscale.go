package spectrogram

import "math"

// FreqScale maps frequency in Hz to a normalized vertical position on a
// logarithmic axis. Higher frequencies map nearer the top (smaller Y).
type FreqScale struct {
	MinFrequency float64
	MaxFrequency float64
}

// NewFreqScale creates a scale over (minHz, maxHz]. The caller guarantees
// 0 < minHz < maxHz; the scale only clamps to keep the log arithmetic sound.
func NewFreqScale(minHz, maxHz float64) FreqScale {
	return FreqScale{MinFrequency: minHz, MaxFrequency: maxHz}
}

// FreqToY converts a frequency to a normalized position in [0,1], 0 at the
// top of the axis. Frequencies outside the bounds clamp to the nearest edge.
func (s FreqScale) FreqToY(freq float64) float64 {
	freq = math.Min(math.Max(freq, s.MinFrequency), s.MaxFrequency)
	logMin := math.Log10(s.MinFrequency)
	logMax := math.Log10(s.MaxFrequency)
	return 1 - (math.Log10(freq)-logMin)/(logMax-logMin)
}

// YToFreq is the inverse of FreqToY for y in [0,1].
func (s FreqScale) YToFreq(y float64) float64 {
	logMin := math.Log10(s.MinFrequency)
	logMax := math.Log10(s.MaxFrequency)
	return math.Pow(10, logMax-y*(logMax-logMin))
}

// Contains reports whether freq falls within the scale bounds.
func (s FreqScale) Contains(freq float64) bool {
	return freq >= s.MinFrequency && freq <= s.MaxFrequency
}
