package capture

import (
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-sonar/algorithms/windowing"
	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
)

// STFT turns raw PCM into normalized magnitude frames: Hann window, real
// FFT, magnitude normalization so a full-scale sine lands near 1.0. This is
// the capture-side collaborator the analyzer core consumes; the core itself
// never touches PCM.
type STFT struct {
	sampleRate int
	fftSize    int
	hopSize    int
	window     *windowing.Hann
}

// NewSTFT creates an STFT with the given analysis hop. A hop of 0 defaults
// to a quarter window.
func NewSTFT(sampleRate, fftSize, hopSize int) *STFT {
	if hopSize <= 0 {
		hopSize = fftSize / 4
	}
	return &STFT{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		hopSize:    hopSize,
		window:     windowing.NewHann(fftSize, false),
	}
}

// BinCount returns the number of magnitude bins per frame.
func (s *STFT) BinCount() int {
	return s.fftSize / 2
}

// Frame computes one magnitude frame from the first fftSize samples.
func (s *STFT) Frame(samples []float64, timestamp float64) (spectrogram.Frame, bool) {
	if len(samples) < s.fftSize {
		return spectrogram.Frame{}, false
	}

	windowed := s.window.Apply(samples[:s.fftSize])
	if windowed == nil {
		return spectrogram.Frame{}, false
	}
	coeffs := fft.FFTReal(windowed)

	// 2/N for the one-sided spectrum, times 2 for the Hann coherent gain,
	// so a unit-amplitude sine reads close to 1.0.
	norm := 4.0 / float64(s.fftSize)
	mags := make([]float64, s.fftSize/2)
	for i := range mags {
		mags[i] = math.Min(cmplx.Abs(coeffs[i])*norm, 1)
	}

	return spectrogram.Frame{Timestamp: timestamp, Magnitudes: mags}, true
}

// Frames slides the analysis window over the whole sample buffer.
func (s *STFT) Frames(samples []float64) []spectrogram.Frame {
	var frames []spectrogram.Frame
	for start := 0; start+s.fftSize <= len(samples); start += s.hopSize {
		ts := float64(start) / float64(s.sampleRate)
		if f, ok := s.Frame(samples[start:start+s.fftSize], ts); ok {
			frames = append(frames, f)
		}
	}
	return frames
}
