package harmonics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
)

// Harmonic is one partial of a detected series. Strength is the partial's
// magnitude relative to the fundamental, in [0,1].
type Harmonic struct {
	Frequency float64
	Strength  float64
}

// Series is a detection result: the dominant fundamental and its harmonic
// partials. Harmonics[0] is always the fundamental itself. A Series is
// ephemeral; it is recomputed every render pass and never persisted.
type Series struct {
	Fundamental     float64
	Harmonics       []Harmonic
	OverallStrength float64
}

// OvertoneCount returns the number of partials beyond the fundamental.
func (s *Series) OvertoneCount() int {
	if s == nil || len(s.Harmonics) == 0 {
		return 0
	}
	return len(s.Harmonics) - 1
}

// Config holds the detector's tunable parameters. The peak floor and
// harmonic acceptance ratio are deliberately configurable rather than
// hard-coded; defaults were chosen empirically against sung vowels.
type Config struct {
	// PeakFloor is the absolute magnitude a bin must exceed to qualify as a
	// fundamental candidate. Lower values trade false positives for
	// sensitivity.
	PeakFloor float64
	// HarmonicRatio is the fraction of the fundamental's magnitude a bin
	// must reach to register as a harmonic. More permissive than PeakFloor
	// so weak but real overtones still count.
	HarmonicRatio float64
	// MaxHarmonics bounds the harmonic search (n = 2..MaxHarmonics).
	MaxHarmonics int
	// FundamentalMin and FundamentalMax bound the fundamental search in Hz.
	FundamentalMin float64
	FundamentalMax float64
	// ToleranceBins is the half-width of the search window around each
	// expected harmonic bin, absorbing slight detuning.
	ToleranceBins int
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		PeakFloor:      0.10,
		HarmonicRatio:  0.08,
		MaxHarmonics:   16,
		FundamentalMin: 80,
		FundamentalMax: 1200,
		ToleranceBins:  3,
	}
}

// Detector finds the dominant fundamental frequency and its harmonic series
// in a window of spectrogram frames. Detection is scoped to the visible
// window so the reported pitch matches what is on screen.
type Detector struct {
	sampleRate int
	fftSize    int
	cfg        Config
}

// NewDetector creates a detector for the session's sample rate and FFT size.
func NewDetector(sampleRate, fftSize int, cfg Config) *Detector {
	if cfg.MaxHarmonics < 2 {
		cfg.MaxHarmonics = DefaultConfig().MaxHarmonics
	}
	if cfg.ToleranceBins < 1 {
		cfg.ToleranceBins = DefaultConfig().ToleranceBins
	}
	return &Detector{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		cfg:        cfg,
	}
}

// Analyze detects the strongest harmonic series in the given frames.
// It returns nil when the window is empty, no candidate peak clears the
// floor, or no overtone beyond the fundamental is found. Best effort by
// design: degraded input renders nothing rather than failing.
func (d *Detector) Analyze(frames []spectrogram.Frame) *Series {
	mean := d.meanSpectrum(frames)
	if len(mean) == 0 {
		return nil
	}

	binHz := float64(d.sampleRate) / float64(d.fftSize)
	fundBin := d.findFundamental(mean, binHz)
	if fundBin < 0 {
		return nil
	}

	fundMag := mean[fundBin]
	f0 := refineBinFrequency(mean, fundBin, binHz)

	partials := []Harmonic{{Frequency: f0, Strength: 1}}
	magnitudes := []float64{fundMag}

	nyquist := float64(d.sampleRate) / 2
	for n := 2; n <= d.cfg.MaxHarmonics; n++ {
		target := f0 * float64(n)
		if target > nyquist {
			break
		}
		bin, mag := d.strongestNear(mean, target, binHz)
		if bin < 0 || mag < d.cfg.HarmonicRatio*fundMag {
			continue
		}
		partials = append(partials, Harmonic{
			Frequency: float64(bin) * binHz,
			Strength:  math.Min(mag/fundMag, 1),
		})
		magnitudes = append(magnitudes, mag)
	}

	// A lone fundamental is not a harmonic series.
	if len(partials) < 2 {
		return nil
	}

	return &Series{
		Fundamental:     f0,
		Harmonics:       partials,
		OverallStrength: math.Min(stat.Mean(magnitudes, nil), 1),
	}
}

// meanSpectrum averages magnitudes bin-by-bin across the window, suppressing
// transient noise so pitch tracking stays stable. Frames with a mismatched
// bin count are skipped.
func (d *Detector) meanSpectrum(frames []spectrogram.Frame) []float64 {
	if len(frames) == 0 {
		return nil
	}
	bins := len(frames[0].Magnitudes)
	if bins == 0 {
		return nil
	}

	acc := make([]float64, bins)
	count := 0
	for _, f := range frames {
		if len(f.Magnitudes) != bins {
			continue
		}
		floats.Add(acc, f.Magnitudes)
		count++
	}
	if count == 0 {
		return nil
	}
	floats.Scale(1/float64(count), acc)
	return acc
}

// findFundamental returns the bin index of the winning fundamental
// candidate, or -1. A candidate must be a strict local maximum against both
// immediate and next-nearest neighbors, clear the absolute floor, and fall
// in the configured fundamental band. Candidates are ranked by a
// frequency-weighted score that biases toward lower-frequency peaks among
// comparably strong ones: sung fundamentals are typically the lowest strong
// partial.
func (d *Detector) findFundamental(mean []float64, binHz float64) int {
	bestBin := -1
	bestScore := 0.0

	for i := 2; i < len(mean)-2; i++ {
		m := mean[i]
		if m < d.cfg.PeakFloor {
			continue
		}
		if m <= mean[i-1] || m <= mean[i+1] || m <= mean[i-2] || m <= mean[i+2] {
			continue
		}
		freq := float64(i) * binHz
		if freq < d.cfg.FundamentalMin || freq > d.cfg.FundamentalMax {
			continue
		}

		score := m * (1 + 1000/math.Max(freq, 100))
		if score > bestScore {
			bestScore = score
			bestBin = i
		}
	}
	return bestBin
}

// strongestNear scans a tolerance window around the expected bin for target
// and returns the strongest bin and its magnitude, or (-1, 0) when the
// expected bin is out of range.
func (d *Detector) strongestNear(mean []float64, target, binHz float64) (int, float64) {
	center := int(math.Round(target / binHz))
	lo := max(center-d.cfg.ToleranceBins, 1)
	hi := min(center+d.cfg.ToleranceBins, len(mean)-1)
	if lo > hi {
		return -1, 0
	}

	bestBin, bestMag := -1, 0.0
	for i := lo; i <= hi; i++ {
		if mean[i] > bestMag {
			bestMag = mean[i]
			bestBin = i
		}
	}
	return bestBin, bestMag
}

// refineBinFrequency applies parabolic interpolation around a peak bin for
// sub-bin frequency accuracy.
func refineBinFrequency(mean []float64, bin int, binHz float64) float64 {
	if bin <= 0 || bin >= len(mean)-1 {
		return float64(bin) * binHz
	}
	y1, y2, y3 := mean[bin-1], mean[bin], mean[bin+1]
	denom := y1 - 2*y2 + y3
	if denom == 0 {
		return float64(bin) * binHz
	}
	offset := 0.5 * (y1 - y3) / denom
	if math.Abs(offset) > 1 {
		offset = 0
	}
	return (float64(bin) + offset) * binHz
}
