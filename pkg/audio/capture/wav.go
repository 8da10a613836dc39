package capture

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
)

// Recording is decoded mono PCM plus its sample rate.
type Recording struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the recording length in seconds.
func (r *Recording) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(len(r.Samples)) / float64(r.SampleRate)
}

// Frames runs the recording through an STFT.
func (r *Recording) Frames(fftSize, hopSize int) []spectrogram.Frame {
	return NewSTFT(r.SampleRate, fftSize, hopSize).Frames(r.Samples)
}

// ReadWAV decodes a WAV file into normalized mono samples. Multi-channel
// audio is downmixed by averaging.
func ReadWAV(path string, logger logging.Logger) (*Recording, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	rec := &Recording{
		Samples:    downmix(buf, int(dec.BitDepth)),
		SampleRate: int(dec.SampleRate),
	}

	logger.Debug("Decoded WAV file", logging.Fields{
		"path":        path,
		"sample_rate": rec.SampleRate,
		"channels":    buf.Format.NumChannels,
		"bit_depth":   dec.BitDepth,
		"duration_s":  rec.Duration(),
	})

	return rec, nil
}

// downmix converts an interleaved integer buffer to mono float64 in [-1,1].
func downmix(buf *audio.IntBuffer, bitDepth int) []float64 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch])
		}
		samples[i] = sum / float64(channels) / scale
	}
	return samples
}
