package capture

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
)

// writeTestWAV encodes interleaved 16-bit PCM to a temp file and returns its
// path.
func writeTestWAV(t *testing.T, sampleRate, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	return path
}

func TestReadWAVMono(t *testing.T) {
	const sampleRate = 48000
	data := make([]int, 4800)
	for i := range data {
		data[i] = int(16384 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
	}
	path := writeTestWAV(t, sampleRate, 1, data)

	rec, err := ReadWAV(path, &logging.NoOpLogger{})
	require.NoError(t, err)

	assert.Equal(t, sampleRate, rec.SampleRate)
	require.Len(t, rec.Samples, len(data))
	assert.InDelta(t, 0.1, rec.Duration(), 1e-9)

	// 16384/32768 = 0.5 peak amplitude after normalization.
	peak := 0.0
	for _, s := range rec.Samples {
		peak = math.Max(peak, math.Abs(s))
	}
	assert.InDelta(t, 0.5, peak, 0.01)
}

func TestReadWAVDownmixesStereo(t *testing.T) {
	// Left fixed at 8192, right fixed at -8192: the mono mix is silence.
	data := make([]int, 2000)
	for i := 0; i < len(data); i += 2 {
		data[i] = 8192
		data[i+1] = -8192
	}
	path := writeTestWAV(t, 44100, 2, data)

	rec, err := ReadWAV(path, &logging.NoOpLogger{})
	require.NoError(t, err)

	require.Len(t, rec.Samples, 1000)
	for _, s := range rec.Samples {
		assert.Zero(t, s)
	}
}

func TestReadWAVMissingFile(t *testing.T) {
	_, err := ReadWAV(filepath.Join(t.TempDir(), "missing.wav"), &logging.NoOpLogger{})
	assert.Error(t, err)
}

func TestReadWAVInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav"), 0o644))

	_, err := ReadWAV(path, &logging.NoOpLogger{})
	assert.Error(t, err)
}
