package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
)

// MicSource streams microphone audio through the STFT into a frame buffer.
// PortAudio invokes the callback on its own thread; the frame buffer is the
// synchronization point between capture and the render loop.
type MicSource struct {
	sampleRate int
	fftSize    int
	stft       *STFT
	buffer     *spectrogram.FrameBuffer
	logger     logging.Logger

	mu          sync.Mutex
	stream      *portaudio.Stream
	window      []float64
	samplesSeen int64
}

// NewMicSource creates a microphone source feeding buffer.
func NewMicSource(sampleRate, fftSize int, buffer *spectrogram.FrameBuffer, logger logging.Logger) *MicSource {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &MicSource{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		stft:       NewSTFT(sampleRate, fftSize, 0),
		buffer:     buffer,
		logger:     logger.WithFields(logging.Fields{"component": "mic_source"}),
		window:     make([]float64, 0, fftSize*2),
	}
}

// Start initializes PortAudio and begins capturing. The hop between frames
// equals the device callback buffer, a quarter FFT window.
func (m *MicSource) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), m.fftSize/4, m.callback)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	m.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	m.logger.Info("Microphone capture started", logging.Fields{
		"sample_rate": m.sampleRate,
		"fft_size":    m.fftSize,
	})
	return nil
}

// callback accumulates a rolling FFT window and appends one frame per
// device buffer once enough samples have arrived.
func (m *MicSource) callback(in []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range in {
		m.window = append(m.window, float64(s))
	}
	m.samplesSeen += int64(len(in))

	if len(m.window) < m.fftSize {
		return
	}
	if len(m.window) > m.fftSize {
		m.window = m.window[len(m.window)-m.fftSize:]
	}

	ts := float64(m.samplesSeen) / float64(m.sampleRate)
	if frame, ok := m.stft.Frame(m.window, ts); ok {
		m.buffer.Append(frame)
	}
}

// Stop halts capture and releases PortAudio.
func (m *MicSource) Stop() error {
	if m.stream == nil {
		return nil
	}
	if err := m.stream.Stop(); err != nil {
		m.logger.Error(err, "Failed to stop input stream")
	}
	err := m.stream.Close()
	m.stream = nil
	portaudio.Terminate()

	m.logger.Info("Microphone capture stopped")
	return err
}
