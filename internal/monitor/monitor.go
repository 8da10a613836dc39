package monitor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/RyanBlaney/vocal-spectrogram/configs"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/audio/capture"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/render"
)

// tickInterval approximates a display frame callback: one detection-and-
// render pass per tick. Missing a tick degrades smoothness, never
// correctness.
const tickInterval = 33 * time.Millisecond

// Monitor runs the live microphone loop: capture feeds the session's frame
// buffer asynchronously while a ticker drives render passes, optionally
// writing periodic PNG snapshots of the composited canvas.
type Monitor struct {
	cfg          *configs.Config
	session      *Session
	mic          *capture.MicSource
	snapshotPath string
	snapshotEach time.Duration
	logger       logging.Logger
}

// NewMonitor creates a live monitor. snapshotPath may be empty to disable
// snapshots.
func NewMonitor(cfg *configs.Config, snapshotPath string, snapshotEach time.Duration, logger logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	session := NewSession(cfg, logger)
	return &Monitor{
		cfg:          cfg,
		session:      session,
		mic:          capture.NewMicSource(cfg.Audio.SampleRate, cfg.Audio.FFTSize, session.Buffer(), logger),
		snapshotPath: snapshotPath,
		snapshotEach: snapshotEach,
		logger:       logger.WithFields(logging.Fields{"component": "monitor"}),
	}
}

// Session returns the monitor's session.
func (m *Monitor) Session() *Session {
	return m.session
}

// Run captures and renders until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.mic.Start(); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer m.mic.Stop()

	m.session.StartRecording()
	defer m.session.StopRecording()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var lastSnapshot, lastReport time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		_, series := m.session.RenderPass(render.State{
			PlaybackTime: -1,
			CursorX:      -1,
			CursorY:      -1,
		})

		now := time.Now()
		if now.Sub(lastReport) >= time.Second {
			lastReport = now
			counter := m.session.Counter()
			fields := logging.Fields{
				"frames":    m.session.Buffer().Len(),
				"overtones": counter.Current,
				"best":      counter.Best,
			}
			if series != nil {
				fields["fundamental_hz"] = series.Fundamental
			}
			m.logger.Info("Monitor status", fields)
		}

		if m.snapshotPath != "" && now.Sub(lastSnapshot) >= m.snapshotEach {
			lastSnapshot = now
			if err := m.writeSnapshot(); err != nil {
				m.logger.Error(err, "Failed to write snapshot")
			}
		}
	}
}

func (m *Monitor) writeSnapshot() error {
	f, err := os.Create(m.snapshotPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.session.Compositor().WritePNG(f)
}
