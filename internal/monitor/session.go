package monitor

import (
	"image"

	"github.com/RyanBlaney/vocal-spectrogram/configs"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/harmonics"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/render"
)

// followWindowSeconds is the trailing window kept visible while recording,
// anchoring scroll to the newest data once the recording outgrows it.
const followWindowSeconds = 10.0

// Session owns one analysis session: the frame buffer, the overtone counter
// lifecycle, the viewport, and the per-pass wiring between the detector and
// the compositor. Detection runs once per pass and the result is shared by
// every overlay, so markers and the target guide always agree.
type Session struct {
	cfg        *configs.Config
	buffer     *spectrogram.FrameBuffer
	detector   *harmonics.Detector
	compositor *render.Compositor
	viewport   spectrogram.Viewport
	counter    harmonics.CounterState
	recording  bool
	logger     logging.Logger
}

// NewSession creates a session from a validated config.
func NewSession(cfg *configs.Config, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Session{
		cfg:        cfg,
		buffer:     spectrogram.NewFrameBuffer(cfg.Buffer.MaxFrames),
		detector:   harmonics.NewDetector(cfg.Audio.SampleRate, cfg.Audio.FFTSize, cfg.DetectorConfig()),
		compositor: render.NewCompositor(cfg.RenderSettings(), logger),
		viewport:   spectrogram.DefaultViewport(),
		logger:     logger.WithFields(logging.Fields{"component": "session"}),
	}
}

// Buffer returns the frame buffer capture sources append into.
func (s *Session) Buffer() *spectrogram.FrameBuffer {
	return s.buffer
}

// Compositor returns the session's compositor, for export collaborators.
func (s *Session) Compositor() *render.Compositor {
	return s.compositor
}

// StartRecording switches the overtone counter into its monotonic mode and
// enables the auto-follow viewport.
func (s *Session) StartRecording() {
	s.recording = true
	s.logger.Debug("Recording started")
}

// StopRecording freezes the series for static review.
func (s *Session) StopRecording() {
	s.recording = false
	s.logger.Debug("Recording stopped", logging.Fields{
		"frames":     s.buffer.Len(),
		"duration_s": s.buffer.Duration(),
	})
}

// Recording reports whether the session is actively recording.
func (s *Session) Recording() bool {
	return s.recording
}

// Counter returns the current overtone counter state.
func (s *Session) Counter() harmonics.CounterState {
	return s.counter
}

// SetViewport replaces the user-controlled viewport. Ignored while the
// auto-follow rule is active.
func (s *Session) SetViewport(v spectrogram.Viewport) {
	s.viewport = v.Clamp()
}

// UpdateSettings applies new display settings mid-session. Only the
// compositor is rebuilt; capture keeps appending into the same frame buffer
// and the detector and counter carry their state, so tuning brightness or
// the color scheme takes effect on the next render pass without restarting
// the session.
func (s *Session) UpdateSettings(settings render.Settings) {
	s.compositor = render.NewCompositor(settings, s.logger)
	s.logger.Debug("Display settings updated", logging.Fields{
		"scheme": settings.Scheme.String(),
		"scale":  settings.Scale.String(),
	})
}

// Reset discards the series and zeroes the counter.
func (s *Session) Reset() {
	s.buffer.Reset()
	s.counter = s.counter.Reset()
	s.viewport = spectrogram.DefaultViewport()
	s.logger.Debug("Session reset")
}

// RenderPass runs one detection-and-render pass over the buffered frames as
// they stand now, and returns the composited canvas together with the
// detection result the overlays were driven by.
func (s *Session) RenderPass(state render.State) (*image.RGBA, *harmonics.Series) {
	frames := s.buffer.Frames()
	timeline := spectrogram.ResolveTimeline(frames)

	viewport := s.viewport
	if s.recording {
		viewport = followViewport(timeline)
	}
	window := timeline.Window(viewport)

	visible := spectrogram.FramesBetween(frames, window.Start, window.End())
	series := s.detector.Analyze(visible)
	s.counter = s.counter.Update(series, s.recording)

	state.Recording = s.recording
	state.Counter = s.counter
	img := s.compositor.Render(visible, window, series, state)
	return img, series
}

// followViewport keeps a fixed-length trailing window visible during live
// recording once the recorded duration exceeds it.
func followViewport(t spectrogram.Timeline) spectrogram.Viewport {
	if t.AdjustedDuration <= followWindowSeconds {
		return spectrogram.DefaultViewport()
	}
	return spectrogram.Viewport{
		ZoomPercent:    followWindowSeconds / t.AdjustedDuration * 100,
		ScrollPosition: 1,
	}
}
