package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/vocal-spectrogram/configs"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/audio/capture"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/harmonics"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/render"
)

var (
	renderOutput   string
	renderZoom     float64
	renderScroll   float64
	renderBandLow  float64
	renderBandHigh float64
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [flags] <file.wav>",
	Short: "Render a WAV recording to a spectrogram PNG",
	Long: `Render a WAV recording as a log-frequency spectrogram heatmap with
harmonic markers and, when configured, the target-harmonic guide.

Examples:
  # Render the whole recording
  vocal-spectrogram render --out take1.png take1.wav

  # Zoom into the last quarter
  vocal-spectrogram render --zoom 25 --scroll 1 --out tail.png take1.wav

  # Highlight a frequency band
  vocal-spectrogram render --band-low 200 --band-high 2000 --out band.png take1.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderOutput, "out", "spectrogram.png", "output PNG path")
	renderCmd.Flags().Float64Var(&renderZoom, "zoom", 100, "visible fraction of the recording in percent (1-100]")
	renderCmd.Flags().Float64Var(&renderScroll, "scroll", 0, "scroll position over the non-visible remainder [0-1]")
	renderCmd.Flags().Float64Var(&renderBandLow, "band-low", 0, "filter band low edge in Hz (0 disables)")
	renderCmd.Flags().Float64Var(&renderBandHigh, "band-high", 0, "filter band high edge in Hz")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidatedConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	rec, err := capture.ReadWAV(args[0], logger)
	if err != nil {
		return err
	}
	cfg.Audio.SampleRate = rec.SampleRate

	frames := rec.Frames(cfg.Audio.FFTSize, cfg.Audio.HopSize)
	compositor, series := renderFrames(cfg, frames, logger)

	f, err := os.Create(renderOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := compositor.WritePNG(f); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	fields := logging.Fields{"path": renderOutput, "frames": len(frames)}
	if series != nil {
		fields["fundamental_hz"] = series.Fundamental
		fields["overtones"] = series.OvertoneCount()
	}
	logger.Info("Spectrogram written", fields)
	return nil
}

// renderFrames runs one offline render pass over the decoded frames.
func renderFrames(cfg *configs.Config, frames []spectrogram.Frame, logger logging.Logger) (*render.Compositor, *harmonics.Series) {
	timeline := spectrogram.ResolveTimeline(frames)
	viewport := spectrogram.Viewport{ZoomPercent: renderZoom, ScrollPosition: renderScroll}
	window := timeline.Window(viewport)
	visible := spectrogram.FramesBetween(frames, window.Start, window.End())

	detector := harmonics.NewDetector(cfg.Audio.SampleRate, cfg.Audio.FFTSize, cfg.DetectorConfig())
	series := detector.Analyze(visible)

	var counter harmonics.CounterState
	counter = counter.Update(series, false)

	state := render.State{
		PlaybackTime: -1,
		CursorX:      -1,
		CursorY:      -1,
		Counter:      counter,
	}
	if renderBandLow > 0 && renderBandHigh > renderBandLow {
		band := spectrogram.FilterBand{LowFreq: renderBandLow, HighFreq: renderBandHigh}.Clamp()
		state.Band = &band
	}

	compositor := render.NewCompositor(cfg.RenderSettings(), logger)
	compositor.Render(visible, window, series, state)
	return compositor, series
}
