package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/audio/capture"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/harmonics"
)

var analyzeSegmentSeconds float64

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file.wav>",
	Short: "Detect the harmonic series in a WAV recording",
	Long: `Analyze a WAV recording and report the detected fundamental frequency
and harmonic series, overall and per time segment.

Examples:
  # Analyze a recording with the default segmentation
  vocal-spectrogram analyze take1.wav

  # Emit JSON for scripting
  vocal-spectrogram analyze --output json take1.wav

  # Use finer segments for a pitch track
  vocal-spectrogram analyze --segment 0.25 take1.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Float64Var(&analyzeSegmentSeconds, "segment", 1.0,
		"segment length in seconds for the per-segment pitch track")
}

// harmonicResult is one detected partial in the report.
type harmonicResult struct {
	N         int     `json:"n" yaml:"n"`
	Frequency float64 `json:"frequency_hz" yaml:"frequency_hz"`
	Strength  float64 `json:"strength" yaml:"strength"`
}

// segmentResult is the detection outcome for one time segment.
type segmentResult struct {
	Start       float64 `json:"start_s" yaml:"start_s"`
	End         float64 `json:"end_s" yaml:"end_s"`
	Fundamental float64 `json:"fundamental_hz" yaml:"fundamental_hz"`
	Overtones   int     `json:"overtones" yaml:"overtones"`
	Strength    float64 `json:"strength" yaml:"strength"`
}

// analyzeReport is the full analysis output.
type analyzeReport struct {
	File             string           `json:"file" yaml:"file"`
	SampleRate       int              `json:"sample_rate" yaml:"sample_rate"`
	FFTSize          int              `json:"fft_size" yaml:"fft_size"`
	Duration         float64          `json:"duration_s" yaml:"duration_s"`
	ActualStart      float64          `json:"actual_start_s" yaml:"actual_start_s"`
	AdjustedDuration float64          `json:"adjusted_duration_s" yaml:"adjusted_duration_s"`
	Fundamental      float64          `json:"fundamental_hz" yaml:"fundamental_hz"`
	Overtones        int              `json:"overtones" yaml:"overtones"`
	BestOvertones    int              `json:"best_overtones" yaml:"best_overtones"`
	Harmonics        []harmonicResult `json:"harmonics" yaml:"harmonics"`
	Segments         []segmentResult  `json:"segments,omitempty" yaml:"segments,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeSegmentSeconds <= 0 {
		return fmt.Errorf("segment length must be positive, got %g", analyzeSegmentSeconds)
	}

	cfg, err := loadValidatedConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	rec, err := capture.ReadWAV(args[0], logger)
	if err != nil {
		return err
	}
	if rec.SampleRate != cfg.Audio.SampleRate {
		// The recording wins; the config sample rate only applies to capture.
		cfg.Audio.SampleRate = rec.SampleRate
	}

	frames := rec.Frames(cfg.Audio.FFTSize, cfg.Audio.HopSize)
	timeline := spectrogram.ResolveTimeline(frames)
	detector := harmonics.NewDetector(cfg.Audio.SampleRate, cfg.Audio.FFTSize, cfg.DetectorConfig())

	report := analyzeReport{
		File:             args[0],
		SampleRate:       cfg.Audio.SampleRate,
		FFTSize:          cfg.Audio.FFTSize,
		Duration:         rec.Duration(),
		ActualStart:      timeline.ActualStart,
		AdjustedDuration: timeline.AdjustedDuration,
	}

	if overall := detector.Analyze(frames); overall != nil {
		report.Fundamental = overall.Fundamental
		report.Overtones = overall.OvertoneCount()
		for i, h := range overall.Harmonics {
			report.Harmonics = append(report.Harmonics, harmonicResult{
				N:         i + 1,
				Frequency: h.Frequency,
				Strength:  h.Strength,
			})
		}
	}

	var counter harmonics.CounterState
	for start := timeline.ActualStart; start < timeline.ActualStart+timeline.AdjustedDuration; start += analyzeSegmentSeconds {
		end := start + analyzeSegmentSeconds
		segment := spectrogram.FramesBetween(frames, start, end)
		series := detector.Analyze(segment)
		counter = counter.Update(series, false)

		result := segmentResult{Start: start, End: end}
		if series != nil {
			result.Fundamental = series.Fundamental
			result.Overtones = series.OvertoneCount()
			result.Strength = series.OverallStrength
		}
		report.Segments = append(report.Segments, result)
	}
	report.BestOvertones = counter.Best

	return printReport(&report, cfg.OutputFormat)
}

func printReport(report *analyzeReport, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	case "table", "":
		printReportTable(report)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
	return nil
}

func printReportTable(report *analyzeReport) {
	fmt.Printf("File: %s (%d Hz, FFT %d)\n", report.File, report.SampleRate, report.FFTSize)
	fmt.Printf("Duration: %.2fs (%.2fs after silence trim)\n", report.Duration, report.AdjustedDuration)

	if report.Fundamental == 0 {
		fmt.Println("No harmonic series detected")
		return
	}

	fmt.Printf("Fundamental: %.1f Hz, %d overtones (best segment: %d)\n\n",
		report.Fundamental, report.Overtones, report.BestOvertones)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "N\tFREQUENCY\tSTRENGTH")
	for _, h := range report.Harmonics {
		fmt.Fprintf(w, "%d\t%.1f Hz\t%.2f\n", h.N, h.Frequency, h.Strength)
	}
	w.Flush()

	if len(report.Segments) == 0 {
		return
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEGMENT\tFUNDAMENTAL\tOVERTONES\tSTRENGTH")
	for _, s := range report.Segments {
		if s.Fundamental == 0 {
			fmt.Fprintf(w, "%.2f-%.2fs\t-\t-\t-\n", s.Start, s.End)
			continue
		}
		fmt.Fprintf(w, "%.2f-%.2fs\t%.1f Hz\t%d\t%.2f\n", s.Start, s.End, s.Fundamental, s.Overtones, s.Strength)
	}
	w.Flush()
}
