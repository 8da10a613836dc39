package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/harmonics"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/render"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Audio capture configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Display configuration
	Display DisplayConfig `mapstructure:"display"`

	// Harmonic detection configuration
	Detection DetectionConfig `mapstructure:"detection"`

	// Frame buffer configuration
	Buffer BufferConfig `mapstructure:"buffer"`
}

// AudioConfig contains audio capture settings
type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	FFTSize    int `mapstructure:"fft_size"`
	HopSize    int `mapstructure:"hop_size"`
}

// DisplayConfig contains spectrogram display settings. All values are
// hot-swappable mid-session via Session.UpdateSettings; a rebuilt compositor
// picks them up on the next render pass.
type DisplayConfig struct {
	Width                int     `mapstructure:"width"`
	Height               int     `mapstructure:"height"`
	PixelRatio           float64 `mapstructure:"pixel_ratio"`
	MinFrequency         float64 `mapstructure:"min_frequency"`
	MaxFrequency         float64 `mapstructure:"max_frequency"`
	IntensityScale       string  `mapstructure:"intensity_scale"`
	IntensityBoost       float64 `mapstructure:"intensity_boost"`
	Brightness           float64 `mapstructure:"brightness"`
	Declutter            float64 `mapstructure:"declutter"`
	Sharpness            float64 `mapstructure:"sharpness"`
	ColorScheme          string  `mapstructure:"color_scheme"`
	ShowFrequencyMarkers bool    `mapstructure:"show_frequency_markers"`
	TargetHarmonic       int     `mapstructure:"target_harmonic"`
}

// DetectionConfig contains harmonic detector tunables
type DetectionConfig struct {
	PeakFloor      float64 `mapstructure:"peak_floor"`
	HarmonicRatio  float64 `mapstructure:"harmonic_ratio"`
	MaxHarmonics   int     `mapstructure:"max_harmonics"`
	FundamentalMin float64 `mapstructure:"fundamental_min"`
	FundamentalMax float64 `mapstructure:"fundamental_max"`
	ToleranceBins  int     `mapstructure:"tolerance_bins"`
}

// BufferConfig contains frame buffer settings
type BufferConfig struct {
	MaxFrames int `mapstructure:"max_frames"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}

	if config.Audio.FFTSize < 1024 || config.Audio.FFTSize > 32768 {
		return fmt.Errorf("fft size must be between 1024 and 32768")
	}
	if config.Audio.FFTSize&(config.Audio.FFTSize-1) != 0 {
		return fmt.Errorf("fft size must be a power of two")
	}

	nyquist := float64(config.Audio.SampleRate) / 2
	if config.Display.MinFrequency <= 0 || config.Display.MinFrequency >= config.Display.MaxFrequency {
		return fmt.Errorf("min frequency must be positive and below max frequency")
	}
	if config.Display.MaxFrequency > nyquist {
		return fmt.Errorf("max frequency cannot exceed the Nyquist frequency (%.0f Hz)", nyquist)
	}

	if _, err := spectrogram.ParseIntensityScale(config.Display.IntensityScale); err != nil {
		return err
	}
	if _, err := spectrogram.ParseColorScheme(config.Display.ColorScheme); err != nil {
		return err
	}

	if config.Display.Declutter < 0 || config.Display.Declutter > 1 {
		return fmt.Errorf("declutter must be between 0 and 1")
	}

	if config.Detection.PeakFloor <= 0 || config.Detection.PeakFloor >= 1 {
		return fmt.Errorf("detection peak floor must be in (0,1)")
	}
	if config.Detection.HarmonicRatio <= 0 || config.Detection.HarmonicRatio >= 1 {
		return fmt.Errorf("detection harmonic ratio must be in (0,1)")
	}
	if config.Detection.FundamentalMin >= config.Detection.FundamentalMax {
		return fmt.Errorf("fundamental search range is inverted")
	}

	if config.Buffer.MaxFrames <= 0 {
		return fmt.Errorf("buffer max frames must be positive")
	}

	return nil
}

// DetectorConfig converts the detection section into the detector's config.
func (c *Config) DetectorConfig() harmonics.Config {
	return harmonics.Config{
		PeakFloor:      c.Detection.PeakFloor,
		HarmonicRatio:  c.Detection.HarmonicRatio,
		MaxHarmonics:   c.Detection.MaxHarmonics,
		FundamentalMin: c.Detection.FundamentalMin,
		FundamentalMax: c.Detection.FundamentalMax,
		ToleranceBins:  c.Detection.ToleranceBins,
	}
}

// RenderSettings converts the display and audio sections into compositor
// settings. Validation has already run, so the parse errors are ignored.
func (c *Config) RenderSettings() render.Settings {
	scale, _ := spectrogram.ParseIntensityScale(c.Display.IntensityScale)
	scheme, _ := spectrogram.ParseColorScheme(c.Display.ColorScheme)

	return render.Settings{
		Width:                c.Display.Width,
		Height:               c.Display.Height,
		PixelRatio:           c.Display.PixelRatio,
		MinFrequency:         c.Display.MinFrequency,
		MaxFrequency:         c.Display.MaxFrequency,
		Scale:                scale,
		Scheme:               scheme,
		IntensityBoost:       c.Display.IntensityBoost,
		Brightness:           c.Display.Brightness,
		Declutter:            c.Display.Declutter,
		Sharpness:            c.Display.Sharpness,
		ShowFrequencyMarkers: c.Display.ShowFrequencyMarkers,
		TargetHarmonic:       c.Display.TargetHarmonic,
		SampleRate:           c.Audio.SampleRate,
		FFTSize:              c.Audio.FFTSize,
	}
}
