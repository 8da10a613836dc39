package configs

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
)

func loadDefaultConfig(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	SetDefaults()
	config, err := LoadConfig()
	require.NoError(t, err)
	return config
}

func TestDefaultConfigIsValid(t *testing.T) {
	config := loadDefaultConfig(t)
	assert.NoError(t, ValidateConfig(config))
}

func TestDefaultValues(t *testing.T) {
	config := loadDefaultConfig(t)

	assert.False(t, config.Verbose)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "table", config.OutputFormat)

	assert.Equal(t, 48000, config.Audio.SampleRate)
	assert.Equal(t, 4096, config.Audio.FFTSize)
	assert.Equal(t, 1024, config.Audio.HopSize)

	assert.Equal(t, 1280, config.Display.Width)
	assert.Equal(t, 720, config.Display.Height)
	assert.Equal(t, 60.0, config.Display.MinFrequency)
	assert.Equal(t, 8000.0, config.Display.MaxFrequency)
	assert.Equal(t, "logarithmic", config.Display.IntensityScale)
	assert.Equal(t, "default", config.Display.ColorScheme)
	assert.True(t, config.Display.ShowFrequencyMarkers)
	assert.Equal(t, 0, config.Display.TargetHarmonic)

	assert.Equal(t, 0.10, config.Detection.PeakFloor)
	assert.Equal(t, 0.08, config.Detection.HarmonicRatio)
	assert.Equal(t, 16, config.Detection.MaxHarmonics)

	assert.Equal(t, 36000, config.Buffer.MaxFrames)
}

func TestConfigOverrides(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("audio.sample_rate", 44100)
	viper.Set("display.color_scheme", "warm")
	viper.Set("detection.peak_floor", 0.2)

	config, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(config))

	assert.Equal(t, 44100, config.Audio.SampleRate)
	assert.Equal(t, "warm", config.Display.ColorScheme)
	assert.Equal(t, 0.2, config.Detection.PeakFloor)
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"fft size too small", func(c *Config) { c.Audio.FFTSize = 512 }},
		{"fft size too large", func(c *Config) { c.Audio.FFTSize = 65536 }},
		{"fft size not power of two", func(c *Config) { c.Audio.FFTSize = 3000 }},
		{"zero min frequency", func(c *Config) { c.Display.MinFrequency = 0 }},
		{"inverted frequency range", func(c *Config) {
			c.Display.MinFrequency = 9000
			c.Display.MaxFrequency = 8000
		}},
		{"max frequency above nyquist", func(c *Config) { c.Display.MaxFrequency = 30000 }},
		{"unknown intensity scale", func(c *Config) { c.Display.IntensityScale = "cubic" }},
		{"unknown color scheme", func(c *Config) { c.Display.ColorScheme = "neon" }},
		{"declutter out of range", func(c *Config) { c.Display.Declutter = 1.5 }},
		{"peak floor out of range", func(c *Config) { c.Detection.PeakFloor = 1.0 }},
		{"harmonic ratio out of range", func(c *Config) { c.Detection.HarmonicRatio = 0 }},
		{"inverted fundamental range", func(c *Config) {
			c.Detection.FundamentalMin = 2000
			c.Detection.FundamentalMax = 1200
		}},
		{"zero buffer frames", func(c *Config) { c.Buffer.MaxFrames = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := loadDefaultConfig(t)
			tt.mutate(config)
			assert.Error(t, ValidateConfig(config))
		})
	}
}

func TestDetectorConfig(t *testing.T) {
	config := loadDefaultConfig(t)
	dc := config.DetectorConfig()

	assert.Equal(t, 0.10, dc.PeakFloor)
	assert.Equal(t, 0.08, dc.HarmonicRatio)
	assert.Equal(t, 16, dc.MaxHarmonics)
	assert.Equal(t, 80.0, dc.FundamentalMin)
	assert.Equal(t, 1200.0, dc.FundamentalMax)
	assert.Equal(t, 3, dc.ToleranceBins)
}

func TestRenderSettings(t *testing.T) {
	config := loadDefaultConfig(t)
	settings := config.RenderSettings()

	assert.Equal(t, 1280, settings.Width)
	assert.Equal(t, 720, settings.Height)
	assert.Equal(t, spectrogram.ScaleLogarithmic, settings.Scale)
	assert.Equal(t, spectrogram.SchemeDefault, settings.Scheme)
	assert.Equal(t, 100.0, settings.IntensityBoost)
	assert.Equal(t, 50.0, settings.Sharpness)
	assert.Equal(t, 48000, settings.SampleRate)
	assert.Equal(t, 4096, settings.FFTSize)
}
