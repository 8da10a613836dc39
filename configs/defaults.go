package configs

import "github.com/spf13/viper"

// SetDefaults sets default configuration values
func SetDefaults() {
	// Application defaults
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("output_format", "table")

	// Audio capture defaults
	viper.SetDefault("audio.sample_rate", 48000)
	viper.SetDefault("audio.fft_size", 4096)
	viper.SetDefault("audio.hop_size", 1024)

	// Display defaults
	viper.SetDefault("display.width", 1280)
	viper.SetDefault("display.height", 720)
	viper.SetDefault("display.pixel_ratio", 1.0)
	viper.SetDefault("display.min_frequency", 60.0)
	viper.SetDefault("display.max_frequency", 8000.0)
	viper.SetDefault("display.intensity_scale", "logarithmic")
	viper.SetDefault("display.intensity_boost", 100.0)
	viper.SetDefault("display.brightness", 100.0)
	viper.SetDefault("display.declutter", 0.0)
	viper.SetDefault("display.sharpness", 50.0)
	viper.SetDefault("display.color_scheme", "default")
	viper.SetDefault("display.show_frequency_markers", true)
	viper.SetDefault("display.target_harmonic", 0)

	// Detection defaults. The peak floor and harmonic ratio are tunables;
	// these values were picked empirically against sung vowels.
	viper.SetDefault("detection.peak_floor", 0.10)
	viper.SetDefault("detection.harmonic_ratio", 0.08)
	viper.SetDefault("detection.max_harmonics", 16)
	viper.SetDefault("detection.fundamental_min", 80.0)
	viper.SetDefault("detection.fundamental_max", 1200.0)
	viper.SetDefault("detection.tolerance_bins", 3)

	// Buffer defaults: ~10 minutes of history at the default hop rate
	viper.SetDefault("buffer.max_frames", 36000)
}
