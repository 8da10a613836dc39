package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/vocal-spectrogram/configs"
)

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

Examples:
  # Test with default config file
  vocal-spectrogram config-test

  # Test with specific config file
  vocal-spectrogram --config /path/to/config.yaml config-test`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configTestCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	fmt.Println("VOCAL SPECTROGRAM CONFIGURATION TEST")
	fmt.Println(strings.Repeat("=", 60))

	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection("APPLICATION SETTINGS")
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Output Format", config.OutputFormat)

	printSection("AUDIO CONFIGURATION")
	printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", config.Audio.SampleRate))
	printKeyValue("FFT Size", fmt.Sprintf("%d", config.Audio.FFTSize))
	printKeyValue("Hop Size", fmt.Sprintf("%d", config.Audio.HopSize))

	printSection("DISPLAY CONFIGURATION")
	printKeyValue("Canvas", fmt.Sprintf("%dx%d @ %.1fx", config.Display.Width, config.Display.Height, config.Display.PixelRatio))
	printKeyValue("Frequency Window", fmt.Sprintf("%.0f - %.0f Hz", config.Display.MinFrequency, config.Display.MaxFrequency))
	printKeyValue("Intensity Scale", config.Display.IntensityScale)
	printKeyValue("Intensity Boost", fmt.Sprintf("%.0f%%", config.Display.IntensityBoost))
	printKeyValue("Brightness", fmt.Sprintf("%.0f%%", config.Display.Brightness))
	printKeyValue("Declutter", fmt.Sprintf("%.2f", config.Display.Declutter))
	printKeyValue("Sharpness", fmt.Sprintf("%.0f", config.Display.Sharpness))
	printKeyValue("Color Scheme", config.Display.ColorScheme)
	printKeyValue("Frequency Markers", fmt.Sprintf("%t", config.Display.ShowFrequencyMarkers))
	printKeyValue("Target Harmonic", fmt.Sprintf("%d", config.Display.TargetHarmonic))

	printSection("DETECTION CONFIGURATION")
	printKeyValue("Peak Floor", fmt.Sprintf("%.2f", config.Detection.PeakFloor))
	printKeyValue("Harmonic Ratio", fmt.Sprintf("%.2f", config.Detection.HarmonicRatio))
	printKeyValue("Max Harmonics", fmt.Sprintf("%d", config.Detection.MaxHarmonics))
	printKeyValue("Fundamental Range", fmt.Sprintf("%.0f - %.0f Hz", config.Detection.FundamentalMin, config.Detection.FundamentalMax))
	printKeyValue("Tolerance Bins", fmt.Sprintf("%d", config.Detection.ToleranceBins))

	printSection("BUFFER CONFIGURATION")
	printKeyValue("Max Frames", fmt.Sprintf("%d", config.Buffer.MaxFrames))

	fmt.Println()
	if err := configs.ValidateConfig(config); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}
	fmt.Println("Configuration is valid")
	return nil
}

func printSection(title string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func printKeyValue(key, value string) {
	fmt.Printf("  %-20s %s\n", key, value)
}
