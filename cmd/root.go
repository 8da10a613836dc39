package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/vocal-spectrogram/configs"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
)

var (
	configFile   string
	verbose      bool
	logLevel     string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vocal-spectrogram",
	Short: "Real-time vocal spectrogram and overtone analyzer",
	Long: `A vocal spectrogram analyzer for singers and voice teachers.

The tool computes a rolling FFT spectrogram from microphone or WAV input,
detects the dominant fundamental frequency and its harmonic series, and
renders a log-frequency heatmap with harmonic markers, a target-harmonic
practice guide, and an overtone counter.

Key features:
- Harmonic series detection with configurable sensitivity
- Log-frequency scrolling heatmap with four color schemes
- Target-harmonic guide for overtone singing practice
- PNG export of the composited spectrogram
- Live microphone monitoring`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/vocal-spectrogram/vocal-spectrogram.yaml)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (json, table, yaml)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config", "vocal-spectrogram"))
		viper.AddConfigPath("./configs")
		viper.SetConfigName("vocal-spectrogram")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VOCAL_SPECTROGRAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds each cobra flag to its associated viper configuration
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}

		if err := v.BindEnv(f.Name, "VOCAL_SPECTROGRAM_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// newLogger builds the application logger from the resolved configuration
// and installs it as the global logger that component constructors fall
// back to when given a nil Logger.
func newLogger(cfg *configs.Config) logging.Logger {
	logger := logging.NewDefaultLogger()
	if cfg.Verbose {
		logger.SetLevel(logging.DebugLevel)
	} else {
		logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}
	logging.SetGlobalLogger(logger)
	return logging.WithFields(logging.Fields{"app": "vocal-spectrogram"})
}

// loadValidatedConfig loads and validates the application config.
func loadValidatedConfig() (*configs.Config, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := configs.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
