package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/vocal-spectrogram/internal/monitor"
)

var (
	listenDuration         time.Duration
	listenSnapshot         string
	listenSnapshotInterval time.Duration
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen [flags]",
	Short: "Monitor the microphone and report detected overtones live",
	Long: `Capture microphone audio and run the detection-and-render loop live,
logging the detected fundamental and overtone counts once per second.

With --snapshot, the composited spectrogram is periodically written as PNG,
which doubles as a poor man's video export when pointed at a frame sequence.

Examples:
  # Monitor until interrupted
  vocal-spectrogram listen

  # Practice session with a visual record
  vocal-spectrogram listen --duration 2m --snapshot practice.png`,
	RunE: runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().DurationVar(&listenDuration, "duration", 0,
		"stop after this long (0 runs until interrupted)")
	listenCmd.Flags().StringVar(&listenSnapshot, "snapshot", "",
		"write the live spectrogram to this PNG path periodically")
	listenCmd.Flags().DurationVar(&listenSnapshotInterval, "snapshot-interval", time.Second,
		"how often to write the snapshot")
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidatedConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if listenDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, listenDuration)
		defer cancel()
	}

	m := monitor.NewMonitor(cfg, listenSnapshot, listenSnapshotInterval, logger)

	err = m.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	counter := m.Session().Counter()
	fmt.Printf("Session complete: best overtone count %d\n", counter.Best)
	return nil
}
