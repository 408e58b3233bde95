package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/service/annunciator"
	"github.com/oshokin/annunciator/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where alarm state is persisted.
	stateFile string
	// serialPort overrides the serial device from the configuration.
	serialPort string
	// console forces log-backed collaborators.
	console bool

	// rootCmd represents the base command for running the unit.
	rootCmd = &cobra.Command{
		Use:   "annunciatord [listen-address]",
		Short: "Run the alarm annunciator unit.",
		Long: `Runs the annunciator: receives fixed-size alarm frames over the serial link,
keeps the current alarm level and message, and replays the level's light and
tone pattern on the panel while showing the level and message on the LCD.

The mute button silences the tone and restarts the pattern. The last alarm
state is persisted to a JSON file and restored on start.

A gRPC API on the listen address reports status, accepts frames and presses
mute remotely. Listen address can be provided as argument to override config
(e.g., :50551, 0.0.0.0:50551).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &annunciator.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StateFile:     stateFile,
				SerialPort:    serialPort,
				Console:       console,
			}

			return annunciator.Run(ctx, options)
		},
	}
)

// Execute runs the annunciatord CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "path to persist alarm state (overrides config)")
	rootCmd.Flags().StringVarP(&serialPort, "port", "p", "", "serial device (overrides config)")
	rootCmd.Flags().BoolVar(&console, "console", false, "log panel output instead of driving hardware")
}
