package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/service/status"
	"github.com/oshokin/annunciator/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// watch keeps polling instead of printing once.
	watch bool
	// interval is the watch mode polling interval.
	interval time.Duration

	// rootCmd represents the base command for printing unit status.
	rootCmd = &cobra.Command{
		Use:   "annunciator-status [server-address]",
		Short: "Print the annunciator's alarm status.",
		Long: `Prints the unit's current alarm level, message, mute state, serial link health
and frame counters.

With --watch the status is printed repeatedly until interrupted.
Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			options := &status.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Watch:         watch,
				PollInterval:  interval,
				Out:           cmd.OutOrStdout(),
			}

			return status.Run(ctx, options)
		},
	}
)

// Execute runs the annunciator-status CLI and exits with non-zero status on error.
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
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing the status")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", status.DefaultPollInterval, "polling interval in watch mode")
}
