package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/service/mute"
	"github.com/oshokin/annunciator/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for a remote mute press.
	rootCmd = &cobra.Command{
		Use:   "annunciator-mute [server-address]",
		Short: "Press the annunciator's mute button remotely.",
		Long: `Toggles the unit's mute state exactly like the panel button does and waits
until the unit reports the new state. Muting silences the tone only; the
lights keep showing the alarm pattern.

Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return mute.Run(ctx, &mute.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
			})
		},
	}
)

// Execute runs the annunciator-mute CLI and exits with non-zero status on error.
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
}
