package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/service/sender"
	"github.com/oshokin/annunciator/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// serverAddress overrides the unit address from the configuration.
	serverAddress string

	// rootCmd represents the base command for raising an alarm.
	rootCmd = &cobra.Command{
		Use:   "annunciator-send <level> [message...]",
		Short: "Send an alarm level and message to the annunciator.",
		Long: `Encodes an alarm as a wire frame and submits it to the unit.

Level is a name (OK, INFORM, PROBLEM, WARNING, CRITICAL, PANIC) or its code 0-5.
The remaining arguments are joined into the message, at most 80 bytes.
Submission is retried until the unit takes the whole frame.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &sender.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Level:         args[0],
				Message:       strings.Join(args[1:], " "),
			}

			return sender.Run(ctx, options)
		},
	}
)

// Execute runs the annunciator-send CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&serverAddress, "server", "a", "", "unit address (overrides config)")
}
