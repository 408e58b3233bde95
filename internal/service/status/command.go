package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/logger"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
	"github.com/oshokin/annunciator/internal/service/common"
)

// Options controls the status polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// Watch keeps polling until the context is canceled.
	Watch bool
	// PollInterval defines the interval between checks in watch mode.
	PollInterval time.Duration
	// Out receives the status lines; defaults to stdout.
	Out io.Writer
}

// DefaultPollInterval defines the polling interval for watch mode.
const DefaultPollInterval = 2 * time.Second

// Run prints the unit status, repeatedly in watch mode.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "annunciator-status")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial unit: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	if err = printStatus(ctx, client, out); err != nil || !opts.Watch {
		return err
	}

	logger.InfoKV(ctx, "Watching unit status", "server_address", serverAddress, "interval", opts.PollInterval.String())

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			if err = printStatus(ctx, client, out); err != nil {
				logger.ErrorKV(ctx, "Status check failed", "error", err)
			}
		}
	}
}

// printStatus fetches the status and link health and writes one line.
func printStatus(ctx context.Context, client *common.Client, out io.Writer) error {
	status, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	link, err := client.LinkHealth(ctx, pb.LinkServiceName)
	if err != nil {
		// The link service is not registered when no serial port is configured.
		logger.DebugKV(ctx, "Link health unavailable", "error", err)
	}

	_, err = fmt.Fprintln(out, FormatStatus(status, link.String()))

	return err
}

// FormatStatus renders a status as a single human-readable line.
func FormatStatus(status *pb.Status, link string) string {
	muted := ""
	if status.Muted {
		muted = " (muted)"
	}

	message := status.Message
	if message == "" {
		message = "None."
	}

	since := "never"
	if !status.UpdatedAt.IsZero() {
		since = status.UpdatedAt.Local().Format(time.RFC3339)
	}

	return fmt.Sprintf("%s: level %d %s%s, message %q since %s; link %s; frames %d ok, %d rejected, %d stale, %d bytes dropped",
		status.Unit,
		status.Level,
		status.LevelName,
		muted,
		message,
		since,
		link,
		status.FramesAccepted,
		status.FramesRejected,
		status.StaleFrames,
		status.BytesDropped,
	)
}
