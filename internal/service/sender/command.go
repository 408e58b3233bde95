package sender

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/annunciator/internal/config"
	domain "github.com/oshokin/annunciator/internal/domain/alarm"
	"github.com/oshokin/annunciator/internal/logger"
	"github.com/oshokin/annunciator/internal/protocol"
	"github.com/oshokin/annunciator/internal/service/common"
)

// Options configures frame submission.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Level is the alarm level name or code.
	Level string
	// Message is the text shown on the unit.
	Message string
}

// defaultPushInterval defines retry delay when the unit is still busy with a previous frame.
const defaultPushInterval = 1 * time.Second

// Run encodes the event and submits it with retry logic until success or cancellation.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "annunciator-send")

	level, err := domain.ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	frame, err := protocol.Encode(domain.Event{Level: level, Message: opts.Message})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for the unit's audit log.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout), common.WithActor(actor))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Submitting alarm",
		"server_address", serverAddress,
		"level", level,
		"message", opts.Message,
	)

	// attempt tries once to deliver the frame and reports whether it was taken whole.
	attempt := func() bool {
		result, err := client.SubmitFrame(ctx, frame[:])
		if err != nil {
			// Log error but continue retrying for transient failures.
			logger.ErrorKV(ctx, "SubmitFrame failed", "error", err)
			return false
		}

		if result.Accepted == protocol.FrameSize && result.Dropped == 0 {
			logger.Infof(ctx, "Alarm delivered: %s %q", level, opts.Message)
			return true
		}

		// Part of the frame collided with bytes already in the unit's buffer.
		// If the accepted bytes completed that partial frame, the unit decodes
		// a misaligned frame and may apply it; otherwise the leftover fragment
		// is discarded after the byte timeout. Either way the retry resends
		// the whole frame.
		logger.WarnKV(ctx, "Frame partly dropped, retrying", "accepted", result.Accepted, "dropped", result.Dropped)

		return false
	}

	// Attempt immediately before starting retry loop.
	if attempt() {
		return nil
	}

	// Setup retry timer for subsequent attempts.
	ticker := time.NewTicker(defaultPushInterval)
	defer ticker.Stop()

	// Retry loop until success or cancellation.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if attempt() {
				return nil
			}
		}
	}
}
