package mute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/logger"
	"github.com/oshokin/annunciator/internal/service/common"
)

// Options configures the remote mute press.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
}

// confirmInterval is how often the status is polled after the press.
const confirmInterval = 100 * time.Millisecond

// errNotConfirmed is returned when the unit never reported the toggled state.
var errNotConfirmed = errors.New("mute state did not change")

// Run presses mute once and waits for the unit to apply it.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "annunciator-mute")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout), common.WithActor(actor))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	before, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	if err = client.ToggleMute(ctx); err != nil {
		return err
	}

	// The press is applied on the unit's next loop pass.
	confirmCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	ticker := time.NewTicker(confirmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-confirmCtx.Done():
			return fmt.Errorf("%w: still muted=%t", errNotConfirmed, before.Muted)
		case <-ticker.C:
			after, err := client.GetStatus(confirmCtx)
			if err != nil {
				logger.ErrorKV(ctx, "GetStatus failed", "error", err)
				continue
			}

			if after.Muted != before.Muted {
				logger.InfoKV(ctx, "Mute toggled", "muted", after.Muted, "level", after.LevelName)

				return nil
			}
		}
	}
}
