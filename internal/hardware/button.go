package hardware

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"

	"github.com/oshokin/annunciator/internal/logger"
)

const (
	// DefaultLockout ignores contact bounce after a press.
	DefaultLockout = 50 * time.Millisecond

	// edgePoll bounds how long Run waits for an edge before checking ctx.
	edgePoll = 100 * time.Millisecond
)

// Button is an active-low push button on a pulled-up input pin.
type Button struct {
	// pin is configured for falling-edge detection.
	pin gpio.PinIn
	// clock times the lockout window.
	clock clockwork.Clock
	// lockout is the minimum time between two reported presses.
	lockout time.Duration
}

// NewButton configures the pin for falling edges with the internal pull-up.
func NewButton(pin gpio.PinIn, clock clockwork.Clock, lockout time.Duration) (*Button, error) {
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("configure button %s: %w", pin, err)
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	if lockout <= 0 {
		lockout = DefaultLockout
	}

	return &Button{
		pin:     pin,
		clock:   clock,
		lockout: lockout,
	}, nil
}

// Run waits for presses and calls onPress for each one until ctx is done.
// onPress runs on the button goroutine and must not block.
func (b *Button) Run(ctx context.Context, onPress func()) {
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !b.pin.WaitForEdge(edgePoll) {
			continue
		}

		if b.pin.Read() != gpio.Low {
			continue
		}

		now := b.clock.Now()
		if !last.IsZero() && now.Sub(last) < b.lockout {
			logger.Debug(ctx, "Button bounce ignored")

			continue
		}

		last = now

		logger.Info(ctx, "onPress")
		onPress()
	}
}
