package controller

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/annunciator/internal/annunciation"
	"github.com/oshokin/annunciator/internal/domain/alarm"
	"github.com/oshokin/annunciator/internal/link/framer"
	"github.com/oshokin/annunciator/internal/logger"
	"github.com/oshokin/annunciator/internal/presenter"
	"github.com/oshokin/annunciator/internal/protocol"
)

// DefaultLoopInterval is the control loop period.
const DefaultLoopInterval = 100 * time.Millisecond

// Snapshot is an immutable view of the controller published after every tick.
type Snapshot struct {
	// TakenAt is the tick time.
	TakenAt time.Time
	// State is the alarm state.
	State alarm.State
	// Step is what the presenter was asked to show.
	Step annunciation.Step
	// Link holds the framer counters.
	Link framer.Stats
	// FramesAccepted and FramesRejected count decoded frames.
	FramesAccepted uint64
	FramesRejected uint64
	// PresenterFaults counts ticks on which a collaborator failed.
	PresenterFaults uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithInitialState resumes from a previously persisted state.
func WithInitialState(state *alarm.State) Option {
	return func(c *Controller) {
		if state != nil && state.Level.Valid() {
			c.state = *state.Clone()
		}
	}
}

// WithLoopInterval sets the control loop period.
func WithLoopInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithStateObserver registers a callback invoked on the loop goroutine after
// every state change. It must not block.
func WithStateObserver(observer func(alarm.State)) Option {
	return func(c *Controller) {
		c.observer = observer
	}
}

// Controller is the single owner of the framer, alarm state, scheduler and presenter.
type Controller struct {
	// clock drives the loop and stamps state changes.
	clock clockwork.Clock
	// interval is the loop period.
	interval time.Duration
	// framer is shared with the link producers.
	framer *framer.Framer
	// presses counts mute presses not yet applied.
	presses atomic.Uint32
	// snapshot is the last published view.
	snapshot atomic.Pointer[Snapshot]
	// observer is notified of state changes.
	observer func(alarm.State)

	// Loop-owned fields.
	state     alarm.State
	scheduler *annunciation.Scheduler
	presenter *presenter.Presenter
	step      annunciation.Step
	redraw    bool
	accepted  uint64
	rejected  uint64
	faults    uint64
}

// New creates a controller. The scheduler starts its pattern at the first tick.
func New(
	clock clockwork.Clock,
	receiver *framer.Framer,
	scheduler *annunciation.Scheduler,
	output *presenter.Presenter,
	opts ...Option,
) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	c := &Controller{
		clock:     clock,
		interval:  DefaultLoopInterval,
		framer:    receiver,
		scheduler: scheduler,
		presenter: output,
		redraw:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.scheduler.Restart(clock.Now())
	c.publish(clock.Now())

	return c
}

// ReceiveByte hands one link byte to the framer. It is safe to call from any goroutine.
func (c *Controller) ReceiveByte(b byte) error {
	return c.framer.OnByteReceived(b)
}

// PressMute records a mute button press. It is safe to call from any
// goroutine; the press is applied on the next tick.
func (c *Controller) PressMute() {
	c.presses.Add(1)
}

// Snapshot returns the view published by the last tick.
func (c *Controller) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Run ticks every loop interval until the context is done, then leaves the
// lights dark and the buzzer silent.
func (c *Controller) Run(ctx context.Context) error {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	logger.InfoKV(ctx, "Control loop started",
		"interval", c.interval,
		"level", c.state.Level,
		"muted", c.state.Muted,
	)

	c.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			c.shutdown(context.WithoutCancel(ctx))

			return nil
		case <-ticker.Chan():
			c.Tick(ctx)
		}
	}
}

// Tick runs one pass of the control loop. It must only be called from the loop goroutine.
func (c *Controller) Tick(ctx context.Context) {
	now := c.clock.Now()

	if err := c.framer.ExpireStale(now); err != nil {
		logger.WarnKV(ctx, "Partial frame discarded", "error", err)
	}

	if frame, ok := c.framer.Take(); ok {
		c.applyFrame(ctx, &frame, now)
	}

	if presses := c.presses.Swap(0); presses > 0 {
		c.applyPresses(ctx, presses, now)
	}

	c.step = c.scheduler.Evaluate(now, c.state.Level, c.state.Muted)

	err := c.presenter.Annunciate(ctx, c.step)

	if c.redraw {
		displayErr := c.presenter.ShowStatus(ctx, &c.state)
		if displayErr == nil {
			c.redraw = false
		}

		err = errors.Join(err, displayErr)
	}

	if err != nil {
		c.faults++
	}

	c.publish(now)
}

// applyFrame decodes a taken frame and updates the state. Rejected frames
// leave the state untouched.
func (c *Controller) applyFrame(ctx context.Context, frame *protocol.Frame, now time.Time) {
	event, err := protocol.Decode(frame)
	if err != nil {
		c.rejected++

		logger.WarnKV(ctx, "Frame rejected", "level_code", frame.LevelCode(), "error", err)

		return
	}

	c.accepted++

	logger.InfoKV(ctx, "Frame received", "level", event.Level, "message", event.Message)

	previousMessage := c.state.Message

	previous := c.state.Update(event, now)
	if previous != event.Level {
		c.scheduler.Restart(now)

		logger.InfoKV(ctx, "Alarm level changed", "from", previous, "to", event.Level)
	}

	if previous != event.Level || previousMessage != event.Message {
		c.redraw = true
		c.notify()
	}
}

// applyPresses toggles mute once per press and restarts the pattern.
func (c *Controller) applyPresses(ctx context.Context, presses uint32, now time.Time) {
	for range presses {
		c.state.ToggleMute()
	}

	c.scheduler.Restart(now)
	c.redraw = true

	logger.InfoKV(ctx, "Mute toggled",
		"presses", presses,
		"muted", c.state.Muted,
		"level", c.state.Level,
		"message", c.state.Message,
	)

	c.notify()
}

// notify hands a copy of the state to the observer.
func (c *Controller) notify() {
	if c.observer != nil {
		c.observer(c.state)
	}
}

// publish stores a fresh snapshot.
func (c *Controller) publish(now time.Time) {
	c.snapshot.Store(&Snapshot{
		TakenAt:         now,
		State:           c.state,
		Step:            c.step,
		Link:            c.framer.Stats(),
		FramesAccepted:  c.accepted,
		FramesRejected:  c.rejected,
		PresenterFaults: c.faults,
	})
}

// shutdown turns every output off, rewriting channels the cache believes are already dark.
func (c *Controller) shutdown(ctx context.Context) {
	c.presenter.Invalidate()

	if err := c.presenter.Annunciate(ctx, annunciation.Step{}); err != nil {
		logger.WarnKV(ctx, "Unable to darken outputs", "error", err)
	}

	logger.Info(ctx, "Control loop stopped")
}
