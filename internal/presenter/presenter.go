package presenter

import (
	"context"
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/oshokin/annunciator/internal/annunciation"
	"github.com/oshokin/annunciator/internal/domain/alarm"
	"github.com/oshokin/annunciator/internal/logger"
)

// ErrPresenterFailure wraps errors reported by a collaborator.
var ErrPresenterFailure = errors.New("presenter failure")

// channel names a collaborator for fault tracking.
type channel string

const (
	channelLights  channel = "lights"
	channelTone    channel = "tone"
	channelDisplay channel = "display"
)

// lightCache remembers what a light was last set to.
type lightCache struct {
	known bool
	on    bool
}

// Presenter drives the collaborators from scheduler output.
// It belongs to the control loop and is not safe for concurrent use.
type Presenter struct {
	// lights, buzzer and display are the output collaborators.
	lights  LightBank
	buzzer  Buzzer
	display Display
	// rows and cols describe the display grid.
	rows, cols int

	// lightState caches the last successful output per light.
	lightState []lightCache
	// toneKnown and tone cache the last successful tone directive.
	toneKnown bool
	tone      int
	// faulted tracks which channels are currently failing.
	faulted map[channel]bool
}

// New creates a presenter for a rows x cols display.
func New(lights LightBank, buzzer Buzzer, display Display, rows, cols int) *Presenter {
	return &Presenter{
		lights:     lights,
		buzzer:     buzzer,
		display:    display,
		rows:       rows,
		cols:       cols,
		lightState: make([]lightCache, lights.Len()),
		faulted:    make(map[channel]bool, 3),
	}
}

// NumLights returns the size of the light bank.
func (p *Presenter) NumLights() int {
	return len(p.lightState)
}

// Annunciate shows one step: lights [0, LightCount) on and the rest off, and
// the tone selected by ToneIndex. Channels that fail are reported in the
// returned error and retried on the next call.
func (p *Presenter) Annunciate(ctx context.Context, step annunciation.Step) error {
	return errors.Join(
		p.track(ctx, channelLights, p.setLights(step.LightCount)),
		p.track(ctx, channelTone, p.setTone(step.ToneIndex)),
	)
}

// ShowStatus redraws the display for the state. The backlight is off while
// there is no alarm.
func (p *Presenter) ShowStatus(ctx context.Context, state *alarm.State) error {
	lines := Layout(state, p.rows, p.cols)

	return p.track(ctx, channelDisplay, p.display.Render(lines, state.Level != alarm.LevelOK))
}

// ShowSplash draws the start-up screen.
func (p *Presenter) ShowSplash(ctx context.Context, lines []string) error {
	return p.track(ctx, channelDisplay, p.display.Render(lines, true))
}

// Invalidate forgets cached output so the next Annunciate rewrites every
// light and the tone.
func (p *Presenter) Invalidate() {
	clear(p.lightState)
	p.toneKnown = false
}

// setLights applies the thermometer code for count lights.
func (p *Presenter) setLights(count int) error {
	count = max(0, min(count, len(p.lightState)))

	var errs []error

	for i := range p.lightState {
		want := i < count

		cached := p.lightState[i]
		if cached.known && cached.on == want {
			continue
		}

		if err := p.lights.Set(i, want); err != nil {
			p.lightState[i] = lightCache{}
			errs = append(errs, fmt.Errorf("light %d: %w", i, err))

			continue
		}

		p.lightState[i] = lightCache{known: true, on: want}
	}

	return errors.Join(errs...)
}

// setTone emits the tone directive unless it is already playing.
func (p *Presenter) setTone(index int) error {
	if p.toneKnown && p.tone == index {
		return nil
	}

	var err error

	if freq := Frequency(index); freq > 0 {
		err = p.buzzer.Tone(freq)
	} else {
		err = p.buzzer.Silence()
		if err == nil && index != 0 {
			err = fmt.Errorf("tone index %d out of range, silenced", index)
		}
	}

	p.toneKnown = err == nil
	p.tone = index

	return err
}

// track logs fault transitions for a channel and wraps the error.
func (p *Presenter) track(ctx context.Context, ch channel, err error) error {
	if err == nil {
		if p.faulted[ch] {
			logger.InfoKV(ctx, "Output channel recovered", "channel", ch)
			p.faulted[ch] = false
		}

		return nil
	}

	if !p.faulted[ch] {
		logger.WarnKV(ctx, "Output channel failed, continuing without it", "channel", ch, "error", err)
		p.faulted[ch] = true
	}

	return fmt.Errorf("%w: %s: %w", ErrPresenterFailure, ch, err)
}

// Frequency returns the frequency for a tone index, or zero for silence and
// unknown indexes.
func Frequency(index int) physic.Frequency {
	if index <= 0 || index >= len(ToneFrequencies) {
		return 0
	}

	return ToneFrequencies[index]
}
