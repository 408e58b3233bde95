package hardware

import (
	"strings"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
)

// ConsoleLights is a light bank that reports its state on the diagnostic stream.
type ConsoleLights struct {
	log *zap.SugaredLogger
	on  []bool
}

// NewConsoleLights creates n lights, all off.
func NewConsoleLights(log *zap.SugaredLogger, n int) *ConsoleLights {
	return &ConsoleLights{
		log: log,
		on:  make([]bool, n),
	}
}

// Len returns the number of lights.
func (c *ConsoleLights) Len() int {
	return len(c.on)
}

// Set switches one light and logs the whole bank, e.g. "###--".
func (c *ConsoleLights) Set(index int, on bool) error {
	if index < 0 || index >= len(c.on) {
		return errLightIndex
	}

	c.on[index] = on

	var b strings.Builder
	for _, lit := range c.on {
		if lit {
			b.WriteByte('#')
		} else {
			b.WriteByte('-')
		}
	}

	c.log.Debugw("Lights", "bank", b.String())

	return nil
}

// ConsoleBuzzer logs tone directives.
type ConsoleBuzzer struct {
	log *zap.SugaredLogger
}

// NewConsoleBuzzer creates a logging buzzer.
func NewConsoleBuzzer(log *zap.SugaredLogger) *ConsoleBuzzer {
	return &ConsoleBuzzer{log: log}
}

// Tone logs the frequency.
func (c *ConsoleBuzzer) Tone(f physic.Frequency) error {
	c.log.Debugw("Tone", "frequency", f.String())

	return nil
}

// Silence logs silence.
func (c *ConsoleBuzzer) Silence() error {
	c.log.Debug("Tone off")

	return nil
}

// ConsoleDisplay prints each screen on the diagnostic stream.
type ConsoleDisplay struct {
	log *zap.SugaredLogger
}

// NewConsoleDisplay creates a logging display.
func NewConsoleDisplay(log *zap.SugaredLogger) *ConsoleDisplay {
	return &ConsoleDisplay{log: log}
}

// Render logs the screen rows.
func (c *ConsoleDisplay) Render(lines []string, backlight bool) error {
	c.log.Infow("Display", "rows", lines, "backlight", backlight)

	return nil
}
