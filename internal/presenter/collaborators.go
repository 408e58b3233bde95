package presenter

import "periph.io/x/conn/v3/physic"

// LightBank is a row of independent on/off lights addressed by index.
type LightBank interface {
	// Len returns the number of lights.
	Len() int
	// Set switches one light.
	Set(index int, on bool) error
}

// Buzzer plays a continuous tone until told otherwise.
type Buzzer interface {
	// Tone starts a continuous tone at f, replacing any current tone.
	Tone(f physic.Frequency) error
	// Silence stops the tone.
	Silence() error
}

// Display is a character grid.
type Display interface {
	// Render replaces the whole screen with lines, one per row.
	Render(lines []string, backlight bool) error
}

// ToneFrequencies maps tone indexes from the pattern tables to frequencies.
// Index 0 is silence.
//
//nolint:gochecknoglobals // Static configuration.
var ToneFrequencies = []physic.Frequency{
	0,
	128 * physic.Hertz,
	256 * physic.Hertz,
	512 * physic.Hertz,
	1024 * physic.Hertz,
	2048 * physic.Hertz,
}
