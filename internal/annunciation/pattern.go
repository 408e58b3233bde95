package annunciation

import (
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/annunciator/internal/domain/alarm"
)

const (
	// DefaultStepDuration is the length of one pattern step.
	DefaultStepDuration = 500 * time.Millisecond
	// DefaultStepCount is the number of steps in one pattern period.
	DefaultStepCount = 20
	// DefaultNumLights is the size of the light bank driven by the default tables.
	DefaultNumLights = 5
)

var errInvalidTable = errors.New("invalid pattern table")

// PatternTable holds the light and tone sequence for every level.
// Tones and Lights are indexed by [level][step] and must not be modified
// after the scheduler is created.
type PatternTable struct {
	// Tones holds tone indexes; 0 is silence.
	Tones [][]uint8
	// Lights holds how many lights are on, thermometer style.
	Lights [][]uint8
	// StepDuration is how long each step is shown.
	StepDuration time.Duration
}

// DefaultTable returns the stock patterns: one recognisable rhythm per level,
// twenty half-second steps for a ten-second period.
func DefaultTable() PatternTable {
	return PatternTable{
		StepDuration: DefaultStepDuration,
		Tones: [][]uint8{
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
			{2, 2, 0, 2, 2, 0, 0, 0, 0, 0, 2, 2, 2, 0, 2, 2, 0, 0, 0, 0},
			{3, 3, 3, 0, 3, 3, 3, 3, 0, 3, 3, 3, 0, 3, 3, 3, 0, 0, 0, 0},
			{4, 0, 4, 0, 4, 0, 4, 0, 0, 0, 4, 0, 4, 0, 4, 0, 4, 0, 0, 0},
			{4, 4, 2, 0, 4, 4, 2, 0, 4, 4, 2, 0, 4, 4, 2, 0, 4, 4, 2, 0},
		},
		Lights: [][]uint8{
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
			{2, 2, 0, 2, 2, 0, 0, 0, 0, 0, 2, 2, 2, 0, 2, 2, 0, 0, 0, 0},
			{3, 3, 3, 0, 3, 3, 3, 3, 0, 3, 3, 3, 0, 3, 3, 3, 0, 0, 0, 0},
			{4, 4, 4, 0, 4, 4, 4, 0, 0, 0, 4, 4, 4, 0, 4, 4, 4, 0, 0, 0},
			{0, 5, 0, 5, 0, 5, 0, 5, 0, 5, 0, 5, 0, 5, 0, 5, 0, 5, 0, 5},
		},
	}
}

// StepCount returns the number of steps per period.
func (t *PatternTable) StepCount() int {
	if len(t.Lights) == 0 {
		return 0
	}

	return len(t.Lights[0])
}

// Period returns the length of one full pattern.
func (t *PatternTable) Period() time.Duration {
	return time.Duration(t.StepCount()) * t.StepDuration
}

// Validate checks that the table covers every level with rows of equal
// length and that its values fit the light bank and the tone map.
func (t *PatternTable) Validate(numLights, numTones int) error {
	if t.StepDuration <= 0 {
		return fmt.Errorf("%w: step duration must be positive", errInvalidTable)
	}

	if len(t.Tones) != alarm.NumLevels || len(t.Lights) != alarm.NumLevels {
		return fmt.Errorf("%w: want %d levels, got %d tone and %d light rows",
			errInvalidTable, alarm.NumLevels, len(t.Tones), len(t.Lights))
	}

	steps := t.StepCount()
	if steps == 0 {
		return fmt.Errorf("%w: no steps", errInvalidTable)
	}

	for level := range alarm.NumLevels {
		if len(t.Tones[level]) != steps || len(t.Lights[level]) != steps {
			return fmt.Errorf("%w: level %d does not have %d steps", errInvalidTable, level, steps)
		}

		for step := range steps {
			if int(t.Lights[level][step]) > numLights {
				return fmt.Errorf("%w: level %d step %d lights %d > %d",
					errInvalidTable, level, step, t.Lights[level][step], numLights)
			}

			if int(t.Tones[level][step]) >= numTones {
				return fmt.Errorf("%w: level %d step %d tone index %d out of range",
					errInvalidTable, level, step, t.Tones[level][step])
			}
		}
	}

	return nil
}
