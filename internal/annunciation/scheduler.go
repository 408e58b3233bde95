package annunciation

import (
	"fmt"
	"time"

	"github.com/oshokin/annunciator/internal/domain/alarm"
)

// Step is the output of one evaluation.
type Step struct {
	// Index is the position within the pattern period.
	Index int
	// LightCount is how many lights, from index 0 upwards, must be on.
	LightCount int
	// ToneIndex selects the tone frequency; 0 means silence.
	ToneIndex int
}

// Scheduler replays a PatternTable against the wall clock.
type Scheduler struct {
	// table is the static pattern configuration.
	table PatternTable
	// patternStart is when the current period began.
	patternStart time.Time
}

// NewScheduler validates the table and starts the first pattern at now.
func NewScheduler(table PatternTable, numLights, numTones int, now time.Time) (*Scheduler, error) {
	if err := table.Validate(numLights, numTones); err != nil {
		return nil, fmt.Errorf("validate patterns: %w", err)
	}

	return &Scheduler{
		table:        table,
		patternStart: now,
	}, nil
}

// Restart makes the next evaluation begin at step zero.
func (s *Scheduler) Restart(now time.Time) {
	s.patternStart = now
}

// Evaluate returns the step due at now. The step index is
// floor(t/StepDuration) mod StepCount for t since the last restart; the
// period start is advanced by whole periods so the pattern never drifts.
// An invalid level yields a dark, silent step.
func (s *Scheduler) Evaluate(now time.Time, level alarm.Level, muted bool) Step {
	elapsed := now.Sub(s.patternStart)
	if elapsed < 0 {
		// The clock went backwards; start over rather than index with a negative step.
		s.patternStart = now
		elapsed = 0
	}

	if period := s.table.Period(); elapsed >= period {
		wraps := elapsed / period
		s.patternStart = s.patternStart.Add(wraps * period)
		elapsed -= wraps * period
	}

	index := int(elapsed / s.table.StepDuration)
	if !level.Valid() {
		return Step{Index: index}
	}

	step := Step{
		Index:      index,
		LightCount: int(s.table.Lights[level][index]),
	}

	if !muted {
		step.ToneIndex = int(s.table.Tones[level][index])
	}

	return step
}
