package annunciation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/annunciator/internal/domain/alarm"
)

const testNumTones = 6

// newTestScheduler builds a scheduler over the default table starting at start.
func newTestScheduler(t *testing.T, start time.Time) *Scheduler {
	t.Helper()

	s, err := NewScheduler(DefaultTable(), DefaultNumLights, testNumTones, start)
	require.NoError(t, err)

	return s
}

// TestScheduler_StepFormula checks stepIndex = floor(t/d) mod count over several periods.
func TestScheduler_StepFormula(t *testing.T) {
	t.Parallel()

	var (
		start = time.Unix(1000, 0)
		s     = newTestScheduler(t, start)
		table = DefaultTable()
	)

	for elapsed := time.Duration(0); elapsed < 3*table.Period(); elapsed += 37 * time.Millisecond {
		step := s.Evaluate(start.Add(elapsed), alarm.LevelPanic, false)

		want := int(elapsed/table.StepDuration) % table.StepCount()
		require.Equal(t, want, step.Index, "elapsed %s", elapsed)
		require.Equal(t, int(table.Lights[alarm.LevelPanic][want]), step.LightCount)
		require.Equal(t, int(table.Tones[alarm.LevelPanic][want]), step.ToneIndex)
	}
}

// TestScheduler_ExactPeriod verifies the pattern repeats exactly every period even with late polls.
func TestScheduler_ExactPeriod(t *testing.T) {
	t.Parallel()

	var (
		start  = time.Unix(0, 0)
		s      = newTestScheduler(t, start)
		table  = DefaultTable()
		period = table.Period()
	)

	// A late evaluation well past the first wrap.
	step := s.Evaluate(start.Add(period+730*time.Millisecond), alarm.LevelWarning, false)
	require.Equal(t, 1, step.Index)

	step = s.Evaluate(start.Add(5*period+250*time.Millisecond), alarm.LevelWarning, false)
	require.Zero(t, step.Index)

	step = s.Evaluate(start.Add(5*period+DefaultStepDuration), alarm.LevelWarning, false)
	require.Equal(t, 1, step.Index)
}

// TestScheduler_RestartResetsPhase verifies a restart always starts again at step zero.
func TestScheduler_RestartResetsPhase(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	s := newTestScheduler(t, start)

	mid := start.Add(7*DefaultStepDuration + 100*time.Millisecond)
	require.Equal(t, 7, s.Evaluate(mid, alarm.LevelProblem, false).Index)

	s.Restart(mid)

	step := s.Evaluate(mid, alarm.LevelWarning, false)
	require.Zero(t, step.Index)
	require.Equal(t, 3, step.LightCount)
	require.Equal(t, 3, step.ToneIndex)

	require.Equal(t, 1, s.Evaluate(mid.Add(DefaultStepDuration), alarm.LevelWarning, false).Index)
}

// TestScheduler_MuteSilencesToneOnly verifies muting never changes the lights.
func TestScheduler_MuteSilencesToneOnly(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)

	for level := range alarm.NumLevels {
		for index := range DefaultStepCount {
			at := start.Add(time.Duration(index) * DefaultStepDuration)

			loud := newTestScheduler(t, start).Evaluate(at, alarm.Level(level), false)
			quiet := newTestScheduler(t, start).Evaluate(at, alarm.Level(level), true)

			require.Equal(t, loud.LightCount, quiet.LightCount)
			require.Equal(t, loud.Index, quiet.Index)
			require.Zero(t, quiet.ToneIndex)
		}
	}
}

// TestScheduler_InvalidLevel verifies out-of-range levels never index the tables.
func TestScheduler_InvalidLevel(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	s := newTestScheduler(t, start)

	step := s.Evaluate(start.Add(time.Second), alarm.Level(200), false)
	require.Equal(t, Step{Index: 2}, step)
}

// TestScheduler_ClockBackwards verifies a clock step backwards restarts the pattern.
func TestScheduler_ClockBackwards(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)
	s := newTestScheduler(t, start)

	back := start.Add(-time.Second)

	step := s.Evaluate(back, alarm.LevelInform, false)
	require.Zero(t, step.Index)

	// The pattern now runs from the earlier time.
	step = s.Evaluate(back.Add(DefaultStepDuration), alarm.LevelInform, false)
	require.Equal(t, 1, step.Index)
}

// TestPatternTable_Validate rejects malformed tables.
func TestPatternTable_Validate(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	require.NoError(t, table.Validate(DefaultNumLights, testNumTones))
	require.Equal(t, 10*time.Second, table.Period())

	require.Error(t, table.Validate(3, testNumTones), "lights beyond the bank")
	require.Error(t, table.Validate(DefaultNumLights, 4), "tone index beyond the map")

	short := DefaultTable()
	short.Tones[2] = short.Tones[2][:5]
	require.Error(t, short.Validate(DefaultNumLights, testNumTones))

	missing := DefaultTable()
	missing.Lights = missing.Lights[:3]
	require.Error(t, missing.Validate(DefaultNumLights, testNumTones))

	zero := DefaultTable()
	zero.StepDuration = 0
	require.Error(t, zero.Validate(DefaultNumLights, testNumTones))

	_, err := NewScheduler(zero, DefaultNumLights, testNumTones, time.Now())
	require.Error(t, err)
}
