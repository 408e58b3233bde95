package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestStateUpdate verifies Update returns the previous level and is idempotent.
func TestStateUpdate(t *testing.T) {
	t.Parallel()

	var (
		s     State
		first = time.Unix(100, 0)
		later = time.Unix(200, 0)
		event = Event{Level: LevelWarning, Message: "HI"}
	)

	require.Equal(t, LevelOK, s.Update(event, first))
	require.Equal(t, LevelWarning, s.Level)
	require.Equal(t, "HI", s.Message)
	require.Equal(t, first, s.UpdatedAt)

	// Same event again: previous equals new level, timestamp untouched.
	require.Equal(t, LevelWarning, s.Update(event, later))
	require.Equal(t, first, s.UpdatedAt)

	// Same level, new message.
	require.Equal(t, LevelWarning, s.Update(Event{Level: LevelWarning, Message: "BYE"}, later))
	require.Equal(t, "BYE", s.Message)
	require.Equal(t, later, s.UpdatedAt)
}

// TestStateToggleMute verifies the mute flag flips and does not touch the level.
func TestStateToggleMute(t *testing.T) {
	t.Parallel()

	s := State{Level: LevelCritical}

	require.True(t, s.ToggleMute())
	require.False(t, s.ToggleMute())
	require.Equal(t, LevelCritical, s.Level)
}

// TestStateClone verifies that Clone returns an independent copy and handles nil safely.
func TestStateClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*State)(nil).Clone())

	s := &State{Level: LevelPanic, Message: "FIRE", Muted: true}
	c := s.Clone()

	require.Equal(t, s, c)
	require.NotSame(t, s, c)

	c.Muted = false
	require.True(t, s.Muted)
}

// TestLevel covers validation, names and parsing.
func TestLevel(t *testing.T) {
	t.Parallel()

	require.True(t, LevelPanic.Valid())
	require.False(t, Level(NumLevels).Valid())
	require.Equal(t, "WARNING", LevelWarning.String())
	require.Equal(t, "LEVEL(9)", Level(9).String())

	cases := map[string]Level{
		"0":        LevelOK,
		"3":        LevelWarning,
		"critical": LevelCritical,
		" Panic ":  LevelPanic,
	}
	for s, want := range cases {
		got, err := ParseLevel(s)
		require.NoError(t, err, s)
		require.Equal(t, want, got, s)
	}

	_, err := ParseLevel("6")
	require.Error(t, err)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
