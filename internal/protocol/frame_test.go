package protocol

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/annunciator/internal/domain/alarm"
)

// TestDecode_StopsAtNUL decodes the reference frame [3, 'H', 'I', 0, ...].
func TestDecode_StopsAtNUL(t *testing.T) {
	t.Parallel()

	var f Frame
	f[0], f[1], f[2] = 3, 'H', 'I'

	event, err := Decode(&f)
	require.NoError(t, err)
	require.Equal(t, alarm.LevelWarning, event.Level)
	require.Equal(t, "HI", event.Message)
}

// TestDecode_FullLengthMessage verifies a message without NUL uses the whole payload.
func TestDecode_FullLengthMessage(t *testing.T) {
	t.Parallel()

	var f Frame
	f[0] = byte(alarm.LevelPanic)
	copy(f[1:], strings.Repeat("x", MaxMessageLen))

	event, err := Decode(&f)
	require.NoError(t, err)
	require.Len(t, event.Message, MaxMessageLen)
}

// TestDecode_InvalidUTF8 verifies stray high bytes are replaced so the message stays valid UTF-8.
func TestDecode_InvalidUTF8(t *testing.T) {
	t.Parallel()

	var f Frame
	copy(f[:], []byte{3, 'H', 0xff, 'I'})

	event, err := Decode(&f)
	require.NoError(t, err)
	require.Equal(t, alarm.LevelWarning, event.Level)
	require.Equal(t, "H\uFFFDI", event.Message)
	require.True(t, utf8.ValidString(event.Message))

	// Multi-byte text passes through untouched.
	copy(f[1:], "Тревога")

	event, err = Decode(&f)
	require.NoError(t, err)
	require.Equal(t, "Тревога", event.Message)
}

// TestDecode_InvalidLevel verifies out-of-range level codes are rejected.
func TestDecode_InvalidLevel(t *testing.T) {
	t.Parallel()

	for _, code := range []byte{byte(alarm.NumLevels), 0x7f, 0xff} {
		var f Frame
		f[0] = code

		_, err := Decode(&f)
		require.ErrorIs(t, err, ErrInvalidLevel)
	}
}

// TestEncode verifies encoding, padding and validation.
func TestEncode(t *testing.T) {
	t.Parallel()

	f, err := Encode(alarm.Event{Level: alarm.LevelProblem, Message: "DOOR"})
	require.NoError(t, err)
	require.Equal(t, byte(2), f.LevelCode())
	require.Equal(t, "DOOR", string(f[1:5]))
	require.Zero(t, f[5])

	event, err := Decode(&f)
	require.NoError(t, err)
	require.Equal(t, "DOOR", event.Message)

	_, err = Encode(alarm.Event{Level: alarm.Level(42)})
	require.ErrorIs(t, err, ErrInvalidLevel)

	_, err = Encode(alarm.Event{Message: strings.Repeat("y", MaxMessageLen+1)})
	require.ErrorIs(t, err, ErrMessageTooLong)
}
