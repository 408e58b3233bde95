package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/annunciator/internal/domain/alarm"
)

const (
	// MaxMessageLen is the number of message bytes carried by a frame.
	MaxMessageLen = 80
	// FrameSize is the total frame length: one level byte plus the message.
	FrameSize = 1 + MaxMessageLen
)

// replacementChar stands in for message bytes that are not valid UTF-8.
const replacementChar = "\uFFFD"

// Frame is one complete wire frame.
type Frame [FrameSize]byte

var (
	// ErrInvalidLevel is returned when the level byte is outside the declared range.
	ErrInvalidLevel = errors.New("invalid level code")
	// ErrMessageTooLong is returned when a message does not fit into a frame.
	ErrMessageTooLong = errors.New("message too long")
)

// LevelCode returns the raw level byte without validating it.
func (f *Frame) LevelCode() byte {
	return f[0]
}

// Decode validates the level byte and extracts the message text.
// The raw level byte is never used before it is checked against the range.
// Bytes that are not valid UTF-8 become U+FFFD so the message can always be
// reported and persisted.
func Decode(f *Frame) (alarm.Event, error) {
	level := alarm.Level(f[0])
	if !level.Valid() {
		return alarm.Event{}, fmt.Errorf("%w: %d", ErrInvalidLevel, f[0])
	}

	message := f[1:]
	if end := bytes.IndexByte(message, 0); end >= 0 {
		message = message[:end]
	}

	return alarm.Event{
		Level:   level,
		Message: strings.ToValidUTF8(string(message), replacementChar),
	}, nil
}

// Encode builds a frame for the event, padding the message with NUL bytes.
func Encode(event alarm.Event) (Frame, error) {
	var f Frame

	if !event.Level.Valid() {
		return f, fmt.Errorf("%w: %d", ErrInvalidLevel, event.Level)
	}

	if len(event.Message) > MaxMessageLen {
		return f, fmt.Errorf("%w: %d bytes, at most %d", ErrMessageTooLong, len(event.Message), MaxMessageLen)
	}

	f[0] = byte(event.Level)
	copy(f[1:], event.Message)

	return f, nil
}
