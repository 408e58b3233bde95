package alarm

import "time"

// Event is an alarm notification decoded from a received frame.
type Event struct {
	// Level is the requested severity.
	Level Level
	// Message is the text sent along with the level.
	Message string
}

// State represents what the unit is currently annunciating.
type State struct {
	// UpdatedAt is when the level or message was last applied.
	UpdatedAt time.Time
	// Message is the text of the last applied event.
	Message string
	// Level is the current severity.
	Level Level
	// Muted suppresses the audible part of the annunciation.
	Muted bool
}

// Update applies the event and returns the level that was current before.
// Callers decide whether to restart the annunciation pattern by comparing the
// returned level with event.Level. Applying the same event twice leaves the
// state unchanged after the first application.
func (s *State) Update(event Event, at time.Time) Level {
	previous := s.Level

	if s.Level != event.Level || s.Message != event.Message {
		s.UpdatedAt = at
	}

	s.Level = event.Level
	s.Message = event.Message

	return previous
}

// ToggleMute flips the mute flag and returns the new value.
func (s *State) ToggleMute() bool {
	s.Muted = !s.Muted

	return s.Muted
}

// Clone returns a copy of the state that can be handed to other goroutines.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}
