package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Level is the alarm severity, ordered from LevelOK (nothing to report)
// up to LevelPanic (most severe).
type Level uint8

const (
	// LevelOK means there is no alarm.
	LevelOK Level = iota
	// LevelInform is an informational notice.
	LevelInform
	// LevelProblem signals a problem that needs attention soon.
	LevelProblem
	// LevelWarning signals a developing dangerous condition.
	LevelWarning
	// LevelCritical signals a condition that needs immediate action.
	LevelCritical
	// LevelPanic is the most severe level.
	LevelPanic
)

// NumLevels is the number of declared levels; valid codes are 0..NumLevels-1.
const NumLevels = int(LevelPanic) + 1

// errUnknownLevel is returned when a level name or code cannot be parsed.
var errUnknownLevel = errors.New("unknown alarm level")

//nolint:gochecknoglobals // Read-only lookup table.
var levelNames = [NumLevels]string{
	"OK",
	"INFORM",
	"PROBLEM",
	"WARNING",
	"CRITICAL",
	"PANIC",
}

// Valid reports whether the level is within the declared range.
func (l Level) Valid() bool {
	return int(l) < NumLevels
}

// String returns the display name of the level.
func (l Level) String() string {
	if !l.Valid() {
		return "LEVEL(" + strconv.Itoa(int(l)) + ")"
	}

	return levelNames[l]
}

// ParseLevel accepts either a numeric code ("3") or a case-insensitive
// level name ("warning").
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)

	if code, err := strconv.ParseUint(s, 10, 8); err == nil {
		if l := Level(code); l.Valid() {
			return l, nil
		}

		return 0, fmt.Errorf("%w: code %s", errUnknownLevel, s)
	}

	for i, name := range levelNames {
		if strings.EqualFold(name, s) {
			return Level(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errUnknownLevel, s)
}
