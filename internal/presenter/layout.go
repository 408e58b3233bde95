package presenter

import (
	"strconv"

	"github.com/oshokin/annunciator/internal/domain/alarm"
)

const (
	// DefaultRows and DefaultCols describe the stock 20x4 LCD.
	DefaultRows = 4
	DefaultCols = 20

	// shortMessageLen is the length below which a header row is printed
	// above the message.
	shortMessageLen = 9
)

// Layout renders the state onto a rows x cols grid. The first row shows the
// level, short messages get a "MSG" header row, and long messages wrap over
// the remaining rows and are cut off when the grid is full.
func Layout(state *alarm.State, rows, cols int) []string {
	lines := make([]string, rows)
	if rows == 0 || cols == 0 {
		return lines
	}

	lines[0] = fit("LVL: "+strconv.Itoa(int(state.Level))+" - "+state.Level.String(), cols)

	if rows == 1 {
		return lines
	}

	var (
		message   = state.Message
		firstLine = 1
	)

	if len(message) < shortMessageLen {
		header := "MSG:  "
		if state.Muted {
			header = "MUTED! MSG:"
		}

		if message == "" {
			header += "None."
		}

		lines[1] = fit(header, cols)
		firstLine = 2
	}

	for row := firstLine; row < rows && message != ""; row++ {
		n := min(cols, len(message))
		lines[row] = message[:n]
		message = message[n:]
	}

	return lines
}

// Splash returns the start-up screen: model, unit name indented under it,
// and the firmware version.
func Splash(model, unit, version string, cols int) []string {
	return []string{
		fit(model, cols),
		fit("   "+unit, cols),
		fit("Firmware "+version, cols),
		"",
	}
}

// fit truncates s to the grid width.
func fit(s string, cols int) string {
	if len(s) > cols {
		return s[:cols]
	}

	return s
}
