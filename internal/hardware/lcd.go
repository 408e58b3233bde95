package hardware

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// DefaultLCDAddress is the usual address of a PCF8574 LCD backpack.
const DefaultLCDAddress = 0x27

// PCF8574 port bits as wired on the common LCD backpacks.
const (
	pinRS        byte = 0x01
	pinEnable    byte = 0x04
	pinBacklight byte = 0x08
)

// HD44780 commands.
const (
	cmdClear        byte = 0x01
	cmdEntryMode    byte = 0x06 // Increment, no shift.
	cmdDisplayOn    byte = 0x0C // Display on, cursor and blink off.
	cmdFunctionSet  byte = 0x28 // 4-bit bus, two logical lines, 5x8 font.
	cmdSetDDRAMAddr byte = 0x80
)

// rowOffsets are the DDRAM addresses of each row on 20x4 and 16x2 modules.
//
//nolint:gochecknoglobals // Fixed by the controller.
var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

var errLCDGeometry = errors.New("unsupported LCD geometry")

// LCD is an HD44780 character display driven in 4-bit mode through a
// PCF8574 I2C port expander.
type LCD struct {
	// dev is the backpack on the I2C bus.
	dev *i2c.Dev
	// closer releases the bus when the LCD was opened by name.
	closer func() error
	// rows and cols describe the grid.
	rows, cols int
	// backlight is the current backlight bit.
	backlight byte
}

// OpenLCD opens the named I2C bus (empty for the first one) and initialises
// the display at addr.
func OpenLCD(busName string, addr uint16, rows, cols int) (*LCD, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", busName, err)
	}

	lcd, err := NewLCD(bus, addr, rows, cols)
	if err != nil {
		_ = bus.Close()

		return nil, err
	}

	lcd.closer = bus.Close

	return lcd, nil
}

// NewLCD initialises the display on an already opened bus.
func NewLCD(bus i2c.Bus, addr uint16, rows, cols int) (*LCD, error) {
	if rows <= 0 || rows > len(rowOffsets) || cols <= 0 || cols > 40 {
		return nil, fmt.Errorf("%w: %dx%d", errLCDGeometry, cols, rows)
	}

	lcd := &LCD{
		dev:  &i2c.Dev{Bus: bus, Addr: addr},
		rows: rows,
		cols: cols,
	}

	if err := lcd.init(); err != nil {
		return nil, fmt.Errorf("initialize LCD at %#x: %w", addr, err)
	}

	return lcd, nil
}

// Close releases the bus if OpenLCD acquired it.
func (l *LCD) Close() error {
	if l.closer == nil {
		return nil
	}

	return l.closer()
}

// Clear blanks the screen and turns the backlight off.
func (l *LCD) Clear() error {
	l.backlight = 0

	if err := l.command(cmdClear); err != nil {
		return err
	}

	time.Sleep(2 * time.Millisecond)

	return nil
}

// Render writes every row, padding with spaces so stale characters are
// overwritten without a flickering clear.
func (l *LCD) Render(lines []string, backlight bool) error {
	l.backlight = 0
	if backlight {
		l.backlight = pinBacklight
	}

	for row := range l.rows {
		var line string
		if row < len(lines) {
			line = lines[row]
		}

		if err := l.writeRow(row, line); err != nil {
			return fmt.Errorf("write LCD row %d: %w", row, err)
		}
	}

	return nil
}

// init runs the HD44780 4-bit initialisation by instruction.
func (l *LCD) init() error {
	time.Sleep(50 * time.Millisecond)

	// Three times 8-bit function set, then switch to 4-bit.
	for _, wait := range []time.Duration{4500 * time.Microsecond, 4500 * time.Microsecond, 150 * time.Microsecond} {
		if err := l.writeNibbles(0x30); err != nil {
			return err
		}

		time.Sleep(wait)
	}

	if err := l.writeNibbles(0x20); err != nil {
		return err
	}

	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOn, cmdEntryMode} {
		if err := l.command(cmd); err != nil {
			return err
		}
	}

	return l.Clear()
}

// writeRow positions the cursor at the start of row and writes cols characters.
func (l *LCD) writeRow(row int, line string) error {
	buf := make([]byte, 0, 4*(l.cols+1))
	buf = l.appendByte(buf, cmdSetDDRAMAddr|rowOffsets[row], 0)

	for col := range l.cols {
		c := byte(' ')
		if col < len(line) {
			c = line[col]
		}

		buf = l.appendByte(buf, c, pinRS)
	}

	_, err := l.dev.Write(buf)

	return err
}

// command sends one instruction byte.
func (l *LCD) command(cmd byte) error {
	_, err := l.dev.Write(l.appendByte(nil, cmd, 0))

	return err
}

// writeNibbles sends only the high nibble of b, used during initialisation.
func (l *LCD) writeNibbles(b byte) error {
	_, err := l.dev.Write(l.appendNibble(nil, b&0xF0, 0))

	return err
}

// appendByte appends the expander writes for one byte: high nibble then low nibble.
func (l *LCD) appendByte(buf []byte, b, mode byte) []byte {
	buf = l.appendNibble(buf, b&0xF0, mode)

	return l.appendNibble(buf, (b<<4)&0xF0, mode)
}

// appendNibble appends one enable pulse latching nibble (already in the high bits).
func (l *LCD) appendNibble(buf []byte, nibble, mode byte) []byte {
	v := nibble | mode | l.backlight

	return append(buf, v|pinEnable, v)
}
