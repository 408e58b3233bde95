package serial

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the link speed when none is configured.
	DefaultBaudRate = 115200

	// readTimeout bounds a single read so the reader notices cancellation.
	readTimeout = 100 * time.Millisecond
)

// Port is the subset of a serial port the reader needs.
type Port interface {
	io.Reader
	io.Closer
}

// Open opens the named serial device in 8N1 mode with a short read timeout.
//
//nolint:ireturn // Callers only need the Port subset.
func Open(name string, baudRate int) (Port, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()

		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}

	return port, nil
}
