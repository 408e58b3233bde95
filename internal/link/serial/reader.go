package serial

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oshokin/annunciator/internal/logger"
)

// Sink receives link bytes one at a time. A non-nil error means the byte was
// dropped; the reader only counts and logs it.
type Sink func(b byte) error

// Reader pumps bytes from a port into a sink.
type Reader struct {
	// port is the open link.
	port Port
	// sink is called once per received byte.
	sink Sink
	// buf is reused across reads.
	buf [64]byte
}

// NewReader creates a reader over an open port.
func NewReader(port Port, sink Sink) *Reader {
	return &Reader{
		port: port,
		sink: sink,
	}
}

// Run reads until ctx is done or the port fails. The port is closed on return.
// A zero-length read is a read timeout and is not an error.
func (r *Reader) Run(ctx context.Context) error {
	defer func() {
		_ = r.port.Close()
	}()

	// Closing the port unblocks a pending read on cancellation.
	stop := context.AfterFunc(ctx, func() {
		_ = r.port.Close()
	})
	defer stop()

	var dropping bool

	for {
		n, err := r.port.Read(r.buf[:])

		for _, b := range r.buf[:n] {
			sinkErr := r.sink(b)

			switch {
			case sinkErr != nil && !dropping:
				logger.DebugKV(ctx, "Dropping link bytes", "reason", sinkErr)

				dropping = true
			case sinkErr == nil:
				dropping = false
			}
		}

		if ctx.Err() != nil {
			return nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info(ctx, "Serial link closed by peer")

				return nil
			}

			return fmt.Errorf("read serial link: %w", err)
		}
	}
}
