package framer

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/annunciator/internal/protocol"
	"github.com/oshokin/annunciator/internal/syncutil"
)

// DefaultByteTimeout is how long a partial frame may wait for its next byte.
const DefaultByteTimeout = 200 * time.Millisecond

var (
	// ErrFrameOverrun is returned for a byte that arrived while a completed
	// frame was still waiting to be taken. The byte is dropped.
	ErrFrameOverrun = errors.New("frame overrun")
	// ErrStaleFrame is returned when a partial frame is discarded after the byte timeout.
	ErrStaleFrame = errors.New("stale partial frame")
)

// Cursor tracks the frame being assembled.
// Ready is true exactly when WriteIndex equals the frame capacity.
type Cursor struct {
	// LastByte is when the most recent byte arrived.
	LastByte time.Time
	// WriteIndex is where the next byte will be stored.
	WriteIndex int
	// Ready marks a complete frame waiting to be taken.
	Ready bool
}

// Stats are running counters since the framer was created.
type Stats struct {
	// Frames is the number of frames completed.
	Frames uint64
	// DroppedBytes counts bytes dropped because a frame was already waiting.
	DroppedBytes uint64
	// StaleFrames counts partial frames discarded after the byte timeout.
	StaleFrames uint64
}

// Framer accumulates bytes into a protocol.Frame.
type Framer struct {
	// clock stamps byte arrivals.
	clock clockwork.Clock
	// byteTimeout bounds the gap between two bytes of one frame.
	byteTimeout time.Duration

	// mu guards everything below; it is held for a few instructions only.
	mu     syncutil.Mutex
	buffer protocol.Frame
	cursor Cursor
	stats  Stats
}

// New creates a framer. A non-positive timeout selects DefaultByteTimeout.
func New(clock clockwork.Clock, byteTimeout time.Duration) *Framer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	if byteTimeout <= 0 {
		byteTimeout = DefaultByteTimeout
	}

	return &Framer{
		clock:       clock,
		byteTimeout: byteTimeout,
	}
}

// OnByteReceived stores one byte. It never blocks beyond the short critical
// section and never allocates. ErrFrameOverrun is returned when the byte was
// dropped because a completed frame has not been taken yet.
func (f *Framer) OnByteReceived(b byte) error {
	now := f.clock.Now()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.cursor.LastByte = now

	if f.cursor.Ready || f.cursor.WriteIndex >= len(f.buffer) {
		f.stats.DroppedBytes++

		return ErrFrameOverrun
	}

	f.buffer[f.cursor.WriteIndex] = b
	f.cursor.WriteIndex++

	if f.cursor.WriteIndex == len(f.buffer) {
		f.cursor.Ready = true
		f.stats.Frames++
	}

	return nil
}

// ExpireStale discards a partial frame whose last byte is older than the
// byte timeout. It returns ErrStaleFrame when something was discarded.
func (f *Framer) ExpireStale(now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	partial := f.cursor.WriteIndex > 0 && !f.cursor.Ready
	if !partial || now.Sub(f.cursor.LastByte) <= f.byteTimeout {
		return nil
	}

	discarded := f.cursor.WriteIndex
	f.reset()
	f.stats.StaleFrames++

	return fmt.Errorf("%w: %d of %d bytes discarded", ErrStaleFrame, discarded, protocol.FrameSize)
}

// Take returns the completed frame, if any, and empties the slot in the same
// critical section so a concurrent writer observes the cursor either before
// or after the reset, never in between.
func (f *Framer) Take() (protocol.Frame, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.cursor.Ready {
		return protocol.Frame{}, false
	}

	frame := f.buffer
	f.reset()

	return frame, true
}

// Cursor returns a snapshot of the assembly cursor.
func (f *Framer) Cursor() Cursor {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cursor
}

// Stats returns a snapshot of the counters.
func (f *Framer) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stats
}

// reset empties the slot. The caller holds mu.
func (f *Framer) reset() {
	f.cursor.WriteIndex = 0
	f.cursor.Ready = false
	f.buffer = protocol.Frame{}
}
