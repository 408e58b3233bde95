package annunciator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/link/serial"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
)

var errNoDevice = errors.New("no such device")

// scriptedPort returns its data once and then blocks until closed.
type scriptedPort struct {
	mu     sync.Mutex
	data   []byte
	closed chan struct{}
	once   sync.Once
}

func newScriptedPort(data []byte) *scriptedPort {
	return &scriptedPort{
		data:   data,
		closed: make(chan struct{}),
	}
}

func (s *scriptedPort) Read(p []byte) (int, error) {
	s.mu.Lock()
	n := copy(p, s.data)
	s.data = s.data[n:]
	s.mu.Unlock()

	if n > 0 {
		return n, nil
	}

	<-s.closed

	return 0, io.ErrClosedPipe
}

func (s *scriptedPort) Close() error {
	s.once.Do(func() { close(s.closed) })

	return nil
}

// linkStatus asks the health server about the link.
func linkStatus(t *testing.T, healthServer *health.Server) healthgrpc.HealthCheckResponse_ServingStatus {
	t.Helper()

	response, err := healthServer.Check(context.Background(), &healthgrpc.HealthCheckRequest{Service: pb.LinkServiceName})
	require.NoError(t, err)

	return response.GetStatus()
}

// TestRunLink_RetriesAndDelivers checks that a failed open is retried and bytes reach the sink.
func TestRunLink_RetriesAndDelivers(t *testing.T) {
	t.Parallel()

	var (
		clock        = clockwork.NewFakeClock()
		healthServer = health.NewServer()
		port         = newScriptedPort([]byte{3, 'H', 'I'})
		received     = make(chan byte, 3)
		opens        int
	)

	open := func(string, int) (serial.Port, error) {
		opens++
		if opens == 1 {
			return nil, errNoDevice
		}

		return port, nil
	}

	sink := func(b byte) error {
		received <- b

		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		runLink(ctx, config.LinkConfig{Port: "/dev/ttyUSB0", BaudRate: config.DefaultBaudRate}, open, clock, sink, healthServer)
		close(done)
	}()

	// First attempt failed; wait for the retry timer and fire it.
	clock.BlockUntil(1)
	require.Equal(t, healthgrpc.HealthCheckResponse_NOT_SERVING, linkStatus(t, healthServer))
	clock.Advance(linkRetryInterval)

	for _, want := range []byte{3, 'H', 'I'} {
		select {
		case got := <-received:
			require.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("byte not delivered")
		}
	}

	require.Equal(t, healthgrpc.HealthCheckResponse_SERVING, linkStatus(t, healthServer))

	cancel()
	<-done

	require.Equal(t, healthgrpc.HealthCheckResponse_NOT_SERVING, linkStatus(t, healthServer))
}
