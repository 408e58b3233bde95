package annunciator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/link/serial"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
	"github.com/oshokin/annunciator/internal/protocol"
	"github.com/oshokin/annunciator/internal/service/common"
)

// TestRun_SerialFrame runs the daemon on a scripted serial port and checks the
// received frame shows up in the status API.
func TestRun_SerialFrame(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")

	require.NoError(t, config.Save(cfgPath, &config.Config{
		StateFile:    filepath.Join(dir, "state.json"),
		LoopInterval: 20 * time.Millisecond,
		Link: config.LinkConfig{
			Port: "/dev/ttyTEST",
		},
	}))

	var frame protocol.Frame

	copy(frame[:], []byte{3, 'H', 'I'})

	ready := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{
			ConfigPath:      cfgPath,
			ListenAddress:   "127.0.0.1:0",
			allowDuplicates: true,
			ready:           ready,
			openPort: func(string, int) (serial.Port, error) {
				return newScriptedPort(frame[:]), nil
			},
		})
	}()

	var addr string

	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("daemon exited early: %v", err)
	}

	client, err := common.Dial(ctx, addr)
	require.NoError(t, err)

	defer func() {
		_ = client.Close()
	}()

	require.Eventually(t, func() bool {
		got, err := client.GetStatus(context.Background())

		return err == nil && got.LevelName == "WARNING" && got.Message == "HI"
	}, 5*time.Second, 20*time.Millisecond)

	link, err := client.LinkHealth(context.Background(), pb.LinkServiceName)
	require.NoError(t, err)
	require.Equal(t, healthgrpc.HealthCheckResponse_SERVING, link)

	cancel()
	require.NoError(t, <-done)
}

// TestApplyOverrides checks that command line options win over the settings.
func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	settings := &config.Config{
		ListenAddress: ":50551",
		StateFile:     "state.json",
		Link:          config.LinkConfig{Port: "/dev/ttyUSB0"},
	}

	applyOverrides(settings, &Options{})
	require.Equal(t, ":50551", settings.ListenAddress)

	applyOverrides(settings, &Options{
		ListenAddress: ":9090",
		StateFile:     "/var/lib/annunciator/state.json",
		SerialPort:    "/dev/ttyACM0",
	})

	require.Equal(t, ":9090", settings.ListenAddress)
	require.Equal(t, "/var/lib/annunciator/state.json", settings.StateFile)
	require.Equal(t, "/dev/ttyACM0", settings.Link.Port)
}
