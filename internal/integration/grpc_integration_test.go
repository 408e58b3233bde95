package integration

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/annunciator/internal/config"
	domain "github.com/oshokin/annunciator/internal/domain/alarm"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
	"github.com/oshokin/annunciator/internal/service/annunciator"
	"github.com/oshokin/annunciator/internal/service/common"
	"github.com/oshokin/annunciator/internal/service/mute"
	"github.com/oshokin/annunciator/internal/service/sender"
	"github.com/oshokin/annunciator/internal/service/status"
)

// startUnit starts the daemon with temporary config and persistent state file.
// Returns a stop function that waits for a graceful shutdown.
func startUnit(t *testing.T, cfgPath string) (stop func()) {
	t.Helper()

	// Create cancellable context for daemon lifecycle.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Start daemon in background goroutine.
	go func() {
		done <- annunciator.Run(ctx, &annunciator.Options{
			ConfigPath: cfgPath,
			Console:    true,
		})
	}()

	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

// writeConfig reserves a free port and saves settings pointing at it.
func writeConfig(t *testing.T, dir string) (cfgPath, addr string) {
	t.Helper()

	// Reserve a free port for the test unit.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr = l.Addr().String()
	_ = l.Close()

	cfgPath = filepath.Join(dir, "settings.yaml")

	require.NoError(t, config.Save(cfgPath, &config.Config{
		UnitName:      "Bay 4",
		ListenAddress: addr,
		ServerAddress: addr,
		StateFile:     filepath.Join(dir, "state.json"),
		Timeout:       3 * time.Second,
		LoopInterval:  20 * time.Millisecond,
	}))

	return cfgPath, addr
}

// waitStatus polls the unit until cond holds for its status.
func waitStatus(t *testing.T, client *common.Client, cond func(*pb.Status) bool) *pb.Status {
	t.Helper()

	var last *pb.Status

	require.Eventually(t, func() bool {
		got, err := client.GetStatus(context.Background())
		if err != nil {
			return false
		}

		last = got

		return cond(got)
	}, 5*time.Second, 20*time.Millisecond)

	return last
}

// TestUnit_Roundtrip starts the real daemon, raises and mutes an alarm through
// the command-line services, and checks the state survives a restart.
func TestUnit_Roundtrip(t *testing.T) {
	t.Parallel()

	var (
		ctx          = context.Background()
		dir          = t.TempDir()
		cfgPath, addr = writeConfig(t, dir)
	)

	stop := startUnit(t, cfgPath)

	c, err := common.Dial(ctx, addr, common.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	// Fresh unit reports no alarm.
	idle := waitStatus(t, c, func(*pb.Status) bool { return true })
	require.Equal(t, "OK", idle.LevelName)
	require.Equal(t, "Bay 4", idle.Unit)

	// Raise a WARNING.
	require.NoError(t, sender.Run(ctx, &sender.Options{
		ConfigPath: cfgPath,
		Level:      "warning",
		Message:    "HI",
	}))

	raised := waitStatus(t, c, func(s *pb.Status) bool { return s.Level == uint32(domain.LevelWarning) })
	require.Equal(t, "HI", raised.Message)
	require.Equal(t, uint32(3), raised.ToneIndex)
	require.Equal(t, uint32(3), raised.LightCount)

	// Press mute remotely; the command waits for the unit to apply it.
	require.NoError(t, mute.Run(ctx, &mute.Options{ConfigPath: cfgPath}))

	muted := waitStatus(t, c, func(s *pb.Status) bool { return s.Muted })
	require.Zero(t, muted.ToneIndex)

	// One-shot status output.
	var out bytes.Buffer

	require.NoError(t, status.Run(ctx, &status.Options{ConfigPath: cfgPath, Out: &out}))
	require.Contains(t, out.String(), "WARNING (muted)")

	stop()

	// Verify state was persisted to disk.
	_, err = os.Stat(filepath.Join(dir, "state.json"))
	require.NoError(t, err)

	// A restarted unit resumes the alarm.
	stop = startUnit(t, cfgPath)
	defer stop()

	resumed := waitStatus(t, c, func(s *pb.Status) bool { return s.Level == uint32(domain.LevelWarning) })
	require.True(t, resumed.Muted)
	require.Equal(t, "HI", resumed.Message)
}
