package annunciator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/annunciator/internal/logger"
)

// ErrAlreadyRunning is returned when another copy of the daemon owns the panel.
var ErrAlreadyRunning = errors.New("another annunciator instance is already running")

// ensureSingleInstance fails when another process runs the same executable,
// since two daemons would fight over the pins and the serial port.
func ensureSingleInstance(ctx context.Context) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if pid := findDuplicate(processList, os.Getpid(), filepath.Base(self)); pid != 0 {
		logger.ErrorKV(ctx, "Refusing to start", "running_pid", pid)

		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
	}

	return nil
}

// commLength is how much of an executable name Linux reports for a process.
const commLength = 15

// findDuplicate returns the pid of another process with the executable name, or 0.
func findDuplicate(processList []ps.Process, selfPID int, executable string) int {
	executable = truncateComm(executable)

	for _, process := range processList {
		if process.Pid() == selfPID {
			continue
		}

		if truncateComm(process.Executable()) == executable {
			return process.Pid()
		}
	}

	return 0
}

// truncateComm cuts a name to what Linux keeps in /proc/<pid>/stat.
func truncateComm(name string) string {
	if len(name) > commLength {
		return name[:commLength]
	}

	return name
}
