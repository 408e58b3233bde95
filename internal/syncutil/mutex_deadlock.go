//go:build deadlock

// Package syncutil provides the mutex type used by the byte framer.
// This file is compiled when building with -tags=deadlock.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// The framer holds its lock for a handful of instructions, so anything near
// this bound is already a bug.
const lockTimeout = 2 * time.Second

//nolint:gochecknoinits // go-deadlock is configured through package globals.
func init() {
	deadlock.Opts.DeadlockTimeout = lockTimeout
}

// Mutex wraps deadlock.Mutex for deadlock detection.
type Mutex struct {
	deadlock.Mutex
}
