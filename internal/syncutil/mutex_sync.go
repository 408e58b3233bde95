//go:build !deadlock

// Package syncutil provides the mutex type used by the byte framer.
// By default it is a plain sync.Mutex; build with -tags=deadlock to swap in
// github.com/sasha-s/go-deadlock and catch lock-order bugs between the link
// goroutines and the control loop.
package syncutil

import "sync"

// Mutex wraps sync.Mutex. Build with -tags=deadlock for deadlock detection.
//
//nolint:gocritic // Embedding exposes Lock/Unlock directly.
type Mutex struct {
	sync.Mutex
}
