// Package controller owns the annunciator's runtime state and runs the
// control loop.
//
// Each tick expires a stale partial frame, applies a completed frame, applies
// pending mute presses, evaluates the pattern scheduler and hands the step to
// the presenter. Producers on other goroutines only touch the framer and an
// atomic press counter; everything else belongs to the loop goroutine, and
// readers get immutable snapshots.
package controller
