// Package annunciation computes which light/tone step of a repeating,
// table-driven pattern should be shown for the current alarm level.
//
// The Scheduler is not a timer. The control loop calls Evaluate on every
// pass with the current time and the scheduler answers with the step that
// is due; Restart makes the next evaluation begin again at step zero.
package annunciation
