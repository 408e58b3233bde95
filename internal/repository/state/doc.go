// Package state implements persistence for the alarm State.
//
// The FileRepository stores and loads the state as protobuf JSON on disk so
// the unit resumes annunciating its last level after a restart, and exposes a
// Repository interface that the daemon depends on.
package state
