// Package framer assembles fixed-length alarm frames from bytes that arrive
// one at a time on the link.
//
// The Framer is a single-slot handoff between two contexts: link goroutines
// call OnByteReceived for every received byte, and the control loop calls
// ExpireStale and Take on each pass. Only one frame can be in flight; bytes
// arriving while a completed frame waits for the loop are dropped.
package framer
