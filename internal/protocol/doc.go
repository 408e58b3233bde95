// Package protocol defines the fixed-length alarm frame exchanged with the
// remote controller and converts it to and from alarm events.
//
// A frame is FrameSize bytes: the level code followed by MaxMessageLen
// message bytes. The message is not NUL-terminated by contract; decoding
// stops at the first NUL if one is present.
package protocol
