// Package annunciator runs the annunciator unit: it opens the collaborators,
// restores the persisted alarm state, starts the control loop, the serial
// link reader and the mute button, and serves the gRPC API until the context
// is canceled.
package annunciator
