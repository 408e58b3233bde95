// Package mute implements annunciator-mute: a remote press of the unit's mute
// button that waits until the unit reports the new mute state.
package mute
