// Package sender implements annunciator-send: it encodes an alarm event as a
// wire frame and submits it to the unit, retrying until the whole frame is
// taken.
package sender
