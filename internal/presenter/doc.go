// Package presenter turns scheduler steps and alarm state into output on the
// unit's collaborators: the light bank, the buzzer and the character display.
//
// Output is cached per channel so that presenting the same step twice does
// not touch the hardware. A failing channel is logged once, retried on the
// next pass and never stops the other channels.
package presenter
