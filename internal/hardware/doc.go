// Package hardware adapts the unit's physical collaborators to the
// presenter interfaces using periph.io: GPIO lights, a PWM buzzer, the mute
// button, the built-in indicator LED and an HD44780 character LCD behind a
// PCF8574 I2C backpack.
//
// Console* types implement the same interfaces on top of the diagnostic
// logger and are used when the unit runs without hardware attached.
package hardware
