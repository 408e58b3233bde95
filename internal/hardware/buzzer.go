package hardware

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// PWMBuzzer drives a piezo buzzer with a square wave from a PWM-capable pin.
type PWMBuzzer struct {
	// pin must support hardware PWM.
	pin gpio.PinOut
}

// NewPWMBuzzer wraps the pin and makes sure the buzzer starts silent.
func NewPWMBuzzer(pin gpio.PinOut) (*PWMBuzzer, error) {
	b := &PWMBuzzer{pin: pin}

	if err := b.Silence(); err != nil {
		return nil, err
	}

	return b, nil
}

// Tone plays a continuous tone at f until the next directive.
func (b *PWMBuzzer) Tone(f physic.Frequency) error {
	if f <= 0 {
		return b.Silence()
	}

	if err := b.pin.PWM(gpio.DutyHalf, f); err != nil {
		return fmt.Errorf("buzzer tone %s: %w", f, err)
	}

	return nil
}

// Silence stops the tone by holding the pin low.
func (b *PWMBuzzer) Silence() error {
	if err := b.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("buzzer silence: %w", err)
	}

	return nil
}
