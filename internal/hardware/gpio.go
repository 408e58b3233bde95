package hardware

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	// errUnknownPin is returned when a configured pin name is not registered.
	errUnknownPin = errors.New("unknown GPIO pin")
	// errLightIndex is returned for a light index outside the bank.
	errLightIndex = errors.New("light index out of range")
)

// Init loads the periph host drivers. It must run before pins are looked up.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initialize periph host: %w", err)
	}

	return nil
}

// LookupPin resolves a pin by its periph name, e.g. "GPIO17".
//
//nolint:ireturn // gpioreg hands out the interface.
func LookupPin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", errUnknownPin, name)
	}

	return p, nil
}

// LookupPins resolves several pins, failing on the first unknown name.
func LookupPins(names []string) ([]gpio.PinIO, error) {
	pins := make([]gpio.PinIO, 0, len(names))

	for _, name := range names {
		p, err := LookupPin(name)
		if err != nil {
			return nil, err
		}

		pins = append(pins, p)
	}

	return pins, nil
}

// GPIOLights is a light bank of one output pin per light.
type GPIOLights struct {
	// pins are the outputs, light 0 first.
	pins []gpio.PinOut
}

// NewGPIOLights configures every pin as an output and switches it off.
func NewGPIOLights[P gpio.PinOut](pins ...P) (*GPIOLights, error) {
	lights := &GPIOLights{
		pins: make([]gpio.PinOut, 0, len(pins)),
	}

	for i, p := range pins {
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("configure light %d (%s): %w", i, p, err)
		}

		lights.pins = append(lights.pins, p)
	}

	return lights, nil
}

// Len returns the number of lights.
func (l *GPIOLights) Len() int {
	return len(l.pins)
}

// Set drives one light.
func (l *GPIOLights) Set(index int, on bool) error {
	if index < 0 || index >= len(l.pins) {
		return fmt.Errorf("%w: %d", errLightIndex, index)
	}

	return l.pins[index].Out(gpio.Level(on))
}

// Indicator is a single status LED, such as the board's built-in LED.
type Indicator struct {
	// pin drives the LED.
	pin gpio.PinOut
}

// NewIndicator wraps an output pin.
func NewIndicator(pin gpio.PinOut) *Indicator {
	return &Indicator{pin: pin}
}

// Set switches the LED.
func (i *Indicator) Set(on bool) error {
	return i.pin.Out(gpio.Level(on))
}
