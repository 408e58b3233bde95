package annunciator

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/annunciator/internal/annunciation"
	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/hardware"
	"github.com/oshokin/annunciator/internal/logger"
	"github.com/oshokin/annunciator/internal/presenter"
	"github.com/oshokin/annunciator/internal/version"
)

// panel groups the collaborators of the front panel.
type panel struct {
	lights  presenter.LightBank
	buzzer  presenter.Buzzer
	display presenter.Display
	// button is nil when there is no physical mute button.
	button *hardware.Button
	// indicator is nil when no status LED is configured.
	indicator *hardware.Indicator
	// closers release buses in reverse order of opening.
	closers []func() error
}

// openPanel opens periph.io hardware when enabled, log-backed collaborators otherwise.
func openPanel(ctx context.Context, settings *config.Config, clock clockwork.Clock, console bool) (*panel, error) {
	if console || !settings.Hardware.Enabled {
		log := logger.FromContext(ctx).Named("panel")

		logger.Info(ctx, "Using console collaborators")

		return &panel{
			lights:  hardware.NewConsoleLights(log, config.NumLights),
			buzzer:  hardware.NewConsoleBuzzer(log),
			display: hardware.NewConsoleDisplay(log),
		}, nil
	}

	if err := hardware.Init(); err != nil {
		return nil, err
	}

	cfg := settings.Hardware
	result := new(panel)

	lightPins, err := hardware.LookupPins(cfg.LightPins)
	if err != nil {
		return nil, err
	}

	if result.lights, err = hardware.NewGPIOLights(lightPins...); err != nil {
		return nil, err
	}

	tonePin, err := hardware.LookupPin(cfg.TonePin)
	if err != nil {
		return nil, err
	}

	if result.buzzer, err = hardware.NewPWMBuzzer(tonePin); err != nil {
		return nil, err
	}

	buttonPin, err := hardware.LookupPin(cfg.ButtonPin)
	if err != nil {
		return nil, err
	}

	if result.button, err = hardware.NewButton(buttonPin, clock, cfg.Debounce); err != nil {
		return nil, err
	}

	if cfg.StatusLEDPin != "" {
		statusPin, lookupErr := hardware.LookupPin(cfg.StatusLEDPin)
		if lookupErr != nil {
			return nil, lookupErr
		}

		result.indicator = hardware.NewIndicator(statusPin)
	}

	if !cfg.LCD.Enabled {
		result.display = hardware.NewConsoleDisplay(logger.FromContext(ctx).Named("panel"))

		return result, nil
	}

	lcd, err := hardware.OpenLCD(cfg.LCD.Bus, cfg.LCD.Address, cfg.LCD.Rows, cfg.LCD.Cols)
	if err != nil {
		return nil, fmt.Errorf("open LCD: %w", err)
	}

	result.display = lcd
	result.closers = append(result.closers, lcd.Close)

	return result, nil
}

// Close releases every opened bus.
func (p *panel) Close(ctx context.Context) {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			logger.WarnKV(ctx, "Unable to release panel resource", "error", err)
		}
	}
}

// startup shows the splash screen and puts every output in its idle state.
// Output faults are logged and do not prevent the unit from starting.
func startup(ctx context.Context, settings *config.Config, p *panel, output *presenter.Presenter) {
	splash := presenter.Splash(settings.DeviceName, settings.UnitName, version.Short(), settings.Hardware.LCD.Cols)

	if err := output.ShowSplash(ctx, splash); err != nil {
		logger.WarnKV(ctx, "Unable to show splash screen", "error", err)
	}

	if err := output.Annunciate(ctx, annunciation.Step{}); err != nil {
		logger.WarnKV(ctx, "Unable to reset outputs", "error", err)
	}

	if p.indicator != nil {
		if err := p.indicator.Set(false); err != nil {
			logger.WarnKV(ctx, "Unable to switch the status LED off", "error", err)
		}
	}

	logger.InfoKV(ctx, "Unit started",
		"device", settings.DeviceName,
		"unit", settings.UnitName,
		"firmware", version.Firmware+" "+version.Short(),
		"lights", output.NumLights(),
	)
}
