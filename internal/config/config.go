package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the annunciator binaries.
type Config struct {
	// DeviceName is the model name shown on the splash screen.
	DeviceName string `yaml:"device_name"`
	// UnitName identifies this unit on the splash screen and in status.
	UnitName string `yaml:"unit_name"`
	// LogLevel is the level of the diagnostic stream.
	LogLevel string `yaml:"log_level"`
	// ListenAddress is where the daemon serves its gRPC API.
	ListenAddress string `yaml:"listen_addr"`
	// ServerAddress is the daemon address the command-line tools dial.
	ServerAddress string `yaml:"server_addr"`
	// StateFile is the path to the JSON file holding the last alarm state.
	StateFile string `yaml:"state_file"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LoopInterval is the control loop period.
	LoopInterval time.Duration `yaml:"loop_interval"`
	// StepDuration is the length of one annunciation pattern step.
	StepDuration time.Duration `yaml:"step_duration"`
	// Link configures the serial link to the controller.
	Link LinkConfig `yaml:"link"`
	// Hardware configures the physical collaborators.
	Hardware HardwareConfig `yaml:"hardware"`
}

// LinkConfig configures the serial link.
type LinkConfig struct {
	// Port is the serial device; empty disables the serial link.
	Port string `yaml:"port"`
	// BaudRate is the link speed.
	BaudRate int `yaml:"baud_rate"`
	// ByteTimeout discards a partial frame when the next byte is this late.
	ByteTimeout time.Duration `yaml:"byte_timeout"`
	// LogLevel overrides the diagnostic level for the link reader.
	LogLevel string `yaml:"log_level"`
}

// HardwareConfig names the pins and buses of the physical collaborators.
type HardwareConfig struct {
	// Enabled selects periph.io hardware; otherwise console collaborators are used.
	Enabled bool `yaml:"enabled"`
	// LightPins are the light bank outputs, light 0 first.
	LightPins []string `yaml:"light_pins,omitempty"`
	// TonePin is the PWM-capable buzzer pin.
	TonePin string `yaml:"tone_pin"`
	// ButtonPin is the active-low mute button input.
	ButtonPin string `yaml:"button_pin"`
	// StatusLEDPin is the built-in indicator LED, switched off at start-up.
	StatusLEDPin string `yaml:"status_led_pin"`
	// Debounce is the lockout after a button press.
	Debounce time.Duration `yaml:"debounce"`
	// LCD configures the character display.
	LCD LCDConfig `yaml:"lcd"`
}

// LCDConfig configures the I2C character display.
type LCDConfig struct {
	// Enabled attaches the LCD; otherwise screens go to the diagnostic stream.
	Enabled bool `yaml:"enabled"`
	// Bus is the periph I2C bus name; empty picks the first bus.
	Bus string `yaml:"bus"`
	// Address is the backpack I2C address.
	Address uint16 `yaml:"address"`
	// Rows and Cols describe the character grid.
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

const (
	// DefaultConfigFilename is the default filename for unit settings.
	DefaultConfigFilename = "annunciator-settings.yaml"

	// DefaultStateFilename is the default filename for alarm state JSON.
	DefaultStateFilename = "annunciator-state.json"

	// DefaultListenAddress is where the daemon listens by default.
	DefaultListenAddress = ":50551"

	// DefaultServerAddress is where the tools look for the daemon by default.
	DefaultServerAddress = "127.0.0.1:50551"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultLoopInterval is the default control loop period.
	DefaultLoopInterval = 100 * time.Millisecond

	// DefaultStepDuration is the default pattern step length.
	DefaultStepDuration = 500 * time.Millisecond

	// DefaultByteTimeout is the default gap after which a partial frame is dropped.
	DefaultByteTimeout = 200 * time.Millisecond

	// DefaultBaudRate is the default link speed.
	DefaultBaudRate = 115200

	// DefaultDebounce is the default button lockout.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultLCDAddress, DefaultLCDRows and DefaultLCDCols describe the stock display.
	DefaultLCDAddress = 0x27
	DefaultLCDRows    = 4
	DefaultLCDCols    = 20

	// NumLights is the size of the light bank the pattern tables drive.
	NumLights = 5

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errLoopTooSlow is returned when the loop cannot keep up with the pattern cadence.
	errLoopTooSlow = errors.New("loop interval must be at most half the step duration")
	// errLightPins is returned when the light bank is misconfigured.
	errLightPins = errors.New("light pins misconfigured")
	// errPinRequired is returned when a required pin name is missing.
	errPinRequired = errors.New("pin name required")
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks that the settings are usable.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.LoopInterval > cfg.StepDuration/2 {
		return fmt.Errorf("%w: loop %s, step %s", errLoopTooSlow, cfg.LoopInterval, cfg.StepDuration)
	}

	if !cfg.Hardware.Enabled {
		return nil
	}

	if len(cfg.Hardware.LightPins) != NumLights {
		return fmt.Errorf("%w: need %d, got %d", errLightPins, NumLights, len(cfg.Hardware.LightPins))
	}

	for name, pin := range map[string]string{
		"tone_pin":   cfg.Hardware.TonePin,
		"button_pin": cfg.Hardware.ButtonPin,
	} {
		if pin == "" {
			return fmt.Errorf("%w: %s", errPinRequired, name)
		}
	}

	return nil
}

// applyDefaults sets every zero value that has a default.
func applyDefaults(cfg *Config) {
	setDefault(&cfg.DeviceName, "GPAD")
	setDefault(&cfg.UnitName, "Annunciator")
	setDefault(&cfg.LogLevel, "info")
	setDefault(&cfg.ListenAddress, DefaultListenAddress)
	setDefault(&cfg.ServerAddress, DefaultServerAddress)
	setDefault(&cfg.StateFile, DefaultStateFilename)
	setDefault(&cfg.Timeout, DefaultTimeout)
	setDefault(&cfg.LoopInterval, DefaultLoopInterval)
	setDefault(&cfg.StepDuration, DefaultStepDuration)
	setDefault(&cfg.Link.BaudRate, DefaultBaudRate)
	setDefault(&cfg.Link.ByteTimeout, DefaultByteTimeout)
	setDefault(&cfg.Link.LogLevel, cfg.LogLevel)
	setDefault(&cfg.Hardware.Debounce, DefaultDebounce)
	setDefault(&cfg.Hardware.LCD.Address, DefaultLCDAddress)
	setDefault(&cfg.Hardware.LCD.Rows, DefaultLCDRows)
	setDefault(&cfg.Hardware.LCD.Cols, DefaultLCDCols)
}

// setDefault replaces a non-positive or empty value.
func setDefault[T string | int | uint16 | time.Duration](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
