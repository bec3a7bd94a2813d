package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrGeometry is returned for a display size the instrument cannot render.
var ErrGeometry = errors.New("unsupported display geometry")

// Config represents the host application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Display DisplayConfig `yaml:"display"`
	Timing  TimingConfig  `yaml:"timing"`
	Storage StorageConfig `yaml:"storage"`
	Mock    MockConfig    `yaml:"mock"`
	Scope   ScopeConfig   `yaml:"scope"`
}

// SerialConfig contains serial port configuration for monitor mode.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// DisplayConfig is the simulated character LCD size.
type DisplayConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// TimingConfig holds the instrument tick rates and button thresholds.
type TimingConfig struct {
	ButtonTick     time.Duration `yaml:"button_tick"`
	UITick         time.Duration `yaml:"ui_tick"`
	Debounce       time.Duration `yaml:"debounce"`
	LongPress      time.Duration `yaml:"long_press"`
	TelemetryEvery int           `yaml:"telemetry_every"` // UI ticks per telemetry frame
}

// StorageConfig locates the emulated settings EEPROM.
type StorageConfig struct {
	Path   string `yaml:"path"`   // Empty keeps settings in memory only
	Offset int64  `yaml:"offset"` // Byte offset of the settings record
}

// MockConfig contains simulated potentiometer configuration.
type MockConfig struct {
	Noise      float32 `yaml:"noise"`      // Peak noise in ADC counts
	Position   uint16  `yaml:"position"`   // Initial wiper position (0..1023)
	Oversample int     `yaml:"oversample"` // Reads averaged per sample
}

// ScopeConfig contains plot settings.
type ScopeConfig struct {
	WindowSeconds float64 `yaml:"window_seconds"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 115200,
		},
		Display: DisplayConfig{
			Cols: 16,
			Rows: 2,
		},
		Timing: TimingConfig{
			ButtonTick:     10 * time.Millisecond,
			UITick:         20 * time.Millisecond,
			Debounce:       25 * time.Millisecond,
			LongPress:      600 * time.Millisecond,
			TelemetryEvery: 1,
		},
		Storage: StorageConfig{
			Path:   "",
			Offset: 0,
		},
		Mock: MockConfig{
			Noise:      2,
			Position:   512,
			Oversample: 64,
		},
		Scope: ScopeConfig{
			WindowSeconds: 30,
		},
	}
}

// Window returns the scope window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Scope.WindowSeconds * float64(time.Second))
}

// Validate checks the values defaults cannot repair.
func (c *Config) Validate() error {
	d := c.Display
	if !(d.Cols == 16 && d.Rows == 2) && !(d.Cols == 20 && d.Rows == 4) {
		return fmt.Errorf("%w: %dx%d (want 16x2 or 20x4)", ErrGeometry, d.Cols, d.Rows)
	}
	if c.Mock.Position > 1023 {
		return fmt.Errorf("mock position out of range: %d (max 1023)", c.Mock.Position)
	}
	if c.Storage.Offset < 0 {
		return fmt.Errorf("negative storage offset: %d", c.Storage.Offset)
	}
	return nil
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults fills zero fields with default values.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Display.Cols == 0 && c.Display.Rows == 0 {
		c.Display = def.Display
	}

	if c.Timing.ButtonTick == 0 {
		c.Timing.ButtonTick = def.Timing.ButtonTick
	}
	if c.Timing.UITick == 0 {
		c.Timing.UITick = def.Timing.UITick
	}
	if c.Timing.Debounce == 0 {
		c.Timing.Debounce = def.Timing.Debounce
	}
	if c.Timing.LongPress == 0 {
		c.Timing.LongPress = def.Timing.LongPress
	}

	if c.Mock.Oversample == 0 {
		c.Mock.Oversample = def.Mock.Oversample
	}

	if c.Scope.WindowSeconds == 0 {
		c.Scope.WindowSeconds = def.Scope.WindowSeconds
	}
}
