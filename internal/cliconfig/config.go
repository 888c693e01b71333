// Package cliconfig loads and validates the device configuration from
// file, environment and flags, with flag > env > file > default
// precedence. It also provides a watcher that re-reads the file on change
// so a handful of settings can be applied without a restart.
package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
)

// Display defaults match the 128x64 SSD1306 panel the device ships with.
// The panel's I2C address is fixed at 0x3C by the driver and is not
// configurable.
const (
	DefaultBrightness = 200
	DefaultWidthPx    = 128
	DefaultHeightPx   = 64
	DefaultI2CBus     = "1"
)

// DisplayConfig holds the display geometry and transport settings.
type DisplayConfig struct {
	Brightness int

	// RotationDegrees rotates the panel output. The panel supports only
	// 0 and 180.
	RotationDegrees int

	WidthPx  int
	HeightPx int
	I2CBus   string
}

// SourceConfig holds the scheduling settings common to every source.
type SourceConfig struct {
	Enabled        bool
	UpdateInterval time.Duration
	MaxErrors      int
}

// TimeConfig adds the clock source's formatting settings.
type TimeConfig struct {
	SourceConfig
	Format12h      bool
	IncludeSeconds bool
	IncludeDate    bool
}

// Config holds the full device configuration.
type Config struct {
	LogLevel string
	Simulate bool

	Display DisplayConfig
	Time    TimeConfig
	Sysmon  SourceConfig
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Display: DisplayConfig{
			Brightness: DefaultBrightness,
			WidthPx:    DefaultWidthPx,
			HeightPx:   DefaultHeightPx,
			I2CBus:     DefaultI2CBus,
		},
		Time: TimeConfig{
			SourceConfig: SourceConfig{
				Enabled:        true,
				UpdateInterval: 30 * time.Second,
				MaxErrors:      5,
			},
			Format12h:   true,
			IncludeDate: true,
		},
		Sysmon: SourceConfig{
			Enabled:        true,
			UpdateInterval: 60 * time.Second,
			MaxErrors:      5,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Display.Brightness < 0 || c.Display.Brightness > 255 {
		return fmt.Errorf("%w: brightness %d out of range 0-255",
			domain.ErrInvalidConfig, c.Display.Brightness)
	}
	switch c.Display.RotationDegrees {
	case 0, 180:
	default:
		return fmt.Errorf("%w: rotation %d not one of 0/180 (panel limitation)",
			domain.ErrInvalidConfig, c.Display.RotationDegrees)
	}
	if c.Display.WidthPx <= 0 || c.Display.HeightPx <= 0 {
		return fmt.Errorf("%w: display size %dx%d",
			domain.ErrInvalidConfig, c.Display.WidthPx, c.Display.HeightPx)
	}

	for _, src := range []struct {
		name string
		cfg  SourceConfig
	}{
		{"time", c.Time.SourceConfig},
		{"sysmon", c.Sysmon},
	} {
		if src.cfg.UpdateInterval <= 0 {
			return fmt.Errorf("%w: source %s update interval must be positive",
				domain.ErrInvalidConfig, src.name)
		}
		if src.cfg.MaxErrors <= 0 {
			return fmt.Errorf("%w: source %s max errors must be positive",
				domain.ErrInvalidConfig, src.name)
		}
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}
