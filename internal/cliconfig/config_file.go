package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and pointers
// for booleans to make TOML friendly.
type FileConfig struct {
	LogLevel string `toml:"log_level"`
	Simulate *bool  `toml:"simulate"`

	Display FileDisplayConfig `toml:"display"`
	Sources FileSourcesConfig `toml:"sources"`
}

// FileDisplayConfig is the [display] table. The panel's I2C address is
// fixed by the driver, so there is no key for it; unknown keys in the
// file are ignored.
type FileDisplayConfig struct {
	Brightness      int    `toml:"brightness"`
	RotationDegrees int    `toml:"rotation_degrees"`
	WidthPx         int    `toml:"width_px"`
	HeightPx        int    `toml:"height_px"`
	I2CBus          string `toml:"i2c_bus"`
}

// FileSourcesConfig is the [sources] table.
type FileSourcesConfig struct {
	Time   FileTimeConfig   `toml:"time"`
	Sysmon FileSourceConfig `toml:"sysmon"`
}

// FileSourceConfig is one per-source sub-table.
type FileSourceConfig struct {
	Enabled        *bool  `toml:"enabled"`
	UpdateInterval string `toml:"update_interval"`
	MaxErrors      int    `toml:"max_errors"`
}

// FileTimeConfig adds the clock source's formatting keys.
type FileTimeConfig struct {
	FileSourceConfig
	Format12h      *bool `toml:"format_12h"`
	IncludeSeconds *bool `toml:"include_seconds"`
	IncludeDate    *bool `toml:"include_date"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.glanced/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".glanced", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setBool("simulate", fc.Simulate, &cfg.Simulate)

	s.setInt("brightness", fc.Display.Brightness, &cfg.Display.Brightness)
	s.setInt("width", fc.Display.WidthPx, &cfg.Display.WidthPx)
	s.setInt("height", fc.Display.HeightPx, &cfg.Display.HeightPx)
	s.setString("i2c-bus", fc.Display.I2CBus, &cfg.Display.I2CBus)
	// Zero is a meaningful rotation, so only a present non-zero value applies.
	s.setInt("rotation", fc.Display.RotationDegrees, &cfg.Display.RotationDegrees)

	if err := applyFileSource(s, "time", fc.Sources.Time.FileSourceConfig, &cfg.Time.SourceConfig); err != nil {
		return err
	}
	if err := applyFileSource(s, "sysmon", fc.Sources.Sysmon, &cfg.Sysmon); err != nil {
		return err
	}

	s.setBool("time-format-12h", fc.Sources.Time.Format12h, &cfg.Time.Format12h)
	s.setBool("time-include-seconds", fc.Sources.Time.IncludeSeconds, &cfg.Time.IncludeSeconds)
	s.setBool("time-include-date", fc.Sources.Time.IncludeDate, &cfg.Time.IncludeDate)

	return nil
}

func applyFileSource(s *configSetter, name string, fc FileSourceConfig, dst *SourceConfig) error {
	s.setBool(name+"-enabled", fc.Enabled, &dst.Enabled)
	s.setInt(name+"-max-errors", fc.MaxErrors, &dst.MaxErrors)
	return s.setDuration(name+"-interval", fc.UpdateInterval, &dst.UpdateInterval)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
