package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (GLANCED_*). It respects flags that have been explicitly set (changed
// map). Environment variables override file config but are overridden by
// flags. Returns an error if a variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", os.Getenv("GLANCED_LOG_LEVEL"), &cfg.LogLevel)
	s.setBoolFromString("simulate", os.Getenv("GLANCED_SIMULATE"), &cfg.Simulate)

	if err := s.setIntFromString("brightness", os.Getenv("GLANCED_BRIGHTNESS"), &cfg.Display.Brightness); err != nil {
		return err
	}
	s.setString("i2c-bus", os.Getenv("GLANCED_I2C_BUS"), &cfg.Display.I2CBus)

	if err := s.setDuration("time-interval", os.Getenv("GLANCED_TIME_INTERVAL"), &cfg.Time.UpdateInterval); err != nil {
		return err
	}
	if err := s.setDuration("sysmon-interval", os.Getenv("GLANCED_SYSMON_INTERVAL"), &cfg.Sysmon.UpdateInterval); err != nil {
		return err
	}

	return nil
}
