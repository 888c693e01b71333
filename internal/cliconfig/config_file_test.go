package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

const sampleTOML = `
log_level = "debug"
simulate = true

[display]
brightness = 180
rotation_degrees = 180
width_px = 128
height_px = 64
i2c_bus = "2"

[sources.time]
enabled = true
update_interval = "15s"
max_errors = 3
format_12h = false
include_seconds = true

[sources.sysmon]
enabled = false
update_interval = "2m"
`

func TestLoadAndApplyFileConfig(t *testing.T) {
	p := writeConfig(t, sampleTOML)

	fc, err := LoadFileConfig(p)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.Simulate {
		t.Error("Simulate not applied")
	}
	if cfg.Display.Brightness != 180 {
		t.Errorf("Brightness = %d", cfg.Display.Brightness)
	}
	if cfg.Display.RotationDegrees != 180 {
		t.Errorf("Rotation = %d", cfg.Display.RotationDegrees)
	}
	if cfg.Display.I2CBus != "2" {
		t.Errorf("I2CBus = %s", cfg.Display.I2CBus)
	}
	if cfg.Time.UpdateInterval != 15*time.Second {
		t.Errorf("Time.UpdateInterval = %v", cfg.Time.UpdateInterval)
	}
	if cfg.Time.MaxErrors != 3 {
		t.Errorf("Time.MaxErrors = %d", cfg.Time.MaxErrors)
	}
	if cfg.Time.Format12h {
		t.Error("Format12h not overridden to false")
	}
	if !cfg.Time.IncludeSeconds {
		t.Error("IncludeSeconds not applied")
	}
	if cfg.Sysmon.Enabled {
		t.Error("Sysmon.Enabled not overridden to false")
	}
	if cfg.Sysmon.UpdateInterval != 2*time.Minute {
		t.Errorf("Sysmon.UpdateInterval = %v", cfg.Sysmon.UpdateInterval)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestApplyFileConfig_PartialFileKeepsDefaults(t *testing.T) {
	p := writeConfig(t, "[display]\nbrightness = 90\n")

	fc, err := LoadFileConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatal(err)
	}

	if cfg.Display.Brightness != 90 {
		t.Errorf("Brightness = %d, want 90", cfg.Display.Brightness)
	}
	if cfg.Display.WidthPx != DefaultWidthPx {
		t.Errorf("WidthPx = %d, want default %d", cfg.Display.WidthPx, DefaultWidthPx)
	}
	if !cfg.Time.Enabled {
		t.Error("Time.Enabled default lost")
	}
}

func TestApplyFileConfig_FlagWins(t *testing.T) {
	p := writeConfig(t, "[display]\nbrightness = 90\n")

	fc, err := LoadFileConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Display.Brightness = 240 // set via flag
	changed := map[string]bool{"brightness": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatal(err)
	}

	if cfg.Display.Brightness != 240 {
		t.Errorf("Brightness = %d, want flag value 240", cfg.Display.Brightness)
	}
}

func TestLoadFileConfig_IgnoresUnknownKeys(t *testing.T) {
	// The panel address is fixed by the driver; a leftover i2c_address key
	// (or any other unknown key) must not break loading or leak into the
	// applied config.
	p := writeConfig(t, "[display]\ni2c_bus = \"3\"\ni2c_address = 61\n")

	fc, err := LoadFileConfig(p)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatal(err)
	}
	if cfg.Display.I2CBus != "3" {
		t.Errorf("I2CBus = %s, want 3", cfg.Display.I2CBus)
	}
}

func TestLoadFileConfig_Malformed(t *testing.T) {
	p := writeConfig(t, "display = [not toml")
	if _, err := LoadFileConfig(p); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileExists(t *testing.T) {
	p := writeConfig(t, "")
	if !FileExists(p) {
		t.Error("FileExists = false for existing file")
	}
	if FileExists(p + ".nope") {
		t.Error("FileExists = true for missing file")
	}
}
