package glanced

import (
	"fmt"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
)

// Display defaults for the 128x64 SSD1306 panel. The panel's I2C address
// is fixed at 0x3C by the driver.
const (
	DefaultWidthPx    = 128
	DefaultHeightPx   = 64
	DefaultBrightness = 200
	DefaultI2CBus     = "1"

	// DefaultSplashDuration is how long the boot splash stays up.
	DefaultSplashDuration = 2 * time.Second
)

// DisplayConfig holds the panel geometry and transport settings.
type DisplayConfig struct {
	// WidthPx and HeightPx are the panel dimensions in pixels.
	WidthPx  int
	HeightPx int

	// Brightness is the initial panel brightness, 0-255.
	Brightness int

	// RotationDegrees rotates the panel output. The panel supports only
	// 0 and 180.
	RotationDegrees int

	// I2CBus is the bus name or number, e.g. "1" or "/dev/i2c-1".
	I2CBus string
}

// SourceConfig holds the scheduling settings for one registered source.
type SourceConfig struct {
	// Enabled gates the source; a disabled source is registered but never
	// started.
	Enabled bool

	// UpdateInterval is the target spacing between fetch cycles.
	UpdateInterval time.Duration

	// MaxErrors is the number of consecutive fetch failures after which
	// the source stops permanently.
	MaxErrors int

	// ErrorBackoff is the fixed wait after a failed fetch cycle.
	// Zero means the default of 30 seconds.
	ErrorBackoff time.Duration
}

// Config holds the device configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	Display DisplayConfig

	// Simulate replaces the hardware panel with a sink that logs paints.
	Simulate bool

	// SplashDuration is how long the boot splash is shown on Start.
	// Zero disables the splash.
	SplashDuration time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			WidthPx:    DefaultWidthPx,
			HeightPx:   DefaultHeightPx,
			Brightness: DefaultBrightness,
			I2CBus:     DefaultI2CBus,
		},
		SplashDuration: DefaultSplashDuration,
	}
}

// SetDefaults fills zero fields with default values. Booleans and the
// splash duration are left as set.
func (c *Config) SetDefaults() {
	if c.Display.WidthPx == 0 {
		c.Display.WidthPx = DefaultWidthPx
	}
	if c.Display.HeightPx == 0 {
		c.Display.HeightPx = DefaultHeightPx
	}
	if c.Display.Brightness == 0 {
		c.Display.Brightness = DefaultBrightness
	}
	if c.Display.I2CBus == "" {
		c.Display.I2CBus = DefaultI2CBus
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Display.WidthPx <= 0 || c.Display.HeightPx <= 0 {
		return fmt.Errorf("%w: display size %dx%d",
			domain.ErrInvalidConfig, c.Display.WidthPx, c.Display.HeightPx)
	}
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
	return nil
}
