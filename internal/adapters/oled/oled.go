// Package oled drives an SSD1306 OLED panel over I²C.
package oled

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
	"github.com/glanceworks/glanced/internal/render"
)

// Config selects the bus and panel geometry. The device address is not
// configurable: the ssd1306 driver talks to the panel's fixed address
// 0x3C.
type Config struct {
	// Bus is the I²C bus name or number, e.g. "1" or "/dev/i2c-1".
	Bus    string
	Width  int
	Height int
	// Rotation in degrees. Only 0 and 180 are supported by the panel.
	Rotation int
}

// Sink renders text onto the panel. It implements ports.Sink.
type Sink struct {
	cfg    Config
	bus    i2c.BusCloser
	dev    *ssd1306.Dev
	face   font.Face
	logger ports.Logger
}

// FaceMetrics measures text with the same face the panel draws with.
// It implements render.Metrics.
type FaceMetrics struct {
	face font.Face
}

// NewFaceMetrics returns metrics for the built-in 7x13 face.
func NewFaceMetrics() FaceMetrics {
	return FaceMetrics{face: basicfont.Face7x13}
}

func (m FaceMetrics) LineWidth(s string) int {
	return font.MeasureString(m.face, s).Ceil()
}

func (m FaceMetrics) LineHeight() int {
	return m.face.Metrics().Height.Ceil()
}

// New opens the bus and initializes the panel.
func New(cfg Config, logger ports.Logger) (*Sink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: host init: %w", domain.ErrInitFailed, err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("%w: open i2c bus %q: %w", domain.ErrInitFailed, cfg.Bus, err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{
		W:       cfg.Width,
		H:       cfg.Height,
		Rotated: cfg.Rotation == 180,
	})
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("%w: ssd1306: %w", domain.ErrInitFailed, err)
	}
	logger.Info("oled panel ready",
		ports.String("bus", cfg.Bus),
		ports.Int("width", cfg.Width),
		ports.Int("height", cfg.Height),
	)
	return &Sink{
		cfg:    cfg,
		bus:    bus,
		dev:    dev,
		face:   basicfont.Face7x13,
		logger: logger,
	}, nil
}

// Paint draws the lines into an off-screen buffer and flushes it to the
// panel in one transfer.
func (s *Sink) Paint(lines []string, layout domain.Layout) error {
	img := image1bit.NewVerticalLSB(s.dev.Bounds())
	placed := render.PlaceLines(lines, layout, FaceMetrics{face: s.face}, s.cfg.Width, s.cfg.Height)
	ascent := s.face.Metrics().Ascent.Ceil()
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: s.face,
	}
	for _, p := range placed {
		// Dot is the baseline, not the top of the glyph box.
		drawer.Dot = fixed.P(p.X, p.Y+ascent)
		drawer.DrawString(p.Text)
	}
	if err := s.dev.Draw(s.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// Clear blanks the panel.
func (s *Sink) Clear() error {
	img := image1bit.NewVerticalLSB(s.dev.Bounds())
	if err := s.dev.Draw(s.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("clear frame: %w", err)
	}
	return nil
}

// SetContrast adjusts the panel contrast, 0 is dimmest and 255 brightest.
func (s *Sink) SetContrast(level uint8) error {
	return s.dev.SetContrast(level)
}

// Release halts the panel and closes the bus.
func (s *Sink) Release() error {
	var haltErr error
	if err := s.dev.Halt(); err != nil {
		haltErr = fmt.Errorf("halt panel: %w", err)
	}
	if err := s.bus.Close(); err != nil && haltErr == nil {
		haltErr = fmt.Errorf("close i2c bus: %w", err)
	}
	return haltErr
}
