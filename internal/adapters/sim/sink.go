// Package sim provides a simulation sink for development on machines
// without the OLED hardware. Paints become structured log lines with the
// same layout math the hardware sink applies.
package sim

import (
	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
	"github.com/glanceworks/glanced/internal/render"
)

// Approximation of a small bitmap font, matching nothing in particular.
const (
	charAdvance = 6
	lineHeight  = 15
)

// Sink implements ports.Sink by logging every operation.
type Sink struct {
	width  int
	height int
	logger ports.Logger
}

// New creates a simulation sink with the given virtual geometry.
func New(width, height int, logger ports.Logger) *Sink {
	return &Sink{width: width, height: height, logger: logger}
}

type simMetrics struct{}

func (simMetrics) LineWidth(s string) int { return len(s) * charAdvance }
func (simMetrics) LineHeight() int        { return lineHeight }

// Paint logs the lines with their computed positions.
func (s *Sink) Paint(lines []string, layout domain.Layout) error {
	placed := render.PlaceLines(lines, layout, simMetrics{}, s.width, s.height)
	for _, p := range placed {
		s.logger.Info("[sim] paint",
			ports.String("text", p.Text),
			ports.Int("x", p.X),
			ports.Int("y", p.Y),
		)
	}
	return nil
}

// Clear logs the blanking.
func (s *Sink) Clear() error {
	s.logger.Info("[sim] clear")
	return nil
}

// SetContrast logs the new level.
func (s *Sink) SetContrast(level uint8) error {
	s.logger.Info("[sim] contrast", ports.Int("level", int(level)))
	return nil
}

// Release logs the teardown.
func (s *Sink) Release() error {
	s.logger.Info("[sim] released")
	return nil
}
