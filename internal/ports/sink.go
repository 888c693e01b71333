package ports

import "github.com/glanceworks/glanced/internal/domain"

// Sink is the passive drawing target the render arbiter paints into.
// Implementations own the pixel format and the physical transport; the
// arbiter owns what is shown and for how long.
//
// The arbiter is the sink's only writer. Implementations do not need to be
// safe for concurrent use.
type Sink interface {
	// Paint renders the lines according to the layout, replacing whatever
	// was previously on the display.
	Paint(lines []string, layout domain.Layout) error

	// Clear blanks the display.
	Clear() error

	// SetContrast adjusts panel contrast/brightness. The full byte range
	// is valid.
	SetContrast(level uint8) error

	// Release clears the display and frees the underlying transport.
	// The sink is unusable afterwards.
	Release() error
}
