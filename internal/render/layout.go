package render

import "github.com/glanceworks/glanced/internal/domain"

// Metrics provides text measurement for layout computation. Sinks supply
// an implementation matching their font.
type Metrics interface {
	// LineWidth returns the painted width of s in pixels.
	LineWidth(s string) int

	// LineHeight returns the vertical advance per line in pixels.
	LineHeight() int
}

// PlacedLine pairs one text line with its computed pixel position.
type PlacedLine struct {
	Text string
	X    int
	Y    int
}

// PlaceLines computes the position of each line for the given layout.
//
// With no explicit position and centering requested, the block starts at
// (height − lineCount × lineHeight) / 2 and each line is horizontally
// centered using its own measured width. With an explicit position, lines
// are left-anchored there and stacked downward by lineHeight, no centering.
func PlaceLines(lines []string, layout domain.Layout, m Metrics, width, height int) []PlacedLine {
	placed := make([]PlacedLine, 0, len(lines))
	lineHeight := m.LineHeight()

	if layout.At == nil && layout.Centered {
		startY := (height - len(lines)*lineHeight) / 2
		for i, line := range lines {
			placed = append(placed, PlacedLine{
				Text: line,
				X:    (width - m.LineWidth(line)) / 2,
				Y:    startY + i*lineHeight,
			})
		}
		return placed
	}

	var origin domain.Point
	if layout.At != nil {
		origin = *layout.At
	}
	for i, line := range lines {
		placed = append(placed, PlacedLine{
			Text: line,
			X:    origin.X,
			Y:    origin.Y + i*lineHeight,
		})
	}
	return placed
}
