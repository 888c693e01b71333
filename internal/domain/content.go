package domain

// Point is a pixel coordinate on the display, origin top-left.
type Point struct {
	X int
	Y int
}

// Layout tells the sink where to place painted lines.
//
// When At is nil and Centered is true, each line is horizontally centered
// by its own measured width and the block is vertically centered. When At
// is set, lines are left-anchored at that position and stacked downward;
// Centered is ignored.
type Layout struct {
	At       *Point
	Centered bool
}

// Content is one request to show text on the display.
type Content struct {
	Lines  []string
	Layout Layout
}

// Equal reports whether two contents would paint identically.
func (c Content) Equal(other Content) bool {
	if len(c.Lines) != len(other.Lines) {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i] != other.Lines[i] {
			return false
		}
	}
	if c.Layout.Centered != other.Layout.Centered {
		return false
	}
	if (c.Layout.At == nil) != (other.Layout.At == nil) {
		return false
	}
	if c.Layout.At != nil && *c.Layout.At != *other.Layout.At {
		return false
	}
	return true
}
