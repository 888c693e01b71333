package render

import (
	"testing"

	"github.com/glanceworks/glanced/internal/domain"
)

// fixedMetrics measures every rune at a fixed advance, like a bitmap font.
type fixedMetrics struct {
	advance int
	height  int
}

func (m fixedMetrics) LineWidth(s string) int { return len(s) * m.advance }
func (m fixedMetrics) LineHeight() int        { return m.height }

func TestPlaceLines_CenteringLaw(t *testing.T) {
	m := fixedMetrics{advance: 6, height: 15}
	const width, height = 128, 64

	placed := PlaceLines([]string{"12:30 PM"}, domain.Layout{Centered: true}, m, width, height)
	if len(placed) != 1 {
		t.Fatalf("placed %d lines, want 1", len(placed))
	}

	wantX := (width - m.LineWidth("12:30 PM")) / 2
	if placed[0].X != wantX {
		t.Errorf("x = %d, want (displayWidth − measuredTextWidth)/2 = %d", placed[0].X, wantX)
	}
	wantY := (height - 1*m.height) / 2
	if placed[0].Y != wantY {
		t.Errorf("y = %d, want %d", placed[0].Y, wantY)
	}
}

func TestPlaceLines_MultiLineCentered(t *testing.T) {
	m := fixedMetrics{advance: 6, height: 15}
	const width, height = 128, 64

	lines := []string{"12:30 PM", "03/14/2026"}
	placed := PlaceLines(lines, domain.Layout{Centered: true}, m, width, height)

	startY := (height - len(lines)*m.height) / 2
	for i, p := range placed {
		if p.Y != startY+i*m.height {
			t.Errorf("line %d y = %d, want %d", i, p.Y, startY+i*m.height)
		}
		wantX := (width - m.LineWidth(lines[i])) / 2
		if p.X != wantX {
			t.Errorf("line %d x = %d, want %d (each line centered by its own width)", i, p.X, wantX)
		}
	}
}

func TestPlaceLines_ExplicitPositionDisablesCentering(t *testing.T) {
	m := fixedMetrics{advance: 6, height: 15}

	layout := domain.Layout{At: &domain.Point{X: 10, Y: 4}, Centered: true}
	placed := PlaceLines([]string{"a", "bb", "ccc"}, layout, m, 128, 64)

	for i, p := range placed {
		if p.X != 10 {
			t.Errorf("line %d x = %d, want left anchor 10", i, p.X)
		}
		if p.Y != 4+i*m.height {
			t.Errorf("line %d y = %d, want stacked %d", i, p.Y, 4+i*m.height)
		}
	}
}

func TestPlaceLines_NoPositionNoCentering(t *testing.T) {
	m := fixedMetrics{advance: 6, height: 15}

	placed := PlaceLines([]string{"top", "left"}, domain.Layout{}, m, 128, 64)
	if placed[0].X != 0 || placed[0].Y != 0 {
		t.Errorf("first line at (%d,%d), want origin", placed[0].X, placed[0].Y)
	}
	if placed[1].Y != m.height {
		t.Errorf("second line y = %d, want %d", placed[1].Y, m.height)
	}
}
