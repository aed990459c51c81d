package text

import (
	"strings"

	"github.com/spaghettifunk/anima-scene/engine/math"
)

// Font measures strings. Sizes are in pixels at the font's native size.
type Font interface {
	Name() string
	LineHeight() float32
	// Advance returns the horizontal size of a single line.
	Advance(line string) float32
}

// Layout is the horizontal alignment of a text block inside its bounds.
type Layout int

const (
	LAYOUT_LEFT Layout = iota
	LAYOUT_CENTER
	LAYOUT_RIGHT
)

func (l Layout) String() string {
	switch l {
	case LAYOUT_LEFT:
		return "left"
	case LAYOUT_CENTER:
		return "center"
	case LAYOUT_RIGHT:
		return "right"
	}
	return "unknown"
}

// Offset returns where a line of the given width starts inside bounds.
func (l Layout) Offset(lineWidth, bounds float32) float32 {
	switch l {
	case LAYOUT_CENTER:
		return (bounds - lineWidth) / 2
	case LAYOUT_RIGHT:
		return bounds - lineWidth
	}
	return 0
}

// Measure returns the size of s drawn with f at the given scale. Lines are
// separated by '\n'.
func Measure(f Font, s string, scale float32) math.Vec2 {
	if f == nil || s == "" {
		return math.NewVec2Zero()
	}
	lines := strings.Split(s, "\n")
	var width float32
	for _, line := range lines {
		if w := f.Advance(line); w > width {
			width = w
		}
	}
	return math.NewVec2(width*scale, float32(len(lines))*f.LineHeight()*scale)
}

// LineOffsets returns the x offset of every line of s laid out inside a
// box of the given width.
func LineOffsets(f Font, s string, scale float32, layout Layout, bounds float32) []float32 {
	lines := strings.Split(s, "\n")
	offsets := make([]float32, len(lines))
	if f == nil {
		return offsets
	}
	for i, line := range lines {
		offsets[i] = layout.Offset(f.Advance(line)*scale, bounds)
	}
	return offsets
}
