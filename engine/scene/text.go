package scene

import (
	"github.com/spaghettifunk/anima-scene/engine/math"
	"github.com/spaghettifunk/anima-scene/engine/text"
)

// UiText is the payload of 2D user interface text nodes.
type UiText struct {
	Text   string
	Font   text.Font
	Layout text.Layout
	// Color is linear RGB plus opacity.
	Color [4]float32
	// Position is the top-left corner in screen pixels.
	Position math.Vec2
	// Bounds is the size of the box the text is laid out in.
	Bounds math.Vec2
	Scale  float32
}

func NewUiText(font text.Font, s string) *UiText {
	return &UiText{
		Text:  s,
		Font:  font,
		Color: [4]float32{1, 1, 1, 1},
		Scale: 1,
	}
}

// Measure returns the size of the text at its current scale.
func (t *UiText) Measure() math.Vec2 {
	return text.Measure(t.Font, t.Text, t.Scale)
}

// LineOffsets returns the x position of each line inside Bounds.
func (t *UiText) LineOffsets() []float32 {
	return text.LineOffsets(t.Font, t.Text, t.Scale, t.Layout, t.Bounds.X)
}

func (*UiText) Kind() Kind { return KIND_TEXT }

func (t *UiText) clone() SubNode {
	out := *t
	return &out
}

// TextOperation changes one property of a text node.
type TextOperation interface {
	apply(t *UiText)
}

type (
	// TextColor sets the color and resets the opacity to one.
	TextColor    Color
	TextFont     struct{ Font text.Font }
	TextLayout   text.Layout
	TextOpacity  float32
	TextPosition math.Vec2
	TextScale    float32
	TextSize     math.Vec2
	TextString   string
)

func (c TextColor) apply(t *UiText) {
	rgb := Color(c).ToLinearRGB()
	t.Color = [4]float32{rgb[0], rgb[1], rgb[2], 1}
}

func (f TextFont) apply(t *UiText)     { t.Font = f.Font }
func (l TextLayout) apply(t *UiText)   { t.Layout = text.Layout(l) }
func (o TextOpacity) apply(t *UiText)  { t.Color[3] = float32(o) }
func (p TextPosition) apply(t *UiText) { t.Position = math.Vec2(p) }
func (s TextScale) apply(t *UiText)    { t.Scale = float32(s) }
func (s TextSize) apply(t *UiText)     { t.Bounds = math.Vec2(s) }
func (s TextString) apply(t *UiText)   { t.Text = string(s) }
