package text

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fzipp/bmfont"
)

type glyph struct {
	xAdvance float32
}

type kerningPair struct {
	first, second rune
}

// BitmapFont measures text with the metrics of an AngelCode bitmap font.
type BitmapFont struct {
	name       string
	lineHeight float32
	baseline   float32
	glyphs     map[rune]glyph
	kernings   map[kerningPair]float32
}

// LoadBitmapFont reads a .fnt descriptor and its pages.
func LoadBitmapFont(path string) (*BitmapFont, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load bitmap font %s: %w", path, err)
	}

	name := font.Descriptor.Info.Face
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	bf := newBitmapFont(name, float32(font.Descriptor.Common.LineHeight), float32(font.Descriptor.Common.Base))
	for _, g := range font.Descriptor.Chars {
		bf.glyphs[rune(g.ID)] = glyph{xAdvance: float32(g.XAdvance)}
	}
	for p, k := range font.Descriptor.Kerning {
		bf.kernings[kerningPair{rune(p.First), rune(p.Second)}] = float32(k.Amount)
	}
	return bf, nil
}

func newBitmapFont(name string, lineHeight, baseline float32) *BitmapFont {
	return &BitmapFont{
		name:       name,
		lineHeight: lineHeight,
		baseline:   baseline,
		glyphs:     make(map[rune]glyph),
		kernings:   make(map[kerningPair]float32),
	}
}

func (f *BitmapFont) Name() string {
	return f.name
}

func (f *BitmapFont) LineHeight() float32 {
	return f.lineHeight
}

func (f *BitmapFont) Baseline() float32 {
	return f.baseline
}

// Advance sums the glyph advances of line plus kerning. Runes missing from
// the font fall back to the advance of '?', or nothing.
func (f *BitmapFont) Advance(line string) float32 {
	var width float32
	prev := rune(-1)
	for _, r := range line {
		g, ok := f.glyphs[r]
		if !ok {
			g = f.glyphs['?']
		}
		width += g.xAdvance
		if prev >= 0 {
			width += f.kernings[kerningPair{prev, r}]
		}
		prev = r
	}
	return width
}
