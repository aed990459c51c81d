package text

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FaceFont measures text with an x/image font.Face.
type FaceFont struct {
	name string
	face font.Face
}

func NewFaceFont(name string, face font.Face) *FaceFont {
	return &FaceFont{name: name, face: face}
}

// LoadFaceFont parses a TrueType or OpenType file and opens a face of the
// given pixel size.
func LoadFaceFont(path string, size float64) (*FaceFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFaceFont(path, data, size)
}

func ParseFaceFont(name string, data []byte, size float64) (*FaceFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open face for %s: %w", name, err)
	}
	return NewFaceFont(name, face), nil
}

func (f *FaceFont) Name() string {
	return f.name
}

func (f *FaceFont) LineHeight() float32 {
	return float32(f.face.Metrics().Height.Ceil())
}

func (f *FaceFont) Advance(line string) float32 {
	return float32(font.MeasureString(f.face, line).Ceil())
}

func (f *FaceFont) Close() error {
	return f.face.Close()
}
