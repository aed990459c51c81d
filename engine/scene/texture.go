package scene

import "github.com/google/uuid"

// Texture references an image living on the GPU along with the texel
// sub-rectangle that is sampled from it.
type Texture struct {
	ID        uuid.UUID
	TotalSize [2]uint32

	tex0 [2]float32
	tex1 [2]float32
}

// NewTexture returns a texture covering its whole width x height image.
func NewTexture(width, height uint32) Texture {
	return Texture{
		ID:        uuid.New(),
		TotalSize: [2]uint32{width, height},
		tex1:      [2]float32{float32(width), float32(height)},
	}
}

// SetTexelRange restricts sampling to the rectangle of the given size
// whose top-left corner is base, in texels from the image's top-left.
func (t *Texture) SetTexelRange(base [2]int16, size [2]uint16) {
	h := float32(t.TotalSize[1])
	t.tex0 = [2]float32{float32(base[0]), h - float32(base[1]) - float32(size[1])}
	t.tex1 = [2]float32{float32(base[0]) + float32(size[0]), h - float32(base[1])}
}

// UVRange returns the normalized (x0, y0, x1, y1) of the texel range.
func (t Texture) UVRange() [4]float32 {
	w, h := float32(t.TotalSize[0]), float32(t.TotalSize[1])
	if w == 0 || h == 0 {
		return [4]float32{}
	}
	return [4]float32{t.tex0[0] / w, t.tex0[1] / h, t.tex1[0] / w, t.tex1[1] / h}
}
