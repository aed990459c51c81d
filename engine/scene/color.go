package scene

import stdmath "math"

// Color is a 0xRRGGBB sRGB color.
type Color uint32

const (
	COLOR_BLACK   Color = 0x000000
	COLOR_WHITE   Color = 0xFFFFFF
	COLOR_RED     Color = 0xFF0000
	COLOR_GREEN   Color = 0x00FF00
	COLOR_BLUE    Color = 0x0000FF
	COLOR_YELLOW  Color = 0xFFFF00
	COLOR_CYAN    Color = 0x00FFFF
	COLOR_MAGENTA Color = 0xFF00FF
)

func channelToLinear(c uint32) float32 {
	x := float64(c&0xFF) / 255.0
	if x > 0.04045 {
		return float32(stdmath.Pow((x+0.055)/1.055, 2.4))
	}
	return float32(x / 12.92)
}

// ToLinearRGB converts c from sRGB to linear RGB.
func (c Color) ToLinearRGB() [3]float32 {
	return [3]float32{
		channelToLinear(uint32(c) >> 16),
		channelToLinear(uint32(c) >> 8),
		channelToLinear(uint32(c)),
	}
}
