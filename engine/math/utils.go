package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

// Clamp limits v to [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	return min(max(v, low), high)
}

// Lerp interpolates between a and b; t is not clamped.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Fract returns the fractional part of v, always in [0, 1).
func Fract[T constraints.Float](v T) T {
	return v - T(m.Floor(float64(v)))
}
