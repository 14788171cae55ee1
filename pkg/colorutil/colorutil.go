// Package colorutil provides shared color helpers for the board renderer.
package colorutil

import (
	"image/color"
	"math"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ToRGBA converts any color to non-premultiplied 8-bit RGBA, flattening
// alpha onto black.
func ToRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// Blend mixes src over dst with the given opacity (0-1). The result is
// opaque.
func Blend(dst, src color.RGBA, opacity float64) color.RGBA {
	a := math.Max(0, math.Min(1, opacity))
	inv := 1 - a
	mix := func(d, s uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*inv))
	}
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 255}
}
