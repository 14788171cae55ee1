package image

import "pinboard/pkg/geometry"

// Orientation is the EXIF orientation tag value (1-8).
type Orientation int

const (
	OrientationNormal     Orientation = 1
	OrientationFlipH      Orientation = 2
	OrientationRotate180  Orientation = 3
	OrientationFlipV      Orientation = 4
	OrientationTranspose  Orientation = 5
	OrientationRotate90   Orientation = 6 // Clockwise
	OrientationTransverse Orientation = 7
	OrientationRotate270  Orientation = 8 // Clockwise
)

// ParseOrientation converts a raw tag value, mapping anything outside 1-8 to
// OrientationNormal.
func ParseOrientation(v int) Orientation {
	if v < 1 || v > 8 {
		return OrientationNormal
	}
	return Orientation(v)
}

// Transposed reports whether the orientation swaps width and height.
func (o Orientation) Transposed() bool {
	return o >= OrientationTranspose && o <= OrientationRotate270
}

// Matrix maps stored pixel coordinates of a w x h image to displayed
// coordinates.
func (o Orientation) Matrix(w, h float64) geometry.AffineTransform {
	switch o {
	case OrientationFlipH:
		return geometry.AffineTransform{A: -1, TX: w, D: 1}
	case OrientationRotate180:
		return geometry.AffineTransform{A: -1, TX: w, D: -1, TY: h}
	case OrientationFlipV:
		return geometry.AffineTransform{A: 1, D: -1, TY: h}
	case OrientationTranspose:
		return geometry.AffineTransform{B: 1, C: 1}
	case OrientationRotate90:
		return geometry.AffineTransform{B: -1, TX: h, C: 1}
	case OrientationTransverse:
		return geometry.AffineTransform{B: -1, TX: h, C: -1, TY: w}
	case OrientationRotate270:
		return geometry.AffineTransform{B: 1, C: -1, TY: w}
	default:
		return geometry.Identity()
	}
}
