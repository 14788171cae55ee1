package geometry

import "math"

// Snap rounds value to the nearest multiple of unit. Ties go to the even
// multiple, so 450 snaps to 440 on a 20 unit grid. A non-positive unit
// returns value unchanged.
func Snap(value, unit float64) float64 {
	if unit <= 0 {
		return value
	}
	return math.RoundToEven(value/unit) * unit
}

// SnapAtLeast snaps value to the grid but never below one unit.
func SnapAtLeast(value, unit float64) float64 {
	if value < unit {
		value = unit
	}
	return Snap(value, unit)
}

// SnapPoint snaps both coordinates of p.
func SnapPoint(p Point2D, unit float64) Point2D {
	return Point2D{X: Snap(p.X, unit), Y: Snap(p.Y, unit)}
}

// SnapSize snaps both dimensions of s.
func SnapSize(s Size, unit float64) Size {
	return Size{Width: Snap(s.Width, unit), Height: Snap(s.Height, unit)}
}
