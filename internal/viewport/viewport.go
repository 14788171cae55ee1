// Package viewport tracks the zoom and pan applied to the board surface and
// converts between screen and canvas-local coordinates.
package viewport

import (
	"math"

	"pinboard/pkg/geometry"
)

// Viewport holds the zoom factor and pan offset of a board view.
//
// Screen coordinates are relative to the same origin as the container
// position passed to SetOrigin. Canvas-local coordinates are unzoomed and
// unpanned surface units. The pan offset is kept clamped after every
// mutation so the zoomed surface never leaves the container entirely.
//
// A Viewport is not safe for concurrent use; the owning editor serializes
// access.
type Viewport struct {
	zoom    float64
	minZoom float64
	maxZoom float64

	pan       geometry.Point2D
	origin    geometry.Point2D
	container geometry.Size
	surface   geometry.Size
}

// New creates a viewport for a surface of the given unzoomed size.
func New(surface geometry.Size, minZoom, maxZoom float64) *Viewport {
	if minZoom <= 0 {
		minZoom = 0.1
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	v := &Viewport{
		zoom:    1,
		minZoom: minZoom,
		maxZoom: maxZoom,
		surface: surface,
	}
	v.zoom = v.clampZoom(1)
	return v
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// ZoomLimits returns the configured zoom bounds.
func (v *Viewport) ZoomLimits() (min, max float64) {
	return v.minZoom, v.maxZoom
}

// Pan returns the current pan offset in screen pixels.
func (v *Viewport) Pan() geometry.Point2D {
	return v.pan
}

// Origin returns the container origin in screen coordinates.
func (v *Viewport) Origin() geometry.Point2D {
	return v.origin
}

// SetOrigin sets the container origin in screen coordinates.
func (v *Viewport) SetOrigin(origin geometry.Point2D) {
	v.origin = origin
}

// Container returns the size of the visible container.
func (v *Viewport) Container() geometry.Size {
	return v.container
}

// SetContainer records a new visible container size and re-clamps the pan.
func (v *Viewport) SetContainer(size geometry.Size) {
	v.container = size
	v.clampPan()
}

// Surface returns the unzoomed surface size.
func (v *Viewport) Surface() geometry.Size {
	return v.surface
}

// ScreenToLocal converts a screen point to canvas-local coordinates.
func (v *Viewport) ScreenToLocal(p geometry.Point2D) geometry.Point2D {
	return p.Sub(v.origin).Sub(v.pan).Scale(1 / v.zoom)
}

// LocalToScreen converts a canvas-local point to screen coordinates.
func (v *Viewport) LocalToScreen(p geometry.Point2D) geometry.Point2D {
	return p.Scale(v.zoom).Add(v.pan).Add(v.origin)
}

// Transform returns the canvas-local to screen transform.
func (v *Viewport) Transform() geometry.AffineTransform {
	offset := v.origin.Add(v.pan)
	return geometry.Translation(offset.X, offset.Y).Compose(geometry.Scale(v.zoom, v.zoom))
}

// PanTo sets the pan offset and clamps it.
func (v *Viewport) PanTo(p geometry.Point2D) {
	v.pan = p
	v.clampPan()
}

// PanBy moves the pan offset by a screen-space delta and clamps it.
func (v *Viewport) PanBy(d geometry.Point2D) {
	v.PanTo(v.pan.Add(d))
}

// ZoomAt changes the zoom by delta while keeping the canvas-local point under
// the screen point cursor fixed. It returns false when the zoom was already at
// the limit in the requested direction.
func (v *Viewport) ZoomAt(cursor geometry.Point2D, delta float64) bool {
	newZoom := v.clampZoom(v.zoom + delta)
	if newZoom == v.zoom {
		return false
	}

	local := v.ScreenToLocal(cursor)
	v.pan = v.pan.Sub(local.Scale(newZoom - v.zoom))
	v.zoom = newZoom
	v.clampPan()
	return true
}

// Scroll applies a wheel gesture: positive dy zooms out, negative zooms in.
func (v *Viewport) Scroll(cursor geometry.Point2D, dy, sensitivity float64) bool {
	return v.ZoomAt(cursor, -dy*sensitivity)
}

// SetZoom sets an absolute zoom about the container center.
func (v *Viewport) SetZoom(zoom float64) bool {
	center := v.origin.Add(geometry.NewPoint2D(v.container.Width/2, v.container.Height/2))
	return v.ZoomAt(center, zoom-v.zoom)
}

// Reset restores zoom 1 with no pan.
func (v *Viewport) Reset() {
	v.zoom = v.clampZoom(1)
	v.pan = geometry.Point2D{}
	v.clampPan()
}

// VisibleLocal returns the canvas-local rectangle currently inside the
// container.
func (v *Viewport) VisibleLocal() geometry.Rect {
	tl := v.ScreenToLocal(v.origin)
	br := v.ScreenToLocal(v.origin.Add(geometry.NewPoint2D(v.container.Width, v.container.Height)))
	return geometry.NewRect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
}

func (v *Viewport) clampZoom(z float64) float64 {
	return math.Max(v.minZoom, math.Min(v.maxZoom, z))
}

// clampPan keeps pan within [container - surface*zoom, 0] on each axis. When
// the zoomed surface is smaller than the container the pan pins to 0.
func (v *Viewport) clampPan() {
	minX := v.container.Width - v.surface.Width*v.zoom
	minY := v.container.Height - v.surface.Height*v.zoom
	v.pan.X = math.Min(0, math.Max(minX, v.pan.X))
	v.pan.Y = math.Min(0, math.Max(minY, v.pan.Y))
}
