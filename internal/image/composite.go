package image

import (
	"image"
	"image/color"

	"pinboard/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Composite draws bitmaps into screen-space rectangles on a background.
type Composite struct {
	Width     int
	Height    int
	Layers    []*CompositeLayer
	BackColor color.Color
}

// CompositeLayer places one bitmap into a destination rectangle.
type CompositeLayer struct {
	Bitmap  *Bitmap
	Dst     geometry.Rect // Screen-space target
	Opacity float64       // 0.0 - 1.0
}

// NewComposite creates a new Composite with the specified dimensions.
func NewComposite(width, height int) *Composite {
	return &Composite{
		Width:     width,
		Height:    height,
		BackColor: color.RGBA{40, 40, 40, 255}, // Dark gray background
	}
}

// AddLayer adds a bitmap to the composite.
func (c *Composite) AddLayer(bm *Bitmap, dst geometry.Rect, opacity float64) {
	c.Layers = append(c.Layers, &CompositeLayer{
		Bitmap:  bm,
		Dst:     dst,
		Opacity: opacity,
	})
}

// Render produces the final composited image.
func (c *Composite) Render() *image.RGBA {
	result := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(result, result.Bounds(), &image.Uniform{c.BackColor}, image.Point{}, draw.Src)
	c.RenderInto(result)
	return result
}

// RenderInto draws the layers over an existing image.
func (c *Composite) RenderInto(dst *image.RGBA) {
	for _, cl := range c.Layers {
		if cl.Bitmap == nil || cl.Bitmap.Image == nil || cl.Opacity <= 0 {
			continue
		}
		if cl.Dst.Width <= 0 || cl.Dst.Height <= 0 {
			continue
		}
		if !cl.Dst.Intersects(geometry.NewRect(0, 0, float64(dst.Rect.Dx()), float64(dst.Rect.Dy()))) {
			continue
		}
		compositeLayer(dst, cl)
	}
}

// compositeLayer scales a single bitmap into its target, honouring the EXIF
// orientation.
func compositeLayer(dst *image.RGBA, cl *CompositeLayer) {
	src := cl.Bitmap.Image
	sb := src.Bounds()
	natural := cl.Bitmap.Natural()

	s2d := geometry.Translation(cl.Dst.X, cl.Dst.Y).
		Compose(geometry.Scale(cl.Dst.Width/natural.Width, cl.Dst.Height/natural.Height)).
		Compose(cl.Bitmap.Orientation.Matrix(float64(sb.Dx()), float64(sb.Dy()))).
		Compose(geometry.Translation(-float64(sb.Min.X), -float64(sb.Min.Y)))

	var opts *draw.Options
	if cl.Opacity < 1 {
		opts = &draw.Options{
			DstMask: image.NewUniform(color.Alpha{A: uint8(clamp(cl.Opacity, 0, 1) * 255)}),
		}
	}

	draw.ApproxBiLinear.Transform(dst, toAff3(s2d), src, sb, draw.Over, opts)
}

func toAff3(t geometry.AffineTransform) f64.Aff3 {
	return f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
