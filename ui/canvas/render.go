package canvas

import (
	"image"
	"image/color"
	"math"

	"pinboard/internal/app"
	"pinboard/internal/board"
	pbimage "pinboard/internal/image"
	"pinboard/pkg/colorutil"
	"pinboard/pkg/geometry"
)

// minGridSpacing is the smallest on-screen grid pitch, in pixels, that is
// still drawn.
const minGridSpacing = 6

// Palette of the renderer.
var (
	backgroundColor = color.RGBA{R: 0x5A, G: 0x5A, B: 0x5A, A: 0xFF}
	surfaceColor    = colorutil.ToRGBA(app.SurfaceColor)
	gridColor       = colorutil.ToRGBA(app.GridColor)
	selectionColor  = colorutil.ToRGBA(app.SelectionColor)
	loadingColor    = colorutil.ToRGBA(app.LoadingColor)
	labelColor      = colorutil.ToRGBA(app.LabelColor)
)

// Scene is everything needed to draw one frame.
type Scene struct {
	View       app.ViewState
	Elements   []board.Element // Draw order, bottom first
	Grid       float64         // Canvas-local units, 0 disables the grid
	HandleSize float64         // Screen units
	PixelScale float64         // Output pixels per screen unit
}

// Render draws scene into output. Elements are drawn in order, each with its
// label, and the selected element gets an outline and a resize handle.
func Render(output *image.RGBA, scene Scene) {
	fillRect(output, output.Bounds(), backgroundColor)

	scale := scene.PixelScale
	if scale <= 0 {
		scale = 1
	}
	toPixels := geometry.Scale(scale, scale).Compose(scene.View.Transform)

	surface := geometry.RectFrom(geometry.Point2D{}, scene.View.Surface)
	surfaceRect := pixelRect(toPixels.ApplyRects([]geometry.Rect{surface})[0])
	fillRect(output, surfaceRect, surfaceColor)

	if scene.Grid > 0 && scene.Grid*scene.View.Zoom*scale >= minGridSpacing {
		drawGrid(output, toPixels, surface, surfaceRect, scene.Grid)
	}

	if len(scene.Elements) == 0 {
		return
	}

	bounds := make([]geometry.Rect, len(scene.Elements))
	for i, e := range scene.Elements {
		bounds[i] = e.Bounds()
	}
	targets := toPixels.ApplyRects(bounds)

	labelScale := int(math.Max(1, math.Min(3, math.Round(scene.View.Zoom*scale*1.5))))
	handle := int(math.Round(scene.HandleSize * scale))

	for i, e := range scene.Elements {
		target := targets[i]
		r := pixelRect(target)
		if !r.Overlaps(output.Bounds()) {
			continue
		}

		if e.Loading || e.Bitmap == nil {
			drawPlaceholder(output, r)
		} else {
			comp := pbimage.NewComposite(output.Rect.Dx(), output.Rect.Dy())
			comp.AddLayer(e.Bitmap, target, 1)
			comp.RenderInto(output)
		}

		drawElementLabel(output, e.Label(), r, labelScale)

		if e.Selected {
			strokeRect(output, r, selectionColor, int(math.Max(2, math.Round(scale*2))))
			fillRect(output, image.Rect(r.Max.X-handle, r.Max.Y-handle, r.Max.X, r.Max.Y), selectionColor)
		}
	}
}

// drawGrid draws grid lines over the visible part of the surface.
func drawGrid(output *image.RGBA, toPixels geometry.AffineTransform, surface geometry.Rect, surfaceRect image.Rectangle, grid float64) {
	clip := surfaceRect.Intersect(output.Bounds())
	if clip.Empty() {
		return
	}

	// Visible canvas-local extent
	inv, ok := toPixels.Inverse()
	if !ok {
		return
	}
	tl := inv.Apply(geometry.NewPoint2D(float64(clip.Min.X), float64(clip.Min.Y)))
	br := inv.Apply(geometry.NewPoint2D(float64(clip.Max.X), float64(clip.Max.Y)))

	for x := math.Ceil(tl.X/grid) * grid; x <= math.Min(br.X, surface.Width); x += grid {
		px := int(math.Round(toPixels.Apply(geometry.NewPoint2D(x, 0)).X))
		fillRect(output, image.Rect(px, clip.Min.Y, px+1, clip.Max.Y), gridColor)
	}
	for y := math.Ceil(tl.Y/grid) * grid; y <= math.Min(br.Y, surface.Height); y += grid {
		py := int(math.Round(toPixels.Apply(geometry.NewPoint2D(0, y)).Y))
		fillRect(output, image.Rect(clip.Min.X, py, clip.Max.X, py+1), gridColor)
	}
}

// drawPlaceholder marks an element whose bitmap is still decoding.
func drawPlaceholder(output *image.RGBA, r image.Rectangle) {
	fillRect(output, r, loadingColor)
	dashedRect(output, r, labelColor)
	drawLine(output, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, labelColor)
	drawLine(output, r.Min.X, r.Max.Y-1, r.Max.X-1, r.Min.Y, labelColor)
}

// drawElementLabel draws the element identifier on a light backing in the
// top-left corner, when it fits.
func drawElementLabel(output *image.RGBA, label string, r image.Rectangle, scale int) {
	size := textSize(label, scale)
	pad := scale * 2
	box := image.Rect(r.Min.X, r.Min.Y, r.Min.X+size.X+2*pad, r.Min.Y+size.Y+2*pad)
	if box.Dx() > r.Dx() || box.Dy() > r.Dy() {
		return
	}
	shadeRect(output, box, colorutil.White, 0.75)
	drawText(output, label, box.Min.X+pad, box.Min.Y+pad, labelColor, scale)
}

// pixelRect rounds a screen rectangle to whole pixels.
func pixelRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}
