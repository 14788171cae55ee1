package canvas

import (
	"image"
	"image/color"
	"testing"

	"pinboard/internal/app"
	"pinboard/internal/board"
	pbimage "pinboard/internal/image"
	"pinboard/pkg/geometry"
)

var red = color.RGBA{R: 255, A: 255}

func solidBitmap(w, h int) *pbimage.Bitmap {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], []uint8{red.R, red.G, red.B, red.A})
	}
	return &pbimage.Bitmap{Name: "red.png", Format: "png", Image: img}
}

func view(zoom float64, surface geometry.Size) app.ViewState {
	return app.ViewState{
		Zoom:      zoom,
		Surface:   surface,
		Transform: geometry.Scale(zoom, zoom),
	}
}

func element(x, y, w, h float64) board.Element {
	return board.Element{
		Position: geometry.NewPoint2D(x, y),
		Size:     geometry.NewSize(w, h),
		Bitmap:   solidBitmap(int(w), int(h)),
	}
}

func TestRenderSurfaceAndGrid(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 200, 150))
	Render(out, Scene{View: view(1, geometry.NewSize(100, 100)), Grid: 20})

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"surface", 50, 50, surfaceColor},
		{"outside surface", 150, 50, backgroundColor},
		{"below surface", 50, 120, backgroundColor},
		{"vertical grid line", 20, 5, gridColor},
		{"horizontal grid line", 5, 40, gridColor},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: pixel (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRenderSkipsDenseGrid(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 100, 100))
	Render(out, Scene{View: view(1, geometry.NewSize(100, 100)), Grid: 4})

	if got := out.RGBAAt(4, 5); got != surfaceColor {
		t.Errorf("pixel (4,5) = %v, want surface", got)
	}
}

func TestRenderElements(t *testing.T) {
	selected := element(20, 20, 40, 40)
	selected.Selected = true
	loading := board.Element{
		ID:       1,
		Position: geometry.NewPoint2D(100, 20),
		Size:     geometry.NewSize(60, 60),
		Loading:  true,
	}

	out := image.NewRGBA(image.Rect(0, 0, 200, 150))
	Render(out, Scene{
		View:       view(1, geometry.NewSize(200, 150)),
		Elements:   []board.Element{selected, loading},
		HandleSize: 12,
	})

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"bitmap interior", 30, 40, red},
		{"selection outline", 20, 40, selectionColor},
		{"resize handle", 58, 58, selectionColor},
		{"placeholder", 110, 45, loadingColor},
		{"placeholder diagonal", 130, 50, labelColor},
		{"between elements", 80, 100, surfaceColor},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: pixel (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRenderFollowsViewTransform(t *testing.T) {
	e := element(10, 10, 20, 20)

	tests := []struct {
		name  string
		zoom  float64
		scale float64
	}{
		{"zoom 2", 2, 1},
		{"pixel scale 2", 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := image.NewRGBA(image.Rect(0, 0, 100, 100))
			Render(out, Scene{
				View:       view(tt.zoom, geometry.NewSize(200, 200)),
				Elements:   []board.Element{e},
				PixelScale: tt.scale,
			})
			// Element covers pixels 20-60 either way
			if got := out.RGBAAt(55, 55); got != red {
				t.Errorf("inside: %v, want red", got)
			}
			if got := out.RGBAAt(65, 65); got != surfaceColor {
				t.Errorf("outside: %v, want surface", got)
			}
		})
	}
}

func TestDrawText(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 20, 10))
	drawText(out, "1", 0, 0, labelColor, 1)

	// '1' is 010/110/010/010/111
	if got := out.RGBAAt(1, 0); got != labelColor {
		t.Errorf("top stroke missing: %v", got)
	}
	if got := out.RGBAAt(0, 0); got == labelColor {
		t.Error("unexpected pixel at (0,0)")
	}
	if got := textSize("file-12", 2); got != image.Pt(7*3*2+6*2, 10) {
		t.Errorf("textSize = %v", got)
	}
}
