package image

import (
	"image"
	"image/color"
	"testing"

	"pinboard/pkg/geometry"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestCompositeScalesIntoTarget(t *testing.T) {
	c := NewComposite(40, 40)
	c.AddLayer(&Bitmap{Image: solid(10, 10, red)}, geometry.NewRect(5, 5, 20, 20), 1)
	out := c.Render()

	if got := out.RGBAAt(15, 15); got != red {
		t.Errorf("Expected red inside target, got %v", got)
	}
	if got := out.RGBAAt(2, 2); got != (color.RGBA{40, 40, 40, 255}) {
		t.Errorf("Expected background outside target, got %v", got)
	}
	if got := out.RGBAAt(30, 30); got != (color.RGBA{40, 40, 40, 255}) {
		t.Errorf("Expected background past target, got %v", got)
	}
}

func TestCompositeHonoursOrientation(t *testing.T) {
	// Left half red, right half blue; rotated 90 clockwise the red half
	// ends up on top.
	src := solid(20, 10, blue)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetRGBA(x, y, red)
		}
	}

	c := NewComposite(10, 20)
	c.AddLayer(&Bitmap{Image: src, Orientation: OrientationRotate90}, geometry.NewRect(0, 0, 10, 20), 1)
	out := c.Render()

	if got := out.RGBAAt(5, 3); got != red {
		t.Errorf("Expected red at top, got %v", got)
	}
	if got := out.RGBAAt(5, 17); got != blue {
		t.Errorf("Expected blue at bottom, got %v", got)
	}
}

func TestCompositeSkipsEmptyLayers(t *testing.T) {
	c := NewComposite(8, 8)
	c.AddLayer(nil, geometry.NewRect(0, 0, 8, 8), 1)
	c.AddLayer(&Bitmap{Image: solid(4, 4, red)}, geometry.NewRect(0, 0, 0, 8), 1)
	c.AddLayer(&Bitmap{Image: solid(4, 4, red)}, geometry.NewRect(0, 0, 8, 8), 0)
	c.AddLayer(&Bitmap{Image: solid(4, 4, red)}, geometry.NewRect(100, 100, 8, 8), 1)

	out := c.Render()
	if got := out.RGBAAt(4, 4); got != (color.RGBA{40, 40, 40, 255}) {
		t.Errorf("Expected untouched background, got %v", got)
	}
}
