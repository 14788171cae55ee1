package canvas

import (
	"image"
	"sync"

	"pinboard/internal/app"
	"pinboard/internal/board"
	"pinboard/internal/gesture"
	"pinboard/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// BoardCanvas displays an editor's board and forwards pointer input to it.
// Positions are relative to the widget, which is the viewport container.
type BoardCanvas struct {
	widget.BaseWidget

	editor *app.Editor
	raster *fynecanvas.Raster

	mu         sync.Mutex
	showGrid   bool
	hover      board.Hit
	lastOutput *image.RGBA

	// modifiers reports the keyboard modifiers held during a scroll
	modifiers func() fyne.KeyModifier
}

var (
	_ fyne.Widget        = (*BoardCanvas)(nil)
	_ fyne.Draggable     = (*BoardCanvas)(nil)
	_ fyne.Scrollable    = (*BoardCanvas)(nil)
	_ desktop.Mouseable  = (*BoardCanvas)(nil)
	_ desktop.Hoverable  = (*BoardCanvas)(nil)
	_ desktop.Cursorable = (*BoardCanvas)(nil)
)

// NewBoardCanvas creates a canvas for editor.
func NewBoardCanvas(editor *app.Editor) *BoardCanvas {
	bc := &BoardCanvas{
		editor:    editor,
		showGrid:  true,
		hover:     board.Hit{Kind: board.HitNone, ID: -1},
		modifiers: currentModifiers,
	}
	bc.raster = fynecanvas.NewRaster(bc.draw)
	bc.raster.ScaleMode = fynecanvas.ImageScalePixels
	bc.ExtendBaseWidget(bc)
	return bc
}

// currentModifiers asks the desktop driver which modifiers are held. Scroll
// events do not carry them.
func currentModifiers() fyne.KeyModifier {
	a := fyne.CurrentApp()
	if a == nil {
		return 0
	}
	if d, ok := a.Driver().(desktop.Driver); ok {
		return d.CurrentKeyModifiers()
	}
	return 0
}

func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(bc.raster)
}

func (bc *BoardCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Resize updates the editor's container size along with the widget.
func (bc *BoardCanvas) Resize(size fyne.Size) {
	bc.BaseWidget.Resize(size)
	bc.editor.SetContainer(geometry.NewSize(float64(size.Width), float64(size.Height)))
}

// Refresh redraws the board.
func (bc *BoardCanvas) Refresh() {
	bc.raster.Refresh()
}

// SetShowGrid toggles the grid.
func (bc *BoardCanvas) SetShowGrid(show bool) {
	bc.mu.Lock()
	bc.showGrid = show
	bc.mu.Unlock()
	bc.Refresh()
}

// ShowGrid reports whether the grid is drawn.
func (bc *BoardCanvas) ShowGrid() bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.showGrid
}

// RenderedOutput returns the last frame drawn.
func (bc *BoardCanvas) RenderedOutput() *image.RGBA {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.lastOutput
}

// draw is the raster generator; w and h are in output pixels.
func (bc *BoardCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	scale := 1.0
	if size := bc.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}

	cfg := bc.editor.Config()
	scene := Scene{
		View:       bc.editor.View(),
		Elements:   bc.editor.Board().Elements(),
		HandleSize: cfg.HandleSize,
		PixelScale: scale,
	}
	if bc.ShowGrid() {
		scene.Grid = cfg.Grid
	}
	Render(output, scene)

	bc.mu.Lock()
	bc.lastOutput = output
	bc.mu.Unlock()
	return output
}

// MouseDown starts a gesture for the primary button.
func (bc *BoardCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if bc.editor.Press(toPoint(ev.Position), ev.Modifier) {
		bc.Refresh()
	}
}

// MouseUp ends the active gesture.
func (bc *BoardCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	bc.editor.Release()
}

// Dragged continues the active gesture.
func (bc *BoardCanvas) Dragged(ev *fyne.DragEvent) {
	if bc.editor.Move(toPoint(ev.Position)) {
		bc.Refresh()
	}
}

// DragEnd ends the active gesture.
func (bc *BoardCanvas) DragEnd() {
	bc.editor.Release()
}

// Scrolled zooms about the pointer with the zoom modifier held and pans
// otherwise. Fyne reports upward scrolling as positive DY.
func (bc *BoardCanvas) Scrolled(ev *fyne.ScrollEvent) {
	p := toPoint(ev.Position)
	if bc.editor.Scroll(p, -float64(ev.Scrolled.DX), -float64(ev.Scrolled.DY), bc.modifiers()) {
		bc.Refresh()
	}
}

func (bc *BoardCanvas) MouseIn(ev *desktop.MouseEvent) {
	bc.updateHover(ev.Position)
}

// MouseMoved tracks the hovered element for the cursor shape.
func (bc *BoardCanvas) MouseMoved(ev *desktop.MouseEvent) {
	bc.updateHover(ev.Position)
}

func (bc *BoardCanvas) MouseOut() {
	bc.mu.Lock()
	bc.hover = board.Hit{Kind: board.HitNone, ID: -1}
	bc.mu.Unlock()
}

func (bc *BoardCanvas) updateHover(pos fyne.Position) {
	hit := bc.editor.HitTest(toPoint(pos))
	bc.mu.Lock()
	bc.hover = hit
	bc.mu.Unlock()
}

// Cursor reflects what a press at the pointer would do.
func (bc *BoardCanvas) Cursor() desktop.Cursor {
	switch bc.editor.Mode() {
	case gesture.Resizing:
		return desktop.CrosshairCursor
	case gesture.Dragging, gesture.Panning:
		return desktop.PointerCursor
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()
	switch bc.hover.Kind {
	case board.HitHandle:
		return desktop.CrosshairCursor
	case board.HitBody:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}
