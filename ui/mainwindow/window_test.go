package mainwindow

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pinboard/internal/app"
	"pinboard/internal/gesture"
	"pinboard/pkg/geometry"
	"pinboard/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
)

func newTestWindow(t *testing.T) (*MainWindow, *app.Editor, *prefs.Prefs) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	p := prefs.LoadFrom(t.TempDir())
	e := app.NewEditor(app.DefaultConfig())
	mw := New(a, e, p)
	return mw, e, p
}

func writePNG(t *testing.T, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDropPlacesImages(t *testing.T) {
	mw, e, _ := newTestWindow(t)

	uri := storage.NewFileURI(writePNG(t, "photo.png", 450, 450))
	if n := mw.dropAt(fyne.NewPos(100, 100), []fyne.URI{uri}); n != 1 {
		t.Fatalf("dropAt accepted %d, want 1", n)
	}
	e.Wait()

	els := e.Board().Elements()
	if len(els) != 1 {
		t.Fatalf("board has %d elements", len(els))
	}
	if els[0].Position != geometry.NewPoint2D(100, 100) || els[0].Size != geometry.NewSize(440, 440) {
		t.Errorf("element at %v size %v", els[0].Position, els[0].Size)
	}
	if els[0].Name != "photo.png" {
		t.Errorf("name = %q", els[0].Name)
	}
}

func TestDropIgnoresNonImages(t *testing.T) {
	mw, e, _ := newTestWindow(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if n := mw.dropAt(fyne.NewPos(0, 0), []fyne.URI{storage.NewFileURI(path)}); n != 0 {
		t.Errorf("accepted %d, want 0", n)
	}
	e.Wait()
	if e.Board().Len() != 0 {
		t.Error("text file placed on the board")
	}
	if got := mw.statusBar.Text; got != "No images in drop" {
		t.Errorf("status = %q", got)
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	mw, e, _ := newTestWindow(t)
	mw.ImportFiles([]string{writePNG(t, "a.png", 100, 100)})
	e.Wait()

	el := e.Board().Elements()[0]
	center := el.Bounds().Center()
	screen := e.View().Transform.Apply(center)

	e.Press(screen, 0)
	e.Release()
	mw.handleKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if _, ok := e.Board().Selected(); ok {
		t.Error("Escape did not clear the selection")
	}

	e.Press(screen, 0)
	e.Release()
	mw.handleKey(&fyne.KeyEvent{Name: fyne.KeyDelete})
	if e.Board().Len() != 0 {
		t.Error("Delete did not remove the element")
	}

	mw.handleKey(&fyne.KeyEvent{Name: fyne.KeyEqual})
	if got := e.View().Zoom; got != 1.25 {
		t.Errorf("zoom after '=' = %v, want 1.25", got)
	}
	if got := mw.zoomLabel.Text; got != "125%" {
		t.Errorf("zoom label = %q", got)
	}
	mw.handleKey(&fyne.KeyEvent{Name: fyne.Key0})
	if got := e.View().Zoom; got != 1 {
		t.Errorf("zoom after '0' = %v, want 1", got)
	}
}

func TestToggleAspect(t *testing.T) {
	mw, e, p := newTestWindow(t)

	mw.onToggleAspect()
	if e.ResizeStrategy() != gesture.ResizeFree {
		t.Errorf("strategy = %v, want free", e.ResizeStrategy())
	}
	if mw.aspectItem.Checked {
		t.Error("menu item still checked")
	}
	if got := p.String(app.PrefResizeStrategy); got != "free" {
		t.Errorf("stored strategy = %q", got)
	}

	mw.onToggleAspect()
	if e.ResizeStrategy() != gesture.ResizeAspect {
		t.Errorf("strategy = %v, want aspect", e.ResizeStrategy())
	}
}

func TestToggleGridSaved(t *testing.T) {
	mw, _, p := newTestWindow(t)

	mw.onToggleGrid()
	if mw.canvas.ShowGrid() || mw.gridItem.Checked {
		t.Error("grid still shown")
	}
	mw.SavePreferencesIfChanged()

	if _, err := os.Stat(p.Path()); err != nil {
		t.Fatalf("preferences not written: %v", err)
	}
	if prefs.LoadFrom(filepath.Dir(p.Path())).Bool(prefKeyShowGrid, true) {
		t.Error("showGrid not persisted")
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		count    int
		label    string
		size     geometry.Size
		selected bool
		want     string
	}{
		{0, "", geometry.Size{}, false, "0 images"},
		{1, "file-0", geometry.NewSize(440, 440), true, "1 image | file-0 440x440"},
		{3, "", geometry.Size{}, false, "3 images"},
	}
	for _, tt := range tests {
		if got := statusText(tt.count, tt.label, tt.size, tt.selected); got != tt.want {
			t.Errorf("statusText(%d, %q) = %q, want %q", tt.count, tt.label, got, tt.want)
		}
	}
}

func TestZoomText(t *testing.T) {
	tests := map[float64]string{1: "100%", 0.5: "50%", 1.25: "125%", 2.999: "300%"}
	for zoom, want := range tests {
		if got := zoomText(zoom); got != want {
			t.Errorf("zoomText(%v) = %q, want %q", zoom, got, want)
		}
	}
}
