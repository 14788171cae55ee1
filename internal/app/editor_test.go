package app

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pinboard/internal/board"
	"pinboard/internal/gesture"
	pbimage "pinboard/internal/image"
	"pinboard/pkg/geometry"

	"fyne.io/fyne/v2"
)

type eventLog struct {
	mu     sync.Mutex
	events map[EventType][]interface{}
}

func record(e *Editor, types ...EventType) *eventLog {
	l := &eventLog{events: make(map[EventType][]interface{})}
	for _, et := range types {
		et := et
		e.On(et, func(data interface{}) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.events[et] = append(l.events[et], data)
		})
	}
	return l
}

func (l *eventLog) get(et EventType) []interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]interface{}(nil), l.events[et]...)
}

func pngSource(t *testing.T, name string, w, h int) pbimage.Source {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return pbimage.FromPath(path)
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	e := NewEditor(DefaultConfig())
	e.SetContainer(geometry.NewSize(800, 600))
	return e
}

// dropOne places a 450x450 image at (100,100): a 440x440 element.
func dropOne(t *testing.T, e *Editor) int {
	t.Helper()
	if n := e.Drop(geometry.NewPoint2D(100, 100), []pbimage.Source{pngSource(t, "a.png", 450, 450)}); n != 1 {
		t.Fatalf("Drop accepted %d, want 1", n)
	}
	e.Wait()
	els := e.Board().Elements()
	if len(els) != 1 {
		t.Fatalf("board has %d elements, want 1", len(els))
	}
	return els[0].ID
}

func TestEditorDropEvents(t *testing.T) {
	e := newTestEditor(t)
	log := record(e, EventElementAdded, EventElementLoaded)

	id := dropOne(t, e)

	if got := len(log.get(EventElementAdded)); got != 1 {
		t.Errorf("added events = %d, want 1", got)
	}
	loaded := log.get(EventElementLoaded)
	if len(loaded) != 1 {
		t.Fatalf("loaded events = %d, want 1", len(loaded))
	}
	el, _ := e.Board().Get(id)
	if el.Position != geometry.NewPoint2D(100, 100) || el.Size != geometry.NewSize(440, 440) {
		t.Errorf("element at %v size %v, want (100,100) 440x440", el.Position, el.Size)
	}
	if el.Loading {
		t.Error("element still loading")
	}
}

func TestEditorDecodeFailure(t *testing.T) {
	e := newTestEditor(t)
	log := record(e, EventDecodeFailed)

	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	e.Drop(geometry.NewPoint2D(0, 0), []pbimage.Source{pbimage.FromPath(path)})
	e.Wait()

	failures := log.get(EventDecodeFailed)
	if len(failures) != 1 {
		t.Fatalf("failure events = %d, want 1", len(failures))
	}
	if f := failures[0].(DecodeFailure); f.Name != "broken.png" || f.Err == nil {
		t.Errorf("failure = %+v", f)
	}
	if e.Board().Len() != 0 {
		t.Error("placeholder left on the board")
	}
}

func TestEditorDragSelectsAndMoves(t *testing.T) {
	e := newTestEditor(t)
	id := dropOne(t, e)
	log := record(e, EventSelectionChanged, EventElementChanged)

	if !e.Press(geometry.NewPoint2D(150, 150), 0) {
		t.Fatal("press on body did not start a gesture")
	}
	if e.Mode() != gesture.Dragging {
		t.Fatalf("mode = %v, want Dragging", e.Mode())
	}
	if sel := log.get(EventSelectionChanged); len(sel) != 1 || sel[0].(int) != id {
		t.Errorf("selection events = %v, want [%d]", sel, id)
	}

	e.Move(geometry.NewPoint2D(250, 170))
	e.Release()

	el, _ := e.Board().Get(id)
	if el.Position != geometry.NewPoint2D(200, 120) {
		t.Errorf("position = %v, want (200,120)", el.Position)
	}
	if len(log.get(EventElementChanged)) != 1 {
		t.Errorf("changed events = %d, want 1", len(log.get(EventElementChanged)))
	}
	if e.Mode() != gesture.Idle {
		t.Errorf("mode after release = %v", e.Mode())
	}
}

func TestEditorHandleResize(t *testing.T) {
	e := newTestEditor(t)
	id := dropOne(t, e)

	// Bottom-right corner is (540,540); the handle is 12 screen pixels
	e.Press(geometry.NewPoint2D(535, 535), 0)
	if e.Mode() != gesture.Resizing {
		t.Fatalf("mode = %v, want Resizing", e.Mode())
	}
	e.Move(geometry.NewPoint2D(575, 535))
	e.Release()

	el, _ := e.Board().Get(id)
	if el.Size != geometry.NewSize(480, 480) {
		t.Errorf("size = %v, want 480x480", el.Size)
	}
}

func TestEditorHandleScalesWithZoom(t *testing.T) {
	e := newTestEditor(t)
	dropOne(t, e)

	// At zoom 2 the corner (540,540) is at screen (1080,1080) minus pan.
	e.Scroll(geometry.NewPoint2D(0, 0), 0, -50, fyne.KeyModifierControl)
	vs := e.View()
	if math.Abs(vs.Zoom-2) > 1e-9 {
		t.Fatalf("zoom = %v, want 2", vs.Zoom)
	}
	corner := vs.Transform.Apply(geometry.NewPoint2D(540, 540))
	hit := e.HitTest(corner.Sub(geometry.NewPoint2D(10, 10)))
	if hit.Kind != board.HitHandle {
		t.Errorf("10px inside the corner hit %v, want Handle", hit.Kind)
	}
	hit = e.HitTest(corner.Sub(geometry.NewPoint2D(14, 14)))
	if hit.Kind != board.HitBody {
		t.Errorf("14px inside the corner hit %v, want Body", hit.Kind)
	}
}

func TestEditorPanGesture(t *testing.T) {
	e := newTestEditor(t)
	dropOne(t, e)
	log := record(e, EventViewportChanged)

	if e.Press(geometry.NewPoint2D(700, 580), 0) {
		t.Fatal("press on empty area without modifier started a gesture")
	}
	if !e.Press(geometry.NewPoint2D(700, 580), fyne.KeyModifierAlt) {
		t.Fatal("alt-press on empty area did not start panning")
	}
	e.Move(geometry.NewPoint2D(650, 540))
	e.Release()

	if got := e.View().Pan; got != geometry.NewPoint2D(-50, -40) {
		t.Errorf("pan = %v, want (-50,-40)", got)
	}
	if len(log.get(EventViewportChanged)) != 1 {
		t.Errorf("viewport events = %d, want 1", len(log.get(EventViewportChanged)))
	}
}

func TestEditorScroll(t *testing.T) {
	e := newTestEditor(t)

	if !e.Scroll(geometry.NewPoint2D(0, 0), 0, 30, 0) {
		t.Fatal("plain scroll did not pan")
	}
	if got := e.View().Pan; got != geometry.NewPoint2D(0, -30) {
		t.Errorf("pan = %v, want (0,-30)", got)
	}

	// Scrolling up at the top edge is clamped
	e.Scroll(geometry.NewPoint2D(0, 0), 0, -100, 0)
	if got := e.View().Pan; got != geometry.NewPoint2D(0, 0) {
		t.Errorf("pan = %v, want (0,0)", got)
	}

	cursor := geometry.NewPoint2D(400, 300)
	before := e.ScreenToLocal(cursor)
	e.Scroll(cursor, 0, -25, fyne.KeyModifierControl)
	if got := e.View().Zoom; math.Abs(got-1.5) > 1e-9 {
		t.Errorf("zoom = %v, want 1.5", got)
	}
	if after := e.ScreenToLocal(cursor); after.Distance(before) > 1e-9 {
		t.Errorf("point under cursor moved from %v to %v", before, after)
	}
}

func TestEditorZoomCommands(t *testing.T) {
	e := newTestEditor(t)

	e.ZoomIn()
	if got := e.View().Zoom; got != 1.25 {
		t.Errorf("zoom in = %v, want 1.25", got)
	}
	e.ActualSize()
	if got := e.View().Zoom; got != 1 {
		t.Errorf("actual size = %v, want 1", got)
	}
	e.ZoomOut()
	if got := e.View().Zoom; got != 0.8 {
		t.Errorf("zoom out = %v, want 0.8", got)
	}
	for i := 0; i < 10; i++ {
		e.ZoomOut()
	}
	if got := e.View().Zoom; got != 0.5 {
		t.Errorf("zoom floor = %v, want 0.5", got)
	}
	if e.ZoomOut() {
		t.Error("zoom out at the floor reported a change")
	}
}

func TestEditorDeleteSelected(t *testing.T) {
	e := newTestEditor(t)
	id := dropOne(t, e)
	log := record(e, EventElementRemoved, EventSelectionChanged)

	if e.DeleteSelected() {
		t.Fatal("deleted with nothing selected")
	}

	e.Press(geometry.NewPoint2D(150, 150), 0)
	if e.DeleteSelected() {
		t.Error("deleted during a gesture")
	}
	e.Release()

	if !e.DeleteSelected() {
		t.Fatal("DeleteSelected failed")
	}
	if e.Board().Len() != 0 {
		t.Error("element still on the board")
	}
	if removed := log.get(EventElementRemoved); len(removed) != 1 || removed[0].(int) != id {
		t.Errorf("removed events = %v", removed)
	}
	sel := log.get(EventSelectionChanged)
	if len(sel) != 2 || sel[1].(int) != -1 {
		t.Errorf("selection events = %v, want [%d -1]", sel, id)
	}
}

func TestEditorClearSelection(t *testing.T) {
	e := newTestEditor(t)
	dropOne(t, e)

	if e.ClearSelection() {
		t.Error("cleared an empty selection")
	}
	e.Press(geometry.NewPoint2D(150, 150), 0)
	e.Release()
	if !e.ClearSelection() {
		t.Fatal("ClearSelection failed")
	}
	if _, ok := e.Board().Selected(); ok {
		t.Error("element still selected")
	}
}

func TestEditorImportAtCenter(t *testing.T) {
	e := newTestEditor(t)
	e.SetDropCascade(1)

	n := e.ImportAtCenter([]pbimage.Source{
		pngSource(t, "a.png", 40, 40),
		pngSource(t, "b.png", 40, 40),
	})
	e.Wait()
	if n != 2 {
		t.Fatalf("accepted %d, want 2", n)
	}

	got := map[geometry.Point2D]bool{}
	for _, el := range e.Board().Elements() {
		got[el.Position] = true
	}
	for _, want := range []geometry.Point2D{{X: 400, Y: 300}, {X: 420, Y: 320}} {
		if !got[want] {
			t.Errorf("no element at %v (have %v)", want, got)
		}
	}
}

func TestEditorResizeStrategySwitch(t *testing.T) {
	e := newTestEditor(t)
	id := dropOne(t, e)

	e.SetResizeStrategy(gesture.ResizeFree)
	if e.ResizeStrategy() != gesture.ResizeFree {
		t.Fatal("strategy not switched")
	}
	e.Press(geometry.NewPoint2D(535, 535), 0)
	e.Move(geometry.NewPoint2D(575, 455))
	e.Release()

	el, _ := e.Board().Get(id)
	if el.Size != geometry.NewSize(480, 360) {
		t.Errorf("size = %v, want 480x360", el.Size)
	}
}
