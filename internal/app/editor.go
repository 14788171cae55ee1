// Package app provides the editor state, configuration, events and
// application lifecycle helpers.
package app

import (
	"sync"

	"pinboard/internal/board"
	"pinboard/internal/gesture"
	pbimage "pinboard/internal/image"
	"pinboard/internal/placement"
	"pinboard/internal/viewport"
	"pinboard/pkg/geometry"

	"fyne.io/fyne/v2"
)

// EventType identifies different editor events.
type EventType int

const (
	EventElementAdded     EventType = iota // board.Element, placeholder created
	EventElementLoaded                     // board.Element, bitmap decoded
	EventElementChanged                    // board.Element, moved or resized
	EventElementRemoved                    // int element ID
	EventSelectionChanged                  // int element ID, -1 for none
	EventViewportChanged                   // ViewState
	EventDecodeFailed                      // DecodeFailure
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// DecodeFailure is the payload of EventDecodeFailed.
type DecodeFailure struct {
	Name string
	Err  error
}

// ViewState is a consistent snapshot of the viewport.
type ViewState struct {
	Zoom      float64
	Pan       geometry.Point2D
	Container geometry.Size
	Surface   geometry.Size
	Transform geometry.AffineTransform // Canvas-local to screen
}

// Editor owns one board together with its viewport, gesture dispatcher and
// drop placement. All viewport and gesture state is guarded by mu; the board
// has its own lock so decode goroutines can write to it directly.
type Editor struct {
	mu       sync.Mutex
	cfg      Config
	board    *board.Board
	view     *viewport.Viewport
	gestures *gesture.Dispatcher
	placer   *placement.Placer

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewEditor creates an empty editor.
func NewEditor(cfg Config) *Editor {
	e := &Editor{
		cfg:       cfg,
		board:     board.New(),
		view:      viewport.New(cfg.Surface, cfg.MinZoom, cfg.MaxZoom),
		listeners: make(map[EventType][]EventListener),
	}
	e.gestures = gesture.New(e.board, e.view, cfg.gestureConfig())
	e.placer = placement.New(e.board, cfg.placementConfig())

	e.placer.OnPlaced(func(el board.Element) { e.Emit(EventElementAdded, el) })
	e.placer.OnLoaded(func(el board.Element) { e.Emit(EventElementLoaded, el) })
	e.placer.OnFailed(func(name string, err error) {
		e.Emit(EventDecodeFailed, DecodeFailure{Name: name, Err: err})
	})
	return e
}

// On registers an event listener for the specified event type.
func (e *Editor) On(event EventType, listener EventListener) {
	e.lmu.Lock()
	defer e.lmu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type. Listeners for
// decode events run on decode goroutines.
func (e *Editor) Emit(event EventType, data interface{}) {
	e.lmu.RLock()
	listeners := e.listeners[event]
	e.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the editor configuration.
func (e *Editor) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Board returns the element store.
func (e *Editor) Board() *board.Board {
	return e.board
}

// View returns a snapshot of the viewport.
func (e *Editor) View() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewState()
}

func (e *Editor) viewState() ViewState {
	return ViewState{
		Zoom:      e.view.Zoom(),
		Pan:       e.view.Pan(),
		Container: e.view.Container(),
		Surface:   e.view.Surface(),
		Transform: e.view.Transform(),
	}
}

// ScreenToLocal converts a widget position to canvas-local units.
func (e *Editor) ScreenToLocal(p geometry.Point2D) geometry.Point2D {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.ScreenToLocal(p)
}

// Mode returns the active gesture mode.
func (e *Editor) Mode() gesture.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gestures.Mode()
}

// SetContainer updates the visible area size. Positions passed to the editor
// are relative to the container's top-left corner.
func (e *Editor) SetContainer(size geometry.Size) {
	e.mu.Lock()
	if e.view.Container() == size {
		e.mu.Unlock()
		return
	}
	e.view.SetContainer(size)
	vs := e.viewState()
	e.mu.Unlock()

	e.Emit(EventViewportChanged, vs)
}

// HitTest reports what lies under a widget position.
func (e *Editor) HitTest(p geometry.Point2D) board.Hit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hitTest(p)
}

func (e *Editor) hitTest(p geometry.Point2D) board.Hit {
	// Handle is a fixed screen size regardless of zoom
	return e.board.HitTest(e.view.ScreenToLocal(p), e.cfg.HandleSize/e.view.Zoom())
}

// Press starts a gesture at p. It returns true if a session started.
func (e *Editor) Press(p geometry.Point2D, mods fyne.KeyModifier) bool {
	e.mu.Lock()
	before := e.selectedID()
	started := e.gestures.Handle(gesture.Event{
		Kind:      gesture.Press,
		Position:  p,
		Modifiers: mods,
		Hit:       e.hitTest(p),
	})
	after := e.selectedID()
	e.mu.Unlock()

	if after != before {
		e.Emit(EventSelectionChanged, after)
	}
	return started
}

// Move continues the active gesture. It returns true if anything changed.
func (e *Editor) Move(p geometry.Point2D) bool {
	e.mu.Lock()
	session, active := e.gestures.Session()
	changed := active && e.gestures.Handle(gesture.Event{Kind: gesture.Move, Position: p})
	vs := e.viewState()
	e.mu.Unlock()

	if !changed {
		return false
	}
	if session.Mode == gesture.Panning {
		e.Emit(EventViewportChanged, vs)
	} else if el, ok := e.board.Get(session.ID); ok {
		e.Emit(EventElementChanged, el)
	}
	return true
}

// Release ends the active gesture, if any.
func (e *Editor) Release() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gestures.Handle(gesture.Event{Kind: gesture.Release})
}

// Scroll applies a wheel event at p. dy is positive when scrolling down.
// With the zoom modifier held the view zooms about p, otherwise it pans.
func (e *Editor) Scroll(p geometry.Point2D, dx, dy float64, mods fyne.KeyModifier) bool {
	e.mu.Lock()
	var changed bool
	if e.cfg.ZoomModifier != 0 && mods&e.cfg.ZoomModifier != 0 {
		changed = e.view.Scroll(p, dy, e.cfg.ZoomSensitivity)
	} else {
		before := e.view.Pan()
		e.view.PanBy(geometry.NewPoint2D(-dx, -dy))
		changed = e.view.Pan() != before
	}
	vs := e.viewState()
	e.mu.Unlock()

	if changed {
		e.Emit(EventViewportChanged, vs)
	}
	return changed
}

// ZoomIn zooms in one step about the container center.
func (e *Editor) ZoomIn() bool {
	return e.zoomTo(func(z float64) float64 { return z * e.cfg.ZoomStep })
}

// ZoomOut zooms out one step about the container center.
func (e *Editor) ZoomOut() bool {
	return e.zoomTo(func(z float64) float64 { return z / e.cfg.ZoomStep })
}

// ActualSize returns to zoom 1 about the container center.
func (e *Editor) ActualSize() bool {
	return e.zoomTo(func(float64) float64 { return 1 })
}

func (e *Editor) zoomTo(next func(float64) float64) bool {
	e.mu.Lock()
	changed := e.view.SetZoom(next(e.view.Zoom()))
	vs := e.viewState()
	e.mu.Unlock()

	if changed {
		e.Emit(EventViewportChanged, vs)
	}
	return changed
}

// Drop places the images among sources at the widget position p and returns
// how many were accepted. Elements appear asynchronously.
func (e *Editor) Drop(p geometry.Point2D, sources []pbimage.Source) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placer.Drop(e.view, p, sources)
}

// ImportAtCenter places sources at the center of the visible area.
func (e *Editor) ImportAtCenter(sources []pbimage.Source) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.view.Container()
	center := e.view.Origin().Add(geometry.NewPoint2D(c.Width/2, c.Height/2))
	return e.placer.Drop(e.view, center, sources)
}

// Wait blocks until every pending decode has finished.
func (e *Editor) Wait() {
	e.placer.Wait()
}

// DeleteSelected removes the selected element. Nothing is removed while a
// gesture is in progress.
func (e *Editor) DeleteSelected() bool {
	e.mu.Lock()
	if e.gestures.Mode() != gesture.Idle {
		e.mu.Unlock()
		return false
	}
	id := e.selectedID()
	removed := id >= 0 && e.board.Remove(id)
	e.mu.Unlock()

	if !removed {
		return false
	}
	e.Emit(EventElementRemoved, id)
	e.Emit(EventSelectionChanged, -1)
	return true
}

// ClearSelection deselects the selected element.
func (e *Editor) ClearSelection() bool {
	e.mu.Lock()
	if e.gestures.Mode() != gesture.Idle || e.selectedID() < 0 {
		e.mu.Unlock()
		return false
	}
	e.board.ClearSelection()
	e.mu.Unlock()

	e.Emit(EventSelectionChanged, -1)
	return true
}

// ResizeStrategy returns the active resize strategy.
func (e *Editor) ResizeStrategy() gesture.ResizeStrategy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Resize
}

// SetResizeStrategy switches the resize strategy for later gestures.
func (e *Editor) SetResizeStrategy(s gesture.ResizeStrategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Resize = s
	e.gestures.SetResizeStrategy(s)
}

// SetDropCascade changes the multi-file drop offset in grid units.
func (e *Editor) SetDropCascade(units float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.DropCascade = units
	e.placer.SetCascade(units)
}

func (e *Editor) selectedID() int {
	if el, ok := e.board.Selected(); ok {
		return el.ID
	}
	return -1
}
