// Package gesture turns pointer press/move/release events into pan, drag and
// resize operations on a board.
package gesture

import (
	"fmt"
	"strings"

	"pinboard/internal/board"
	"pinboard/pkg/geometry"

	"fyne.io/fyne/v2"
)

// Mode is the dispatcher state.
type Mode int

const (
	Idle Mode = iota
	Panning
	Dragging
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Panning:
		return "Panning"
	case Dragging:
		return "Dragging"
	case Resizing:
		return "Resizing"
	default:
		return "Idle"
	}
}

// ResizeStrategy selects how a resize gesture maps pointer movement to size.
type ResizeStrategy int

const (
	// ResizeAspect drives width from horizontal movement and derives the
	// height from the aspect ratio captured when the gesture started.
	ResizeAspect ResizeStrategy = iota
	// ResizeFree drives width and height independently.
	ResizeFree
)

func (s ResizeStrategy) String() string {
	if s == ResizeFree {
		return "free"
	}
	return "aspect"
}

// ParseResizeStrategy parses "aspect" or "free".
func ParseResizeStrategy(s string) (ResizeStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aspect":
		return ResizeAspect, nil
	case "free":
		return ResizeFree, nil
	default:
		return ResizeAspect, fmt.Errorf("unknown resize strategy %q", s)
	}
}

// Kind identifies a pointer event.
type Kind int

const (
	Press Kind = iota
	Move
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "Press"
	case Move:
		return "Move"
	default:
		return "Release"
	}
}

// Event is a pointer event in screen coordinates. Hit is only read for Press.
type Event struct {
	Kind      Kind
	Position  geometry.Point2D
	Modifiers fyne.KeyModifier
	Hit       board.Hit
}

// Scene is the element store the dispatcher manipulates.
type Scene interface {
	Get(id int) (board.Element, bool)
	Move(id int, pos geometry.Point2D) bool
	Resize(id int, size geometry.Size) bool
	Select(id int) bool
}

// View is the part of the viewport the dispatcher reads and pans.
type View interface {
	Zoom() float64
	Pan() geometry.Point2D
	PanTo(p geometry.Point2D)
}

// Config controls snapping, resizing and the pan modifier.
type Config struct {
	Grid        float64
	Resize      ResizeStrategy
	PanModifier fyne.KeyModifier
}

// DefaultConfig returns a 20 unit grid, aspect-preserving resize and
// Alt-drag panning.
func DefaultConfig() Config {
	return Config{
		Grid:        20,
		Resize:      ResizeAspect,
		PanModifier: fyne.KeyModifierAlt,
	}
}

// Session is the state of one press-to-release interaction.
type Session struct {
	Mode      Mode
	ID        int // Target element, -1 when panning
	Start     geometry.Point2D
	StartPan  geometry.Point2D
	StartPos  geometry.Point2D
	StartSize geometry.Size
	Aspect    float64 // Height/width at press
}

// Dispatcher is the gesture state machine. At most one session is active;
// presses while a session is active are ignored.
type Dispatcher struct {
	cfg     Config
	scene   Scene
	view    View
	session *Session
}

// New creates an idle dispatcher.
func New(scene Scene, view View, cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg, scene: scene, view: view}
}

// Mode returns the current state.
func (d *Dispatcher) Mode() Mode {
	if d.session == nil {
		return Idle
	}
	return d.session.Mode
}

// Session returns a copy of the active session.
func (d *Dispatcher) Session() (Session, bool) {
	if d.session == nil {
		return Session{}, false
	}
	return *d.session, true
}

// Config returns the active configuration.
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// SetResizeStrategy switches the resize strategy for subsequent sessions.
func (d *Dispatcher) SetResizeStrategy(s ResizeStrategy) {
	d.cfg.Resize = s
}

// Handle is the single entry point for pointer events. It reports whether
// the board, selection or viewport changed.
func (d *Dispatcher) Handle(ev Event) bool {
	switch ev.Kind {
	case Press:
		return d.press(ev)
	case Move:
		return d.move(ev.Position)
	case Release:
		return d.release()
	}
	return false
}

func (d *Dispatcher) press(ev Event) bool {
	if d.session != nil {
		return false
	}

	switch ev.Hit.Kind {
	case board.HitHandle, board.HitBody:
		e, ok := d.scene.Get(ev.Hit.ID)
		if !ok {
			return false
		}
		mode := Dragging
		if ev.Hit.Kind == board.HitHandle {
			mode = Resizing
		}
		d.session = &Session{
			Mode:      mode,
			ID:        e.ID,
			Start:     ev.Position,
			StartPos:  e.Position,
			StartSize: e.Size,
			Aspect:    e.Size.Aspect(),
		}
		d.scene.Select(e.ID)
		return true

	case board.HitNone:
		if d.cfg.PanModifier == 0 || ev.Modifiers&d.cfg.PanModifier == 0 {
			return false
		}
		d.session = &Session{
			Mode:     Panning,
			ID:       -1,
			Start:    ev.Position,
			StartPan: d.view.Pan(),
		}
		return true
	}
	return false
}

func (d *Dispatcher) move(pos geometry.Point2D) bool {
	s := d.session
	if s == nil {
		return false
	}

	screenDelta := pos.Sub(s.Start)

	switch s.Mode {
	case Panning:
		before := d.view.Pan()
		d.view.PanTo(s.StartPan.Add(screenDelta))
		return d.view.Pan() != before

	case Dragging:
		e, ok := d.scene.Get(s.ID)
		if !ok {
			return false
		}
		delta := screenDelta.Scale(1 / d.view.Zoom())
		next := geometry.SnapPoint(s.StartPos.Add(delta), d.cfg.Grid)
		if next == e.Position {
			return false
		}
		return d.scene.Move(s.ID, next)

	case Resizing:
		e, ok := d.scene.Get(s.ID)
		if !ok {
			return false
		}
		delta := screenDelta.Scale(1 / d.view.Zoom())
		next := d.resized(s, delta)
		if next == e.Size {
			return false
		}
		return d.scene.Resize(s.ID, next)
	}
	return false
}

// resized applies the configured strategy to a canvas-local delta.
func (d *Dispatcher) resized(s *Session, delta geometry.Point2D) geometry.Size {
	grid := d.cfg.Grid
	w := geometry.SnapAtLeast(s.StartSize.Width+delta.X, grid)

	if d.cfg.Resize == ResizeFree {
		return geometry.NewSize(w, geometry.SnapAtLeast(s.StartSize.Height+delta.Y, grid))
	}
	return geometry.NewSize(w, geometry.SnapAtLeast(w*s.Aspect, grid))
}

func (d *Dispatcher) release() bool {
	if d.session == nil {
		return false
	}
	d.session = nil
	return true
}
