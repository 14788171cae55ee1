// Package board holds the image elements placed on the canvas surface.
package board

import (
	"fmt"
	"sync"

	pbimage "pinboard/internal/image"
	"pinboard/pkg/geometry"
)

// Element is an image placed on the board. Position and Size are in
// canvas-local units.
type Element struct {
	ID          int
	Name        string           // Source file name
	Position    geometry.Point2D // Left/top
	Size        geometry.Size
	NaturalSize geometry.Size // Decoded pixel dimensions, zero until decoded
	Bitmap      *pbimage.Bitmap
	Loading     bool // Placeholder awaiting its bitmap
	Selected    bool
}

// Label returns the display identifier of the element.
func (e Element) Label() string {
	return fmt.Sprintf("file-%d", e.ID)
}

// Bounds returns the element rectangle in canvas-local units.
func (e Element) Bounds() geometry.Rect {
	return geometry.RectFrom(e.Position, e.Size)
}

// HitKind classifies what a point on the board lands on.
type HitKind int

const (
	HitNone   HitKind = iota // Empty surface
	HitBody                  // Element body
	HitHandle                // Element resize handle
)

func (k HitKind) String() string {
	switch k {
	case HitBody:
		return "Body"
	case HitHandle:
		return "Handle"
	default:
		return "None"
	}
}

// Hit is the result of a hit test.
type Hit struct {
	Kind HitKind
	ID   int
}

// Board is an ordered collection of elements with a single selection.
// Later elements draw above earlier ones.
type Board struct {
	mu sync.RWMutex

	elements map[int]*Element
	order    []int
	nextID   int
	selected int // -1 when nothing is selected
}

// New creates an empty board.
func New() *Board {
	return &Board{
		elements: make(map[int]*Element),
		selected: -1,
	}
}

// Add stores a copy of e under a new identifier and returns the stored
// element. Identifiers start at 0 and are never reused.
func (b *Board) Add(e Element) Element {
	b.mu.Lock()
	defer b.mu.Unlock()

	e.ID = b.nextID
	e.Selected = false
	b.nextID++

	stored := e
	b.elements[e.ID] = &stored
	b.order = append(b.order, e.ID)
	return stored
}

// Get returns a copy of the element with the given ID.
func (b *Board) Get(id int) (Element, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.elements[id]
	if !ok {
		return Element{}, false
	}
	return b.snapshot(e), true
}

// Elements returns copies of all elements in draw order.
func (b *Board) Elements() []Element {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]Element, 0, len(b.order))
	for _, id := range b.order {
		result = append(result, b.snapshot(b.elements[id]))
	}
	return result
}

// Len returns the number of elements.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

// Move sets the position of an element.
func (b *Board) Move(id int, pos geometry.Point2D) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.elements[id]
	if !ok {
		return false
	}
	e.Position = pos
	return true
}

// Resize sets the size of an element.
func (b *Board) Resize(id int, size geometry.Size) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.elements[id]
	if !ok {
		return false
	}
	e.Size = size
	return true
}

// SetBitmap attaches decoded image data, records its natural size and clears
// the loading flag.
func (b *Board) SetBitmap(id int, bm *pbimage.Bitmap) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.elements[id]
	if !ok {
		return false
	}
	e.Bitmap = bm
	e.NaturalSize = bm.Natural()
	e.Loading = false
	return true
}

// Remove deletes an element. Removing the selected element clears the
// selection.
func (b *Board) Remove(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.elements[id]; !ok {
		return false
	}
	delete(b.elements, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if b.selected == id {
		b.selected = -1
	}
	return true
}

// Select marks id as the only selected element.
func (b *Board) Select(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.elements[id]; !ok {
		return false
	}
	b.selected = id
	return true
}

// ClearSelection deselects everything.
func (b *Board) ClearSelection() {
	b.mu.Lock()
	b.selected = -1
	b.mu.Unlock()
}

// Selected returns the selected element, if any.
func (b *Board) Selected() (Element, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.elements[b.selected]
	if !ok {
		return Element{}, false
	}
	return b.snapshot(e), true
}

// HitTest finds the topmost element under the canvas-local point p. The
// resize handle is the square of side handle in the bottom-right corner.
func (b *Board) HitTest(p geometry.Point2D, handle float64) Hit {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := len(b.order) - 1; i >= 0; i-- {
		e := b.elements[b.order[i]]
		r := e.Bounds()
		if !r.Contains(p) {
			continue
		}
		br := r.BottomRight()
		if p.X >= br.X-handle && p.Y >= br.Y-handle {
			return Hit{Kind: HitHandle, ID: e.ID}
		}
		return Hit{Kind: HitBody, ID: e.ID}
	}
	return Hit{Kind: HitNone, ID: -1}
}

func (b *Board) snapshot(e *Element) Element {
	c := *e
	c.Selected = e.ID == b.selected
	return c
}
