// Package placement turns dropped files into board elements.
package placement

import (
	"log"
	"sync"

	"pinboard/internal/board"
	pbimage "pinboard/internal/image"
	"pinboard/pkg/geometry"
)

// Store is the element store new elements are written to. It must be safe
// for concurrent use; decodes complete on their own goroutines.
type Store interface {
	Add(e board.Element) board.Element
	Get(id int) (board.Element, bool)
	SetBitmap(id int, bm *pbimage.Bitmap) bool
	Resize(id int, size geometry.Size) bool
	Remove(id int) bool
}

// View converts drop coordinates into canvas-local space.
type View interface {
	ScreenToLocal(p geometry.Point2D) geometry.Point2D
}

// Config controls element sizing and multi-file layout.
type Config struct {
	Grid        float64
	DefaultSize geometry.Size // Placeholder size before the bitmap decodes
	// Cascade offsets the i-th image of a drop by i*Cascade grid units on
	// both axes. Zero stacks every image at the drop point.
	Cascade float64
}

// DefaultConfig returns a 20 unit grid, 300x300 placeholders and stacking.
func DefaultConfig() Config {
	return Config{
		Grid:        20,
		DefaultSize: geometry.NewSize(300, 300),
	}
}

// Placer creates elements for dropped image files.
type Placer struct {
	cfg   Config
	store Store
	wg    sync.WaitGroup

	// Callbacks, invoked from decode goroutines
	onPlaced func(e board.Element)
	onLoaded func(e board.Element)
	onFailed func(name string, err error)
}

// New creates a placer writing to store.
func New(store Store, cfg Config) *Placer {
	return &Placer{cfg: cfg, store: store}
}

// OnPlaced sets a callback for when a placeholder element is created.
func (p *Placer) OnPlaced(callback func(e board.Element)) {
	p.onPlaced = callback
}

// OnLoaded sets a callback for when an element's bitmap has decoded and its
// size has been snapped to the natural dimensions.
func (p *Placer) OnLoaded(callback func(e board.Element)) {
	p.onLoaded = callback
}

// OnFailed sets a callback for files that could not be read or decoded.
func (p *Placer) OnFailed(callback func(name string, err error)) {
	p.onFailed = callback
}

// SetCascade changes the multi-file offset for subsequent drops.
func (p *Placer) SetCascade(units float64) {
	p.cfg.Cascade = units
}

// Anchor returns the grid-snapped canvas-local position of the i-th image of
// a drop at the screen point.
func (p *Placer) Anchor(view View, screen geometry.Point2D, i int) geometry.Point2D {
	local := view.ScreenToLocal(screen)
	offset := float64(i) * p.cfg.Cascade * p.cfg.Grid
	return geometry.SnapPoint(local.Add(geometry.NewPoint2D(offset, offset)), p.cfg.Grid)
}

// Drop starts loading every image among sources. Non-image sources are
// skipped. The drop point is converted with view before Drop returns, so
// later pan or zoom changes do not move pending elements. It returns the
// number of images accepted.
func (p *Placer) Drop(view View, screen geometry.Point2D, sources []pbimage.Source) int {
	accepted := 0
	for _, src := range sources {
		if !pbimage.IsImage(src) {
			log.Printf("Placement: ignoring %s (%s)", src.Name(), src.MimeType())
			continue
		}

		pos := p.Anchor(view, screen, accepted)
		accepted++

		p.wg.Add(1)
		go func(src pbimage.Source, pos geometry.Point2D) {
			defer p.wg.Done()
			p.load(src, pos)
		}(src, pos)
	}
	return accepted
}

// Wait blocks until every pending load has finished.
func (p *Placer) Wait() {
	p.wg.Wait()
}

// load reads the file, creates the placeholder, then decodes and re-sizes
// it to the natural dimensions.
func (p *Placer) load(src pbimage.Source, pos geometry.Point2D) {
	name := src.Name()

	data, err := pbimage.ReadAll(src)
	if err != nil {
		p.fail(name, err)
		return
	}

	placeholder := p.store.Add(board.Element{
		Name:     name,
		Position: pos,
		Size:     geometry.SnapSize(p.cfg.DefaultSize, p.cfg.Grid),
		Loading:  true,
	})
	if p.onPlaced != nil {
		p.onPlaced(placeholder)
	}

	bm, err := pbimage.Decode(name, data)
	if err != nil {
		p.store.Remove(placeholder.ID)
		p.fail(name, err)
		return
	}

	if !p.store.SetBitmap(placeholder.ID, bm) {
		// Removed while decoding
		log.Printf("Placement: %s was removed before it loaded", placeholder.Label())
		return
	}

	natural := bm.Natural()
	size := geometry.NewSize(
		geometry.SnapAtLeast(natural.Width, p.cfg.Grid),
		geometry.SnapAtLeast(natural.Height, p.cfg.Grid),
	)
	p.store.Resize(placeholder.ID, size)

	if p.onLoaded != nil {
		if e, ok := p.store.Get(placeholder.ID); ok {
			p.onLoaded(e)
		}
	}
}

func (p *Placer) fail(name string, err error) {
	log.Printf("Placement: failed to load %s: %v", name, err)
	if p.onFailed != nil {
		p.onFailed(name, err)
	}
}
