// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sync"

	"pinboard/internal/app"
	"pinboard/internal/gesture"
	pbimage "pinboard/internal/image"
	"pinboard/internal/version"
	"pinboard/pkg/geometry"
	"pinboard/ui/canvas"
	"pinboard/ui/panels"
	"pinboard/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyShowGrid = "showGrid"

	defaultWidth  = 1200
	defaultHeight = 800
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	editor *app.Editor
	prefs  *prefs.Prefs

	canvas    *canvas.BoardCanvas
	inspector *panels.Inspector
	statusBar *widget.Label
	zoomLabel *widget.Label

	// Menu items that need state tracking
	gridItem   *fyne.MenuItem
	aspectItem *fyne.MenuItem

	mu    sync.Mutex
	dirty bool // Preferences changed since the last save
}

// New creates a new main window.
func New(fyneApp fyne.App, editor *app.Editor, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Pinboard")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		editor: editor,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	mw.SetOnDropped(mw.onDropped)
	mw.Canvas().SetOnTypedKey(mw.handleKey)
	mw.SetCloseIntercept(func() {
		if err := mw.SavePreferences(); err != nil {
			log.Printf("Prefs: %v", err)
		}
		mw.Close()
	})

	mw.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)),
	))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewBoardCanvas(mw.editor)
	mw.canvas.SetShowGrid(mw.prefs.Bool(prefKeyShowGrid, true))

	mw.inspector = panels.NewInspector(mw.editor)

	mw.statusBar = widget.NewLabel("Drop images onto the board")
	mw.zoomLabel = widget.NewLabel(zoomText(1))

	// Board | inspector
	split := container.NewHSplit(mw.canvas, mw.inspector.Container())
	split.SetOffset(0.8)

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with import and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Import...", mw.onImport),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.onZoomOut),
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("1:1", mw.onActualSize),
		mw.zoomLabel,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Images...", mw.onImport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Selected", func() { mw.editor.DeleteSelected() }),
		fyne.NewMenuItem("Clear Selection", func() { mw.editor.ClearSelection() }),
	)

	mw.gridItem = fyne.NewMenuItem("Show Grid", mw.onToggleGrid)
	mw.gridItem.Checked = mw.canvas.ShowGrid()
	mw.aspectItem = fyne.NewMenuItem("Keep Aspect Ratio", mw.onToggleAspect)
	mw.aspectItem.Checked = mw.editor.ResizeStrategy() == gesture.ResizeAspect

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		mw.gridItem,
		mw.aspectItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for editor events. Decode events arrive on
// background goroutines.
func (mw *MainWindow) setupEventHandlers() {
	refresh := func(interface{}) {
		mw.canvas.Refresh()
		mw.refreshStatus()
	}
	mw.editor.On(app.EventElementAdded, refresh)
	mw.editor.On(app.EventElementLoaded, refresh)
	mw.editor.On(app.EventElementChanged, refresh)
	mw.editor.On(app.EventElementRemoved, refresh)
	mw.editor.On(app.EventSelectionChanged, refresh)

	mw.editor.On(app.EventViewportChanged, func(data interface{}) {
		if vs, ok := data.(app.ViewState); ok {
			mw.zoomLabel.SetText(zoomText(vs.Zoom))
		}
		mw.canvas.Refresh()
	})

	mw.editor.On(app.EventDecodeFailed, func(data interface{}) {
		f, ok := data.(app.DecodeFailure)
		if !ok {
			return
		}
		mw.updateStatus("Could not load " + f.Name)
		dialog.ShowError(fmt.Errorf("could not load %s: %w", f.Name, f.Err), mw.Window)
	})
}

// onDropped converts a window drop into a board drop at the canvas position.
func (mw *MainWindow) onDropped(pos fyne.Position, uris []fyne.URI) {
	origin := mw.app.Driver().AbsolutePositionForObject(mw.canvas)
	mw.dropAt(pos.Subtract(origin), uris)
}

// dropAt places uris at a canvas-relative position.
func (mw *MainWindow) dropAt(pos fyne.Position, uris []fyne.URI) int {
	sources := make([]pbimage.Source, 0, len(uris))
	for _, u := range uris {
		sources = append(sources, pbimage.FromURI(u))
	}
	n := mw.editor.Drop(geometry.NewPoint2D(float64(pos.X), float64(pos.Y)), sources)
	if n == 0 {
		mw.updateStatus("No images in drop")
	}
	return n
}

// ImportFiles places local image files at the center of the view.
func (mw *MainWindow) ImportFiles(paths []string) int {
	sources := make([]pbimage.Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, pbimage.FromPath(p))
	}
	return mw.editor.ImportAtCenter(sources)
}

func (mw *MainWindow) handleKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyDelete, fyne.KeyBackspace:
		mw.editor.DeleteSelected()
	case fyne.KeyEscape:
		mw.editor.ClearSelection()
	case fyne.KeyEqual:
		mw.onZoomIn()
	case fyne.KeyMinus:
		mw.onZoomOut()
	case fyne.Key0:
		mw.onActualSize()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) refreshStatus() {
	selected, ok := mw.editor.Board().Selected()
	mw.updateStatus(statusText(mw.editor.Board().Len(), selected.Label(), selected.Size, ok))
}

// statusText describes the board for the status bar.
func statusText(count int, label string, size geometry.Size, selected bool) string {
	noun := "images"
	if count == 1 {
		noun = "image"
	}
	text := fmt.Sprintf("%d %s", count, noun)
	if selected {
		text += fmt.Sprintf(" | %s %.0fx%.0f", label, size.Width, size.Height)
	}
	return text
}

func zoomText(zoom float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(zoom*100)))
}

// getLastDir returns the last import directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyImportDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir remembers the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyImportDir, filepath.Dir(filePath))
	mw.markDirty()
}

// Menu action handlers

func (mw *MainWindow) onImport() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		uri := reader.URI()
		reader.Close()

		if uri.Scheme() == "file" {
			mw.saveLastDir(uri.Path())
		}
		if mw.editor.ImportAtCenter([]pbimage.Source{pbimage.FromURI(uri)}) == 0 {
			dialog.ShowError(fmt.Errorf("%s: %w", uri.Name(), pbimage.ErrNotImage), mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(pbimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.editor.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.editor.ZoomOut()
}

func (mw *MainWindow) onActualSize() {
	mw.editor.ActualSize()
}

func (mw *MainWindow) onToggleGrid() {
	show := !mw.canvas.ShowGrid()
	mw.canvas.SetShowGrid(show)
	mw.gridItem.Checked = show
	mw.prefs.SetBool(prefKeyShowGrid, show)
	mw.markDirty()
	mw.refreshMenu()
}

func (mw *MainWindow) onToggleAspect() {
	strategy := gesture.ResizeAspect
	if mw.editor.ResizeStrategy() == gesture.ResizeAspect {
		strategy = gesture.ResizeFree
	}
	mw.editor.SetResizeStrategy(strategy)
	mw.aspectItem.Checked = strategy == gesture.ResizeAspect
	mw.prefs.SetString(app.PrefResizeStrategy, strategy.String())
	mw.markDirty()
	mw.refreshMenu()
}

func (mw *MainWindow) refreshMenu() {
	if menu := mw.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Pinboard",
		fmt.Sprintf("Pinboard %s\n\n"+
			"Drop images onto the board, then drag to move\n"+
			"and pull the corner handle to resize.\n\n"+
			"Alt-drag pans, Ctrl-scroll zooms.",
			version.String()),
		mw.Window)
}

func (mw *MainWindow) markDirty() {
	mw.mu.Lock()
	mw.dirty = true
	mw.mu.Unlock()
}

// SavePreferences stores the window size and writes preferences to disk.
func (mw *MainWindow) SavePreferences() error {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}

	mw.mu.Lock()
	mw.dirty = false
	mw.mu.Unlock()
	return mw.prefs.Save()
}

// SavePreferencesIfChanged saves only when a preference changed.
func (mw *MainWindow) SavePreferencesIfChanged() {
	mw.mu.Lock()
	dirty := mw.dirty
	mw.mu.Unlock()
	if !dirty {
		return
	}
	if err := mw.SavePreferences(); err != nil {
		log.Printf("Prefs: %v", err)
	}
}
