// Package panels provides side panels for the main window.
package panels

import (
	"fmt"

	"pinboard/internal/app"
	"pinboard/internal/board"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Inspector shows the properties of the selected element.
type Inspector struct {
	editor *app.Editor

	title    *widget.Label
	name     *widget.Label
	position *widget.Label
	size     *widget.Label
	natural  *widget.Label
	state    *widget.Label
	content  fyne.CanvasObject
}

// NewInspector creates an inspector that follows the editor's selection.
func NewInspector(editor *app.Editor) *Inspector {
	in := &Inspector{
		editor:   editor,
		title:    widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		name:     widget.NewLabel(""),
		position: widget.NewLabel(""),
		size:     widget.NewLabel(""),
		natural:  widget.NewLabel(""),
		state:    widget.NewLabel(""),
	}
	in.name.Wrapping = fyne.TextWrapBreak

	form := widget.NewForm(
		widget.NewFormItem("File", in.name),
		widget.NewFormItem("Position", in.position),
		widget.NewFormItem("Size", in.size),
		widget.NewFormItem("Natural", in.natural),
		widget.NewFormItem("State", in.state),
	)
	in.content = container.NewVBox(in.title, widget.NewSeparator(), form)

	refresh := func(interface{}) { in.Refresh() }
	editor.On(app.EventSelectionChanged, refresh)
	editor.On(app.EventElementChanged, refresh)
	editor.On(app.EventElementLoaded, refresh)
	editor.On(app.EventElementRemoved, refresh)

	in.Refresh()
	return in
}

// Container returns the panel for embedding.
func (in *Inspector) Container() fyne.CanvasObject {
	return in.content
}

// Refresh reloads the selected element.
func (in *Inspector) Refresh() {
	e, ok := in.editor.Board().Selected()
	if !ok {
		in.show("No selection", board.Element{}, false)
		return
	}
	in.show(e.Label(), e, true)
}

func (in *Inspector) show(title string, e board.Element, selected bool) {
	in.title.SetText(title)
	if !selected {
		for _, l := range []*widget.Label{in.name, in.position, in.size, in.natural, in.state} {
			l.SetText("-")
		}
		return
	}

	in.name.SetText(e.Name)
	in.position.SetText(fmt.Sprintf("%.0f, %.0f", e.Position.X, e.Position.Y))
	in.size.SetText(fmt.Sprintf("%.0f x %.0f", e.Size.Width, e.Size.Height))
	if e.NaturalSize.IsZero() {
		in.natural.SetText("-")
	} else {
		in.natural.SetText(fmt.Sprintf("%.0f x %.0f", e.NaturalSize.Width, e.NaturalSize.Height))
	}
	if e.Loading {
		in.state.SetText("Loading")
	} else {
		in.state.SetText("Loaded")
	}
}
