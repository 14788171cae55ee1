package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Board colours shared by the canvas renderer.
var (
	SurfaceColor   = color.NRGBA{R: 0xF4, G: 0xF1, B: 0xEA, A: 0xFF} // Cork-ish paper
	GridColor      = color.NRGBA{R: 0xD8, G: 0xD2, B: 0xC4, A: 0xFF}
	SelectionColor = color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}
	LoadingColor   = color.NRGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}
	LabelColor     = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
)

// PinboardTheme tints the default theme with the board accent colours.
type PinboardTheme struct{}

var _ fyne.Theme = (*PinboardTheme)(nil)

func (t *PinboardTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return SelectionColor
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0x60}
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *PinboardTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *PinboardTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *PinboardTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	case theme.SizeNameScrollBarSmall:
		return 10
	default:
		return theme.DefaultTheme().Size(name)
	}
}
