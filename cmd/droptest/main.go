// Command droptest drops image files onto a headless board and reports the
// resulting elements, optionally rendering the board to a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync/atomic"

	"pinboard/internal/app"
	pbimage "pinboard/internal/image"
	"pinboard/pkg/geometry"
	"pinboard/ui/canvas"
)

func main() {
	x := flag.Float64("x", 100, "Drop X in screen pixels")
	y := flag.Float64("y", 100, "Drop Y in screen pixels")
	zoom := flag.Float64("zoom", 1, "Zoom level at drop time")
	grid := flag.Float64("grid", 20, "Grid size")
	cascade := flag.Float64("cascade", 0, "Grid units between images of one drop")
	width := flag.Int("width", 1200, "Viewport width")
	height := flag.Int("height", 800, "Viewport height")
	out := flag.String("out", "", "Write the rendered board to this PNG")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("Usage: droptest [-x 100 -y 100 -zoom 1 -grid 20 -cascade 0 -out board.png] <image>...")
		os.Exit(1)
	}

	cfg := app.DefaultConfig()
	cfg.Grid = *grid
	cfg.DropCascade = *cascade
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	editor := app.NewEditor(cfg)
	editor.SetContainer(geometry.NewSize(float64(*width), float64(*height)))
	if *zoom != 1 {
		// Zoom about the drop point, as a ctrl-scroll there would
		editor.Scroll(geometry.NewPoint2D(*x, *y), 0, (1-*zoom)/cfg.ZoomSensitivity, cfg.ZoomModifier)
	}

	var failed atomic.Int32
	editor.On(app.EventDecodeFailed, func(data interface{}) {
		f := data.(app.DecodeFailure)
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", f.Name, f.Err)
		failed.Add(1)
	})

	sources := make([]pbimage.Source, 0, flag.NArg())
	for _, path := range flag.Args() {
		sources = append(sources, pbimage.FromPath(path))
	}

	view := editor.View()
	local := editor.ScreenToLocal(geometry.NewPoint2D(*x, *y))
	fmt.Printf("Zoom %.2f, pan (%.0f,%.0f)\n", view.Zoom, view.Pan.X, view.Pan.Y)
	fmt.Printf("Drop at screen (%.0f,%.0f) = local (%.1f,%.1f)\n", *x, *y, local.X, local.Y)

	accepted := editor.Drop(geometry.NewPoint2D(*x, *y), sources)
	editor.Wait()
	fmt.Printf("Accepted %d of %d files, %d failed\n\n", accepted, len(sources), failed.Load())

	fmt.Printf("%-8s %-24s %12s %12s %12s\n", "ID", "Name", "Position", "Size", "Natural")
	for _, e := range editor.Board().Elements() {
		fmt.Printf("%-8s %-24s %12s %12s %12s\n",
			e.Label(), e.Name,
			fmt.Sprintf("%.0f,%.0f", e.Position.X, e.Position.Y),
			fmt.Sprintf("%.0fx%.0f", e.Size.Width, e.Size.Height),
			fmt.Sprintf("%.0fx%.0f", e.NaturalSize.Width, e.NaturalSize.Height))
	}

	if *out == "" {
		return
	}
	if err := render(editor, *out, *width, *height); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", *out)
}

func render(editor *app.Editor, path string, w, h int) error {
	cfg := editor.Config()
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	canvas.Render(output, canvas.Scene{
		View:       editor.View(),
		Elements:   editor.Board().Elements(),
		Grid:       cfg.Grid,
		HandleSize: cfg.HandleSize,
		PixelScale: 1,
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, output); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
