// Package main provides the entry point for the Pinboard application.
package main

import (
	"log"
	"os"
	"time"

	"pinboard/internal/app"
	"pinboard/internal/version"
	"pinboard/ui/mainwindow"
	"pinboard/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const (
	appID    = "io.github.pinboard"
	appTitle = "Pinboard"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.PinboardTheme{})

	appPrefs := prefs.Load()
	cfg, err := app.LoadConfig(appPrefs)
	if err != nil {
		log.Printf("Config: using defaults for invalid settings: %v", err)
	}

	editor := app.NewEditor(cfg)
	win := mainwindow.New(fyneApp, editor, appPrefs)
	win.SetTitle(appTitle)

	// Image paths on the command line are placed at the view center
	if len(os.Args) > 1 {
		if n := win.ImportFiles(os.Args[1:]); n < len(os.Args)-1 {
			log.Printf("Ignored %d non-image argument(s)", len(os.Args)-1-n)
		}
	}

	setupHotReload(win)

	win.ShowAndRun()
	editor.Wait()
}

// setupHotReload offers a restart when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s", reloader.ExecPath())

	reloader.OnTick(win.SavePreferencesIfChanged)

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				if err := win.SavePreferences(); err != nil {
					log.Printf("Hot reload: %v", err)
				}
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
}
