package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// HotReloader notices when the running binary is rebuilt so the window can
// offer a restart. It watches the binary's directory with fsnotify and polls
// the modification time as a fallback for filesystems without events.
type HotReloader struct {
	execPath string
	interval time.Duration

	mu       sync.Mutex
	baseline time.Time
	stopCh   chan struct{}
	running  bool

	onNewBinary func()
	onTick      func()
}

// NewHotReloader watches the current executable. It returns nil when the
// executable cannot be located.
func NewHotReloader(interval time.Duration) *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	h, err := newHotReloader(execPath, interval)
	if err != nil {
		log.Printf("Hot reload: %v", err)
		return nil
	}
	return h
}

func newHotReloader(path string, interval time.Duration) (*HotReloader, error) {
	// go build writes a new file; follow symlinks to the real one
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &HotReloader{
		execPath: path,
		interval: interval,
		baseline: info.ModTime(),
	}, nil
}

// OnNewBinary sets the callback for a detected rebuild. It runs on the
// watcher goroutine, at most once per Start; watching stops after it fires.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.onNewBinary = callback
}

// OnTick sets a callback run on every poll interval.
func (h *HotReloader) OnTick(callback func()) {
	h.onTick = callback
}

// Start begins watching in a background goroutine.
func (h *HotReloader) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.stopCh = make(chan struct{})
	h.running = true
	go h.watchLoop(h.stopCh)
}

// Stop ends the watcher goroutine.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	close(h.stopCh)
	h.running = false
}

func (h *HotReloader) watchLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(h.execPath)); err != nil {
			log.Printf("Hot reload: watching %s: %v", filepath.Dir(h.execPath), err)
		} else {
			events, errs = watcher.Events, watcher.Errors
		}
	} else {
		log.Printf("Hot reload: falling back to polling: %v", err)
	}

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if h.onTick != nil {
				h.onTick()
			}
			if h.fire(stop) {
				return
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != h.execPath || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if h.fire(stop) {
				return
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("Hot reload: %v", err)
		}
	}
}

// finished marks the loop for stop as ended so Start can run a new one.
func (h *HotReloader) finished(stop <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running && (<-chan struct{})(h.stopCh) == stop {
		h.running = false
	}
}

// fire invokes the rebuild callback if the binary is newer than the
// baseline. The loop is marked finished first so the callback may Start
// again.
func (h *HotReloader) fire(stop <-chan struct{}) bool {
	if !h.checkForUpdate() || h.onNewBinary == nil {
		return false
	}
	h.finished(stop)
	h.onNewBinary()
	return true
}

func (h *HotReloader) checkForUpdate() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return info.ModTime().After(h.baseline)
}

// ExecPath returns the watched binary.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// ResetBaseline accepts the binary's current modification time, so a
// declined restart is not offered again for the same build.
func (h *HotReloader) ResetBaseline() {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.baseline = info.ModTime()
	h.mu.Unlock()
}

// Restart replaces the current process with the rebuilt binary, keeping the
// arguments and environment. It does not return on success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
