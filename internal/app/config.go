package app

import (
	"errors"
	"fmt"
	"strings"

	"pinboard/internal/gesture"
	"pinboard/internal/placement"
	"pinboard/pkg/geometry"

	"fyne.io/fyne/v2"
)

// Preference keys read by LoadConfig.
const (
	PrefGridSize        = "gridSize"
	PrefMinZoom         = "minZoom"
	PrefMaxZoom         = "maxZoom"
	PrefZoomSensitivity = "zoomSensitivity"
	PrefZoomStep        = "zoomStep"
	PrefSurfaceWidth    = "surfaceWidth"
	PrefSurfaceHeight   = "surfaceHeight"
	PrefElementWidth    = "elementWidth"
	PrefElementHeight   = "elementHeight"
	PrefHandleSize      = "handleSize"
	PrefResizeStrategy  = "resizeStrategy"
	PrefDropCascade     = "dropCascade"
	PrefPanModifier     = "panModifier"
	PrefZoomModifier    = "zoomModifier"
)

// Config holds the editor tunables.
type Config struct {
	Grid            float64
	MinZoom         float64
	MaxZoom         float64
	ZoomSensitivity float64 // Zoom change per wheel unit
	ZoomStep        float64 // Multiplier for zoom in/out commands
	Surface         geometry.Size
	DefaultElement  geometry.Size
	HandleSize      float64 // Resize handle side in screen pixels
	Resize          gesture.ResizeStrategy
	DropCascade     float64 // Grid units between images of one drop
	PanModifier     fyne.KeyModifier
	ZoomModifier    fyne.KeyModifier
}

// DefaultConfig returns the stock editor settings.
func DefaultConfig() Config {
	return Config{
		Grid:            20,
		MinZoom:         0.5,
		MaxZoom:         3,
		ZoomSensitivity: 0.02,
		ZoomStep:        1.25,
		Surface:         geometry.NewSize(4000, 3000),
		DefaultElement:  geometry.NewSize(300, 300),
		HandleSize:      12,
		Resize:          gesture.ResizeAspect,
		PanModifier:     fyne.KeyModifierAlt,
		ZoomModifier:    fyne.KeyModifierControl,
	}
}

// Settings is a source of stored preferences.
type Settings interface {
	FloatWithFallback(key string, fallback float64) float64
	String(key string) string
}

// LoadConfig overlays stored settings on the defaults. Invalid entries are
// reported in the returned error and replaced by their defaults; the
// returned Config is always usable.
func LoadConfig(s Settings) (Config, error) {
	def := DefaultConfig()
	cfg := def

	cfg.Grid = s.FloatWithFallback(PrefGridSize, def.Grid)
	cfg.MinZoom = s.FloatWithFallback(PrefMinZoom, def.MinZoom)
	cfg.MaxZoom = s.FloatWithFallback(PrefMaxZoom, def.MaxZoom)
	cfg.ZoomSensitivity = s.FloatWithFallback(PrefZoomSensitivity, def.ZoomSensitivity)
	cfg.ZoomStep = s.FloatWithFallback(PrefZoomStep, def.ZoomStep)
	cfg.Surface.Width = s.FloatWithFallback(PrefSurfaceWidth, def.Surface.Width)
	cfg.Surface.Height = s.FloatWithFallback(PrefSurfaceHeight, def.Surface.Height)
	cfg.DefaultElement.Width = s.FloatWithFallback(PrefElementWidth, def.DefaultElement.Width)
	cfg.DefaultElement.Height = s.FloatWithFallback(PrefElementHeight, def.DefaultElement.Height)
	cfg.HandleSize = s.FloatWithFallback(PrefHandleSize, def.HandleSize)
	cfg.DropCascade = s.FloatWithFallback(PrefDropCascade, def.DropCascade)

	var errs []error

	if v := s.String(PrefResizeStrategy); v != "" {
		rs, err := gesture.ParseResizeStrategy(v)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.Resize = rs
	}
	if v := s.String(PrefPanModifier); v != "" {
		m, err := ParseModifier(v)
		if err != nil {
			errs = append(errs, err)
			m = def.PanModifier
		}
		cfg.PanModifier = m
	}
	if v := s.String(PrefZoomModifier); v != "" {
		m, err := ParseModifier(v)
		if err != nil {
			errs = append(errs, err)
			m = def.ZoomModifier
		}
		cfg.ZoomModifier = m
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
		cfg = def
	}
	return cfg, errors.Join(errs...)
}

// Validate checks that the configuration is self-consistent.
func (c Config) Validate() error {
	switch {
	case c.Grid <= 0:
		return fmt.Errorf("grid size must be positive, got %v", c.Grid)
	case c.MinZoom <= 0 || c.MaxZoom < c.MinZoom:
		return fmt.Errorf("invalid zoom range [%v, %v]", c.MinZoom, c.MaxZoom)
	case c.ZoomStep <= 1:
		return fmt.Errorf("zoom step must exceed 1, got %v", c.ZoomStep)
	case c.Surface.IsZero():
		return fmt.Errorf("surface size must be positive, got %v", c.Surface)
	case c.DefaultElement.IsZero():
		return fmt.Errorf("default element size must be positive, got %v", c.DefaultElement)
	case c.DropCascade < 0:
		return fmt.Errorf("drop cascade cannot be negative, got %v", c.DropCascade)
	}
	return nil
}

func (c Config) gestureConfig() gesture.Config {
	return gesture.Config{
		Grid:        c.Grid,
		Resize:      c.Resize,
		PanModifier: c.PanModifier,
	}
}

func (c Config) placementConfig() placement.Config {
	return placement.Config{
		Grid:        c.Grid,
		DefaultSize: c.DefaultElement,
		Cascade:     c.DropCascade,
	}
}

// ParseModifier parses a modifier key name.
func ParseModifier(s string) (fyne.KeyModifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alt", "option":
		return fyne.KeyModifierAlt, nil
	case "shift":
		return fyne.KeyModifierShift, nil
	case "ctrl", "control":
		return fyne.KeyModifierControl, nil
	case "super", "cmd", "command":
		return fyne.KeyModifierSuper, nil
	default:
		return 0, fmt.Errorf("unknown modifier %q", s)
	}
}
