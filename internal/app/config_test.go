package app

import (
	"testing"

	"pinboard/internal/gesture"
	"pinboard/pkg/geometry"

	"fyne.io/fyne/v2"
)

type mapSettings map[string]interface{}

func (m mapSettings) FloatWithFallback(key string, fallback float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return fallback
}

func (m mapSettings) String(key string) string {
	s, _ := m[key].(string)
	return s
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(mapSettings{})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(mapSettings{
		PrefGridSize:       10.0,
		PrefMaxZoom:        4.0,
		PrefResizeStrategy: "free",
		PrefPanModifier:    "shift",
		PrefDropCascade:    2.0,
		PrefElementWidth:   200.0,
	})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Grid != 10 || cfg.MaxZoom != 4 || cfg.DropCascade != 2 {
		t.Errorf("numeric overrides not applied: %+v", cfg)
	}
	if cfg.Resize != gesture.ResizeFree {
		t.Errorf("resize = %v, want free", cfg.Resize)
	}
	if cfg.PanModifier != fyne.KeyModifierShift {
		t.Errorf("pan modifier = %v, want shift", cfg.PanModifier)
	}
	if cfg.DefaultElement != geometry.NewSize(200, 300) {
		t.Errorf("default element = %v, want 200x300", cfg.DefaultElement)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name     string
		settings mapSettings
	}{
		{"zero grid", mapSettings{PrefGridSize: 0.0}},
		{"inverted zoom", mapSettings{PrefMinZoom: 2.0, PrefMaxZoom: 1.0}},
		{"shrinking step", mapSettings{PrefZoomStep: 0.5}},
		{"negative cascade", mapSettings{PrefDropCascade: -1.0}},
		{"bad modifier", mapSettings{PrefZoomModifier: "hyper"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.settings)
			if err == nil {
				t.Fatal("expected an error")
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("returned config is invalid: %v", err)
			}
		})
	}
}

func TestLoadConfigBadStrategyFallsBack(t *testing.T) {
	cfg, err := LoadConfig(mapSettings{PrefResizeStrategy: "stretchy"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if cfg.Resize != gesture.ResizeAspect {
		t.Errorf("resize = %v, want aspect", cfg.Resize)
	}
}

func TestParseModifier(t *testing.T) {
	tests := []struct {
		in   string
		want fyne.KeyModifier
	}{
		{"alt", fyne.KeyModifierAlt},
		{"Option", fyne.KeyModifierAlt},
		{" ctrl ", fyne.KeyModifierControl},
		{"Shift", fyne.KeyModifierShift},
		{"cmd", fyne.KeyModifierSuper},
	}
	for _, tt := range tests {
		got, err := ParseModifier(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseModifier(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseModifier("meta-ish"); err == nil {
		t.Error("expected an error for an unknown modifier")
	}
}
