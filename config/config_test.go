package config

import (
	"testing"

	"github.com/ByLCY/safescan/symbology"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Resolution != 1024 {
		t.Fatalf("Resolution = %d, want 1024", cfg.Resolution)
	}
	if cfg.SymbolScale != 0.5 {
		t.Fatalf("SymbolScale = %v, want 0.5", cfg.SymbolScale)
	}
	if cfg.Foreground != "#000000" || cfg.Background != "#ffffff" {
		t.Fatalf("colors = %s/%s", cfg.Foreground, cfg.Background)
	}
	if cfg.ECLevel != "H" {
		t.Fatalf("ECLevel = %s, want H", cfg.ECLevel)
	}
	if cfg.Symbology != symbology.Matrix2D {
		t.Fatalf("Symbology = %v, want matrix", cfg.Symbology)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("default configuration has no content, Validate should fail")
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Configuration)
		ok     bool
	}{
		{"valid", func(c *Configuration) {}, true},
		{"resolution too small", func(c *Configuration) { c.Resolution = 256 }, false},
		{"resolution too large", func(c *Configuration) { c.Resolution = 4096 }, false},
		{"scale too small", func(c *Configuration) { c.SymbolScale = 0.01 }, false},
		{"scale too large", func(c *Configuration) { c.SymbolScale = 1.5 }, false},
		{"bad ec level", func(c *Configuration) { c.ECLevel = "Z" }, false},
		{"ean13 wrong length", func(c *Configuration) {
			c.Symbology = symbology.EAN13
			c.Content = "123"
		}, false},
		{"ean13 valid", func(c *Configuration) {
			c.Symbology = symbology.EAN13
			c.Content = "4006381333931"
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			cfg.Content = "https://example.com"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestClamp(t *testing.T) {
	cfg := New()
	cfg.Content = "x"
	cfg.Resolution = 9000
	cfg.SymbolScale = 3.0
	cfg.Title.SizeRef = -10
	cfg.Caption.SizeRatio = -1
	cfg.BackgroundImage = &BackgroundImage{Source: "a.png", Opacity: 2.0, Fit: "stretch", Zoom: 99}

	cfg = cfg.Clamp()

	if cfg.Resolution != MaxResolution {
		t.Fatalf("Resolution = %d", cfg.Resolution)
	}
	if cfg.SymbolScale != MaxSymbolScale {
		t.Fatalf("SymbolScale = %v", cfg.SymbolScale)
	}
	if cfg.Title.SizeRef != 0 {
		t.Fatalf("Title.SizeRef = %v, want clamped to 0", cfg.Title.SizeRef)
	}
	if cfg.Caption.SizeRatio != 0 {
		t.Fatalf("Caption.SizeRatio = %v, want clamped to 0", cfg.Caption.SizeRatio)
	}
	if cfg.BackgroundImage.Opacity != 1.0 {
		t.Fatalf("Opacity = %v", cfg.BackgroundImage.Opacity)
	}
	if cfg.BackgroundImage.Fit != FitCover {
		t.Fatalf("Fit = %v, want cover fallback", cfg.BackgroundImage.Fit)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("clamped configuration should validate, got %v", err)
	}
}
