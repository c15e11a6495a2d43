package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/symbology"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		name string
		want Format
		ok   bool
	}{
		{"png", FormatPNG, true},
		{"jpeg", FormatJPEG, true},
		{"jpg", FormatJPEG, true},
		{"svg", FormatSVG, true},
		{"pdf", FormatPDF, true},
		{"gif", "", false},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.name)
		if tc.ok != (err == nil) {
			t.Fatalf("ParseFormat(%q) error = %v", tc.name, err)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFilename(t *testing.T) {
	cfg := config.New()
	cfg.Symbology = symbology.EAN13
	at := time.UnixMilli(1700000000000)

	got := Filename(DefaultFilenameTemplate, cfg, FormatJPEG, at)
	want := "safescan-ean13-1700000000000.jpg"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}

	// Unknown placeholders stay put.
	got = Filename("out-${nope}.${ext}", cfg, FormatPNG, at)
	if got != "out-${nope}.png" {
		t.Fatalf("Filename with unknown key = %q", got)
	}
}

func TestExportDeterministic(t *testing.T) {
	cfg := config.New()
	cfg.Content = "https://example.com"
	cfg.Resolution = 512
	cfg.Title.Text = "Example"

	p := New(nil)
	first, err := p.Export(cfg, FormatPNG, nil)
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	second, err := p.Export(cfg, FormatPNG, nil)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("identical configurations produced different PNG bytes")
	}
}

func TestExportRejectsInvalidContent(t *testing.T) {
	cfg := config.New()
	cfg.Content = "not-numeric"
	cfg.Symbology = symbology.EAN13
	cfg.Resolution = 512

	p := New(nil)
	if _, err := p.Export(cfg, FormatPNG, nil); err == nil {
		t.Fatal("expected export of invalid EAN-13 content to fail")
	}
}
