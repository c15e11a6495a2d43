// Package config defines the Configuration record that drives every
// render, plus the single defaults table consulted when a new record is
// constructed. The record is treated as an immutable snapshot: callers
// copy it, never mutate a shared instance mid-render.
package config

import (
	"fmt"

	"github.com/ByLCY/safescan/symbology"
)

// Resolution bounds for the square export canvas, in pixels.
const (
	MinResolution = 512
	MaxResolution = 2048

	// ReferenceResolution is the resolution all absolute style fields
	// (title size, letter spacing, gaps) are authored against. They are
	// scaled by targetResolution/ReferenceResolution at layout time.
	ReferenceResolution = 1024
)

// SymbolScale bounds: fraction of the canvas width occupied by the
// symbol group.
const (
	MinSymbolScale = 0.05
	MaxSymbolScale = 1.0
)

// MatrixCaption is the fixed localized prompt drawn under matrix
// symbols. Linear symbologies draw their digits instead.
const MatrixCaption = "Quét để truy cập"

// Fit selects how a background image is scaled against the canvas.
type Fit string

const (
	FitCover   Fit = "cover"   // fill the canvas, crop overflow
	FitContain Fit = "contain" // fit entirely, letterbox
)

// TitleStyle describes the optional decorative heading above the symbol.
// Size fields are pixels at ReferenceResolution.
type TitleStyle struct {
	Text          string  `json:"text"`
	Font          string  `json:"font"`
	Weight        string  `json:"weight"` // "regular" or "bold"
	SizeRef       float64 `json:"sizeRef"`
	LetterSpacing float64 `json:"letterSpacing"`
	GapRef        float64 `json:"gapRef"` // gap between title block and symbol
}

// CaptionStyle describes the human-readable text drawn with the symbol:
// the digit line for linear symbologies, the fixed prompt for the matrix
// family. SizeRatio is relative to the symbol group width; LetterSpacing
// is pixels at ReferenceResolution. GapRatio is relative to group width
// and defaults to the standard quiet-gap when zero.
type CaptionStyle struct {
	Font          string  `json:"font"`
	SizeRatio     float64 `json:"sizeRatio"`
	LetterSpacing float64 `json:"letterSpacing"`
	GapRatio      float64 `json:"gapRatio"`
}

// BackgroundImage references an optional backdrop drawn under the patch.
type BackgroundImage struct {
	Source  string  `json:"source"` // file path or URL
	Opacity float64 `json:"opacity"`
	Fit     Fit     `json:"fit"`
	Zoom    float64 `json:"zoom"`
}

// Configuration is the single record flowing through layout, compositing,
// preview and export.
type Configuration struct {
	Content     string              `json:"content"`
	Symbology   symbology.Symbology `json:"symbology"`
	Resolution  int                 `json:"resolution"`
	SymbolScale float64             `json:"symbolScale"`
	Foreground  string              `json:"foreground"` // ink + text color, hex
	Background  string              `json:"background"` // safe-zone patch fill, hex
	ECLevel     string              `json:"ecLevel"`    // matrix error correction: L/M/Q/H

	Title           TitleStyle       `json:"title"`
	Caption         CaptionStyle     `json:"caption"`
	BackgroundImage *BackgroundImage `json:"backgroundImage,omitempty"`

	Description string `json:"description,omitempty"`
}

// New returns a Configuration populated from the defaults table. This is
// the only place defaults live; nothing re-derives them at draw time.
func New() Configuration {
	return Configuration{
		Symbology:   symbology.Matrix2D,
		Resolution:  1024,
		SymbolScale: 0.5,
		Foreground:  "#000000",
		Background:  "#ffffff",
		ECLevel:     "H",
		Title: TitleStyle{
			Font:   "Go",
			Weight: "bold",
		},
		Caption: CaptionStyle{
			Font:      "Go",
			SizeRatio: 0.08,
		},
	}
}

// Validate reports the first bounds violation. It is called before save
// and before export; the layout engine itself stays permissive.
func (c Configuration) Validate() error {
	if c.Resolution < MinResolution || c.Resolution > MaxResolution {
		return fmt.Errorf("resolution %d outside [%d, %d]", c.Resolution, MinResolution, MaxResolution)
	}
	if c.SymbolScale < MinSymbolScale || c.SymbolScale > MaxSymbolScale {
		return fmt.Errorf("symbol scale %.3f outside [%.2f, %.2f]", c.SymbolScale, MinSymbolScale, MaxSymbolScale)
	}
	if c.BackgroundImage != nil {
		if c.BackgroundImage.Opacity < 0 || c.BackgroundImage.Opacity > 1 {
			return fmt.Errorf("background image opacity %.3f outside [0, 1]", c.BackgroundImage.Opacity)
		}
		if f := c.BackgroundImage.Fit; f != FitCover && f != FitContain {
			return fmt.Errorf("background image fit %q must be cover or contain", f)
		}
	}
	switch c.ECLevel {
	case "", "L", "M", "Q", "H":
	default:
		return fmt.Errorf("error correction level %q must be one of L/M/Q/H", c.ECLevel)
	}
	return c.Symbology.ValidateContent(c.Content)
}

// Clamp returns a copy with out-of-range numeric fields pulled back into
// bounds. The UI layer applies this on every edit; render paths can rely
// on it defensively when consuming externally supplied records.
func (c Configuration) Clamp() Configuration {
	out := c
	out.Resolution = clampInt(out.Resolution, MinResolution, MaxResolution)
	out.SymbolScale = clampFloat(out.SymbolScale, MinSymbolScale, MaxSymbolScale)
	if out.Title.SizeRef < 0 {
		out.Title.SizeRef = 0
	}
	if out.Title.GapRef < 0 {
		out.Title.GapRef = 0
	}
	if out.Caption.SizeRatio < 0 {
		out.Caption.SizeRatio = 0
	}
	if out.Caption.GapRatio < 0 {
		out.Caption.GapRatio = 0
	}
	if out.BackgroundImage != nil {
		img := *out.BackgroundImage
		img.Opacity = clampFloat(img.Opacity, 0, 1)
		img.Zoom = clampFloat(img.Zoom, 0.1, 3.0)
		if img.Fit != FitContain {
			img.Fit = FitCover
		}
		out.BackgroundImage = &img
	}
	// Letter spacing intentionally not clamped: negative tracking is
	// accepted by the drawing primitives and left as creative license.
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
