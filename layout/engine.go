// Package layout computes the pixel geometry of a composed artifact:
// safe-zone patch, internal margins, title and caption positions and the
// symbol box, all derived proportionally from one target resolution.
//
// Compute is pure. Calling it for a 320px preview and a 2048px export
// yields geometries identical up to scale, which is the property keeping
// the two render paths in visual agreement.
package layout

import (
	"github.com/ByLCY/safescan/config"
)

// Fixed proportional ratios, all relative to the symbol group width.
const (
	internalMarginRatio = 0.05
	cornerRadiusRatio   = 0.05
	captionGapRatio     = 0.05
	captionFontRatio    = 0.08

	// lineHeightFactor converts a font size to a block height.
	lineHeightFactor = 1.2

	// digitAdvanceRatio approximates the advance width of one digit as a
	// fraction of the caption font size. The engine stays font-free, so
	// EAN-13 first-digit reservation uses this instead of measuring.
	digitAdvanceRatio = 0.6

	// ean13DigitPad is the gap between the floating first digit and the
	// bar block, in pixels at config.ReferenceResolution.
	ean13DigitPad = 4.0
)

// Compute derives the geometry descriptor for cfg at targetResolution.
// It never fails: degenerate inputs (empty content, symbol scale driving
// the content width to zero or below) still produce a descriptor, and
// callers enforce configuration bounds before rendering.
func Compute(cfg config.Configuration, targetResolution float64) Geometry {
	refScale := targetResolution / config.ReferenceResolution
	caps := cfg.Symbology.Caps()

	g := Geometry{Resolution: targetResolution}
	g.GroupWidth = targetResolution * cfg.SymbolScale
	g.InternalMargin = g.GroupWidth * internalMarginRatio
	g.ContentWidth = g.GroupWidth - 2*g.InternalMargin
	g.CornerRadius = g.GroupWidth * cornerRadiusRatio

	if cfg.Title.Text != "" {
		g.TitleFontSize = cfg.Title.SizeRef * refScale
		g.TitleHeight = g.TitleFontSize * lineHeightFactor
		g.TitleGap = cfg.Title.GapRef * refScale
	}

	capRatio := cfg.Caption.SizeRatio
	if capRatio <= 0 {
		capRatio = captionFontRatio
	}
	gapRatio := cfg.Caption.GapRatio
	if gapRatio <= 0 {
		gapRatio = captionGapRatio
	}
	g.CaptionFontSize = capRatio * g.GroupWidth
	g.CaptionGap = gapRatio * g.GroupWidth

	// Symbol block height includes the caption run beneath the symbol.
	var symbolHeight, blockHeight float64
	if caps.Linear {
		symbolHeight = g.ContentWidth * caps.BarHeightRatio
		blockHeight = symbolHeight + g.CaptionGap + g.CaptionFontSize*lineHeightFactor
	} else {
		symbolHeight = g.ContentWidth
		blockHeight = symbolHeight + g.CaptionGap + g.CaptionFontSize
	}

	g.Patch.Width = g.GroupWidth
	g.Patch.Height = g.TitleHeight + g.TitleGap + blockHeight + 2*g.InternalMargin
	g.Patch.X = (targetResolution - g.Patch.Width) / 2
	g.Patch.Y = (targetResolution - g.Patch.Height) / 2

	contentTop := g.Patch.Y + g.InternalMargin
	g.TitleX = targetResolution / 2
	g.TitleY = contentTop

	symbolLeft := g.Patch.X + g.InternalMargin
	symbolTop := contentTop + g.TitleHeight + g.TitleGap

	grouped := caps.DigitGrouping && len(cfg.Content) == 13
	if grouped {
		// EAN-13 display convention: the first digit floats left of the
		// bar block inside a reserved offset, the remaining twelve split
		// into two halves centered over each half of the bars.
		digitWidth := g.CaptionFontSize * digitAdvanceRatio
		pad := ean13DigitPad * refScale
		leftOffset := digitWidth + pad
		barWidth := g.ContentWidth - leftOffset

		g.Symbol = Rect{X: symbolLeft + leftOffset, Y: symbolTop, Width: barWidth, Height: symbolHeight}

		textTop := symbolTop + symbolHeight + g.CaptionGap
		g.CaptionX = g.Symbol.X + barWidth/2
		g.CaptionY = textTop
		g.DigitGroups = []DigitGroup{
			{Text: cfg.Content[0:1], AnchorX: g.Symbol.X - pad, Top: textTop, Align: AlignRight},
			{Text: cfg.Content[1:7], AnchorX: g.Symbol.X + barWidth*0.25, Top: textTop, Align: AlignCenter},
			{Text: cfg.Content[7:13], AnchorX: g.Symbol.X + barWidth*0.75, Top: textTop, Align: AlignCenter},
		}
		return g
	}

	g.Symbol = Rect{X: symbolLeft, Y: symbolTop, Width: g.ContentWidth, Height: symbolHeight}
	g.CaptionX = targetResolution / 2
	g.CaptionY = symbolTop + symbolHeight + g.CaptionGap
	return g
}
