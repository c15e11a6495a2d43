package layout

// This file defines the geometry descriptor shared by the compositor,
// the preview renderer and the debug JSON dump. All values are pixels at
// the resolution the descriptor was computed for.

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Align is a horizontal text anchor mode.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// DigitGroup positions one run of human-readable digits under a linear
// symbol. AnchorX is interpreted per Align: for AlignRight the run's
// right edge sits at AnchorX, for AlignCenter its midpoint does.
type DigitGroup struct {
	Text    string  `json:"text"`
	AnchorX float64 `json:"anchorX"`
	Top     float64 `json:"top"`
	Align   Align   `json:"align"`
}

// Geometry is the full layout of one rendering: patch bounds, margins
// and per-element boxes. It is recomputed from the Configuration on
// every draw and never cached across resolution changes, so preview and
// export stay consistent without scale-of-a-scale drift.
type Geometry struct {
	Resolution float64 `json:"resolution"`

	GroupWidth     float64 `json:"groupWidth"`
	InternalMargin float64 `json:"internalMargin"`
	ContentWidth   float64 `json:"contentWidth"`

	Patch        Rect    `json:"patch"`
	CornerRadius float64 `json:"cornerRadius"`

	// Title block. All zero when the configuration has no title text.
	TitleFontSize float64 `json:"titleFontSize"`
	TitleHeight   float64 `json:"titleHeight"`
	TitleGap      float64 `json:"titleGap"`
	TitleX        float64 `json:"titleX"` // center anchor
	TitleY        float64 `json:"titleY"` // top of the title text

	// Symbol block: the square module area for the matrix family, the
	// bar block for linear symbologies (for EAN-13 this excludes the
	// reserved first-digit offset on the left).
	Symbol Rect `json:"symbol"`

	// Caption block.
	CaptionFontSize float64 `json:"captionFontSize"`
	CaptionGap      float64 `json:"captionGap"`
	CaptionX        float64 `json:"captionX"` // center anchor
	CaptionY        float64 `json:"captionY"` // top of the caption text

	// DigitGroups carries the EAN-13 per-group anchors. Empty for every
	// other symbology; when present it replaces the single caption line.
	DigitGroups []DigitGroup `json:"digitGroups,omitempty"`
}
