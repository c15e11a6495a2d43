// Package symbology defines the closed set of supported symbol families
// and the per-symbology capability records the layout engine and encoder
// adapter dispatch on.
package symbology

import (
	"fmt"
	"strconv"
	"strings"
)

// Symbology identifies one of the supported symbol types.
type Symbology int

const (
	Matrix2D Symbology = iota // two-dimensional modular code (QR family)
	EAN13
	Code128
	Code39
	UPCA
	ITF14
	MSI
	Pharmacode
)

// All lists every supported symbology in declaration order.
var All = []Symbology{Matrix2D, EAN13, Code128, Code39, UPCA, ITF14, MSI, Pharmacode}

// String returns the canonical lowercase name used in filenames and config.
func (s Symbology) String() string {
	switch s {
	case Matrix2D:
		return "qr"
	case EAN13:
		return "ean13"
	case Code128:
		return "code128"
	case Code39:
		return "code39"
	case UPCA:
		return "upca"
	case ITF14:
		return "itf14"
	case MSI:
		return "msi"
	case Pharmacode:
		return "pharmacode"
	default:
		return "unknown"
	}
}

// Parse maps a config/CLI name back to a Symbology.
func Parse(name string) (Symbology, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "qr", "qrcode", "matrix", "matrix2d":
		return Matrix2D, nil
	case "ean13", "ean-13":
		return EAN13, nil
	case "code128", "code-128":
		return Code128, nil
	case "code39", "code-39":
		return Code39, nil
	case "upca", "upc-a", "upc":
		return UPCA, nil
	case "itf14", "itf-14", "itf":
		return ITF14, nil
	case "msi", "msi-plessey":
		return MSI, nil
	case "pharmacode", "pharma":
		return Pharmacode, nil
	default:
		return Matrix2D, fmt.Errorf("unknown symbology %q", name)
	}
}

// Capability describes the structural properties of a symbology that the
// layout engine and the encoder adapter need, so per-symbology behavior
// lives here instead of scattered switches.
type Capability struct {
	// Linear is true for 1-D bars-with-digits symbologies.
	Linear bool

	// BarHeightRatio is the native bar-block height as a fraction of the
	// rendered symbol width. Zero for the square matrix family.
	BarHeightRatio float64

	// DigitGrouping is true when the human-readable caption follows the
	// EAN-13 convention (floating first digit plus two centered halves).
	DigitGrouping bool

	// Numeric restricts content to ASCII digits.
	Numeric bool

	// ExactLength, when non-zero, is the required content length.
	ExactLength int
}

var capabilities = map[Symbology]Capability{
	Matrix2D:   {},
	EAN13:      {Linear: true, BarHeightRatio: 0.69, DigitGrouping: true, Numeric: true, ExactLength: 13},
	Code128:    {Linear: true, BarHeightRatio: 0.30},
	Code39:     {Linear: true, BarHeightRatio: 0.35},
	UPCA:       {Linear: true, BarHeightRatio: 0.69, Numeric: true, ExactLength: 12},
	ITF14:      {Linear: true, BarHeightRatio: 0.40, Numeric: true, ExactLength: 14},
	MSI:        {Linear: true, BarHeightRatio: 0.35, Numeric: true},
	Pharmacode: {Linear: true, BarHeightRatio: 0.35, Numeric: true},
}

// Caps returns the capability record for s.
func (s Symbology) Caps() Capability { return capabilities[s] }

// ValidateContent checks content against the symbology's charset and
// length rules before the encoder is invoked, so callers get a stable
// validation error instead of an encoder-specific one.
func (s Symbology) ValidateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%s: content is empty", s)
	}
	caps := s.Caps()
	if caps.Numeric {
		for i := 0; i < len(content); i++ {
			if content[i] < '0' || content[i] > '9' {
				return fmt.Errorf("%s: content must be numeric, found %q at position %d", s, content[i], i)
			}
		}
	}
	if caps.ExactLength > 0 && len(content) != caps.ExactLength {
		return fmt.Errorf("%s: content must be exactly %d digits, got %d", s, caps.ExactLength, len(content))
	}
	if s == Pharmacode {
		n, err := strconv.Atoi(content)
		if err != nil || n < 3 || n > 131070 {
			return fmt.Errorf("pharmacode: value must be an integer in [3, 131070], got %q", content)
		}
	}
	return nil
}
