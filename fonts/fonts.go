// Package fonts exposes the built-in typefaces used for titles and
// captions. The blobs come from golang.org/x/image/font/gofont so the
// binary is self-contained and renders identically everywhere.
package fonts

import (
	"fmt"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Weight names accepted by Load.
const (
	Regular = "regular"
	Bold    = "bold"
)

// Load returns the TTF bytes for the named weight.
func Load(weight string) ([]byte, error) {
	switch weight {
	case "", Regular:
		return goregular.TTF, nil
	case Bold:
		return gobold.TTF, nil
	default:
		return nil, fmt.Errorf("unknown font weight %q", weight)
	}
}
