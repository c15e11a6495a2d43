// Package encode adapts the zxinggo barcode writers to the studio: one
// entry point producing a tightly cropped module bitmap (bars only, no
// quiet zone, no text) for any supported symbology. The layout engine
// owns quiet zones and captions.
package encode

import (
	"fmt"

	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/ericlevine/zxinggo/bitutil"
	_ "github.com/ericlevine/zxinggo/oned"   // register 1D writers
	_ "github.com/ericlevine/zxinggo/qrcode" // register the QR writer

	"github.com/ByLCY/safescan/symbology"
)

// Error marks a failure to encode content for a symbology. The render
// loop treats it as a local, non-fatal condition; export aborts on it.
type Error struct {
	Symbology symbology.Symbology
	Reason    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Symbology, e.Reason)
}

func (e *Error) Unwrap() error { return e.Reason }

// Bitmap is a module bitmap cropped to its content: every row/column
// contains at least one set module.
type Bitmap struct {
	matrix                  *bitutil.BitMatrix
	left, top, width, height int
}

func (b *Bitmap) Width() int  { return b.width }
func (b *Bitmap) Height() int { return b.height }

// At reports whether the module at (x, y), relative to the cropped
// window, is ink.
func (b *Bitmap) At(x, y int) bool {
	return b.matrix.Get(b.left+x, b.top+y)
}

// Encode produces the module bitmap for content under the given
// symbology. ecLevel applies to the matrix family only (L/M/Q/H).
func Encode(content string, sym symbology.Symbology, ecLevel string) (*Bitmap, error) {
	if err := sym.ValidateContent(content); err != nil {
		return nil, &Error{Symbology: sym, Reason: err}
	}

	var (
		matrix *bitutil.BitMatrix
		err    error
	)
	switch sym {
	case symbology.Matrix2D:
		noMargin := 0
		matrix, err = zxinggo.Encode(content, zxinggo.FormatQRCode, 0, 0, &zxinggo.EncodeOptions{
			ErrorCorrection: ecLevel,
			Margin:          &noMargin,
		})
	case symbology.EAN13:
		matrix, err = zxinggo.Encode(content, zxinggo.FormatEAN13, 0, 1, nil)
	case symbology.Code128:
		matrix, err = zxinggo.Encode(content, zxinggo.FormatCode128, 0, 1, nil)
	case symbology.Code39:
		matrix, err = zxinggo.Encode(content, zxinggo.FormatCode39, 0, 1, nil)
	case symbology.UPCA:
		matrix, err = zxinggo.Encode(content, zxinggo.FormatUPCA, 0, 1, nil)
	case symbology.ITF14:
		matrix, err = zxinggo.Encode(content, zxinggo.FormatITF, 0, 1, nil)
	case symbology.MSI:
		matrix, err = encodeMSI(content)
	case symbology.Pharmacode:
		matrix, err = encodePharmacode(content)
	default:
		err = fmt.Errorf("no writer for symbology %s", sym)
	}
	if err != nil {
		return nil, &Error{Symbology: sym, Reason: err}
	}
	return crop(matrix)
}

// crop trims the writer's built-in quiet zone so the studio controls the
// quiet zone itself.
func crop(matrix *bitutil.BitMatrix) (*Bitmap, error) {
	rect := matrix.EnclosingRectangle()
	if rect == nil {
		return nil, fmt.Errorf("encoder produced an empty bitmap")
	}
	return &Bitmap{
		matrix: matrix,
		left:   rect[0],
		top:    rect[1],
		width:  rect[2],
		height: rect[3],
	}, nil
}
