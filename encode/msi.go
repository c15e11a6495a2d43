package encode

import (
	"fmt"

	"github.com/ericlevine/zxinggo/bitutil"
	"github.com/ericlevine/zxinggo/oned"
)

// MSI (modified Plessey) is not covered by the zxinggo writer set, so it
// is encoded here against the same oned building blocks. Each digit is
// four bits MSB first; bit 1 is a wide bar + narrow space, bit 0 a
// narrow bar + wide space. A Luhn mod-10 check digit is appended.

var (
	msiStart = []int{2, 1}       // "110"
	msiStop  = []int{1, 2, 1}    // "1001"
	msiOne   = []int{2, 1}       // "110"
	msiZero  = []int{1, 2}       // "100"
)

func encodeMSI(contents string) (*bitutil.BitMatrix, error) {
	if err := oned.CheckNumeric(contents); err != nil {
		return nil, err
	}
	if len(contents) == 0 || len(contents) > 15 {
		return nil, fmt.Errorf("msi contents must be 1-15 digits, got %d", len(contents))
	}
	digits := contents + string(rune('0'+msiCheckDigit(contents)))

	// start(3) + 12 per digit + stop(4) modules
	code := make([]bool, 3+12*len(digits)+4)
	pos := oned.AppendPattern(code, 0, msiStart, true)
	for i := 0; i < len(digits); i++ {
		d := digits[i] - '0'
		for bit := 3; bit >= 0; bit-- {
			pattern := msiZero
			if d&(1<<uint(bit)) != 0 {
				pattern = msiOne
			}
			pos += oned.AppendPattern(code, pos, pattern, true)
		}
	}
	oned.AppendPattern(code, pos, msiStop, true)

	return oned.RenderOneDCode(code, 0, 1), nil
}

// msiCheckDigit computes the Luhn mod-10 checksum over the digit string.
func msiCheckDigit(digits string) int {
	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}
