package encode

import (
	"errors"
	"testing"

	"github.com/ByLCY/safescan/symbology"
)

func TestEncodeMatrix(t *testing.T) {
	bm, err := Encode("https://example.com", symbology.Matrix2D, "H")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if bm.Width() != bm.Height() {
		t.Fatalf("matrix bitmap must be square, got %dx%d", bm.Width(), bm.Height())
	}
	// QR version 1 is 21 modules; anything smaller means the crop ate
	// real content.
	if bm.Width() < 21 {
		t.Fatalf("matrix bitmap too small: %d modules", bm.Width())
	}
	// Finder pattern corner must be ink after cropping.
	if !bm.At(0, 0) {
		t.Fatalf("expected ink at top-left finder corner")
	}
}

func TestEncodeLinearTightCrop(t *testing.T) {
	cases := []struct {
		sym     symbology.Symbology
		content string
	}{
		{symbology.EAN13, "4006381333931"},
		{symbology.Code128, "SAFESCAN-01"},
		{symbology.Code39, "SAFESCAN"},
		{symbology.UPCA, "036000291452"},
		{symbology.ITF14, "00012345678905"},
		{symbology.MSI, "1234567"},
		{symbology.Pharmacode, "12345"},
	}
	for _, tc := range cases {
		bm, err := Encode(tc.content, tc.sym, "")
		if err != nil {
			t.Fatalf("%s: encode failed: %v", tc.sym, err)
		}
		if bm.Width() == 0 || bm.Height() == 0 {
			t.Fatalf("%s: empty bitmap", tc.sym)
		}
		// A tight crop starts and ends on a bar.
		if !bm.At(0, 0) || !bm.At(bm.Width()-1, 0) {
			t.Fatalf("%s: crop is not tight: edges %v %v", tc.sym, bm.At(0, 0), bm.At(bm.Width()-1, 0))
		}
	}
}

func TestEncodeValidation(t *testing.T) {
	cases := []struct {
		name    string
		sym     symbology.Symbology
		content string
	}{
		{"empty content", symbology.Matrix2D, ""},
		{"ean13 short", symbology.EAN13, "400638133393"},
		{"ean13 letters", symbology.EAN13, "40063813339aa"},
		{"upca wrong length", symbology.UPCA, "1234"},
		{"itf14 wrong length", symbology.ITF14, "123"},
		{"msi letters", symbology.MSI, "12a4"},
		{"pharmacode low", symbology.Pharmacode, "2"},
		{"pharmacode high", symbology.Pharmacode, "131071"},
	}
	for _, tc := range cases {
		_, err := Encode(tc.content, tc.sym, "")
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var encErr *Error
		if !errors.As(err, &encErr) {
			t.Fatalf("%s: expected *encode.Error, got %T", tc.name, err)
		}
		if encErr.Symbology != tc.sym {
			t.Fatalf("%s: error names %s, want %s", tc.name, encErr.Symbology, tc.sym)
		}
	}
}

func TestMSICheckDigit(t *testing.T) {
	// Known Luhn mod-10 vectors for MSI.
	cases := map[string]int{
		"1234567": 4,
		"80523":   4,
		"1":       8,
	}
	for digits, want := range cases {
		if got := msiCheckDigit(digits); got != want {
			t.Fatalf("check digit of %s: got %d want %d", digits, got, want)
		}
	}
}

func TestPharmacodeBarCount(t *testing.T) {
	// Value 3 encodes as exactly two narrow bars ("11").
	bm, err := Encode("3", symbology.Pharmacode, "")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	// bars: 1 + space 2 + 1 = 4 modules
	if bm.Width() != 4 {
		t.Fatalf("pharmacode 3 width: got %d want 4", bm.Width())
	}
}
