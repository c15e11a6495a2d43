package vcard

import (
	"strings"
	"testing"
)

func TestGenerateRoundTrip(t *testing.T) {
	in := Contact{
		FirstName:    "An",
		LastName:     "Nguyen",
		Organization: "Safescan Co",
		Title:        "Engineer",
		Phone:        "+84901234567",
		Email:        "an@example.com",
		URL:          "https://example.com/an",
		Street:       "1 Duong Le Loi",
		City:         "Da Nang",
		Region:       "DN",
		PostalCode:   "550000",
		Country:      "Vietnam",
	}

	payload := Generate(in)
	if !IsVCard(payload) {
		t.Fatal("generated payload does not carry the vCard signature")
	}
	if !strings.Contains(payload, "FN:An Nguyen\r\n") {
		t.Fatalf("missing FN line in:\n%s", payload)
	}

	out, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
}

func TestGenerateOmitsEmptyFields(t *testing.T) {
	payload := Generate(Contact{FirstName: "An"})
	for _, absent := range []string{"ORG", "TITLE", "TEL", "EMAIL", "URL", "ADR"} {
		if strings.Contains(payload, absent+":") || strings.Contains(payload, absent+";") {
			t.Fatalf("empty field %s serialized in:\n%s", absent, payload)
		}
	}
}

func TestParseRejectsNonCard(t *testing.T) {
	if _, err := Parse("https://example.com"); err == nil {
		t.Fatal("expected error for non-vCard payload")
	}
	if _, err := Parse("BEGIN:VCARD\r\nVERSION:3.0\r\n"); err == nil {
		t.Fatal("expected error for card without END")
	}
}

func TestParseToleratesLF(t *testing.T) {
	payload := "BEGIN:VCARD\nVERSION:3.0\nN:Tran;Binh;;;\nFN:Binh Tran\nEND:VCARD"
	c, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.FirstName != "Binh" || c.LastName != "Tran" {
		t.Fatalf("unexpected contact %+v", c)
	}
}
