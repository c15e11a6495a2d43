// Package vcard generates and parses version 3.0 contact cards for use
// as matrix-symbol payloads.
package vcard

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Signature is the leading line that marks a payload as a contact card.
const Signature = "BEGIN:VCARD"

// Contact holds the fields the studio's contact form exposes.
type Contact struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Organization string `json:"organization,omitempty"`
	Title        string `json:"title,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	URL          string `json:"url,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Country      string `json:"country,omitempty"`
}

// FullName is the display name written to the FN property.
func (c Contact) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

func (c Contact) hasAddress() bool {
	return c.Street != "" || c.City != "" || c.Region != "" || c.PostalCode != "" || c.Country != ""
}

// Generate serializes c as a vCard 3.0 document with CRLF line endings.
// Empty optional fields are omitted.
func Generate(c Contact) string {
	var b strings.Builder
	writeLine := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	b.WriteString(Signature + "\r\n")
	writeLine("VERSION", "3.0")
	writeLine("N", c.LastName+";"+c.FirstName+";;;")
	writeLine("FN", c.FullName())
	writeLine("ORG", c.Organization)
	writeLine("TITLE", c.Title)
	if c.Phone != "" {
		writeLine("TEL;TYPE=CELL", c.Phone)
	}
	writeLine("EMAIL", c.Email)
	writeLine("URL", c.URL)
	if c.hasAddress() {
		writeLine("ADR;TYPE=HOME", ";;"+c.Street+";"+c.City+";"+c.Region+";"+c.PostalCode+";"+c.Country)
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

// IsVCard reports whether payload looks like a contact card.
func IsVCard(payload string) bool {
	return strings.HasPrefix(strings.TrimSpace(payload), Signature)
}

var (
	cardLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "Sep", Pattern: `[:;]`},
		{Name: "Text", Pattern: `[^:;\r\n]+`},
	})

	cardParser = participle.MustBuild[document](
		participle.Lexer(cardLexer),
	)
)

type document struct {
	Lines []*line `parser:"( @@ Newline+ )* @@? Newline*"`
}

// line is one NAME[;PARAM...]:VALUE property. The value keeps separator
// characters verbatim so structured values like ADR survive.
type line struct {
	Name   string   `parser:"@Text"`
	Params []string `parser:"( ';' @Text )*"`
	Value  []string `parser:"':' ( @Text | @':' | @';' )*"`
}

func (l *line) value() string {
	return strings.Join(l.Value, "")
}

// Parse reads a vCard document back into a Contact. Properties the
// Contact form does not expose are ignored; a payload without the
// BEGIN/END envelope is rejected.
func Parse(payload string) (Contact, error) {
	if !IsVCard(payload) {
		return Contact{}, fmt.Errorf("payload is not a vCard: missing %s", Signature)
	}
	doc, err := cardParser.ParseString("", strings.TrimSpace(payload)+"\n")
	if err != nil {
		return Contact{}, fmt.Errorf("parse vCard: %w", err)
	}

	var c Contact
	var sawEnd bool
	for _, ln := range doc.Lines {
		switch strings.ToUpper(ln.Name) {
		case "END":
			sawEnd = true
		case "N":
			fields := strings.Split(ln.value(), ";")
			if len(fields) > 0 {
				c.LastName = fields[0]
			}
			if len(fields) > 1 {
				c.FirstName = fields[1]
			}
		case "FN":
			if c.FirstName == "" && c.LastName == "" {
				c.FirstName = ln.value()
			}
		case "ORG":
			c.Organization = ln.value()
		case "TITLE":
			c.Title = ln.value()
		case "TEL":
			c.Phone = ln.value()
		case "EMAIL":
			c.Email = ln.value()
		case "URL":
			c.URL = ln.value()
		case "ADR":
			fields := strings.Split(ln.value(), ";")
			get := func(i int) string {
				if i < len(fields) {
					return fields[i]
				}
				return ""
			}
			c.Street = get(2)
			c.City = get(3)
			c.Region = get(4)
			c.PostalCode = get(5)
			c.Country = get(6)
		}
	}
	if !sawEnd {
		return Contact{}, fmt.Errorf("parse vCard: missing END:VCARD")
	}
	return c, nil
}
