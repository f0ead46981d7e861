// Package millsheet extracts structured metadata from the OCR text of a mill
// test certificate and derives a canonical filename from it. Extraction is
// heuristic: ordered pattern lists per field, first valid match wins, and a
// field that cannot be extracted is simply absent. An all-empty record is a
// valid output, not an error.
package millsheet

import "strings"

// Record holds the metadata extracted from one certificate. Every field is
// independently optional: an empty string means the extractor found nothing.
// A Record is a pure function of the input text and is never mutated after
// Parse returns.
type Record struct {
	Date         string `json:"date,omitempty"`       // YY-MM-DD
	Material     string `json:"material,omitempty"`   // uppercase grade code, no internal spaces
	Dimensions   string `json:"dimensions,omitempty"` // T, TxW or TxWxL
	Manufacturer string `json:"manufacturer,omitempty"`
	ChargeNo     string `json:"charge_no,omitempty"` // 4-12 uppercase alphanumerics
	RawText      string `json:"-"`                   // original text, kept for diagnostics
}

// Empty reports whether no extractor produced a value.
func (r Record) Empty() bool {
	return r.Date == "" && r.Material == "" && r.Dimensions == "" &&
		r.Manufacturer == "" && r.ChargeNo == ""
}

// OCR output mixes ideographic (U+3000) and no-break (U+00A0) spaces into
// otherwise ASCII runs; fold them to plain spaces so the ASCII-oriented
// patterns see them as separators.
var spaceFolder = strings.NewReplacer("　", " ", " ", " ")

// Parser runs the five field extractors over one text blob.
type Parser struct {
	makers []Maker
}

// Option configures a Parser.
type Option func(*Parser)

// WithMakers replaces the built-in manufacturer priority table.
func WithMakers(makers []Maker) Option {
	return func(p *Parser) {
		if len(makers) > 0 {
			p.makers = makers
		}
	}
}

// NewParser returns a Parser with the built-in manufacturer table unless
// overridden by options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{makers: DefaultMakers()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts all fields from text. The extractors are independent of one
// another; a miss in one never blocks the others.
func (p *Parser) Parse(text string) Record {
	folded := spaceFolder.Replace(text)
	return Record{
		Date:         extractDate(folded),
		Material:     extractMaterial(folded),
		Dimensions:   extractDimensions(folded),
		Manufacturer: extractManufacturer(folded, p.makers),
		ChargeNo:     extractChargeNo(folded),
		RawText:      text,
	}
}

// Parse extracts all fields from text using the default parser configuration.
func Parse(text string) Record {
	return NewParser().Parse(text)
}
