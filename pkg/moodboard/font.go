package moodboard

import (
	"regexp"
	"strings"

	"github.com/moodmagic/moodmagic/pkg/errors"
)

// FontPair is a heading/body type-family combination.
type FontPair struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// DefaultFontPair is used when a moodboard carries no usable font pair.
var DefaultFontPair = FontPair{Heading: "Playfair Display", Body: "Inter"}

var whitespace = regexp.MustCompile(`\s+`)

// NewFontPair trims and validates both family names.
func NewFontPair(heading, body string) (FontPair, error) {
	p := FontPair{Heading: strings.TrimSpace(heading), Body: strings.TrimSpace(body)}
	if err := p.Validate(); err != nil {
		return FontPair{}, err
	}
	return p, nil
}

// Validate reports whether both family names are usable.
func (p FontPair) Validate() error {
	if err := errors.ValidateFontFamily(p.Heading); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFont, err, "heading font")
	}
	if err := errors.ValidateFontFamily(p.Body); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFont, err, "body font")
	}
	return nil
}

// IsZero reports whether both names are empty.
func (p FontPair) IsZero() bool { return p.Heading == "" && p.Body == "" }

// Query returns the heading and body names with whitespace runs replaced by
// '+', ready to embed in a stylesheet URL.
func (p FontPair) Query() (heading, body string) {
	return QueryName(p.Heading), QueryName(p.Body)
}

// QueryName normalizes a single family name for URL embedding.
func QueryName(family string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(family), "+")
}
