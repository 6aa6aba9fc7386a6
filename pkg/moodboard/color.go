package moodboard

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/moodmagic/moodmagic/pkg/errors"
)

// ColorSwatch is a named color in "#RRGGBB" form.
type ColorSwatch struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// DefaultPalette is used when a moodboard omits its colors.
var DefaultPalette = []ColorSwatch{
	{Hex: "#2C3E50", Name: "Deep Blue"},
	{Hex: "#E74C3C", Name: "Coral Red"},
	{Hex: "#ECF0F1", Name: "Cloud White"},
	{Hex: "#3498DB", Name: "Sky Blue"},
	{Hex: "#2ECC71", Name: "Emerald"},
}

// NewColorSwatch validates hex and returns a swatch with the hex upper-cased.
func NewColorSwatch(hex, name string) (ColorSwatch, error) {
	if _, err := ParseHex(hex); err != nil {
		return ColorSwatch{}, err
	}
	return ColorSwatch{Hex: strings.ToUpper(strings.TrimSpace(hex)), Name: name}, nil
}

// ParseHex parses a '#'-prefixed 6-digit hex color.
func ParseHex(hex string) (color.RGBA, error) {
	h := strings.TrimSpace(hex)
	if len(h) != 7 || h[0] != '#' {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q: want #RRGGBB", hex)
	}
	v, err := strconv.ParseUint(h[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// RGB returns the swatch color. Invalid hex values yield opaque black.
func (s ColorSwatch) RGB() color.RGBA {
	c, err := ParseHex(s.Hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}
