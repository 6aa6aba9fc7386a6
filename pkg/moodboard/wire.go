package moodboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moodmagic/moodmagic/pkg/errors"
)

// Wire is the JSON shape exchanged with the generation endpoint.
type Wire struct {
	Title        string       `json:"title,omitempty"`
	Description  string       `json:"description,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	ColorPalette []WireSwatch `json:"color_palette,omitempty"`
	FontPairs    []FontPair   `json:"font_pairs,omitempty"`
	Headline     string       `json:"headline,omitempty"`
	Tagline      string       `json:"tagline,omitempty"`
	ImageURLs    []string     `json:"image_urls,omitempty"`
	Items        []WireItem   `json:"items,omitempty"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
}

// UnmarshalJSON accepts "fonts" and "images" as aliases of "font_pairs"
// and "image_urls"; the generation backend uses the short keys.
func (w *Wire) UnmarshalJSON(data []byte) error {
	type plain Wire
	var aux struct {
		plain
		Fonts  []FontPair `json:"fonts"`
		Images []string   `json:"images"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = Wire(aux.plain)
	if len(w.FontPairs) == 0 {
		w.FontPairs = aux.Fonts
	}
	if len(w.ImageURLs) == 0 {
		w.ImageURLs = aux.Images
	}
	return nil
}

// WireSwatch is a palette entry. It decodes from either {"hex","name"} or a
// bare "#RRGGBB" string, and always encodes as an object.
type WireSwatch ColorSwatch

func (s *WireSwatch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var hex string
		if err := json.Unmarshal(data, &hex); err != nil {
			return err
		}
		*s = WireSwatch{Hex: hex}
		return nil
	}
	var c ColorSwatch
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*s = WireSwatch(c)
	return nil
}

// Item kinds on the wire.
const (
	KindImage = "image"
	KindText  = "text"
)

// WireItem is the flat wire form of an [Item].
type WireItem struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Decode parses a generation response body.
func Decode(data []byte) (Moodboard, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return Moodboard{}, errors.Wrap(errors.ErrCodeInvalidResponse, err, "decode moodboard")
	}
	return FromWire(w)
}

// Encode serializes m in wire form.
func Encode(m Moodboard) ([]byte, error) {
	return json.Marshal(ToWire(m))
}

// FromWire validates w and builds a Moodboard. Missing colors fall back to
// [DefaultPalette]; font pairs with a blank name are dropped and an empty
// result falls back to [DefaultFontPair]. Items without an id get a new one.
func FromWire(w Wire) (Moodboard, error) {
	m := Moodboard{
		Title:       strings.TrimSpace(w.Title),
		Description: w.Description,
		Tags:        NewTagSet(w.Tags...),
		Headline:    w.Headline,
		Tagline:     w.Tagline,
	}
	if w.CreatedAt != nil {
		m.CreatedAt = w.CreatedAt.UTC()
	}

	for i, s := range w.ColorPalette {
		sw, err := NewColorSwatch(s.Hex, s.Name)
		if err != nil {
			return Moodboard{}, errors.Wrap(errors.ErrCodeInvalidResponse, err, "color_palette[%d]", i)
		}
		m.Palette = append(m.Palette, sw)
	}
	if len(m.Palette) == 0 {
		m.Palette = append([]ColorSwatch(nil), DefaultPalette...)
	}

	for _, fp := range w.FontPairs {
		p, err := NewFontPair(fp.Heading, fp.Body)
		if err != nil {
			continue
		}
		m.FontPairs = append(m.FontPairs, p)
	}
	if len(m.FontPairs) == 0 {
		m.FontPairs = []FontPair{DefaultFontPair}
	}

	for _, u := range w.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			m.ImageURLs = append(m.ImageURLs, u)
		}
	}

	for i, wi := range w.Items {
		id := wi.ID
		if id == "" {
			id = uuid.NewString()
		}
		switch wi.Type {
		case KindImage:
			if wi.URL == "" {
				return Moodboard{}, errors.New(errors.ErrCodeInvalidResponse, "items[%d]: image item without url", i)
			}
			m.Items = append(m.Items, ImageItem{ID: id, URL: wi.URL, Title: wi.Title, Description: wi.Description})
		case KindText:
			m.Items = append(m.Items, TextItem{ID: id, Title: wi.Title, Description: wi.Description})
		default:
			return Moodboard{}, errors.New(errors.ErrCodeInvalidResponse, "items[%d]: unknown type %q", i, wi.Type)
		}
	}
	return m, nil
}

// ToWire converts m to its wire form.
func ToWire(m Moodboard) Wire {
	w := Wire{
		Title:       m.Title,
		Description: m.Description,
		Tags:        m.Tags.Sorted(),
		FontPairs:   append([]FontPair(nil), m.FontPairs...),
		Headline:    m.Headline,
		Tagline:     m.Tagline,
		ImageURLs:   append([]string(nil), m.ImageURLs...),
	}
	for _, s := range m.Palette {
		w.ColorPalette = append(w.ColorPalette, WireSwatch(s))
	}
	for _, it := range m.Items {
		w.Items = append(w.Items, toWireItem(it))
	}
	if !m.CreatedAt.IsZero() {
		t := m.CreatedAt
		w.CreatedAt = &t
	}
	return w
}

func toWireItem(it Item) WireItem {
	switch v := it.(type) {
	case ImageItem:
		return WireItem{ID: v.ID, Type: KindImage, URL: v.URL, Title: v.Title, Description: v.Description}
	case TextItem:
		return WireItem{ID: v.ID, Type: KindText, Title: v.Title, Description: v.Description}
	default:
		panic(fmt.Sprintf("moodboard: unknown item type %T", it))
	}
}
