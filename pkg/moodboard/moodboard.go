package moodboard

import (
	"slices"
	"time"
)

// Item is one entry of a moodboard's item list: an [ImageItem] or a [TextItem].
type Item interface {
	ItemID() string
	isItem()
}

// ImageItem is an image entry with a caption.
type ImageItem struct {
	ID          string
	URL         string
	Title       string
	Description string
}

// TextItem is a text-only entry.
type TextItem struct {
	ID          string
	Title       string
	Description string
}

func (i ImageItem) ItemID() string { return i.ID }
func (i TextItem) ItemID() string  { return i.ID }
func (ImageItem) isItem()          {}
func (TextItem) isItem()           {}

// Moodboard is a generated design-inspiration artifact. Treat it as a value:
// use [Moodboard.Clone] before handing a copy to code that may modify it.
type Moodboard struct {
	Title       string
	Description string
	Tags        TagSet
	Palette     []ColorSwatch
	FontPairs   []FontPair
	Headline    string
	Tagline     string
	ImageURLs   []string
	Items       []Item
	CreatedAt   time.Time
}

// FontPair returns the active font pair. Only the first entry is used;
// a board without pairs uses [DefaultFontPair].
func (m Moodboard) FontPair() FontPair {
	if len(m.FontPairs) == 0 {
		return DefaultFontPair
	}
	return m.FontPairs[0]
}

// Colors returns the palette, or a copy of [DefaultPalette] when empty.
func (m Moodboard) Colors() []ColorSwatch {
	if len(m.Palette) == 0 {
		return slices.Clone(DefaultPalette)
	}
	return slices.Clone(m.Palette)
}

// Filename returns the default export filename for this board.
func (m Moodboard) Filename() string { return Filename(m.Title) }

// Clone returns a deep copy.
func (m Moodboard) Clone() Moodboard {
	c := m
	c.Tags = m.Tags.clone()
	c.Palette = slices.Clone(m.Palette)
	c.FontPairs = slices.Clone(m.FontPairs)
	c.ImageURLs = slices.Clone(m.ImageURLs)
	c.Items = slices.Clone(m.Items)
	return c
}

// Equal compares two boards. Tags compare as sets; all sequences compare
// in order.
func (m Moodboard) Equal(o Moodboard) bool {
	return m.Title == o.Title &&
		m.Description == o.Description &&
		m.Headline == o.Headline &&
		m.Tagline == o.Tagline &&
		m.CreatedAt.Equal(o.CreatedAt) &&
		m.Tags.Equal(o.Tags) &&
		slices.Equal(m.Palette, o.Palette) &&
		slices.Equal(m.FontPairs, o.FontPairs) &&
		slices.Equal(m.ImageURLs, o.ImageURLs) &&
		slices.Equal(m.Items, o.Items)
}
