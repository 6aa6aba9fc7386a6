// Package board lays out a moodboard as a surface node tree.
//
// The tree is a vertical stack of blocks: a header, the headline and
// tagline, the palette, a type specimen, the image grid and the item list.
// Each top-level block is kept whole when the board is paginated.
package board

import (
	"image/color"

	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// SurfaceID is the id the board is mounted under by default.
const SurfaceID = "moodboard-preview"

// Block ids within a composed board.
const (
	HeaderID     = "board-header"
	HeadlineID   = "board-headline"
	PaletteID    = "board-palette"
	TypographyID = "board-typography"
	ImagesID     = "board-images"
	ItemsID      = "board-items"
)

const (
	imagesPerRow = 2
	imageHeight  = 220
	swatchHeight = 72
)

var (
	ink   = color.RGBA{0x11, 0x18, 0x27, 0xff}
	muted = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	paper = color.RGBA{0xff, 0xff, 0xff, 0xff}
	card  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
)

// Compose builds the surface tree for mb with root id id.
func Compose(mb moodboard.Moodboard, id string) *surface.Node {
	fp := mb.FontPair()
	t := theme{heading: fp.Heading, body: fp.Body}

	root := surface.NewNode(surface.KindBlock, surface.Style{Background: paper, Gap: 24})
	root.ID = id

	root.Append(header(t, mb))
	if mb.Headline != "" || mb.Tagline != "" {
		root.Append(headline(t, mb))
	}
	root.Append(palette(t, mb.Colors()))
	root.Append(typography(t, fp))
	if len(mb.ImageURLs) > 0 {
		root.Append(images(t, mb.ImageURLs))
	}
	if len(mb.Items) > 0 {
		root.Append(items(t, mb.Items))
	}
	return root
}

type theme struct {
	heading, body string
}

func (t theme) h(text string, size float64, align surface.Align) *surface.Node {
	n := surface.NewNode(surface.KindHeading, surface.Style{
		FontFamily: t.heading, FontSize: size, FontWeight: 700, Color: ink, Align: align,
	})
	n.Text = text
	return n
}

func (t theme) p(text string, size float64, c color.Color, align surface.Align) *surface.Node {
	n := surface.NewNode(surface.KindText, surface.Style{
		FontFamily: t.body, FontSize: size, FontWeight: 400, Color: c, Align: align,
	})
	n.Text = text
	return n
}

func (t theme) section(id, title string, children ...*surface.Node) *surface.Node {
	n := surface.NewNode(surface.KindBlock, surface.Style{Gap: 12})
	n.ID = id
	n.Append(t.h(title, 20, surface.AlignLeft))
	n.Append(children...)
	return n
}

func header(t theme, mb moodboard.Moodboard) *surface.Node {
	n := surface.NewNode(surface.KindBlock, surface.Style{Gap: 8})
	n.ID = HeaderID
	n.Append(t.h(mb.Title, 30, surface.AlignLeft))
	if mb.Description != "" {
		n.Append(t.p(mb.Description, 14, muted, surface.AlignLeft))
	}
	if tags := mb.Tags.Sorted(); len(tags) > 0 {
		row := surface.NewNode(surface.KindRow, surface.Style{Gap: 8})
		for _, tag := range tags {
			chip := t.p(tag, 12, ink, surface.AlignCenter)
			chip.Style.Background = card
			chip.Style.Padding = 6
			row.Append(chip)
		}
		n.Append(row)
	}
	return n
}

func headline(t theme, mb moodboard.Moodboard) *surface.Node {
	n := surface.NewNode(surface.KindBlock, surface.Style{Background: card, Padding: 32, Gap: 10})
	n.ID = HeadlineID
	if mb.Headline != "" {
		n.Append(t.h(mb.Headline, 28, surface.AlignCenter))
	}
	if mb.Tagline != "" {
		n.Append(t.p(mb.Tagline, 16, muted, surface.AlignCenter))
	}
	return n
}

func palette(t theme, swatches []moodboard.ColorSwatch) *surface.Node {
	row := surface.NewNode(surface.KindRow, surface.Style{Gap: 12})
	for _, s := range swatches {
		chip := surface.NewNode(surface.KindSwatch, surface.Style{Background: s.RGB(), Height: swatchHeight})
		label := s.Name
		if label == "" {
			label = s.Hex
		}
		col := surface.NewNode(surface.KindBlock, surface.Style{Gap: 4},
			chip,
			t.p(label, 12, ink, surface.AlignLeft),
			t.p(s.Hex, 11, muted, surface.AlignLeft),
		)
		row.Append(col)
	}
	return t.section(PaletteID, "Color Palette", row)
}

func typography(t theme, fp moodboard.FontPair) *surface.Node {
	return t.section(TypographyID, "Typography",
		t.h(fp.Heading, 26, surface.AlignLeft),
		t.p("Heading · "+fp.Heading, 12, muted, surface.AlignLeft),
		t.p("The quick brown fox jumps over the lazy dog.", 16, ink, surface.AlignLeft),
		t.p("Body · "+fp.Body, 12, muted, surface.AlignLeft),
	)
}

func images(t theme, urls []string) *surface.Node {
	var rows []*surface.Node
	for i := 0; i < len(urls); i += imagesPerRow {
		row := surface.NewNode(surface.KindRow, surface.Style{Gap: 12})
		for _, u := range urls[i:min(i+imagesPerRow, len(urls))] {
			img := surface.NewNode(surface.KindImage, surface.Style{Height: imageHeight, Background: card})
			img.Src = u
			row.Append(img)
		}
		rows = append(rows, row)
	}
	return t.section(ImagesID, "Inspiration", rows...)
}

func items(t theme, list []moodboard.Item) *surface.Node {
	var cards []*surface.Node
	for _, it := range list {
		c := surface.NewNode(surface.KindBlock, surface.Style{Background: card, Padding: 16, Gap: 6})
		c.ID = it.ItemID()
		switch v := it.(type) {
		case moodboard.ImageItem:
			img := surface.NewNode(surface.KindImage, surface.Style{Height: imageHeight})
			img.Src = v.URL
			c.Append(img)
			if v.Title != "" {
				c.Append(t.h(v.Title, 16, surface.AlignLeft))
			}
		case moodboard.TextItem:
			c.Append(t.h(v.Title, 16, surface.AlignLeft))
			if v.Description != "" {
				c.Append(t.p(v.Description, 14, muted, surface.AlignLeft))
			}
		}
		cards = append(cards, c)
	}
	return t.section(ItemsID, "Items", cards...)
}
