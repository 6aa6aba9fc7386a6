package export

import (
	"image/color"

	"github.com/moodmagic/moodmagic/pkg/surface"
)

// HeadingID is the id of the synthetic heading block.
const HeadingID = "export-heading"

var (
	titleColor    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	subtitleColor = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

// headingBlock builds the centered title block, or nil when opts has no
// title or subtitle.
func headingBlock(opts Options, family string) *surface.Node {
	if opts.Title == "" && opts.Subtitle == "" {
		return nil
	}
	block := surface.NewNode(surface.KindBlock, surface.Style{Align: surface.AlignCenter, MarginBottom: 20})
	block.ID = HeadingID
	if opts.Title != "" {
		h := surface.NewNode(surface.KindHeading, surface.Style{
			FontFamily: family, FontSize: 24, FontWeight: 700, Color: titleColor,
			Align: surface.AlignCenter, MarginBottom: 10,
		})
		h.Text = opts.Title
		block.Append(h)
	}
	if opts.Subtitle != "" {
		s := surface.NewNode(surface.KindHeading, surface.Style{
			FontFamily: family, FontSize: 18, FontWeight: 400, Color: subtitleColor,
			Align: surface.AlignCenter,
		})
		s.Text = opts.Subtitle
		block.Append(s)
	}
	return block
}

// insertHeading adds the heading block to root and returns its release
// func. The release func is safe to call when nothing was inserted.
func insertHeading(root *surface.Node, opts Options) (release func()) {
	family := ""
	if fams := root.Families(); len(fams) > 0 {
		family = fams[0]
	}
	block := headingBlock(opts, family)
	if block == nil {
		return func() {}
	}
	root.InsertFirst(block)
	return func() { root.RemoveChild(block) }
}
