package render

import "math"

// PxPerMM converts millimetres to CSS pixels at 96 per inch.
const PxPerMM = 96 / 25.4

// Page is a physical page size in millimetres.
type Page struct {
	WidthMM  float64
	HeightMM float64
}

// A4 is the A4 portrait page.
var A4 = Page{WidthMM: 210, HeightMM: 297}

// Content returns the printable area in device pixels for the given margin
// and scale.
func (p Page) Content(marginMM, scale float64) (w, h int) {
	w = int(math.Round((p.WidthMM - 2*marginMM) * PxPerMM * scale))
	h = int(math.Round((p.HeightMM - 2*marginMM) * PxPerMM * scale))
	return w, h
}

// placement puts rows [SrcY, SrcY+H) of a block at offset Y of a page.
type placement struct {
	Block int
	Page  int
	Y     int
	SrcY  int
	H     int
}

// paginate packs blocks of the given heights onto pages of pageH. Blocks
// that fit on a page are moved whole to the next page instead of being
// split; taller blocks start on a fresh page and are sliced. It returns
// the placements and the page count, which is at least one.
func paginate(heights []int, gap, pageH int) ([]placement, int) {
	var out []placement
	page, y := 0, 0
	for i, h := range heights {
		if h <= 0 {
			continue
		}
		if y > 0 {
			y += gap
		}
		if y+h <= pageH {
			out = append(out, placement{Block: i, Page: page, Y: y, H: h})
			y += h
			continue
		}
		if y > 0 {
			page++
			y = 0
		}
		for off := 0; off < h; {
			part := min(pageH-y, h-off)
			out = append(out, placement{Block: i, Page: page, Y: y, SrcY: off, H: part})
			off += part
			y += part
			if off < h {
				page++
				y = 0
			}
		}
	}
	return out, page + 1
}
