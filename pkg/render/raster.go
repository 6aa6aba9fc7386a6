package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

const (
	// DefaultScale is the oversampling factor applied to CSS pixels.
	DefaultScale = 2

	// DefaultMarginMM is the page margin on every side.
	DefaultMarginMM = 10

	prefetchLimit = 4
	lineHeight    = 1.35
)

var (
	defaultInk  = color.RGBA{0x11, 0x18, 0x27, 0xff}
	placeholder = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
)

// FaceSource resolves font faces. Size is in device pixels.
type FaceSource interface {
	Face(family string, weight int, size float64) font.Face
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithScale sets the oversampling factor (default 2).
func WithScale(s float64) Option {
	return func(r *Rasterizer) { r.Scale = s }
}

// WithPage sets the page size and margin.
func WithPage(p Page, marginMM float64) Option {
	return func(r *Rasterizer) {
		r.Page = p
		r.MarginMM = marginMM
	}
}

// WithLogger sets the logger used for image failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Rasterizer) { r.Logger = l }
}

// Rasterizer draws surface trees onto page-sized images.
type Rasterizer struct {
	Faces    FaceSource
	Images   ImageLoader
	Scale    float64
	Page     Page
	MarginMM float64
	Logger   *log.Logger
}

// NewRasterizer returns an A4 portrait rasterizer with a 10mm margin at
// scale 2. A nil images loader draws every image as a placeholder.
func NewRasterizer(faces FaceSource, images ImageLoader, opts ...Option) *Rasterizer {
	r := &Rasterizer{
		Faces:    faces,
		Images:   images,
		Scale:    DefaultScale,
		Page:     A4,
		MarginMM: DefaultMarginMM,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return r
}

// Rasterize lays out the children of root as page blocks and returns one
// image per page, each the size of the page's printable area. It fails
// only if ctx is cancelled or root is nil.
func (r *Rasterizer) Rasterize(ctx context.Context, root *surface.Node) ([]image.Image, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeRasterize, "nil surface root")
	}
	imgs, err := r.prefetch(ctx, root.Sources())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "load images")
	}

	pageW, pageH := r.Page.Content(r.MarginMM, r.Scale)
	l := &layout{r: r, imgs: imgs, measure: gg.NewContext(1, 1)}

	blocks := root.Children()
	rendered := make([]*image.RGBA, len(blocks))
	heights := make([]int, len(blocks))
	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := int(math.Ceil(l.height(b, float64(pageW))))
		if h <= 0 {
			continue
		}
		dc := gg.NewContext(pageW, h)
		l.draw(dc, b, 0, 0, float64(pageW))
		rendered[i] = dc.Image().(*image.RGBA)
		heights[i] = h
	}

	gap := int(math.Round(root.Style.Gap * r.Scale))
	places, n := paginate(heights, gap, pageH)

	pages := make([]*image.RGBA, n)
	for i := range pages {
		pages[i] = image.NewRGBA(image.Rect(0, 0, pageW, pageH))
		bg := root.Style.Background
		if bg == nil {
			bg = color.White
		}
		draw.Draw(pages[i], pages[i].Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	for _, p := range places {
		dst := image.Rect(0, p.Y, pageW, p.Y+p.H)
		draw.Draw(pages[p.Page], dst, rendered[p.Block], image.Pt(0, p.SrcY), draw.Over)
	}

	out := make([]image.Image, n)
	for i, p := range pages {
		out[i] = p
	}
	return out, nil
}

func (r *Rasterizer) prefetch(ctx context.Context, srcs []string) (map[string]image.Image, error) {
	out := make(map[string]image.Image, len(srcs))
	if r.Images == nil || len(srcs) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	seen := make(map[string]bool)
	for _, src := range srcs {
		src := src
		if seen[src] {
			continue
		}
		seen[src] = true
		g.Go(func() error {
			img, err := r.Images.Load(gctx, src)
			if err != nil {
				r.Logger.Debug("image unavailable, drawing placeholder", "src", src, "error", err)
				return nil
			}
			mu.Lock()
			out[src] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// layout measures and draws nodes in device pixels.
type layout struct {
	r       *Rasterizer
	imgs    map[string]image.Image
	measure *gg.Context
}

func (l *layout) px(v float64) float64 { return v * l.r.Scale }

func (l *layout) face(s surface.Style, fallbackSize float64) font.Face {
	size := s.FontSize
	if size == 0 {
		size = fallbackSize
	}
	return l.r.Faces.Face(s.FontFamily, s.FontWeight, l.px(size))
}

func (l *layout) textFace(n *surface.Node) font.Face {
	if n.Kind == surface.KindHeading {
		return l.face(n.Style, 24)
	}
	return l.face(n.Style, 14)
}

func (l *layout) lines(n *surface.Node, width float64) ([]string, float64) {
	f := l.textFace(n)
	l.measure.SetFontFace(f)
	size := n.Style.FontSize
	if size == 0 {
		size = 14
	}
	return l.measure.WordWrap(n.Text, width), l.px(size) * lineHeight
}

func (l *layout) width(n *surface.Node, avail float64) float64 {
	if n.Style.Width > 0 {
		return min(l.px(n.Style.Width), avail)
	}
	return avail
}

// height returns the outer height of n laid out in avail width.
func (l *layout) height(n *surface.Node, avail float64) float64 {
	s := n.Style
	w := l.width(n, avail)
	pad := l.px(s.Padding)
	inner := w - 2*pad
	var h float64

	switch n.Kind {
	case surface.KindHeading, surface.KindText:
		if n.Text != "" {
			ls, lh := l.lines(n, inner)
			h = float64(len(ls)) * lh
		}
	case surface.KindImage:
		h = l.px(orDefault(s.Height, 200))
	case surface.KindSwatch:
		h = l.px(orDefault(s.Height, 60))
	case surface.KindSpacer:
		h = l.px(s.Height)
	case surface.KindRow:
		for _, c := range n.Children() {
			h = max(h, l.height(c, l.rowCell(n, inner)))
		}
	default:
		kids := n.Children()
		for i, c := range kids {
			if i > 0 {
				h += l.px(s.Gap)
			}
			h += l.height(c, inner)
		}
		if s.Height > 0 {
			h = max(h, l.px(s.Height))
		}
	}
	if h == 0 && pad == 0 {
		return l.px(s.MarginTop + s.MarginBottom)
	}
	return h + 2*pad + l.px(s.MarginTop+s.MarginBottom)
}

func (l *layout) rowCell(n *surface.Node, inner float64) float64 {
	k := len(n.Children())
	if k == 0 {
		return inner
	}
	return (inner - l.px(n.Style.Gap)*float64(k-1)) / float64(k)
}

// draw paints n with its top-left corner at (x, y) and returns its outer
// height.
func (l *layout) draw(dc *gg.Context, n *surface.Node, x, y, avail float64) float64 {
	s := n.Style
	w := l.width(n, avail)
	h := l.height(n, avail)
	y += l.px(s.MarginTop)
	boxH := h - l.px(s.MarginTop+s.MarginBottom)
	pad := l.px(s.Padding)

	if s.Background != nil && n.Kind != surface.KindImage {
		dc.SetColor(s.Background)
		dc.DrawRectangle(x, y, w, boxH)
		dc.Fill()
	}

	ix, iy, iw := x+pad, y+pad, w-2*pad
	switch n.Kind {
	case surface.KindHeading, surface.KindText:
		l.drawText(dc, n, ix, iy, iw)
	case surface.KindImage:
		l.drawImage(dc, n, ix, iy, iw, boxH-2*pad)
	case surface.KindRow:
		cw := l.rowCell(n, iw)
		for i, c := range n.Children() {
			l.draw(dc, c, ix+float64(i)*(cw+l.px(s.Gap)), iy, cw)
		}
	case surface.KindBlock:
		for i, c := range n.Children() {
			if i > 0 {
				iy += l.px(s.Gap)
			}
			iy += l.draw(dc, c, ix, iy, iw)
		}
	}
	return h
}

func (l *layout) drawText(dc *gg.Context, n *surface.Node, x, y, w float64) {
	if n.Text == "" {
		return
	}
	f := l.textFace(n)
	ls, lh := l.lines(n, w)
	dc.SetFontFace(f)
	c := n.Style.Color
	if c == nil {
		c = defaultInk
	}
	dc.SetColor(c)

	m := f.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	for i, line := range ls {
		lw, _ := dc.MeasureString(line)
		lx := x
		switch n.Style.Align {
		case surface.AlignCenter:
			lx = x + (w-lw)/2
		case surface.AlignRight:
			lx = x + w - lw
		}
		top := y + float64(i)*lh
		dc.DrawString(line, lx, top+(lh-ascent-descent)/2+ascent)
	}
}

// drawImage scales the image to cover the box, cropping the overflow.
func (l *layout) drawImage(dc *gg.Context, n *surface.Node, x, y, w, h float64) {
	box := image.Rect(int(x), int(y), int(x+w), int(y+h))
	img, ok := l.imgs[n.Src]
	if !ok {
		bg := n.Style.Background
		if bg == nil {
			bg = placeholder
		}
		dc.SetColor(bg)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		return
	}

	dst, _ := dc.Image().(draw.Image)
	xdraw.CatmullRom.Scale(dst, box, img, cover(img.Bounds(), box.Dx(), box.Dy()), draw.Over, nil)
}

// cover returns the centered region of src with the aspect ratio of w×h.
func cover(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 || sw <= 0 || sh <= 0 {
		return src
	}
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := src.Min.X + (sw-cw)/2
		return image.Rect(x0, src.Min.Y, x0+cw, src.Max.Y)
	}
	ch := sw * h / w
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+ch)
}

func orDefault(v, d float64) float64 {
	if v == 0 {
		return d
	}
	return v
}
