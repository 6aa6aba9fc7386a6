package sink

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/render"
)

// Meta is the document information dictionary.
type Meta struct {
	Title   string
	Subject string
	Creator string
	Created time.Time
}

// PDFOption configures PDF assembly.
type PDFOption func(*PDFAssembler)

// WithQuality sets the JPEG quality of page images (default 98).
func WithQuality(q int) PDFOption {
	return func(a *PDFAssembler) { a.Quality = q }
}

// WithMargin sets the page margin in millimetres (default 10).
func WithMargin(mm float64) PDFOption {
	return func(a *PDFAssembler) { a.MarginMM = mm }
}

// WithPage sets the physical page size (default A4).
func WithPage(p render.Page) PDFOption {
	return func(a *PDFAssembler) { a.Page = p }
}

// PDFAssembler builds portrait PDF documents from page images.
type PDFAssembler struct {
	Page     render.Page
	MarginMM float64
	Quality  int
}

// NewPDFAssembler returns an A4 assembler with a 10mm margin and JPEG
// quality 98.
func NewPDFAssembler(opts ...PDFOption) *PDFAssembler {
	a := &PDFAssembler{Page: render.A4, MarginMM: render.DefaultMarginMM, Quality: DefaultQuality}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PDF assembles pages with the default settings adjusted by opts.
func PDF(pages []image.Image, meta Meta, opts ...PDFOption) ([]byte, error) {
	return NewPDFAssembler(opts...).Assemble(pages, meta)
}

// Assemble writes one page per image. Each image spans the content width
// and keeps its aspect ratio.
func (a *PDFAssembler) Assemble(pages []image.Image, meta Meta) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeAssemble, "no pages to assemble")
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: a.Page.WidthMM, Ht: a.Page.HeightMM},
	})
	doc.SetMargins(a.MarginMM, a.MarginMM, a.MarginMM)
	doc.SetAutoPageBreak(false, a.MarginMM)
	doc.SetTitle(meta.Title, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	if !meta.Created.IsZero() {
		doc.SetCreationDate(meta.Created)
		doc.SetModificationDate(meta.Created)
	}

	contentW := a.Page.WidthMM - 2*a.MarginMM
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, img := range pages {
		data, err := JPEG(img, a.Quality)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeAssemble, err, "encode page %d", i+1)
		}
		b := img.Bounds()
		h := contentW * float64(b.Dy()) / float64(b.Dx())
		name := fmt.Sprintf("page-%d", i+1)

		doc.AddPage()
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		doc.ImageOptions(name, a.MarginMM, a.MarginMM, contentW, h, false, opts, 0, "")
		if err := doc.Error(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeAssemble, err, "place page %d", i+1)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssemble, err, "write pdf")
	}
	return buf.Bytes(), nil
}
