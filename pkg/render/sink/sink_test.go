package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/moodmagic/moodmagic/pkg/errors"
)

func page(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 718, 1047))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestPDF(t *testing.T) {
	pages := []image.Image{page(color.White), page(color.Black)}
	data, err := PDF(pages, Meta{Title: "Coastal Dream Home", Creator: "moodmagic"})
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(8, len(data))])
	}
	if !bytes.Contains(data, []byte("/DCTDecode")) {
		t.Error("page images should be embedded as JPEG")
	}
}

func TestPDF_NoPages(t *testing.T) {
	_, err := PDF(nil, Meta{})
	if !errors.Is(err, errors.ErrCodeAssemble) {
		t.Errorf("PDF(nil) error = %v, want EXPORT_ASSEMBLE", err)
	}
}

func TestNewPDFAssembler_Defaults(t *testing.T) {
	a := NewPDFAssembler()
	if a.Quality != 98 || a.MarginMM != 10 || a.Page.WidthMM != 210 || a.Page.HeightMM != 297 {
		t.Errorf("defaults = %+v", a)
	}
	a = NewPDFAssembler(WithQuality(80), WithMargin(5))
	if a.Quality != 80 || a.MarginMM != 5 {
		t.Errorf("options not applied: %+v", a)
	}
}

func TestJPEGAndPNG(t *testing.T) {
	img := page(color.RGBA{0x2c, 0x3e, 0x50, 0xff})

	j, err := JPEG(img, DefaultQuality)
	if err != nil || !bytes.HasPrefix(j, []byte{0xff, 0xd8}) {
		t.Errorf("JPEG: err=%v, prefix=%x", err, j[:min(2, len(j))])
	}
	p, err := PNG(img)
	if err != nil || !bytes.HasPrefix(p, []byte("\x89PNG")) {
		t.Errorf("PNG: err=%v", err)
	}
}
