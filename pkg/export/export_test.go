package export

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/render/sink"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// fakeRaster records the children of the root at capture time.
type fakeRaster struct {
	seen [][]*surface.Node
	err  error
}

func (f *fakeRaster) Rasterize(_ context.Context, root *surface.Node) ([]image.Image, error) {
	f.seen = append(f.seen, root.Children())
	if f.err != nil {
		return nil, f.err
	}
	return []image.Image{image.NewRGBA(image.Rect(0, 0, 10, 14))}, nil
}

type fakeAssembler struct {
	meta sink.Meta
	err  error
}

func (f *fakeAssembler) Assemble(pages []image.Image, meta sink.Meta) ([]byte, error) {
	f.meta = meta
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type memSaver struct {
	files map[string][]byte
	err   error
}

func (m *memSaver) Save(_ context.Context, name string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = data
	return nil
}

func mounted(t *testing.T) (*surface.Document, *surface.Node) {
	t.Helper()
	doc := surface.NewDocument()
	root := surface.NewNode(surface.KindBlock, surface.Style{},
		&surface.Node{ID: "a", Kind: surface.KindText, Text: "a"},
		&surface.Node{ID: "b", Kind: surface.KindText, Text: "b"},
	)
	root.ID = "moodboard-preview"
	if err := doc.Mount(root); err != nil {
		t.Fatal(err)
	}
	return doc, root
}

func TestExport_MissingSurface(t *testing.T) {
	doc, root := mounted(t)
	before := root.Children()
	raster, saver := &fakeRaster{}, &memSaver{}
	e := NewExporter(doc, raster, &fakeAssembler{}, saver, nil)

	err := e.Export(context.Background(), "nope", Options{Title: "x"})
	if !errors.Is(err, errors.ErrCodeSurfaceNotFound) {
		t.Errorf("Export error = %v, want SURFACE_NOT_FOUND", err)
	}
	if len(raster.seen) != 0 || len(saver.files) != 0 {
		t.Error("missing surface must not rasterize or save")
	}
	if !slices.Equal(root.Children(), before) {
		t.Error("other surfaces must not be mutated")
	}
}

func TestExport_HeadingInsertedThenRemoved(t *testing.T) {
	doc, root := mounted(t)
	before := root.Children()
	raster, asm, saver := &fakeRaster{}, &fakeAssembler{}, &memSaver{}
	e := NewExporter(doc, raster, asm, saver, nil)

	opts := Options{Title: "Summer 2024", Subtitle: "Coastal Vibes"}
	if err := e.Export(context.Background(), root.ID, opts); err != nil {
		t.Fatalf("Export: %v", err)
	}

	captured := raster.seen[0]
	if len(captured) != 3 || captured[0].ID != HeadingID {
		t.Fatalf("captured children = %d, first %q; want heading first", len(captured), captured[0].ID)
	}
	heading := captured[0].Children()
	if len(heading) != 2 || heading[0].Text != "Summer 2024" || heading[1].Text != "Coastal Vibes" {
		t.Errorf("heading block = %+v", heading)
	}
	if heading[0].Style.FontSize != 24 || heading[1].Style.FontSize != 18 {
		t.Errorf("heading sizes = %v, %v; want 24, 18", heading[0].Style.FontSize, heading[1].Style.FontSize)
	}

	if !slices.Equal(root.Children(), before) {
		t.Error("children after export differ from children before export")
	}
	if _, ok := saver.files["summer-2024.pdf"]; !ok {
		t.Errorf("saved files = %v, want summer-2024.pdf", saver.files)
	}
	if asm.meta.Title != "Summer 2024" || asm.meta.Subject != "Coastal Vibes" {
		t.Errorf("meta = %+v", asm.meta)
	}
}

func TestExport_NoHeadingWithoutTitle(t *testing.T) {
	doc, root := mounted(t)
	raster := &fakeRaster{}
	e := NewExporter(doc, raster, &fakeAssembler{}, &memSaver{}, nil)

	if err := e.Export(context.Background(), root.ID, Options{}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(raster.seen[0]) != 2 {
		t.Errorf("captured %d children, want 2", len(raster.seen[0]))
	}
}

func TestExport_RestoresOnFailure(t *testing.T) {
	boom := stderrors.New("boom")
	tests := []struct {
		name   string
		raster *fakeRaster
		asm    *fakeAssembler
		saver  *memSaver
		code   errors.Code
	}{
		{"rasterize", &fakeRaster{err: boom}, &fakeAssembler{}, &memSaver{}, errors.ErrCodeRasterize},
		{"assemble", &fakeRaster{}, &fakeAssembler{err: boom}, &memSaver{}, errors.ErrCodeAssemble},
		{"save", &fakeRaster{}, &fakeAssembler{}, &memSaver{err: boom}, errors.ErrCodeSave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, root := mounted(t)
			before := root.Children()
			e := NewExporter(doc, tt.raster, tt.asm, tt.saver, nil)

			err := e.Export(context.Background(), root.ID, Options{Title: "T", Subtitle: "S"})
			if !errors.Is(err, tt.code) || !stderrors.Is(err, boom) {
				t.Errorf("Export error = %v, want %s wrapping boom", err, tt.code)
			}
			if !slices.Equal(root.Children(), before) {
				t.Error("heading block left behind after failure")
			}
		})
	}
}

func TestExport_Twice(t *testing.T) {
	doc, root := mounted(t)
	before := root.Children()
	e := NewExporter(doc, &fakeRaster{}, &fakeAssembler{}, &memSaver{}, nil)

	for n := 0; n < 2; n++ {
		if err := e.Export(context.Background(), root.ID, Options{Title: "Again"}); err != nil {
			t.Fatalf("Export: %v", err)
		}
		if !slices.Equal(root.Children(), before) {
			t.Fatal("surface not restored")
		}
	}
}

func TestExport_InvalidFilename(t *testing.T) {
	doc, root := mounted(t)
	raster := &fakeRaster{}
	e := NewExporter(doc, raster, &fakeAssembler{}, &memSaver{}, nil)

	err := e.Export(context.Background(), root.ID, Options{Filename: "../escape.pdf"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Export error = %v, want INVALID_INPUT", err)
	}
	if len(raster.seen) != 0 {
		t.Error("invalid filename must fail before rasterizing")
	}
}

func TestExportToDocument_LogsFailure(t *testing.T) {
	doc, root := mounted(t)
	before := root.Children()
	e := NewExporter(doc, &fakeRaster{err: stderrors.New("boom")}, &fakeAssembler{}, &memSaver{}, nil)

	e.ExportToDocument(context.Background(), root.ID, Options{Title: "T"})
	e.ExportToDocument(context.Background(), "missing", Options{})
	if !slices.Equal(root.Children(), before) {
		t.Error("surface not restored")
	}
}

func TestResolveFilename(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{Filename: "custom name.pdf", Title: "Ignored"}, "custom name.pdf"},
		{Options{Title: "Coastal Dream Home"}, "coastal-dream-home.pdf"},
		{Options{}, "moodboard.pdf"},
	}
	for _, tt := range tests {
		if got := ResolveFilename(tt.opts); got != tt.want {
			t.Errorf("ResolveFilename(%+v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestOptionsFor(t *testing.T) {
	opts := OptionsFor(moodboard.Moodboard{Title: "Coastal Dream Home", Description: "linen"})
	if opts.Filename != "coastal-dream-home.pdf" || opts.Title != "Coastal Dream Home" || opts.Subtitle != "linen" {
		t.Errorf("OptionsFor() = %+v", opts)
	}
}

func TestDirSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := DirSaver{Dir: dir}
	if err := s.Save(context.Background(), "board.pdf", []byte("%PDF")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(s.Path("board.pdf"))
	if err != nil || string(data) != "%PDF" {
		t.Errorf("saved file = %q, %v", data, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (no temp files)", len(entries))
	}
}

func TestResponseSaver(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := (ResponseSaver{W: rec}).Save(context.Background(), "coastal dream.pdf", []byte("%PDF")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="coastal dream.pdf"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.Equal(rec.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("body = %q", rec.Body.Bytes())
	}
}

func TestWriterSaver(t *testing.T) {
	var buf bytes.Buffer
	if err := (WriterSaver{W: &buf}).Save(context.Background(), "x.pdf", []byte("data")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "data" {
		t.Errorf("written = %q", buf.String())
	}
}
