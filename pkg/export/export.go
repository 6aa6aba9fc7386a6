package export

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/moodmagic/moodmagic/pkg/buildinfo"
	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/observability"
	"github.com/moodmagic/moodmagic/pkg/render/sink"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// Rasterizer captures a surface as page images.
type Rasterizer interface {
	Rasterize(ctx context.Context, root *surface.Node) ([]image.Image, error)
}

// Assembler builds a document from page images.
type Assembler interface {
	Assemble(pages []image.Image, meta sink.Meta) ([]byte, error)
}

// Exporter exports surfaces mounted in a Document.
type Exporter struct {
	doc    *surface.Document
	raster Rasterizer
	asm    Assembler
	saver  Saver
	logger *log.Logger
}

// NewExporter wires an exporter. A nil logger discards output.
func NewExporter(doc *surface.Document, raster Rasterizer, asm Assembler, saver Saver, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Exporter{doc: doc, raster: raster, asm: asm, saver: saver, logger: logger}
}

// WithSaver returns a copy of e that saves through s.
func (e *Exporter) WithSaver(s Saver) *Exporter {
	c := *e
	c.saver = s
	return &c
}

// Export renders the surface mounted under surfaceID and saves it. A
// missing surface fails with SURFACE_NOT_FOUND before anything is touched.
// The heading block is removed before Export returns, whatever the outcome.
func (e *Exporter) Export(ctx context.Context, surfaceID string, opts Options) (err error) {
	root, ok := e.doc.Lookup(surfaceID)
	if !ok {
		return errors.New(errors.ErrCodeSurfaceNotFound, "surface %q is not mounted", surfaceID)
	}
	filename := ResolveFilename(opts)
	if err := errors.ValidateFilename(filename); err != nil {
		return err
	}

	start := time.Now()
	var pages, size int
	observability.Export().OnExportStart(ctx, surfaceID)
	defer func() {
		observability.Export().OnExportComplete(ctx, surfaceID, pages, size, time.Since(start), err)
	}()

	release := insertHeading(root, opts)
	defer release()

	imgs, err := e.raster.Rasterize(ctx, root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRasterize, err, "rasterize %q", surfaceID)
	}
	pages = len(imgs)

	data, err := e.asm.Assemble(imgs, sink.Meta{
		Title:   opts.Title,
		Subject: opts.Subtitle,
		Creator: buildinfo.UserAgent(),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeAssemble, err, "assemble %q", surfaceID)
	}
	size = len(data)

	if err := e.saver.Save(ctx, filename, data); err != nil {
		return errors.Wrap(errors.ErrCodeSave, err, "save %s", filename)
	}
	e.logger.Info("exported moodboard", "surface", surfaceID, "file", filename, "pages", pages, "bytes", size)
	return nil
}

// ExportToDocument runs Export and logs a failure instead of returning it.
func (e *Exporter) ExportToDocument(ctx context.Context, surfaceID string, opts Options) {
	if err := e.Export(ctx, surfaceID, opts); err != nil {
		e.logger.Error("export failed", "surface", surfaceID, "code", errors.GetCode(err), "error", err)
	}
}
