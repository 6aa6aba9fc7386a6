// Package pipeline wires the moodboard page flow: generate, render, export.
//
// A [Controller] owns the current moodboard. It replaces the board
// wholesale when a generation succeeds and keeps the previous board when
// one fails. Rendering composes the board into the shared surface
// document and provisions its fonts; exporting runs the visual export
// against the mounted board.
//
// # Usage
//
//	ctrl := pipeline.New(pipeline.Config{
//	    Endpoint: "http://localhost:8000",
//	    Cache:    fileCache,
//	    Saver:    export.DirSaver{Dir: "."},
//	    Logger:   logger,
//	})
//	defer ctrl.Close()
//
//	if _, err := ctrl.Generate(ctx, generate.Request{VibeText: "sunlit loft"}); err != nil {
//	    return errors.UserMessage(err)
//	}
//	ctrl.Render(ctx)
//	ctrl.WaitFonts(ctx)
//	err := ctrl.Export(ctx, export.Options{})
//
// CLI and server share this wiring so both behave the same.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/moodmagic/moodmagic/pkg/board"
	"github.com/moodmagic/moodmagic/pkg/cache"
	"github.com/moodmagic/moodmagic/pkg/export"
	"github.com/moodmagic/moodmagic/pkg/fonts"
	"github.com/moodmagic/moodmagic/pkg/generate"
	"github.com/moodmagic/moodmagic/pkg/httputil"
	"github.com/moodmagic/moodmagic/pkg/render"
	"github.com/moodmagic/moodmagic/pkg/render/sink"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultEndpoint = "http://localhost:8000"
	DefaultSurface  = board.SurfaceID
)

// =============================================================================
// Config
// =============================================================================

// Config wires a Controller. Zero fields take defaults; the override
// fields (Generator, Faces, Rasterizer, Assembler) replace the real
// implementations, mainly in tests.
type Config struct {
	Endpoint  string
	FontBase  string
	SurfaceID string

	Cache cache.Cache
	Keyer cache.Keyer
	HTTP  *httputil.Client
	Saver export.Saver

	Scale      float64
	Quality    int
	MarginMM   float64
	ProbeDelay time.Duration
	Grace      time.Duration

	Generator  Generator
	Faces      fonts.FaceSet
	Rasterizer export.Rasterizer
	Assembler  export.Assembler

	Logger *log.Logger
}

func (c *Config) setDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.FontBase == "" {
		c.FontBase = fonts.DefaultBase
	}
	if c.SurfaceID == "" {
		c.SurfaceID = DefaultSurface
	}
	if c.Cache == nil {
		c.Cache = cache.NewNullCache()
	}
	if c.Keyer == nil {
		c.Keyer = cache.NewDefaultKeyer()
	}
	if c.HTTP == nil {
		c.HTTP = httputil.NewClient(c.Cache)
	}
	if c.Saver == nil {
		c.Saver = export.DirSaver{Dir: "."}
	}
	if c.Scale == 0 {
		c.Scale = render.DefaultScale
	}
	if c.Quality == 0 {
		c.Quality = sink.DefaultQuality
	}
	if c.MarginMM == 0 {
		c.MarginMM = render.DefaultMarginMM
	}
	if c.ProbeDelay == 0 {
		c.ProbeDelay = fonts.DefaultProbeDelay
	}
	if c.Grace == 0 {
		c.Grace = fonts.DefaultGrace
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// New wires a Controller from cfg.
func New(cfg Config) *Controller {
	cfg.setDefaults()

	doc := surface.NewDocument()
	lib := fonts.NewLibrary(doc, cfg.HTTP, cfg.Keyer, cfg.Logger)

	faces := cfg.Faces
	if faces == nil {
		faces = lib
	}
	prov := fonts.NewProvisioner(doc, faces, cfg.Logger)
	prov.Base = cfg.FontBase
	prov.ProbeDelay = cfg.ProbeDelay
	prov.Grace = cfg.Grace

	raster := cfg.Rasterizer
	if raster == nil {
		raster = render.NewRasterizer(lib, render.NewHTTPImageLoader(cfg.HTTP, cfg.Keyer),
			render.WithScale(cfg.Scale),
			render.WithPage(render.A4, cfg.MarginMM),
			render.WithLogger(cfg.Logger))
	}
	asm := cfg.Assembler
	if asm == nil {
		asm = sink.NewPDFAssembler(sink.WithQuality(cfg.Quality), sink.WithMargin(cfg.MarginMM))
	}

	gen := cfg.Generator
	if gen == nil {
		gen = generate.NewClient(cfg.Endpoint, cfg.HTTP)
	}

	return &Controller{
		gen:       gen,
		doc:       doc,
		fonts:     prov,
		exporter:  export.NewExporter(doc, raster, asm, cfg.Saver, cfg.Logger),
		surfaceID: cfg.SurfaceID,
		logger:    cfg.Logger,
	}
}
