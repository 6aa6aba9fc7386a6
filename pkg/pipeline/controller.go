package pipeline

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/moodmagic/moodmagic/pkg/board"
	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/export"
	"github.com/moodmagic/moodmagic/pkg/fonts"
	"github.com/moodmagic/moodmagic/pkg/generate"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// Generator produces moodboards from a request.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (moodboard.Moodboard, error)
}

// Controller owns the current moodboard and the surface it is rendered to.
type Controller struct {
	gen       Generator
	doc       *surface.Document
	fonts     *fonts.Provisioner
	exporter  *export.Exporter
	surfaceID string
	logger    *log.Logger

	mu      sync.Mutex
	current moodboard.Moodboard
	has     bool
}

// Generate requests a new moodboard. On success it replaces the current
// board; on failure the current board is kept and the error is returned.
// Use errors.UserMessage for the text shown to users.
func (c *Controller) Generate(ctx context.Context, req generate.Request) (moodboard.Moodboard, error) {
	mb, err := c.gen.Generate(ctx, req)
	if err != nil {
		c.logger.Warn("generation failed", "code", errors.GetCode(err), "error", err)
		return moodboard.Moodboard{}, err
	}
	c.Set(mb)
	c.logger.Info("generated moodboard",
		"title", mb.Title,
		"colors", len(mb.Palette),
		"heading", mb.FontPair().Heading,
		"body", mb.FontPair().Body,
		"images", len(mb.ImageURLs))
	return mb.Clone(), nil
}

// Set replaces the current moodboard.
func (c *Controller) Set(mb moodboard.Moodboard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = mb.Clone()
	c.has = true
}

// Current returns a copy of the current moodboard.
func (c *Controller) Current() (moodboard.Moodboard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.has {
		return moodboard.Moodboard{}, false
	}
	return c.current.Clone(), true
}

// Render composes the current board, mounts it and starts provisioning its
// fonts. It returns the provisioning state right after the call; use
// WaitFonts to wait for readiness.
func (c *Controller) Render(ctx context.Context) (fonts.State, error) {
	mb, ok := c.Current()
	if !ok {
		return fonts.NotRequested, errors.New(errors.ErrCodeNotFound, "no moodboard to render")
	}
	if err := c.doc.Mount(board.Compose(mb, c.surfaceID)); err != nil {
		return fonts.NotRequested, err
	}
	return c.fonts.Provision(ctx, mb.FontPairs), nil
}

// WaitFonts blocks until font provisioning settles or ctx is done.
func (c *Controller) WaitFonts(ctx context.Context) fonts.State {
	return c.fonts.Wait(ctx)
}

// Export exports the rendered board. Zero options are replaced by the
// defaults for the current board.
func (c *Controller) Export(ctx context.Context, opts export.Options) error {
	return c.exporter.Export(ctx, c.surfaceID, c.options(opts))
}

// ExportWith exports through s instead of the configured saver.
func (c *Controller) ExportWith(ctx context.Context, s export.Saver, opts export.Options) error {
	return c.exporter.WithSaver(s).Export(ctx, c.surfaceID, c.options(opts))
}

func (c *Controller) options(opts export.Options) export.Options {
	if opts != (export.Options{}) {
		return opts
	}
	if mb, ok := c.Current(); ok {
		return export.OptionsFor(mb)
	}
	return opts
}

// Document returns the surface document the board is rendered to.
func (c *Controller) Document() *surface.Document { return c.doc }

// SurfaceID returns the id the board is mounted under.
func (c *Controller) SurfaceID() string { return c.surfaceID }

// Close tears down font provisioning and unmounts the board.
func (c *Controller) Close() {
	c.fonts.Teardown()
	c.doc.Unmount(c.surfaceID)
}
