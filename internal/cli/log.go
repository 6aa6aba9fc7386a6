// Package cli implements the moodmagic command-line interface.
//
// The CLI generates moodboards through the configured backend, renders
// them to PDF, and serves the same pipeline over HTTP. It is built with
// cobra; output is styled with lipgloss and logs go through
// charmbracelet/log.
//
// # Commands
//
//   - generate: Generate a moodboard from a vibe and tags and export it as PDF
//   - new: Interactive form for the vibe and tags, then generate
//   - export: Render a saved moodboard JSON file to PDF
//   - fonts: Print the stylesheet URL for a font pair and optionally load it
//   - serve: Run the HTTP API
//   - cache: Manage the asset cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports font, export and HTTP events. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/moodmagic/moodmagic/pkg/observability"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Exported board.pdf (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// InstallHooks routes font, export and HTTP events to the CLI logger at
// debug level.
func (c *CLI) InstallHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetFontHooks(h)
	observability.SetExportHooks(h)
	observability.SetHTTPHooks(h)
}

type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnProvisionStart(_ context.Context, heading, body string) {
	h.logger.Debug("fonts requested", "heading", heading, "body", body)
}

func (h logHooks) OnProvisionSettled(_ context.Context, heading, body, state string, d time.Duration) {
	h.logger.Debug("fonts settled", "heading", heading, "body", body, "state", state, "after", d.Round(time.Millisecond))
}

func (h logHooks) OnExportStart(_ context.Context, surfaceID string) {
	h.logger.Debug("export started", "surface", surfaceID)
}

func (h logHooks) OnExportComplete(_ context.Context, surfaceID string, pages, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "surface", surfaceID, "after", d.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Debug("export finished", "surface", surfaceID, "pages", pages, "bytes", size, "after", d.Round(time.Millisecond))
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "after", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

var (
	_ observability.FontHooks   = logHooks{}
	_ observability.ExportHooks = logHooks{}
	_ observability.HTTPHooks   = logHooks{}
)
