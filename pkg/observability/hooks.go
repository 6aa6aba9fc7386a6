// Package observability provides hooks for metrics, tracing, and logging.
//
// Library packages emit events through the registered hooks; the default
// hooks do nothing. The CLI installs log-backed hooks in verbose mode, and
// a deployment can register hooks that feed a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFontHooks(&myFontHooks{})
//	    observability.SetExportHooks(&myExportHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Export().OnExportStart(ctx, surfaceID)
//	// ... rasterize, assemble, save ...
//	observability.Export().OnExportComplete(ctx, surfaceID, pages, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Font Hooks
// =============================================================================

// FontHooks receives events from font provisioning.
type FontHooks interface {
	// OnProvisionStart records a new stylesheet registration.
	OnProvisionStart(ctx context.Context, heading, body string)

	// OnProvisionSettled records the terminal state of a provisioning attempt
	// ("loaded" or "abandoned").
	OnProvisionSettled(ctx context.Context, heading, body, state string, duration time.Duration)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from the visual export pipeline.
type ExportHooks interface {
	// OnExportStart records the start of an export against a surface.
	OnExportStart(ctx context.Context, surfaceID string)

	// OnExportComplete records the outcome of an export. pages and size are
	// zero when the export failed before the document was assembled.
	OnExportComplete(ctx context.Context, surfaceID string, pages, size int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)

	// OnCacheHit records a response served from cache.
	OnCacheHit(ctx context.Context, key string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFontHooks is a no-op implementation of FontHooks.
type NoopFontHooks struct{}

func (NoopFontHooks) OnProvisionStart(context.Context, string, string) {}
func (NoopFontHooks) OnProvisionSettled(context.Context, string, string, string, time.Duration) {
}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, string) {}
func (NoopExportHooks) OnExportComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}
func (NoopHTTPHooks) OnCacheHit(context.Context, string)                                     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	fontHooks   FontHooks   = NoopFontHooks{}
	exportHooks ExportHooks = NoopExportHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetFontHooks registers custom font provisioning hooks.
func SetFontHooks(h FontHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fontHooks = h
	}
}

// SetExportHooks registers custom export hooks.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Font returns the registered font hooks.
func Font() FontHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fontHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	fontHooks = NoopFontHooks{}
	exportHooks = NoopExportHooks{}
	httpHooks = NoopHTTPHooks{}
}
