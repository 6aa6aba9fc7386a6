// Package pkg provides the core libraries for moodmagic.
//
// # Overview
//
// moodmagic turns a short vibe description and a few style tags into a
// moodboard (palette, font pairing, imagery, copy) and renders it as a
// printable A4 PDF. The pkg directory is organized into these areas:
//
//  1. [moodboard] - Data model and wire format
//  2. [surface] and [board] - The visual surface a board is composed into
//  3. [fonts] - Font provisioning and the font library
//  4. [render] and [render/sink] - Rasterization and PDF assembly
//  5. [export] - Visual export of a mounted surface
//  6. [generate] and [pipeline] - Backend client and page controller
//  7. [cache], [httputil], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The data flow through moodmagic:
//
//	{vibe_text, tags}
//	       ↓
//	  [generate] POST /api/generate-moodboard
//	       ↓
//	  [moodboard] FromWire (defaults, validation)
//	       ↓
//	  [board] Compose → [surface] Document.Mount
//	       ↓                 ↓
//	  [fonts] Provision   stylesheet link registered
//	       ↓
//	  [export] heading block → [render] Rasterize → [render/sink] PDF → Saver
//
// # Quick Start
//
//	ctrl := pipeline.New(pipeline.Config{Endpoint: "http://localhost:8000"})
//	defer ctrl.Close()
//
//	if _, err := ctrl.Generate(ctx, generate.Request{VibeText: "sunlit loft"}); err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	    return
//	}
//	ctrl.Render(ctx)
//	ctrl.WaitFonts(ctx)
//	ctrl.Export(ctx, export.Options{})
//
// # Main Packages
//
// [moodboard] - Moodboard, FontPair, ColorSwatch, TagSet and the item
// variants, plus the JSON wire form the generation backend speaks.
//
// [surface] - An explicit document handle: stylesheet links and mounted
// node trees addressed by id. [board] composes a moodboard into such a tree.
//
// [fonts] - Builds Google Fonts stylesheet URLs, declares them once per
// document, and provisions them with a revocable [fonts.Provisioner]. The
// [fonts.Library] downloads and parses the faces for rendering.
//
// [render] - Lays out a surface tree at A4 content width and paginates it
// without splitting blocks. [render/sink] encodes pages and assembles the PDF.
//
// [export] - Exports a mounted surface with a temporary heading block and
// hands the document to a Saver (directory, writer or HTTP response).
//
// [pipeline] - Wires all of the above for the CLI and the HTTP server.
//
// [moodboard]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/moodboard
// [surface]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/surface
// [board]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/board
// [fonts]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/fonts
// [fonts.Provisioner]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/fonts#Provisioner
// [fonts.Library]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/fonts#Library
// [render]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/render/sink
// [export]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/export
// [generate]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/generate
// [pipeline]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/errors
// [observability]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/moodmagic/moodmagic/pkg/buildinfo
package pkg
