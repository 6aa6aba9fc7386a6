// Package render rasterizes a surface node tree into page images.
//
// # Overview
//
// A [Rasterizer] lays out the top-level blocks of a surface root at the
// content width of a physical page, draws each block with
// [github.com/fogleman/gg], and packs the blocks onto pages. A block that
// fits on a page is never split across a page boundary; a block taller
// than a page is sliced.
//
//	r := render.NewRasterizer(lib, render.NewHTTPImageLoader(client, keyer))
//	pages, err := r.Rasterize(ctx, root)
//
// Lengths in a surface are CSS pixels at 96 per inch. The rasterizer
// multiplies them by [Rasterizer.Scale] (2 by default) for fidelity.
//
// # Images
//
// Remote images are prefetched concurrently through an [ImageLoader]
// before drawing. An image that fails to load is drawn as a neutral
// placeholder and does not fail the rasterization.
//
// The [sink] subpackage assembles page images into a PDF.
//
// [sink]: github.com/moodmagic/moodmagic/pkg/render/sink
package render
