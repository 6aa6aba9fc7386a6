// Package sink assembles rasterized pages into output documents.
//
// [PDF] embeds each page image as a JPEG on its own page of a portrait
// document, positioned inside the page margin, using
// [github.com/go-pdf/fpdf]. [JPEG] and [PNG] encode single images, for
// previews and for callers that want raw page images.
//
//	pdf, err := sink.PDF(pages, sink.Meta{Title: "Coastal Dream Home"})
//
// A [PDFAssembler] carries the same settings as a value, for components
// that take the assembly step as a dependency.
package sink
