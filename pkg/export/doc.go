// Package export turns a mounted surface into a saved PDF document.
//
// An export runs strictly in order: insert an optional heading block as the
// first child of the surface root, rasterize the surface, assemble the
// pages, save the document, and remove the heading block again. Removal is
// deferred, so the surface returns to its previous shape on every exit
// path, failures included.
//
// The Exporter performs no locking. Callers must not run overlapping
// exports against the same surface.
package export
