// Package moodboard defines the generated moodboard value and its wire form.
//
// A [Moodboard] is built once from a generation response via [FromWire] and
// is not mutated afterwards; constructors copy their slices and accessors
// return copies. Missing palettes and font pairs fall back to
// [DefaultPalette] and [DefaultFontPair].
//
// The wire form ([Wire]) uses the snake_case keys of the generation
// endpoint. [Wire.ColorPalette] accepts both swatch objects and bare hex
// strings.
package moodboard
