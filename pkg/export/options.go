package export

import (
	"strings"

	"github.com/moodmagic/moodmagic/pkg/moodboard"
)

// Options describe one export.
type Options struct {
	// Filename is used as-is when set.
	Filename string

	// Title and Subtitle populate the heading block. With both empty no
	// heading block is inserted.
	Title    string
	Subtitle string
}

// OptionsFor returns the options used when exporting mb from the preview:
// the board title as heading, its description as subtitle.
func OptionsFor(mb moodboard.Moodboard) Options {
	return Options{
		Filename: mb.Filename(),
		Title:    mb.Title,
		Subtitle: mb.Description,
	}
}

// ResolveFilename returns the explicit filename, else one derived from the
// title, else "moodboard.pdf".
func ResolveFilename(opts Options) string {
	if f := strings.TrimSpace(opts.Filename); f != "" {
		return f
	}
	return moodboard.Filename(opts.Title)
}
