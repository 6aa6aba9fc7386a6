package generate

import (
	"strings"

	"github.com/moodmagic/moodmagic/pkg/moodboard"
)

// Fallback returns fixed moodboard content for req, used when no
// generation backend is available.
func Fallback(req Request) moodboard.Wire {
	return moodboard.Wire{
		Description: strings.TrimSpace(req.VibeText),
		Tags:        req.Tags,
		ColorPalette: []moodboard.WireSwatch{
			{Hex: "#EAE0D5"},
			{Hex: "#DAD2BC"},
			{Hex: "#A99985"},
		},
		FontPairs: []moodboard.FontPair{{Heading: "Playfair Display", Body: "Poppins"}},
		Headline:  "Simplicity Shaped by the Future",
		Tagline:   "A dance between silence and structure.",
	}
}
