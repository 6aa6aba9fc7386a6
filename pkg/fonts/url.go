package fonts

import (
	"html"
	"strings"

	"github.com/moodmagic/moodmagic/pkg/moodboard"
)

// DefaultBase is the font service queried for stylesheets.
const DefaultBase = "https://fonts.googleapis.com"

// Requested weights per role.
const (
	HeadingWeights = "400;700"
	BodyWeights    = "400;500;600"
)

// StylesheetURL returns the css2 stylesheet URL for pair. Family names have
// their whitespace runs replaced by '+'. An empty base uses [DefaultBase].
func StylesheetURL(base string, pair moodboard.FontPair) string {
	if base == "" {
		base = DefaultBase
	}
	h, b := pair.Query()
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(base, "/"))
	sb.WriteString("/css2?family=")
	sb.WriteString(h)
	sb.WriteString(":wght@" + HeadingWeights)
	sb.WriteString("&family=")
	sb.WriteString(b)
	sb.WriteString(":wght@" + BodyWeights)
	sb.WriteString("&display=swap")
	return sb.String()
}

// LinkTag renders the stylesheet link element for the first pair, or ""
// when pairs is empty or the first pair is invalid.
func LinkTag(base string, pairs []moodboard.FontPair) string {
	if len(pairs) == 0 || pairs[0].Validate() != nil {
		return ""
	}
	return `<link href="` + html.EscapeString(StylesheetURL(base, pairs[0])) + `" rel="stylesheet">`
}
