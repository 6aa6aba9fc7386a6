package moodboard

import "strings"

// DefaultFilename is used when a board has no title.
const DefaultFilename = "moodboard.pdf"

// Filename derives an export filename from a title: lower-cased, whitespace
// runs collapsed to '-', with a ".pdf" suffix.
func Filename(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return DefaultFilename
	}
	return whitespace.ReplaceAllString(strings.ToLower(t), "-") + ".pdf"
}
