package fonts

import (
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// Declare registers the stylesheet for the first pair unless a link with
// the same href is already present. It returns the link id and whether a
// new link was added. Empty or invalid input registers nothing.
//
// Declared links are not tracked for teardown; use a [Provisioner] when the
// pair can change.
func Declare(reg surface.Registry, base string, pairs []moodboard.FontPair) (surface.LinkID, bool) {
	if len(pairs) == 0 || pairs[0].Validate() != nil {
		return "", false
	}
	href := StylesheetURL(base, pairs[0])
	for _, l := range reg.Stylesheets() {
		if l.Href == href {
			return l.ID, false
		}
	}
	return reg.AddStylesheet(href), true
}
