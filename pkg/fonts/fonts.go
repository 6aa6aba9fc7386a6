// Package fonts provisions remote font pairings and resolves font faces.
//
// Provisioning registers a stylesheet link for a heading/body pair with a
// [surface.Registry] and reports readiness once both families can be
// loaded. It comes in two forms: [Provisioner], which is revocable and
// re-entrant, and [Declare], which embeds the link once.
//
// [Library] is the readiness API used by the provisioner and the face
// source used by the rasterizer. It reads the registered stylesheets,
// downloads the TrueType faces they reference, and falls back to the
// embedded Go fonts for anything it cannot load.
package fonts

import (
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FallbackFamily names the embedded face used when a family is unavailable.
const FallbackFamily = "Go"

var (
	fallbackOnce sync.Once
	fallbackReg  *opentype.Font
	fallbackBold *opentype.Font
)

// fallback returns the embedded regular or bold face. The TTF data is
// compiled into the binary, so parsing cannot fail.
func fallback(bold bool) *opentype.Font {
	fallbackOnce.Do(func() {
		fallbackReg, _ = opentype.Parse(goregular.TTF)
		fallbackBold, _ = opentype.Parse(gobold.TTF)
	})
	if bold {
		return fallbackBold
	}
	return fallbackReg
}
