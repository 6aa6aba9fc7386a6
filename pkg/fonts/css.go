package fonts

import (
	"regexp"
	"strconv"
	"strings"
)

// fontFace is one @font-face rule of a stylesheet.
type fontFace struct {
	Family string
	Weight int
	Style  string
	URL    string
	Format string
}

var (
	reFontFace = regexp.MustCompile(`(?s)@font-face\s*\{(.*?)\}`)
	reFamily   = regexp.MustCompile(`font-family\s*:\s*['"]?([^;'"]+?)['"]?\s*;`)
	reWeight   = regexp.MustCompile(`font-weight\s*:\s*(\d+)`)
	reStyle    = regexp.MustCompile(`font-style\s*:\s*(\w+)`)
	reSrc      = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)(?:\s*format\(\s*['"]?([\w-]+)['"]?\s*\))?`)
)

// parseFontFaces extracts the @font-face rules of css. Rules without a
// family or a source URL are skipped. Only the first source of each rule
// is kept.
func parseFontFaces(css string) []fontFace {
	var out []fontFace
	for _, m := range reFontFace.FindAllStringSubmatch(css, -1) {
		body := m[1]
		fam := reFamily.FindStringSubmatch(body)
		src := reSrc.FindStringSubmatch(body)
		if fam == nil || src == nil {
			continue
		}
		f := fontFace{
			Family: strings.TrimSpace(fam[1]),
			Weight: 400,
			Style:  "normal",
			URL:    src[1],
			Format: strings.ToLower(src[2]),
		}
		if w := reWeight.FindStringSubmatch(body); w != nil {
			f.Weight, _ = strconv.Atoi(w[1])
		}
		if st := reStyle.FindStringSubmatch(body); st != nil {
			f.Style = st[1]
		}
		out = append(out, f)
	}
	return out
}

// parsable reports whether the face is in a format opentype.Parse reads.
func (f fontFace) parsable() bool {
	switch f.Format {
	case "truetype", "opentype":
		return true
	case "":
		u := strings.ToLower(f.URL)
		return strings.HasSuffix(u, ".ttf") || strings.HasSuffix(u, ".otf")
	default:
		return false
	}
}
