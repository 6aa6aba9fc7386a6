package fonts

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/moodmagic/moodmagic/pkg/cache"
	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/httputil"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// ProbeTimeout bounds a single family load when the caller has no deadline.
const ProbeTimeout = 30 * time.Second

// Library loads families from the stylesheets registered in a registry and
// hands out faces for rendering. It implements [FaceSet].
type Library struct {
	reg    surface.Registry
	client *httputil.Client
	keyer  cache.Keyer
	logger *log.Logger

	mu       sync.Mutex
	families map[string]map[int]*opentype.Font
	faces    map[faceKey]font.Face
}

type faceKey struct {
	family string
	weight int
	size   float64
}

// NewLibrary returns a Library fetching through client.
func NewLibrary(reg surface.Registry, client *httputil.Client, keyer cache.Keyer, logger *log.Logger) *Library {
	if client == nil {
		client = httputil.NewClient(nil)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Library{
		reg:      reg,
		client:   client,
		keyer:    keyer,
		logger:   logger,
		families: make(map[string]map[int]*opentype.Font),
		faces:    make(map[faceKey]font.Face),
	}
}

// Load fetches the registered stylesheets that request family and parses
// the TrueType faces they declare. It fails with NOT_FOUND if no registered
// stylesheet mentions the family or none of its faces could be parsed.
func (l *Library) Load(ctx context.Context, family string) error {
	key := strings.ToLower(family)
	l.mu.Lock()
	_, done := l.families[key]
	l.mu.Unlock()
	if done {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ProbeTimeout)
		defer cancel()
	}

	hrefs := l.stylesheetsFor(family)
	if len(hrefs) == 0 {
		return errors.New(errors.ErrCodeNotFound, "no stylesheet registered for %q", family)
	}

	loaded := make(map[int]*opentype.Font)
	var lastErr error
	for _, href := range hrefs {
		css, err := l.client.Fetch(ctx, href, l.keyer.StylesheetKey(href), cache.TTLStylesheet)
		if err != nil {
			lastErr = err
			continue
		}
		for _, ff := range parseFontFaces(string(css)) {
			if !strings.EqualFold(ff.Family, family) || ff.Style != "normal" || !ff.parsable() {
				continue
			}
			if _, ok := loaded[ff.Weight]; ok {
				continue
			}
			f, err := l.fetchFace(ctx, resolve(href, ff.URL))
			if err != nil {
				lastErr = err
				l.logger.Debug("font face unavailable", "family", family, "weight", ff.Weight, "error", err)
				continue
			}
			loaded[ff.Weight] = f
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(loaded) == 0 {
		return errors.Wrap(errors.ErrCodeNotFound, lastErr, "no usable faces for %q", family)
	}

	l.mu.Lock()
	l.families[key] = loaded
	l.mu.Unlock()
	l.logger.Debug("loaded font family", "family", family, "faces", len(loaded))
	return nil
}

// Loaded reports whether family has been loaded.
func (l *Library) Loaded(family string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.families[strings.ToLower(family)]
	return ok
}

// Face returns a face for family at the nearest loaded weight, sized in
// pixels. Unknown families use the embedded fallback.
func (l *Library) Face(family string, weight int, size float64) font.Face {
	if weight == 0 {
		weight = 400
	}
	k := faceKey{strings.ToLower(family), weight, size}

	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.faces[k]; ok {
		return f
	}

	src := nearest(l.families[k.family], weight)
	if src == nil {
		src = fallback(weight >= 600)
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		face, _ = opentype.NewFace(fallback(weight >= 600), &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	l.faces[k] = face
	return face
}

func (l *Library) stylesheetsFor(family string) []string {
	needle := "family=" + moodboard.QueryName(family) + ":"
	var out []string
	for _, link := range l.reg.Stylesheets() {
		if strings.Contains(link.Href, needle) {
			out = append(out, link.Href)
		}
	}
	return out
}

func (l *Library) fetchFace(ctx context.Context, src string) (*opentype.Font, error) {
	data, err := l.client.Fetch(ctx, src, l.keyer.FontKey(src), cache.TTLFont)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	return f, nil
}

func nearest(faces map[int]*opentype.Font, weight int) *opentype.Font {
	var best *opentype.Font
	bestW, bestDist := 0, 1<<30
	for w, f := range faces {
		d := w - weight
		if d < 0 {
			d = -d
		}
		if d < bestDist || d == bestDist && w < bestW {
			best, bestW, bestDist = f, w, d
		}
	}
	return best
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
