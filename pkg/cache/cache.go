// Package cache provides byte-oriented caching for remote assets.
//
// moodmagic fetches three kinds of remote data repeatedly: font stylesheets
// from the font service, the font binaries they reference, and the images
// placed on a board. All of them are immutable for a given URL, so they are
// cached by URL behind the [Cache] interface.
//
// Implementations:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: Redis-backed, shared between server instances
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// Keys are built with a [Keyer] so that the different asset kinds never
// collide and can be scoped per tenant with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per asset kind.
const (
	// TTLStylesheet is how long a font stylesheet is reused. The font service
	// answers with versioned font URLs, so a day keeps them reasonably fresh.
	TTLStylesheet = 24 * time.Hour

	// TTLFont is how long a downloaded font binary is kept.
	TTLFont = 30 * 24 * time.Hour

	// TTLImage is how long a downloaded board image is kept.
	TTLImage = 7 * 24 * time.Hour
)

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get returns the cached data and true on a hit, or false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer builds cache keys for each asset kind.
type Keyer interface {
	// StylesheetKey generates a key for a font stylesheet URL.
	StylesheetKey(url string) string

	// FontKey generates a key for a font binary URL.
	FontKey(url string) string

	// ImageKey generates a key for a board image URL.
	ImageKey(url string) string
}

// DefaultKeyer hashes URLs under a per-kind prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// StylesheetKey implements Keyer.
func (DefaultKeyer) StylesheetKey(url string) string { return hashKey("css", url) }

// FontKey implements Keyer.
func (DefaultKeyer) FontKey(url string) string { return hashKey("font", url) }

// ImageKey implements Keyer.
func (DefaultKeyer) ImageKey(url string) string { return hashKey("img", url) }
