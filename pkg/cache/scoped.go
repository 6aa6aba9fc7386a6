package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses it to keep its Redis keys apart from other applications
// sharing the same instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "moodmagic:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// StylesheetKey generates a prefixed key for stylesheet caching.
func (k *ScopedKeyer) StylesheetKey(url string) string {
	return k.prefix + k.inner.StylesheetKey(url)
}

// FontKey generates a prefixed key for font binary caching.
func (k *ScopedKeyer) FontKey(url string) string {
	return k.prefix + k.inner.FontKey(url)
}

// ImageKey generates a prefixed key for image caching.
func (k *ScopedKeyer) ImageKey(url string) string {
	return k.prefix + k.inner.ImageKey(url)
}
