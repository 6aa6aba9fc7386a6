package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/moodmagic/moodmagic/pkg/cache"
	"github.com/moodmagic/moodmagic/pkg/httputil"
)

// ImageLoader fetches and decodes an image by source URL.
type ImageLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// HTTPImageLoader loads remote images through the shared HTTP client.
// JPEG, PNG, GIF and WebP are supported.
type HTTPImageLoader struct {
	client *httputil.Client
	keyer  cache.Keyer
}

// NewHTTPImageLoader returns a loader fetching through client.
func NewHTTPImageLoader(client *httputil.Client, keyer cache.Keyer) *HTTPImageLoader {
	if client == nil {
		client = httputil.NewClient(nil)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &HTTPImageLoader{client: client, keyer: keyer}
}

func (l *HTTPImageLoader) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := l.client.Fetch(ctx, src, l.keyer.ImageKey(src), cache.TTLImage)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return img, nil
}
