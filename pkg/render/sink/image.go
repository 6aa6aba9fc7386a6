package sink

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
)

// DefaultQuality is the JPEG quality used for page imagery.
const DefaultQuality = 98

// JPEG encodes img at the given quality (1-100).
func JPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PNG encodes img losslessly.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
