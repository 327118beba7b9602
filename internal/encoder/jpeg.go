package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
)

// DefaultQuality is used when the caller passes a quality outside 1-100.
const DefaultQuality = 90

// JPEGEncoder encodes images to JPEG using Go's standard library.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string       { return "jpeg" }
func (e *JPEGEncoder) Extensions() []string { return []string{"jpg", "jpeg"} }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
