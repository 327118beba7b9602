package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "jpeg", "bmp", "tiff").
	Format() string

	// Encode converts the image to bytes. quality (1-100) only matters for
	// lossy formats.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extensions returns the accepted file extensions without dot, the
	// canonical one first.
	Extensions() []string
}
