package encoder

import (
	"bytes"
	"image"
	"image/png"
)

// PNGEncoder encodes images to PNG. Black and white reductions compress
// very well here, so it is the default.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string       { return "png" }
func (e *PNGEncoder) Extensions() []string { return []string{"png"} }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
