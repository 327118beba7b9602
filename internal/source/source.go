// Package source turns file paths, URLs, readers and raw bytes into decoded
// images for the hashers.
package source

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Stdin is the reference that reads from standard input.
const Stdin = "-"

// ErrEmpty is returned when a source yields no bytes.
var ErrEmpty = errors.New("source is empty")

// Image is a decoded source together with what we know about its bytes.
type Image struct {
	image.Image

	// Ref is the path, URL or "-" the image came from.
	Ref string
	// Format is the decoder name reported by image.Decode.
	Format string
	// Size is the encoded size in bytes.
	Size int64
	// Digest is the xxHash64 of the encoded bytes, 16 hex chars.
	Digest string
}

// Width and Height report the decoded dimensions.
func (i *Image) Width() int  { return i.Bounds().Dx() }
func (i *Image) Height() int { return i.Bounds().Dy() }

// Load resolves ref to bytes and decodes them. ref is "-" for stdin, an
// http(s) URL, or a filesystem path.
func Load(ctx context.Context, ref string) (*Image, error) {
	switch {
	case ref == Stdin:
		return Read(os.Stdin, ref)
	case IsURL(ref):
		return Fetch(ctx, DefaultClient, ref)
	default:
		return Open(ref)
	}
}

// IsURL reports whether ref looks like an http or https URL.
func IsURL(ref string) bool {
	l := strings.ToLower(ref)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Open reads and decodes the file at path.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Decode(path, data)
}

// Read drains r and decodes the result.
func Read(r io.Reader, ref string) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", ref)
	}
	return Decode(ref, data)
}

// Decode decodes data with every registered image format.
func Decode(ref string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrEmpty, ref)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", ref)
	}
	return &Image{
		Image:  img,
		Ref:    ref,
		Format: format,
		Size:   int64(len(data)),
		Digest: ContentHash(data, 16),
	}, nil
}
