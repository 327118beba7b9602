// Package phash computes perceptual image hashes: fixed-length digit
// strings that stay equal or close for visually similar images.
//
// Every Hasher reduces the image to a small luminance grid, turns the grid
// into one bit per sample (row-major, first sample is the most significant
// bit) and renders the bits as a zero-padded string in the configured
// radix. Hashers differ only in how they pick the bits:
//
//	otsu        sample > Otsu threshold of the grid
//	average     sample > mean of the grid
//	perception  DCT coefficient > median (github.com/corona10/goimagehash)
//
// A Hasher's Config never changes after construction; build a new Hasher
// for a different grid or radix. Hashers are safe for concurrent use.
package phash

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"slices"
	"sort"

	"github.com/AnyUserName/otsuhash/internal/bitvec"
	"github.com/AnyUserName/otsuhash/internal/source"
	"github.com/rs/zerolog"
)

// Hasher is one hashing algorithm bound to one Config.
type Hasher interface {
	// Name is the algorithm name accepted by New.
	Name() string
	// Config is the grid size and radix every hash is produced with.
	Config() Config
	// Hash fingerprints img. The result always has Config().DigitLen()
	// characters.
	Hash(img image.Image) (string, error)
}

// Algorithm names accepted by New.
const (
	Otsu       = "otsu"
	Average    = "average"
	Perception = "perception"
)

type constructor func(Config, ...Option) (Hasher, error)

var algorithms = map[string]constructor{
	Otsu:       func(c Config, o ...Option) (Hasher, error) { return NewOtsu(c, o...) },
	Average:    func(c Config, o ...Option) (Hasher, error) { return NewAverage(c, o...) },
	Perception: func(c Config, o ...Option) (Hasher, error) { return NewPerception(c, o...) },
}

// New builds the named hasher.
func New(name string, cfg Config, opts ...Option) (Hasher, error) {
	ctor, ok := algorithms[name]
	if !ok {
		return nil, errorf(KindInvalidConfig, "new", "unknown algorithm %q (want one of %v)", name, Algorithms())
	}
	return ctor(cfg, opts...)
}

// Algorithms lists the names accepted by New, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for n := range algorithms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Option tunes a hasher at construction.
type Option func(*options)

type options struct {
	filter Filter
	log    zerolog.Logger
}

func buildOptions(opts []Option) options {
	o := options{filter: FilterBox, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFilter selects the resampling filter used to build the grid.
// Perception hashers ignore it.
func WithFilter(f Filter) Option { return func(o *options) { o.filter = f } }

// WithLogger receives debug events for every hash computed.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// Compare orders hashers by grid width, then height, ascending. Hashers
// with equal grids compare equal whatever their radix or algorithm.
func Compare(a, b Hasher) int {
	return CompareConfig(a.Config(), b.Config())
}

// Sort orders hs by Compare, keeping the relative order of equal hashers.
func Sort(hs []Hasher) {
	slices.SortStableFunc(hs, Compare)
}

// Decode turns a hash string back into its bits, index 0 first. It fails
// with KindInvalidConfig when cfg is invalid and KindDecode when s is not
// a hash produced under cfg.
func Decode(s string, cfg Config) ([]bool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v, err := bitvec.Decode(s, cfg.BitCount(), cfg.Radix)
	if err != nil {
		return nil, newError(KindDecode, "decode hash", err)
	}
	bits := make([]bool, v.Len())
	for i := range bits {
		bits[i] = v.Get(i)
	}
	return bits, nil
}

// HashFile decodes the image at path and hashes it.
func HashFile(h Hasher, path string) (string, error) {
	img, err := source.Open(path)
	if err != nil {
		return "", newError(KindDecode, "hash file", err)
	}
	return h.Hash(img.Image)
}

// HashReader decodes an image from r and hashes it.
func HashReader(h Hasher, r io.Reader) (string, error) {
	img, err := source.Read(r, "reader")
	if err != nil {
		return "", newError(KindDecode, "hash reader", err)
	}
	return h.Hash(img.Image)
}

// HashBytes decodes an encoded image and hashes it.
func HashBytes(h Hasher, data []byte) (string, error) {
	return HashReader(h, bytes.NewReader(data))
}

// HashURL downloads and decodes the image at url and hashes it.
func HashURL(ctx context.Context, h Hasher, url string) (string, error) {
	img, err := source.Fetch(ctx, source.DefaultClient, url)
	if err != nil {
		return "", newError(KindDecode, "hash url", err)
	}
	return h.Hash(img.Image)
}

// checkImage rejects nil and zero-area images before any work is done.
func checkImage(op string, img image.Image) error {
	if img == nil {
		return errorf(KindDegenerate, op, "nil image")
	}
	if b := img.Bounds(); b.Empty() {
		return errorf(KindDegenerate, op, "image has no pixels (%dx%d)", b.Dx(), b.Dy())
	}
	return nil
}

func encode(op string, v *bitvec.Vector, radix int) (string, error) {
	s, err := bitvec.Encode(v, radix)
	if err != nil {
		return "", classify(op, err)
	}
	return s, nil
}

func hasherString(name string, c Config) string {
	return fmt.Sprintf("%s(%s)", name, c)
}
