package phash

import (
	"image"

	"github.com/AnyUserName/otsuhash/internal/otsu"
	"github.com/AnyUserName/otsuhash/internal/resample"
)

// AverageHasher sets a bit for every grid sample brighter than the grid's
// mean intensity.
type AverageHasher struct {
	cfg  Config
	opts options
}

func NewAverage(cfg Config, opts ...Option) (*AverageHasher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AverageHasher{cfg: cfg, opts: buildOptions(opts)}, nil
}

func (h *AverageHasher) Name() string   { return Average }
func (h *AverageHasher) Config() Config { return h.cfg }
func (h *AverageHasher) String() string { return hasherString(Average, h.cfg) }

func (h *AverageHasher) Hash(img image.Image) (string, error) {
	const op = "average hash"
	if err := checkImage(op, img); err != nil {
		return "", err
	}
	g, err := resample.Reduce(img, h.cfg.Width, h.cfg.Height, h.opts.filter)
	if err != nil {
		return "", classify(op, err)
	}
	mean := g.Histogram().Mean()
	s, err := encode(op, otsu.Bits(g, mean), h.cfg.Radix)
	if err != nil {
		return "", err
	}
	h.opts.log.Debug().
		Str("algorithm", Average).
		Stringer("config", h.cfg).
		Float64("mean", mean).
		Str("hash", s).
		Msg("hashed")
	return s, nil
}
