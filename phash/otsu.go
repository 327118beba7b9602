package phash

import (
	"image"

	"github.com/AnyUserName/otsuhash/internal/otsu"
	"github.com/AnyUserName/otsuhash/internal/resample"
)

// Filter is the resampling kernel used to shrink images to the hash grid.
type Filter = resample.Filter

const (
	FilterBox    = resample.Box
	FilterLinear = resample.Linear
	FilterArea   = resample.Area
)

// ParseFilter maps "box", "linear" or "area" to a Filter.
func ParseFilter(name string) (Filter, error) { return resample.ParseFilter(name) }

// OtsuHasher sets a bit for every grid sample brighter than the grid's
// Otsu threshold.
type OtsuHasher struct {
	cfg  Config
	opts options
}

// NewOtsu validates cfg and returns an Otsu hasher.
func NewOtsu(cfg Config, opts ...Option) (*OtsuHasher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &OtsuHasher{cfg: cfg, opts: buildOptions(opts)}, nil
}

func (h *OtsuHasher) Name() string   { return Otsu }
func (h *OtsuHasher) Config() Config { return h.cfg }
func (h *OtsuHasher) String() string { return hasherString(Otsu, h.cfg) }

// Result is a hash together with the intermediate values it came from.
type Result struct {
	Hash      string
	Threshold float64
	Width     int
	Height    int
	// Samples is the luminance grid, row-major.
	Samples []uint8
	// Histogram counts Samples per intensity.
	Histogram [256]int
}

// Bit reports whether the hash bit for grid cell (x, y) is set.
func (r *Result) Bit(x, y int) bool {
	return float64(r.Samples[y*r.Width+x]) > r.Threshold
}

func (h *OtsuHasher) Hash(img image.Image) (string, error) {
	r, err := h.Analyze(img)
	if err != nil {
		return "", err
	}
	return r.Hash, nil
}

// Analyze hashes img and keeps the grid, histogram and threshold.
func (h *OtsuHasher) Analyze(img image.Image) (*Result, error) {
	const op = "otsu hash"
	if err := checkImage(op, img); err != nil {
		return nil, err
	}
	g, err := resample.Reduce(img, h.cfg.Width, h.cfg.Height, h.opts.filter)
	if err != nil {
		return nil, classify(op, err)
	}

	hist := g.Histogram()
	t := otsu.Threshold(hist, g.Len())
	s, err := encode(op, otsu.Bits(g, t), h.cfg.Radix)
	if err != nil {
		return nil, err
	}

	h.opts.log.Debug().
		Str("algorithm", Otsu).
		Stringer("config", h.cfg).
		Stringer("filter", h.opts.filter).
		Float64("threshold", t).
		Str("hash", s).
		Msg("hashed")

	return &Result{
		Hash:      s,
		Threshold: t,
		Width:     g.Width,
		Height:    g.Height,
		Samples:   g.Pix,
		Histogram: *hist,
	}, nil
}

// Reduce renders img in black and white at its full resolution using the
// Otsu threshold of its luminance. Pixels darker than the threshold turn
// black; this is the opposite comparison from the hash bits.
func Reduce(img image.Image) (*image.Gray, error) {
	const op = "reduce"
	if err := checkImage(op, img); err != nil {
		return nil, err
	}
	g, err := resample.Gray(img)
	if err != nil {
		return nil, classify(op, err)
	}
	return otsu.Reduce(g), nil
}
