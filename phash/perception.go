package phash

import (
	"image"

	"github.com/AnyUserName/otsuhash/internal/bitvec"
	"github.com/corona10/goimagehash"
)

// PerceptionHasher delegates to goimagehash's DCT hash. Its grid must be
// square and hold a power-of-two number of bits that is a multiple of 64.
type PerceptionHasher struct {
	cfg  Config
	opts options
}

func NewPerception(cfg Config, opts ...Option) (*PerceptionHasher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Width != cfg.Height {
		return nil, errorf(KindInvalidConfig, "config",
			"perception hash needs a square grid, got %dx%d", cfg.Width, cfg.Height)
	}
	n := cfg.BitCount()
	if n < 64 || n%64 != 0 || n&(n-1) != 0 {
		return nil, errorf(KindInvalidConfig, "config",
			"perception hash needs a power-of-two bit count of at least 64, got %d", n)
	}
	return &PerceptionHasher{cfg: cfg, opts: buildOptions(opts)}, nil
}

func (h *PerceptionHasher) Name() string   { return Perception }
func (h *PerceptionHasher) Config() Config { return h.cfg }
func (h *PerceptionHasher) String() string { return hasherString(Perception, h.cfg) }

func (h *PerceptionHasher) Hash(img image.Image) (string, error) {
	const op = "perception hash"
	if err := checkImage(op, img); err != nil {
		return "", err
	}
	ext, err := goimagehash.ExtPerceptionHash(img, h.cfg.Width, h.cfg.Height)
	if err != nil {
		return "", newError(KindUnknown, op, err)
	}
	v, err := bitvec.FromWords(ext.GetHash(), h.cfg.BitCount())
	if err != nil {
		return "", newError(KindUnknown, op, err)
	}
	s, err := encode(op, v, h.cfg.Radix)
	if err != nil {
		return "", err
	}
	h.opts.log.Debug().
		Str("algorithm", Perception).
		Stringer("config", h.cfg).
		Str("hash", s).
		Msg("hashed")
	return s, nil
}
