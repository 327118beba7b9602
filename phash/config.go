package phash

import (
	"fmt"

	"github.com/AnyUserName/otsuhash/internal/bitvec"
)

const (
	DefaultWidth  = 8
	DefaultHeight = 8
	DefaultRadix  = 16

	MinRadix = bitvec.MinRadix
	MaxRadix = bitvec.MaxRadix
)

// Config is the grid size and output radix of a hasher. It is a value:
// the With* methods return modified copies and never touch the receiver,
// so one Config can be shared freely between goroutines.
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Radix  int `json:"radix"`
}

// DefaultConfig is an 8×8 grid rendered in hexadecimal.
func DefaultConfig() Config {
	return Config{Width: DefaultWidth, Height: DefaultHeight, Radix: DefaultRadix}
}

// Validate rejects non-positive dimensions and radixes outside [2,36].
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errorf(KindInvalidConfig, "config", "grid %dx%d must be positive", c.Width, c.Height)
	}
	if c.Radix < MinRadix || c.Radix > MaxRadix {
		return errorf(KindInvalidConfig, "config", "radix %d not in [%d,%d]", c.Radix, MinRadix, MaxRadix)
	}
	return nil
}

// BitCount is the number of bits in every hash, Width*Height.
func (c Config) BitCount() int { return c.Width * c.Height }

// DigitLen is the length of every hash string: ceil(BitCount/log2(Radix)).
func (c Config) DigitLen() int { return bitvec.DigitLen(c.BitCount(), c.Radix) }

func (c Config) WithWidth(w int) Config  { c.Width = w; return c }
func (c Config) WithHeight(h int) Config { c.Height = h; return c }
func (c Config) WithRadix(r int) Config  { c.Radix = r; return c }

// WithSize sets a square grid.
func (c Config) WithSize(n int) Config { c.Width, c.Height = n, n; return c }

func (c Config) String() string {
	return fmt.Sprintf("%dx%d/r%d", c.Width, c.Height, c.Radix)
}

// CompareConfig orders by width, then height. Radix is ignored.
func CompareConfig(a, b Config) int {
	switch {
	case a.Width < b.Width:
		return -1
	case a.Width > b.Width:
		return 1
	case a.Height < b.Height:
		return -1
	case a.Height > b.Height:
		return 1
	}
	return 0
}
