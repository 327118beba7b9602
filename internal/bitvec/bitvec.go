// Package bitvec packs hash bits MSB-first and renders them as fixed-width
// digit strings in radix 2..36.
package bitvec

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	mbits "math/bits"
	"strings"
)

const (
	MinRadix = 2
	MaxRadix = 36
)

var (
	// ErrInvalidRadix is returned for a radix outside [MinRadix, MaxRadix].
	ErrInvalidRadix = errors.New("radix out of range")
	// ErrInvalidDigits is returned when a digit string cannot hold the
	// expected number of bits.
	ErrInvalidDigits = errors.New("invalid hash digits")
)

// Vector is a fixed-length bit sequence. Bit 0 is the most significant bit
// of the integer the vector represents.
type Vector struct {
	n    int
	data []byte // big-endian, left padded to a byte boundary
}

// New returns an all-zero vector of n bits.
func New(n int) *Vector {
	if n < 0 {
		n = 0
	}
	return &Vector{n: n, data: make([]byte, (n+7)/8)}
}

// Len returns the number of bits.
func (v *Vector) Len() int { return v.n }

// pos maps bit index i to its byte and in-byte mask.
func (v *Vector) pos(i int) (int, byte) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("bitvec: index %d out of range [0,%d)", i, v.n))
	}
	p := v.n - 1 - i // integer bit position
	return len(v.data) - 1 - p/8, 1 << uint(p%8)
}

func (v *Vector) Set(i int) {
	b, m := v.pos(i)
	v.data[b] |= m
}

func (v *Vector) Get(i int) bool {
	b, m := v.pos(i)
	return v.data[b]&m != 0
}

// Count returns the number of set bits.
func (v *Vector) Count() int {
	c := 0
	for i := 0; i < v.n; i++ {
		if v.Get(i) {
			c++
		}
	}
	return c
}

// Bytes returns a big-endian copy of the vector's integer value.
func (v *Vector) Bytes() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// Int returns the vector as an unsigned integer.
func (v *Vector) Int() *big.Int {
	return new(big.Int).SetBytes(v.data)
}

// FromWords builds an n-bit vector from 64-bit words, first word most
// significant.
func FromWords(words []uint64, n int) (*Vector, error) {
	if len(words)*64 != n {
		return nil, fmt.Errorf("%d words cannot hold exactly %d bits", len(words), n)
	}
	v := New(n)
	for w, word := range words {
		for b := 0; b < 64; b++ {
			if word&(1<<uint(63-b)) != 0 {
				v.Set(w*64 + b)
			}
		}
	}
	return v, nil
}

// DigitLen is the fixed string length of a bits-wide hash in radix:
// ceil(bits / log2(radix)). Power-of-two radixes use the exact integer
// logarithm; math.Log(8)/math.Log(2) is not exactly 3.
func DigitLen(bits, radix int) int {
	if radix > 1 && radix&(radix-1) == 0 {
		k := mbits.TrailingZeros(uint(radix))
		return (bits + k - 1) / k
	}
	return int(math.Ceil(float64(bits) / (math.Log(float64(radix)) / math.Log(2))))
}

func checkRadix(radix int) error {
	if radix < MinRadix || radix > MaxRadix {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidRadix, radix, MinRadix, MaxRadix)
	}
	return nil
}

// Encode renders v in radix using lowercase digits, left padded with '0'
// to DigitLen(v.Len(), radix).
func Encode(v *Vector, radix int) (string, error) {
	if err := checkRadix(radix); err != nil {
		return "", err
	}
	s := v.Int().Text(radix)
	if pad := DigitLen(v.n, radix) - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s, nil
}

// Decode parses a digit string produced by Encode back into a bits-wide
// vector. Upper- and lowercase digits are accepted.
func Decode(s string, bits, radix int) (*Vector, error) {
	if err := checkRadix(radix); err != nil {
		return nil, err
	}
	if want := DigitLen(bits, radix); len(s) != want {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidDigits, len(s), want)
	}
	x, ok := new(big.Int).SetString(strings.ToLower(s), radix)
	if !ok || x.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is not a radix-%d number", ErrInvalidDigits, s, radix)
	}
	if x.BitLen() > bits {
		return nil, fmt.Errorf("%w: value needs %d bits, have %d", ErrInvalidDigits, x.BitLen(), bits)
	}
	v := New(bits)
	x.FillBytes(v.data)
	return v, nil
}
