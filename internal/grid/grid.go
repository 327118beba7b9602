// Package grid holds the single-channel sample grid that every hashing
// stage operates on, plus its 256-bucket intensity histogram.
package grid

import (
	"errors"
	"fmt"
)

// Levels is the number of distinct 8-bit intensity values.
const Levels = 256

// ErrInvalidDimensions is returned when a grid is requested with a
// non-positive width or height.
var ErrInvalidDimensions = errors.New("grid dimensions must be positive")

// Grid is a width×height array of 8-bit luminance samples stored row-major.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed grid.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}, nil
}

// FromSamples builds a grid over a copy of pix, which must hold exactly
// width*height samples in row-major order.
func FromSamples(width, height int, pix []uint8) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(g.Pix) {
		return nil, fmt.Errorf("grid %dx%d needs %d samples, got %d", width, height, len(g.Pix), len(pix))
	}
	copy(g.Pix, pix)
	return g, nil
}

// Len returns the number of samples.
func (g *Grid) Len() int { return len(g.Pix) }

// At returns the sample at column x, row y.
func (g *Grid) At(x, y int) uint8 { return g.Pix[y*g.Width+x] }

// Set stores v at column x, row y.
func (g *Grid) Set(x, y int, v uint8) { g.Pix[y*g.Width+x] = v }

// Histogram is a tally of samples per intensity level.
type Histogram [Levels]int

// Histogram counts every sample of the grid.
func (g *Grid) Histogram() *Histogram {
	var h Histogram
	for _, v := range g.Pix {
		h[v]++
	}
	return &h
}

// Total returns the sum of all buckets.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Mean returns the average intensity, or 0 for an empty histogram.
func (h *Histogram) Mean() float64 {
	var sum, n int64
	for i, c := range h {
		sum += int64(i) * int64(c)
		n += int64(c)
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
