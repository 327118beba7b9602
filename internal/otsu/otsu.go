// Package otsu computes Otsu thresholds over 8-bit sample grids and
// binarizes grids against them.
//
// Two binarization policies live here and are intentionally different:
// Bits marks samples strictly above the threshold (hash bits), while Reduce
// paints samples strictly below the threshold black and everything else
// white. A sample equal to the threshold is 0 in the hash and white in the
// reduced image.
package otsu

import (
	"image"

	"github.com/AnyUserName/otsuhash/internal/bitvec"
	"github.com/AnyUserName/otsuhash/internal/grid"
)

// Threshold returns the intensity that maximizes between-class variance
// for a histogram of n samples.
//
// Bucket 0 never contributes to the intensity sums. When several buckets
// reach the maximum, the result is the midpoint of the last strict maximum
// and the last tying bucket. The result is always within [0, 255]; a
// histogram with a single populated bucket yields 0.
func Threshold(h *grid.Histogram, n int) float64 {
	var sum int64
	for i := 1; i < grid.Levels; i++ {
		sum += int64(i) * int64(h[i])
	}

	var (
		sumB, wB    int64
		best        float64
		first, last float64
	)
	for i := 0; i < grid.Levels; i++ {
		wB += int64(h[i])
		if wB == 0 {
			continue
		}
		wF := int64(n) - wB
		if wF <= 0 {
			break
		}
		sumB += int64(i) * int64(h[i])

		mB := float64(sumB) / float64(wB)
		mF := float64(sum-sumB) / float64(wF)
		d := mB - mF
		between := float64(wB*wF) * d * d

		if between >= best {
			last = float64(i)
			if between > best {
				first = float64(i)
			}
			best = between
		}
	}
	return (first + last) / 2.0
}

// GridThreshold is Threshold over the grid's own histogram.
func GridThreshold(g *grid.Grid) float64 {
	return Threshold(g.Histogram(), g.Len())
}

// Bits scans g row-major and sets bit i for every sample strictly greater
// than t.
func Bits(g *grid.Grid, t float64) *bitvec.Vector {
	v := bitvec.New(g.Len())
	for i, s := range g.Pix {
		if float64(s) > t {
			v.Set(i)
		}
	}
	return v
}

// Reduce returns the black and white rendition of g at its Otsu threshold.
// Samples strictly below the threshold become black.
func Reduce(g *grid.Grid) *image.Gray {
	t := GridThreshold(g)
	dst := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i, s := range g.Pix {
		if float64(s) < t {
			dst.Pix[i] = 0x00
		} else {
			dst.Pix[i] = 0xff
		}
	}
	return dst
}
