// Package resample reduces arbitrary images to a small grid of 8-bit
// luminance samples.
package resample

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/AnyUserName/otsuhash/internal/grid"
	"github.com/disintegration/imaging"
)

// ErrEmptySource is returned for nil or zero-area images.
var ErrEmptySource = errors.New("source image is empty")

// Filter selects the resampling kernel.
type Filter int

const (
	// Box averages the source pixels covered by each target sample.
	Box Filter = iota
	// Linear is bilinear interpolation.
	Linear
	// Area is an exact integer area average. Upscaling falls back to Box.
	Area
)

func (f Filter) String() string {
	switch f {
	case Box:
		return "box"
	case Linear:
		return "linear"
	case Area:
		return "area"
	}
	return fmt.Sprintf("filter(%d)", int(f))
}

// ParseFilter maps a filter name to its Filter. The empty string is Box.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "box":
		return Box, nil
	case "linear", "bilinear":
		return Linear, nil
	case "area":
		return Area, nil
	}
	return Box, fmt.Errorf("unknown resample filter %q (want box, linear or area)", name)
}

func (f Filter) kernel() imaging.ResampleFilter {
	if f == Linear {
		return imaging.Linear
	}
	return imaging.Box
}

// Reduce resamples img to width×height and converts every sample to
// luminance. The result is deterministic for a fixed input and size.
func Reduce(img image.Image, width, height int, f Filter) (*grid.Grid, error) {
	bounds, err := checkSource(img)
	if err != nil {
		return nil, err
	}
	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}

	if f == Area && bounds.Dx() >= width && bounds.Dy() >= height {
		areaReduce(img, bounds, g)
		return g, nil
	}

	lumaNRGBA(imaging.Resize(img, width, height, f.kernel()), g)
	return g, nil
}

// Gray converts img to luminance at its native resolution.
func Gray(img image.Image) (*grid.Grid, error) {
	bounds, err := checkSource(img)
	if err != nil {
		return nil, err
	}
	g, err := grid.New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < g.Height; y++ {
			off := (bounds.Min.Y-src.Rect.Min.Y+y)*src.Stride + bounds.Min.X - src.Rect.Min.X
			copy(g.Pix[y*g.Width:(y+1)*g.Width], src.Pix[off:off+g.Width])
		}
		return g, nil
	}
	lumaNRGBA(imaging.Clone(img), g)
	return g, nil
}

func checkSource(img image.Image) (image.Rectangle, error) {
	if img == nil {
		return image.Rectangle{}, ErrEmptySource
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return b, fmt.Errorf("%w: %dx%d", ErrEmptySource, b.Dx(), b.Dy())
	}
	return b, nil
}

// lumaNRGBA fills g from an NRGBA image of exactly g's dimensions.
func lumaNRGBA(src *image.NRGBA, g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		off := y * src.Stride
		for x := 0; x < g.Width; x++ {
			p := src.Pix[off : off+4 : off+4]
			g.Pix[y*g.Width+x] = Luma(p[0], p[1], p[2], p[3])
			off += 4
		}
	}
}

// Luma returns the BT.601 luminance of a non-premultiplied color,
// composited over black. Equal channels map to themselves when opaque.
func Luma(r, g, b, a uint8) uint8 {
	y := uint32((19595*int32(r) + 38470*int32(g) + 7471*int32(b) + 1<<15) >> 16)
	if a != 0xff {
		y = (y*uint32(a) + 127) / 255
	}
	return uint8(y)
}
