package resample

import (
	"image"
	"image/color"

	"github.com/AnyUserName/otsuhash/internal/grid"
)

// areaReduce averages the source block behind every target sample with
// integer accumulation. Callers guarantee the source is at least as large
// as the grid in both dimensions.
func areaReduce(img image.Image, bounds image.Rectangle, g *grid.Grid) {
	switch src := img.(type) {
	case *image.Gray:
		areaGray(src, bounds, g)
	case *image.NRGBA:
		areaNRGBA(src, bounds, g)
	default:
		areaGeneric(img, bounds, g)
	}
}

func areaGray(src *image.Gray, bounds image.Rectangle, g *grid.Grid) {
	srcW, srcH := bounds.Dx(), bounds.Dy()
	bY := bounds.Min.Y - src.Rect.Min.Y
	bX := bounds.Min.X - src.Rect.Min.X

	for dy := 0; dy < g.Height; dy++ {
		sy0, sy1 := srcSpan(dy, g.Height, srcH)
		for dx := 0; dx < g.Width; dx++ {
			sx0, sx1 := srcSpan(dx, g.Width, srcW)

			var sum uint64
			for sy := sy0; sy < sy1; sy++ {
				off := (bY+sy)*src.Stride + bX + sx0
				for range sx1 - sx0 {
					sum += uint64(src.Pix[off])
					off++
				}
			}
			g.Set(dx, dy, average(sum, (sy1-sy0)*(sx1-sx0)))
		}
	}
}

func areaNRGBA(src *image.NRGBA, bounds image.Rectangle, g *grid.Grid) {
	srcW, srcH := bounds.Dx(), bounds.Dy()
	bY := bounds.Min.Y - src.Rect.Min.Y
	bX4 := (bounds.Min.X - src.Rect.Min.X) * 4

	for dy := 0; dy < g.Height; dy++ {
		sy0, sy1 := srcSpan(dy, g.Height, srcH)
		for dx := 0; dx < g.Width; dx++ {
			sx0, sx1 := srcSpan(dx, g.Width, srcW)

			var sum uint64
			for sy := sy0; sy < sy1; sy++ {
				off := (bY+sy)*src.Stride + bX4 + sx0*4
				for range sx1 - sx0 {
					sum += uint64(Luma(src.Pix[off], src.Pix[off+1], src.Pix[off+2], src.Pix[off+3]))
					off += 4
				}
			}
			g.Set(dx, dy, average(sum, (sy1-sy0)*(sx1-sx0)))
		}
	}
}

// areaGeneric goes through image.At, one interface call per pixel.
func areaGeneric(img image.Image, bounds image.Rectangle, g *grid.Grid) {
	srcW, srcH := bounds.Dx(), bounds.Dy()
	for dy := 0; dy < g.Height; dy++ {
		sy0, sy1 := srcSpan(dy, g.Height, srcH)
		for dx := 0; dx < g.Width; dx++ {
			sx0, sx1 := srcSpan(dx, g.Width, srcW)

			var sum uint64
			for sy := sy0; sy < sy1; sy++ {
				for sx := sx0; sx < sx1; sx++ {
					c := color.NRGBAModel.Convert(img.At(bounds.Min.X+sx, bounds.Min.Y+sy)).(color.NRGBA)
					sum += uint64(Luma(c.R, c.G, c.B, c.A))
				}
			}
			g.Set(dx, dy, average(sum, (sy1-sy0)*(sx1-sx0)))
		}
	}
}

// srcSpan maps target index d to the half-open source range it covers.
func srcSpan(d, dstSize, srcSize int) (int, int) {
	s0 := d * srcSize / dstSize
	s1 := (d + 1) * srcSize / dstSize
	if s1 <= s0 {
		s1 = s0 + 1
	}
	if s1 > srcSize {
		s1 = srcSize
	}
	return s0, s1
}

func average(sum uint64, n int) uint8 {
	return uint8((sum + uint64(n)/2) / uint64(n))
}
