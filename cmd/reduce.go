package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/otsuhash/internal/encoder"
	"github.com/AnyUserName/otsuhash/phash"
	"github.com/spf13/cobra"
)

func newReduceCmd(a *app) *cobra.Command {
	var quality int

	cmd := &cobra.Command{
		Use:   "reduce <source> <out>",
		Short: "Write a black and white version of an image",
		Long: `Converts the source to grayscale at full resolution, splits it at its
Otsu threshold and writes the two-level result to <out>. The output
format follows the extension of <out> (png, jpg, bmp, tif).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, out := args[0], args[1]

			enc, err := encoder.NewRegistry().ForPath(out)
			if err != nil {
				return err
			}

			img, err := loadSource(cmd, src)
			if err != nil {
				return err
			}
			bw, err := phash.Reduce(img.Image)
			if err != nil {
				return err
			}

			data, err := enc.Encode(bw, quality)
			if err != nil {
				return fmt.Errorf("encode %s: %w", out, err)
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}

			a.log.Info().
				Str("source", src).
				Str("out", out).
				Str("format", enc.Format()).
				Int("width", bw.Bounds().Dx()).
				Int("height", bw.Bounds().Dy()).
				Int("bytes", len(data)).
				Msg("reduced")
			return nil
		},
	}

	cmd.Flags().IntVarP(&quality, "quality", "q", encoder.DefaultQuality, "JPEG quality 1-100")
	return cmd
}
