package cmd

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/otsuhash/phash"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var f configFlags

	cmd := &cobra.Command{
		Use:   "inspect <hash>",
		Short: "Draw the bit grid encoded in a hash",
		Long: `Decodes a hash produced under the given preset or grid flags and
draws it row by row, '#' for a set bit and '.' for a clear one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			bits, err := phash.Decode(strings.TrimSpace(args[0]), cfg)
			if err != nil {
				return err
			}
			a.log.Debug().Stringer("config", cfg).Int("bits", len(bits)).Msg("decoded")

			out := cmd.OutOrStdout()
			fmt.Fprint(out, drawBits(bits, cfg.Width))
			fmt.Fprintf(out, "%s, %d of %d bits set\n", cfg, countSet(bits), len(bits))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func drawBits(bits []bool, width int) string {
	var b strings.Builder
	b.Grow(len(bits) + len(bits)/width)
	for i, set := range bits {
		if set {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
		if (i+1)%width == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func countSet(bits []bool) int {
	n := 0
	for _, set := range bits {
		if set {
			n++
		}
	}
	return n
}
