package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/AnyUserName/otsuhash/internal/profile"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in hasher presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRID\tRADIX\tBITS\tDIGITS\tDESCRIPTION")
			for _, p := range profile.All() {
				c := p.Config
				fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%d\t%s\n",
					p.Name, c.Width, c.Height, c.Radix, c.BitCount(), c.DigitLen(), p.Description)
			}
			return w.Flush()
		},
	}
}
