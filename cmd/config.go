package cmd

import (
	"github.com/AnyUserName/otsuhash/internal/profile"
	"github.com/AnyUserName/otsuhash/phash"
	"github.com/spf13/cobra"
)

// configFlags are the grid and radix flags shared by hash and inspect.
type configFlags struct {
	preset string
	width  int
	height int
	radix  int
}

func (f *configFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.preset, "preset", "p", profile.Default, "hasher preset, see `otsuhash presets` (env OTSUHASH_PRESET)")
	fl.IntVarP(&f.width, "width", "W", 0, "grid width, overrides the preset (env OTSUHASH_WIDTH)")
	fl.IntVarP(&f.height, "height", "H", 0, "grid height, overrides the preset (env OTSUHASH_HEIGHT)")
	fl.IntVarP(&f.radix, "radix", "r", 0, "output radix 2-36, overrides the preset (env OTSUHASH_RADIX)")
}

// resolve layers flags over environment over the preset and validates
// the result.
func (f *configFlags) resolve(cmd *cobra.Command) (phash.Config, error) {
	p, err := profile.Get(flagOrEnv(cmd, "preset", f.preset, "PRESET", profile.Default))
	if err != nil {
		return phash.Config{}, err
	}
	cfg := p.Config

	if cfg.Width, err = flagOrEnvInt(cmd, "width", f.width, "WIDTH", cfg.Width); err != nil {
		return cfg, err
	}
	if cfg.Height, err = flagOrEnvInt(cmd, "height", f.height, "HEIGHT", cfg.Height); err != nil {
		return cfg, err
	}
	if cfg.Radix, err = flagOrEnvInt(cmd, "radix", f.radix, "RADIX", cfg.Radix); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
