package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AnyUserName/otsuhash/phash"
)

// Profile is a named hasher configuration.
type Profile struct {
	Name        string
	Description string
	Config      phash.Config
}

// Default is the profile used when none is requested.
const Default = "default"

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:        "default",
		Description: "8x8 grid, hexadecimal",
		Config:      phash.DefaultConfig(),
	},
	"compact": {
		Name:        "compact",
		Description: "8x8 grid, base 36 (13 chars)",
		Config:      phash.Config{Width: 8, Height: 8, Radix: 36},
	},
	"binary": {
		Name:        "binary",
		Description: "8x8 grid, one character per cell",
		Config:      phash.Config{Width: 8, Height: 8, Radix: 2},
	},
	"fine": {
		Name:        "fine",
		Description: "16x16 grid, hexadecimal",
		Config:      phash.Config{Width: 16, Height: 16, Radix: 16},
	},
	"wide": {
		Name:        "wide",
		Description: "16x8 grid for landscape sources, base 32",
		Config:      phash.Config{Width: 16, Height: 8, Radix: 32},
	},
	"coarse": {
		Name:        "coarse",
		Description: "4x4 grid, hexadecimal",
		Config:      phash.Config{Width: 4, Height: 4, Radix: 16},
	},
}

// Get returns a profile by name.
func Get(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// All returns every profile ordered by grid (width, then height), ties
// broken by name.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Profile) int {
		if c := phash.CompareConfig(a.Config, b.Config); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Names lists profile names in All order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}
