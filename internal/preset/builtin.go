package preset

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func unit() []float64 { return []float64{0, 1} }

func fractal(t string) FractalConfig { return FractalConfig{Type: t} }

var builtins = map[string]Preset{
	"terrain": {
		Description: "fbm over gradient noise",
		Kind:        KindFractal,
		Fractal:     FractalConfig{Type: "fbm", Octaves: intp(8)},
		AutoCorrect: unit(),
	},
	"ridges": {
		Description: "ridged multifractal",
		Kind:        KindFractal,
		Fractal:     fractal("ridged"),
		AutoCorrect: unit(),
	},
	"billow": {
		Description: "billowing cloud layers",
		Kind:        KindFractal,
		Fractal:     fractal("billow"),
		AutoCorrect: unit(),
	},
	"swiss": {
		Description: "eroded ridges with derivative warping",
		Kind:        KindFractal,
		Fractal:     FractalConfig{Type: "swiss", Octaves: intp(8), Frequency: floatp(1.5)},
		AutoCorrect: unit(),
	},
	"multi": {
		Description: "multiplicative cascade over simplex noise",
		Kind:        KindFractal,
		Fractal:     FractalConfig{Type: "multi", Basis: "simplex"},
		AutoCorrect: unit(),
	},
	"hybrid": {
		Description: "hybrid multifractal over cubic value noise",
		Kind:        KindFractal,
		Fractal:     FractalConfig{Type: "hybrid", Basis: "value", Interp: "cubic"},
		AutoCorrect: unit(),
	},
	"worley": {
		Description: "distance to the nearest feature point",
		Kind:        KindCellular,
		Cellular:    CellularConfig{Coefficients: []float64{1, 0, 0, 0}},
		ScaleDomain: []float64{4, 4, 4, 4, 4, 4},
		AutoCorrect: unit(),
	},
	"crackle": {
		Description: "cell borders, F2 minus F1",
		Kind:        KindCellular,
		Cellular:    CellularConfig{Coefficients: []float64{-1, 1, 0, 0}},
		ScaleDomain: []float64{4, 4, 4, 4, 4, 4},
		AutoCorrect: unit(),
	},
	"perlin": {
		Description: "classic Perlin noise",
		Kind:        KindPerlin,
		Perlin:      PerlinConfig{Alpha: 2, Beta: 2, Octaves: 3},
		AutoCorrect: unit(),
	},
	"opensimplex": {
		Description: "OpenSimplex noise",
		Kind:        KindOpenSimplex,
		ScaleDomain: []float64{3, 3, 3, 3, 3, 3},
		AutoCorrect: unit(),
	},
}

// Builtin returns the built-in preset called name.
func Builtin(name string) (Preset, bool) {
	p, ok := builtins[name]
	return p, ok
}

// Set is the built-in presets overlaid with presets from configuration.
type Set struct {
	custom map[string]Preset
}

// Load reads presets from the given key of v. A missing key yields only
// the built-ins; each loaded preset is validated. Viper lower-cases map
// keys, so configured names are lower case.
func Load(v *viper.Viper, key string) (*Set, error) {
	s := &Set{custom: map[string]Preset{}}
	if !v.IsSet(key) {
		return s, nil
	}
	if err := v.UnmarshalKey(key, &s.custom); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	for name, p := range s.custom {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return s, nil
}

// Get looks a name up in the configured presets first, then the built-ins.
func (s *Set) Get(name string) (Preset, error) {
	if s != nil {
		if p, ok := s.custom[name]; ok {
			return p, nil
		}
	}
	if p, ok := builtins[name]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

// Names lists every available preset, sorted.
func (s *Set) Names() []string {
	seen := make(map[string]bool, len(builtins))
	for n := range builtins {
		seen[n] = true
	}
	if s != nil {
		for n := range s.custom {
			seen[n] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsCustom reports whether name comes from configuration.
func (s *Set) IsCustom(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.custom[name]
	return ok
}
