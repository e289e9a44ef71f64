// Package preset turns declarative noise descriptions, built in or read
// from the config file, into seeded module graphs.
package preset

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/noisegraph/internal/implicit"
	"github.com/MeKo-Tech/noisegraph/internal/prng"
)

const (
	KindFractal     = "fractal"
	KindCellular    = "cellular"
	KindPerlin      = "perlin"
	KindOpenSimplex = "opensimplex"
	KindGradient    = "gradient"
)

var ErrInvalid = errors.New("invalid preset")

// FractalConfig overrides the defaults of a fractal type. Nil fields keep
// the type's defaults.
type FractalConfig struct {
	Type       string   `mapstructure:"type"`
	Basis      string   `mapstructure:"basis"`
	Interp     string   `mapstructure:"interp"`
	Octaves    *int     `mapstructure:"octaves"`
	Frequency  *float64 `mapstructure:"frequency"`
	Lacunarity *float64 `mapstructure:"lacunarity"`
	Gain       *float64 `mapstructure:"gain"`
	H          *float64 `mapstructure:"h"`
	Offset     *float64 `mapstructure:"offset"`
}

type CellularConfig struct {
	Coefficients []float64 `mapstructure:"coefficients"`
}

type PerlinConfig struct {
	Alpha   float64 `mapstructure:"alpha"`
	Beta    float64 `mapstructure:"beta"`
	Octaves int32   `mapstructure:"octaves"`
}

type GradientConfig struct {
	From []float64 `mapstructure:"from"`
	To   []float64 `mapstructure:"to"`
}

// SelectConfig thresholds the chain so far between two constants.
type SelectConfig struct {
	Low       float64 `mapstructure:"low"`
	High      float64 `mapstructure:"high"`
	Threshold float64 `mapstructure:"threshold"`
	Falloff   float64 `mapstructure:"falloff"`
}

// RotateConfig turns the domain by Angle whole turns about Axis. An empty
// axis means z.
type RotateConfig struct {
	Axis  []float64 `mapstructure:"axis"`
	Angle float64   `mapstructure:"angle"`
}

// TiersConfig terraces the chain so far into Count levels.
type TiersConfig struct {
	Count  int  `mapstructure:"count"`
	Smooth bool `mapstructure:"smooth"`
}

// Preset describes one graph: a base generator followed by optional
// post stages applied in field order.
type Preset struct {
	Description string         `mapstructure:"description"`
	Kind        string         `mapstructure:"kind"`
	Seed        uint32         `mapstructure:"seed"`
	Fractal     FractalConfig  `mapstructure:"fractal"`
	Cellular    CellularConfig `mapstructure:"cellular"`
	Perlin      PerlinConfig   `mapstructure:"perlin"`
	Gradient    GradientConfig `mapstructure:"gradient"`

	ScaleDomain []float64     `mapstructure:"scale_domain"`
	Rotate      *RotateConfig `mapstructure:"rotate"`
	AutoCorrect []float64     `mapstructure:"autocorrect"`
	Tiers       *TiersConfig  `mapstructure:"tiers"`
	Select      *SelectConfig `mapstructure:"select"`
	Clamp       []float64     `mapstructure:"clamp"`
}

// Validate checks names and ranges without building anything.
func (p Preset) Validate() error {
	switch p.Kind {
	case KindFractal:
		if _, err := implicit.ParseFractalType(p.Fractal.Type); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if p.Fractal.Basis != "" {
			if _, err := implicit.ParseBasisType(p.Fractal.Basis); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalid, err)
			}
		}
		if p.Fractal.Interp != "" {
			if _, err := implicit.ParseInterpType(p.Fractal.Interp); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalid, err)
			}
		}
		if o := p.Fractal.Octaves; o != nil && (*o < 1 || *o > implicit.MaxSources) {
			return fmt.Errorf("%w: octaves %d outside [1, %d]", ErrInvalid, *o, implicit.MaxSources)
		}
	case KindCellular:
		if len(p.Cellular.Coefficients) > 4 {
			return fmt.Errorf("%w: at most 4 cellular coefficients, got %d", ErrInvalid, len(p.Cellular.Coefficients))
		}
	case KindPerlin:
		if p.Perlin.Octaves < 1 {
			return fmt.Errorf("%w: perlin octaves must be positive", ErrInvalid)
		}
	case KindOpenSimplex:
	case KindGradient:
		if len(p.Gradient.From) > 6 || len(p.Gradient.To) > 6 {
			return fmt.Errorf("%w: gradient end points have at most 6 axes", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalid, p.Kind)
	}

	if len(p.ScaleDomain) > 6 {
		return fmt.Errorf("%w: scale_domain has at most 6 axes", ErrInvalid)
	}
	if p.Rotate != nil && len(p.Rotate.Axis) > 3 {
		return fmt.Errorf("%w: rotate axis has at most 3 components", ErrInvalid)
	}
	if err := checkRange("autocorrect", p.AutoCorrect); err != nil {
		return err
	}
	if err := checkRange("clamp", p.Clamp); err != nil {
		return err
	}
	if p.Tiers != nil && p.Tiers.Count < 1 {
		return fmt.Errorf("%w: tiers count must be positive", ErrInvalid)
	}
	if p.Select != nil && p.Select.Falloff < 0 {
		return fmt.Errorf("%w: select falloff must not be negative", ErrInvalid)
	}
	return nil
}

func checkRange(name string, r []float64) error {
	if r == nil {
		return nil
	}
	if len(r) != 2 {
		return fmt.Errorf("%w: %s needs [low, high], got %d values", ErrInvalid, name, len(r))
	}
	if r[0] >= r[1] {
		return fmt.Errorf("%w: %s low %g must be below high %g", ErrInvalid, name, r[0], r[1])
	}
	return nil
}

// Build validates p and returns the root of a freshly seeded graph. Every
// call returns an independent graph, so each goroutine should build its
// own.
func (p Preset) Build() (implicit.Module, error) {
	g, err := p.BuildGraph()
	if err != nil {
		return nil, err
	}
	return g.Root(), nil
}

// BuildGraph is Build but returns the whole graph.
func (p Preset) BuildGraph() (*implicit.Graph, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := implicit.NewGraph()
	base, err := p.addBase(g)
	if err != nil {
		return nil, err
	}
	top := base

	// post stages wrap the current top node
	stage := func(m implicit.Module, slot string) error {
		id := g.Add(m)
		if err := g.Link(id, implicit.Slot{Name: slot}, top); err != nil {
			return fmt.Errorf("link %T: %w", m, err)
		}
		top = id
		return nil
	}

	if len(p.ScaleDomain) > 0 {
		var s [6]float64
		for i := range s {
			s[i] = 1
		}
		copy(s[:], p.ScaleDomain)
		sd := implicit.NewScaleDomain(implicit.Value(0), s[0], s[1], s[2], s[3], s[4], s[5])
		if err := stage(sd, implicit.SlotSource); err != nil {
			return nil, err
		}
	}
	if r := p.Rotate; r != nil {
		axis := [3]float64{0, 0, 1}
		if len(r.Axis) > 0 {
			axis = [3]float64{}
			copy(axis[:], r.Axis)
		}
		rd := implicit.NewRotateDomain(implicit.Value(0), axis[0], axis[1], axis[2], r.Angle)
		if err := stage(rd, implicit.SlotSource); err != nil {
			return nil, err
		}
	}
	if p.AutoCorrect != nil {
		ac := implicit.NewAutoCorrectRange(nil, p.AutoCorrect[0], p.AutoCorrect[1])
		if err := stage(ac, implicit.SlotSource); err != nil {
			return nil, err
		}
	}
	if p.Tiers != nil {
		if err := stage(implicit.NewTiers(implicit.Value(0), p.Tiers.Count, p.Tiers.Smooth), implicit.SlotSource); err != nil {
			return nil, err
		}
	}
	if p.Select != nil {
		sel := implicit.NewSelect()
		sel.SetLow(implicit.Value(p.Select.Low))
		sel.SetHigh(implicit.Value(p.Select.High))
		sel.SetThreshold(implicit.Value(p.Select.Threshold))
		sel.SetFalloff(implicit.Value(p.Select.Falloff))
		if err := stage(sel, implicit.SlotControl); err != nil {
			return nil, err
		}
	}
	if p.Clamp != nil {
		if err := stage(implicit.NewClamp(implicit.Value(0), p.Clamp[0], p.Clamp[1]), implicit.SlotSource); err != nil {
			return nil, err
		}
	}

	if err := g.SetRoot(top); err != nil {
		return nil, err
	}
	rng := prng.NewKISS()
	rng.SetSeed(p.Seed)
	g.Seed(rng)
	return g, nil
}

func (p Preset) addBase(g *implicit.Graph) (implicit.NodeID, error) {
	switch p.Kind {
	case KindFractal:
		return g.Add(p.fractal()), nil
	case KindCellular:
		c := implicit.NewCellular()
		var coef [4]float64
		copy(coef[:], p.Cellular.Coefficients)
		if len(p.Cellular.Coefficients) == 0 {
			coef[0] = 1
		}
		c.SetCoefficients(coef[0], coef[1], coef[2], coef[3])
		c.SetGenerator(implicit.NewCellularGenerator())
		return g.Add(c), nil
	case KindPerlin:
		return g.Add(implicit.NewPerlin(p.Perlin.Alpha, p.Perlin.Beta, p.Perlin.Octaves)), nil
	case KindOpenSimplex:
		return g.Add(implicit.NewOpenSimplex()), nil
	case KindGradient:
		var from, to [6]float64
		copy(from[:], p.Gradient.From)
		copy(to[:], p.Gradient.To)
		gr := implicit.NewGradient()
		if p.Gradient.From != nil || p.Gradient.To != nil {
			gr.SetGradient(from, to)
		}
		return g.Add(gr), nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalid, p.Kind)
}

// fractal assumes Validate has passed.
func (p Preset) fractal() *implicit.Fractal {
	fc := p.Fractal
	ft, _ := implicit.ParseFractalType(fc.Type)
	basis := implicit.BasisGradient
	if fc.Basis != "" {
		basis, _ = implicit.ParseBasisType(fc.Basis)
	}
	interp := implicit.InterpQuintic
	if fc.Interp != "" {
		interp, _ = implicit.ParseInterpType(fc.Interp)
	}

	f := implicit.NewFractal(ft, basis, interp)
	if fc.Octaves != nil {
		f.SetNumOctaves(*fc.Octaves)
	}
	if fc.Frequency != nil {
		f.SetFrequency(*fc.Frequency)
	}
	if fc.Lacunarity != nil {
		f.SetLacunarity(*fc.Lacunarity)
	}
	if fc.Gain != nil {
		f.SetGain(*fc.Gain)
	}
	if fc.H != nil {
		f.SetH(*fc.H)
	}
	if fc.Offset != nil {
		f.SetOffset(*fc.Offset)
	}
	// lacunarity, gain, H and offset do not recalculate on their own
	f.CalcWeights()
	return f
}
