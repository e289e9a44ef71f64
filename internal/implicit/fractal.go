package implicit

import (
	"fmt"
	"math"
)

// MaxSources is the number of octave slots of a Fractal.
const MaxSources = 20

// FractalType selects the octave combination algorithm.
type FractalType int

const (
	FBM FractalType = iota
	RidgedMulti
	Billow
	Multi
	HybridMulti
	DecarpentierSwiss
)

var fractalNames = map[FractalType]string{
	FBM:               "fbm",
	RidgedMulti:       "ridged",
	Billow:            "billow",
	Multi:             "multi",
	HybridMulti:       "hybrid",
	DecarpentierSwiss: "swiss",
}

func (t FractalType) String() string {
	if s, ok := fractalNames[t]; ok {
		return s
	}
	return fmt.Sprintf("FractalType(%d)", int(t))
}

func ParseFractalType(s string) (FractalType, error) {
	for t, name := range fractalNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown fractal type %q", s)
}

// fractalDefaults are the H, gain and offset each type starts with.
var fractalDefaults = map[FractalType][3]float64{
	FBM:               {1, 0.5, 0},
	RidgedMulti:       {0.9, 0.5, 1},
	Billow:            {1, 0.5, 0},
	Multi:             {1, 0, 0},
	HybridMulti:       {0.25, 1, 0.7},
	DecarpentierSwiss: {0.9, 0.6, 0.15},
}

// Fractal layers up to MaxSources octaves. Every slot owns a basis
// function; a slot may be overridden by any module or emptied with nil.
type Fractal struct {
	Base

	ftype  FractalType
	basis  [MaxSources]*BasisFunction
	source [MaxSources]Module

	exparray [MaxSources]float64
	correct  [MaxSources][2]float64

	h, gain, offset       float64
	frequency, lacunarity float64
	numOctaves            int
}

// NewFractal returns an 8 octave fractal with frequency 1 and lacunarity 2
// whose slots all use the given basis and interpolation.
func NewFractal(ftype FractalType, basis BasisType, interp InterpType) *Fractal {
	f := &Fractal{
		numOctaves: 8,
		frequency:  1,
		lacunarity: 2,
	}
	for i := range f.basis {
		f.basis[i] = NewBasisFunction(basis, interp)
	}
	f.ResetAllSources()
	f.SetType(ftype)
	return f
}

// SetType applies the type's default H, gain and offset and recomputes
// the octave weights.
func (f *Fractal) SetType(t FractalType) {
	d, ok := fractalDefaults[t]
	if !ok {
		t, d = FBM, fractalDefaults[FBM]
	}
	f.ftype = t
	f.h, f.gain, f.offset = d[0], d[1], d[2]
	f.CalcWeights()
}

func (f *Fractal) Type() FractalType { return f.ftype }

// SetNumOctaves clamps n to MaxSources.
func (f *Fractal) SetNumOctaves(n int) {
	if n > MaxSources {
		n = MaxSources
	}
	if n < 0 {
		n = 0
	}
	f.numOctaves = n
}

func (f *Fractal) NumOctaves() int { return f.numOctaves }

func (f *Fractal) SetFrequency(v float64) { f.frequency = v }

// The following setters do not recompute weights; call CalcWeights
// afterwards when H, gain, offset or lacunarity change.

func (f *Fractal) SetLacunarity(v float64) { f.lacunarity = v }
func (f *Fractal) SetGain(v float64)       { f.gain = v }
func (f *Fractal) SetOffset(v float64)     { f.offset = v }
func (f *Fractal) SetH(v float64)          { f.h = v }

func (f *Fractal) Frequency() float64  { return f.frequency }
func (f *Fractal) Lacunarity() float64 { return f.lacunarity }
func (f *Fractal) Gain() float64       { return f.gain }
func (f *Fractal) Offset() float64     { return f.offset }
func (f *Fractal) H() float64          { return f.h }

// SetAllSourceTypes reconfigures every owned basis function.
func (f *Fractal) SetAllSourceTypes(basis BasisType, interp InterpType) {
	for _, b := range f.basis {
		b.SetType(basis)
		b.SetInterp(interp)
	}
}

func (f *Fractal) SetSourceType(which int, basis BasisType, interp InterpType) {
	if which < 0 || which >= MaxSources {
		return
	}
	f.basis[which].SetType(basis)
	f.basis[which].SetInterp(interp)
}

// OverrideSource replaces slot which with m. A nil m empties the slot.
func (f *Fractal) OverrideSource(which int, m Module) {
	if which < 0 || which >= MaxSources {
		return
	}
	f.source[which] = m
}

// ResetSource restores the owned basis function to slot which.
func (f *Fractal) ResetSource(which int) {
	if which < 0 || which >= MaxSources {
		return
	}
	f.source[which] = f.basis[which]
}

func (f *Fractal) ResetAllSources() {
	for i := range f.source {
		f.source[i] = f.basis[i]
	}
}

// Basis returns the owned basis function of slot which, or nil when out
// of range.
func (f *Fractal) Basis(which int) *BasisFunction {
	if which < 0 || which >= MaxSources {
		return nil
	}
	return f.basis[which]
}

// Source returns the module currently in slot which.
func (f *Fractal) Source(which int) Module {
	if which < 0 || which >= MaxSources {
		return nil
	}
	return f.source[which]
}

// SetSeed seeds slot i with seed + 300*i.
func (f *Fractal) SetSeed(seed uint32) {
	for i, s := range f.source {
		if s != nil {
			s.SetSeed(seed + uint32(i)*300)
		}
	}
}

// Weights returns the per-octave amplitude table and the per-octave
// (scale, offset) normalisation pairs.
func (f *Fractal) Weights() (exparray [MaxSources]float64, correct [MaxSources][2]float64) {
	return f.exparray, f.correct
}

// CalcWeights recomputes the octave weights for the current type and
// parameters. Each correct[i] maps the theoretical range of the signal
// accumulated through octave i onto [-1, 1].
func (f *Fractal) CalcWeights() {
	for i := range f.exparray {
		f.exparray[i] = math.Pow(f.lacunarity, -float64(i)*f.h)
	}

	switch f.ftype {
	case FBM, Billow:
		var lo, hi float64
		for i, e := range f.exparray {
			lo -= e
			hi += e
			f.setCorrect(i, lo, hi)
		}
	case RidgedMulti, DecarpentierSwiss:
		var lo, hi float64
		for i, e := range f.exparray {
			lo += (f.offset - 1) * (f.offset - 1) * e
			hi += f.offset * f.offset * e
			f.setCorrect(i, lo, hi)
		}
	case Multi:
		lo, hi := 1.0, 1.0
		for i, e := range f.exparray {
			lo *= -e + 1
			hi *= e + 1
			f.setCorrect(i, lo, hi)
		}
	case HybridMulti:
		lo := f.offset - 1
		hi := f.offset + 1
		wlo := f.gain * lo
		whi := f.gain * hi
		f.setCorrect(0, lo, hi)
		for i := 1; i < MaxSources; i++ {
			wlo = math.Min(wlo, 1)
			whi = math.Min(whi, 1)

			signal := (f.offset - 1) * f.exparray[i]
			lo += signal * wlo
			wlo *= f.gain * signal

			signal = (f.offset + 1) * f.exparray[i]
			hi += signal * whi
			whi *= f.gain * signal

			f.setCorrect(i, lo, hi)
		}
	}
}

func (f *Fractal) setCorrect(i int, lo, hi float64) {
	const a, b = -1.0, 1.0
	scale := (b - a) / (hi - lo)
	f.correct[i] = [2]float64{scale, a - lo*scale}
}

// normalize applies the correction of the last active octave. With no
// octaves the result is NaN.
func (f *Fractal) normalize(v float64) float64 {
	if f.numOctaves == 0 {
		return math.NaN()
	}
	c := f.correct[f.numOctaves-1]
	return v*c[0] + c[1]
}

func (f *Fractal) Get2D(x, y float64) float64 { return f.get(newPoint(x, y)) }

func (f *Fractal) Get3D(x, y, z float64) float64 { return f.get(newPoint(x, y, z)) }

func (f *Fractal) Get4D(x, y, z, w float64) float64 { return f.get(newPoint(x, y, z, w)) }

func (f *Fractal) Get6D(x, y, z, w, u, v float64) float64 {
	return f.get(newPoint(x, y, z, w, u, v))
}

func (f *Fractal) get(p point) float64 {
	p.scale(f.frequency)
	switch f.ftype {
	case RidgedMulti:
		return f.ridgedMulti(p)
	case Billow:
		return f.billow(p)
	case Multi:
		return f.multi(p)
	case HybridMulti:
		return f.hybridMulti(p)
	case DecarpentierSwiss:
		return f.swiss(p)
	default:
		return f.fbm(p)
	}
}

// Each algorithm advances the coordinates by lacunarity only after an
// octave that has a source; empty slots are skipped without scaling.

func (f *Fractal) fbm(p point) float64 {
	var sum float64
	amp := 1.0
	for i := 0; i < f.numOctaves; i++ {
		src := f.source[i]
		if src == nil {
			continue
		}
		sum += p.eval(src) * amp
		amp *= f.gain
		p.scale(f.lacunarity)
	}
	return sum
}

func (f *Fractal) billow(p point) float64 {
	var sum float64
	amp := 1.0
	for i := 0; i < f.numOctaves; i++ {
		src := f.source[i]
		if src == nil {
			continue
		}
		n := p.eval(src)
		sum += (2*math.Abs(n) - 1) * amp
		amp *= f.gain
		p.scale(f.lacunarity)
	}
	return sum
}

func (f *Fractal) ridgedMulti(p point) float64 {
	var result float64
	for i := 0; i < f.numOctaves; i++ {
		src := f.source[i]
		if src == nil {
			continue
		}
		signal := f.offset - math.Abs(p.eval(src))
		result += signal * signal * f.exparray[i]
		p.scale(f.lacunarity)
	}
	return f.normalize(result)
}

func (f *Fractal) multi(p point) float64 {
	value := 1.0
	for i := 0; i < f.numOctaves; i++ {
		src := f.source[i]
		if src == nil {
			continue
		}
		value *= p.eval(src)*f.exparray[i] + 1
		p.scale(f.lacunarity)
	}
	return f.normalize(value)
}

func (f *Fractal) hybridMulti(p point) float64 {
	value := 1.0
	if src := f.source[0]; src != nil && f.numOctaves > 0 {
		value = p.eval(src) + f.offset
		weight := f.gain * value
		p.scale(f.lacunarity)

		for i := 1; i < f.numOctaves; i++ {
			weight = math.Min(weight, 1)
			src := f.source[i]
			if src == nil {
				continue
			}
			signal := (p.eval(src) + f.offset) * f.exparray[i]
			value += weight * signal
			weight *= f.gain * signal
			p.scale(f.lacunarity)
		}
	}
	return f.normalize(value)
}

// swiss warps each octave's sample point by the derivative-weighted sum
// of the previous octaves and damps the amplitude by the running sum.
func (f *Fractal) swiss(p point) float64 {
	var (
		sum  float64
		dsum [6]float64
	)
	amp := 1.0
	for i := 0; i < f.numOctaves; i++ {
		src := f.source[i]
		if src == nil {
			continue
		}
		q := p
		for k := 0; k < p.n; k++ {
			q.c[k] += f.offset * dsum[k]
		}
		n := q.eval(src)
		sum += amp * (1 - math.Abs(n))
		for k := 0; k < p.n; k++ {
			dsum[k] += amp * derive(src, Axis(k), q) * -n
		}
		amp *= f.gain * clamp(sum, 0, 1)
		p.scale(f.lacunarity)
	}
	return sum
}
