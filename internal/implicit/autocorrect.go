package implicit

import "github.com/MeKo-Tech/noisegraph/internal/prng"

const autoCorrectSamples = 10000

// AutoCorrect remaps a source to [low, high] using the range observed
// over 10000 random samples in [-2, 2] per dimensionality. The mapping is
// computed when the source or range is set; later changes inside the
// source are not picked up until Calculate is called again.
type AutoCorrect struct {
	Base

	source    Module
	low, high float64
	sampler   func() prng.PRNG

	scale, offset [4]float64
}

// AutoCorrectOption configures an AutoCorrect.
type AutoCorrectOption func(*AutoCorrect)

// WithSampler replaces the LCG(10000) used to draw sample points. The
// factory is called once per Calculate.
func WithSampler(factory func() prng.PRNG) AutoCorrectOption {
	return func(a *AutoCorrect) {
		a.sampler = factory
	}
}

// NewAutoCorrect returns an AutoCorrect targeting [-1, 1] with no source.
func NewAutoCorrect(opts ...AutoCorrectOption) *AutoCorrect {
	return NewAutoCorrectRange(nil, -1, 1, opts...)
}

// NewAutoCorrectSource corrects src to [-1, 1].
func NewAutoCorrectSource(src Module, opts ...AutoCorrectOption) *AutoCorrect {
	return NewAutoCorrectRange(src, -1, 1, opts...)
}

func NewAutoCorrectRange(src Module, low, high float64, opts ...AutoCorrectOption) *AutoCorrect {
	a := &AutoCorrect{
		low:  low,
		high: high,
		sampler: func() prng.PRNG {
			return prng.NewLCG()
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.source = src
	a.Calculate()
	return a
}

func (a *AutoCorrect) SetSource(src Module) {
	a.source = src
	a.Calculate()
}

func (a *AutoCorrect) Source() Module { return a.source }

func (a *AutoCorrect) SetRange(low, high float64) {
	a.low, a.high = low, high
	a.Calculate()
}

func (a *AutoCorrect) Range() (low, high float64) { return a.low, a.high }

// Correction returns the (scale, offset) for a dimensionality.
func (a *AutoCorrect) Correction(dims int) (scale, offset float64) {
	i := dimIndex(dims)
	return a.scale[i], a.offset[i]
}

// Calculate samples the source and derives the linear mapping for every
// dimensionality. It does nothing without a source.
func (a *AutoCorrect) Calculate() {
	if a.source == nil {
		return
	}
	rng := a.sampler()
	for i, dims := range []int{2, 3, 4, 6} {
		lo, hi := 10000.0, -10000.0
		for s := 0; s < autoCorrectSamples; s++ {
			var p point
			p.n = dims
			for k := 0; k < dims; k++ {
				p.c[k] = prng.Get01(rng)*4 - 2
			}
			v := p.eval(a.source)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		a.scale[i] = (a.high - a.low) / (hi - lo)
		a.offset[i] = a.low - lo*a.scale[i]
	}
}

func (a *AutoCorrect) get(p point) float64 {
	if a.source == nil {
		return 0
	}
	i := dimIndex(p.n)
	v := p.eval(a.source)*a.scale[i] + a.offset[i]
	return clamp(v, a.low, a.high)
}

func (a *AutoCorrect) Get2D(x, y float64) float64 { return a.get(newPoint(x, y)) }

func (a *AutoCorrect) Get3D(x, y, z float64) float64 { return a.get(newPoint(x, y, z)) }

func (a *AutoCorrect) Get4D(x, y, z, w float64) float64 { return a.get(newPoint(x, y, z, w)) }

func (a *AutoCorrect) Get6D(x, y, z, w, u, v float64) float64 {
	return a.get(newPoint(x, y, z, w, u, v))
}
