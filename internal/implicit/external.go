package implicit

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Axes beyond what a backend supports are folded into its last axis with
// these irrational weights so every input coordinate still matters.
const (
	foldW = 0.7548776662
	foldU = 0.5698402910
	foldV = 0.4301597090
)

// Perlin wraps aquilax/go-perlin, which sums n octaves of classic Perlin
// noise internally. Alpha is the amplitude divisor and beta the frequency
// multiplier between those octaves.
type Perlin struct {
	Base

	alpha, beta float64
	octaves     int32
	seed        uint32
	p           *perlin.Perlin
}

func NewPerlin(alpha, beta float64, octaves int32) *Perlin {
	m := &Perlin{alpha: alpha, beta: beta, octaves: octaves}
	m.SetSeed(defaultBasisSeed)
	return m
}

func (m *Perlin) SetSeed(seed uint32) {
	m.seed = seed
	m.p = perlin.NewPerlin(m.alpha, m.beta, m.octaves, int64(seed))
}

func (m *Perlin) Seed() uint32 { return m.seed }

func (m *Perlin) Get2D(x, y float64) float64 { return m.p.Noise2D(x, y) }

func (m *Perlin) Get3D(x, y, z float64) float64 { return m.p.Noise3D(x, y, z) }

func (m *Perlin) Get4D(x, y, z, w float64) float64 {
	return m.p.Noise3D(x, y, z+w*foldW)
}

func (m *Perlin) Get6D(x, y, z, w, u, v float64) float64 {
	return m.p.Noise3D(x+u*foldU, y+v*foldV, z+w*foldW)
}

// OpenSimplex wraps ojrac/opensimplex-go, which has 2D to 4D kernels.
type OpenSimplex struct {
	Base

	seed  uint32
	noise opensimplex.Noise
}

func NewOpenSimplex() *OpenSimplex {
	m := &OpenSimplex{}
	m.SetSeed(defaultBasisSeed)
	return m
}

func (m *OpenSimplex) SetSeed(seed uint32) {
	m.seed = seed
	m.noise = opensimplex.New(int64(seed))
}

func (m *OpenSimplex) Seed() uint32 { return m.seed }

func (m *OpenSimplex) Get2D(x, y float64) float64 { return m.noise.Eval2(x, y) }

func (m *OpenSimplex) Get3D(x, y, z float64) float64 { return m.noise.Eval3(x, y, z) }

func (m *OpenSimplex) Get4D(x, y, z, w float64) float64 { return m.noise.Eval4(x, y, z, w) }

func (m *OpenSimplex) Get6D(x, y, z, w, u, v float64) float64 {
	return m.noise.Eval4(x+u*foldU, y+v*foldV, z, w)
}
