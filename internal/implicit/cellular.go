package implicit

import "github.com/MeKo-Tech/noisegraph/internal/kernel"

// CellularCache is the last cellular result for one dimensionality.
type CellularCache struct {
	F [4]float64
	D [4]float64

	coords [6]float64
	valid  bool
}

func (c *CellularCache) hit(p point) bool {
	if !c.valid {
		return false
	}
	for i := 0; i < p.n; i++ {
		if c.coords[i] != p.c[i] {
			return false
		}
	}
	return true
}

// CellularGenerator evaluates a cellular kernel and remembers the last
// query per dimensionality, so several Cellular modules sharing one
// generator at the same point cost a single kernel call.
type CellularGenerator struct {
	seed   uint32
	kernel kernel.CellularKernel

	cache2, cache3, cache4, cache6 CellularCache
}

// NewCellularGenerator returns a generator backed by the Worley kernel.
func NewCellularGenerator() *CellularGenerator {
	return NewCellularGeneratorWithKernel(kernel.Worley{})
}

func NewCellularGeneratorWithKernel(k kernel.CellularKernel) *CellularGenerator {
	return &CellularGenerator{kernel: k}
}

// SetSeed changes the seed and invalidates every cache slot.
func (g *CellularGenerator) SetSeed(seed uint32) {
	g.seed = seed
	g.cache2.valid = false
	g.cache3.valid = false
	g.cache4.valid = false
	g.cache6.valid = false
}

func (g *CellularGenerator) Seed() uint32 { return g.seed }

// Get2D returns the cached distances for (x, y), computing them on a miss.
// The returned cache is overwritten by the next miss.
func (g *CellularGenerator) Get2D(x, y float64) *CellularCache {
	p := newPoint(x, y)
	c := &g.cache2
	if !c.hit(p) {
		g.kernel.Cellular2D(x, y, g.seed, &c.F, &c.D)
		c.store(p)
	}
	return c
}

func (g *CellularGenerator) Get3D(x, y, z float64) *CellularCache {
	p := newPoint(x, y, z)
	c := &g.cache3
	if !c.hit(p) {
		g.kernel.Cellular3D(x, y, z, g.seed, &c.F, &c.D)
		c.store(p)
	}
	return c
}

func (g *CellularGenerator) Get4D(x, y, z, w float64) *CellularCache {
	p := newPoint(x, y, z, w)
	c := &g.cache4
	if !c.hit(p) {
		g.kernel.Cellular4D(x, y, z, w, g.seed, &c.F, &c.D)
		c.store(p)
	}
	return c
}

func (g *CellularGenerator) Get6D(x, y, z, w, u, v float64) *CellularCache {
	p := newPoint(x, y, z, w, u, v)
	c := &g.cache6
	if !c.hit(p) {
		g.kernel.Cellular6D(x, y, z, w, u, v, g.seed, &c.F, &c.D)
		c.store(p)
	}
	return c
}

func (c *CellularCache) store(p point) {
	c.coords = p.c
	c.valid = true
}

// Cellular combines the four nearest feature distances of a generator as
// a weighted sum. Coefficients (1, 0, 0, 0) give plain F1 noise;
// (-1, 1, 0, 0) gives the crackle pattern F2 - F1.
type Cellular struct {
	Base

	generator    *CellularGenerator
	coefficients [4]float64
}

func NewCellular() *Cellular {
	return &Cellular{coefficients: [4]float64{1, 0, 0, 0}}
}

func NewCellularWithCoefficients(a, b, c, d float64) *Cellular {
	return &Cellular{coefficients: [4]float64{a, b, c, d}}
}

func (m *Cellular) SetCoefficients(a, b, c, d float64) {
	m.coefficients = [4]float64{a, b, c, d}
}

func (m *Cellular) Coefficients() [4]float64 { return m.coefficients }

// SetGenerator attaches a generator, which may be shared.
func (m *Cellular) SetGenerator(g *CellularGenerator) { m.generator = g }

func (m *Cellular) Generator() *CellularGenerator { return m.generator }

// SetSeed reseeds the attached generator.
func (m *Cellular) SetSeed(seed uint32) {
	if m.generator != nil {
		m.generator.SetSeed(seed)
	}
}

func (m *Cellular) combine(c *CellularCache) float64 {
	k := &m.coefficients
	return c.F[0]*k[0] + c.F[1]*k[1] + c.F[2]*k[2] + c.F[3]*k[3]
}

func (m *Cellular) Get2D(x, y float64) float64 {
	if m.generator == nil {
		return 0
	}
	return m.combine(m.generator.Get2D(x, y))
}

func (m *Cellular) Get3D(x, y, z float64) float64 {
	if m.generator == nil {
		return 0
	}
	return m.combine(m.generator.Get3D(x, y, z))
}

func (m *Cellular) Get4D(x, y, z, w float64) float64 {
	if m.generator == nil {
		return 0
	}
	return m.combine(m.generator.Get4D(x, y, z, w))
}

func (m *Cellular) Get6D(x, y, z, w, u, v float64) float64 {
	if m.generator == nil {
		return 0
	}
	return m.combine(m.generator.Get6D(x, y, z, w, u, v))
}
