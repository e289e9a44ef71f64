// Package implicit is a composable noise-module engine. Every module is a
// scalar field that can be sampled at 2, 3, 4 or 6 dimensional points;
// modules feed each other through the Module interface to form a graph.
//
// Modules keep small mutable caches and are not safe for concurrent use.
// Build one graph per goroutine.
package implicit

// DefaultSpacing is the finite-difference step used for derivatives.
const DefaultSpacing = 0.0001

// Module is a scalar field over 2, 3, 4 and 6 dimensional points.
type Module interface {
	Get2D(x, y float64) float64
	Get3D(x, y, z float64) float64
	Get4D(x, y, z, w float64) float64
	Get6D(x, y, z, w, u, v float64) float64

	Spacing() float64
	SetSpacing(s float64)
	SetSeed(seed uint32)
}

// Base carries the state every module shares. Embed it to get a default
// derivative spacing and a no-op SetSeed.
type Base struct {
	spacing float64
	spaced  bool
}

func (b *Base) Spacing() float64 {
	if !b.spaced {
		return DefaultSpacing
	}
	return b.spacing
}

func (b *Base) SetSpacing(s float64) {
	b.spacing = s
	b.spaced = true
}

func (b *Base) SetSeed(uint32) {}

// Axis selects the coordinate a derivative is taken along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisW
	AxisU
	AxisV
)

// Differentiable is implemented by modules with an analytic derivative.
// Deriv receives the point in p[:dims].
type Differentiable interface {
	Deriv(axis Axis, p []float64) float64
}

// Deriv2D estimates the derivative of m along axis at (x, y) by a central
// difference of width m.Spacing(). The sign follows f(p-s) - f(p+s).
func Deriv2D(m Module, axis Axis, x, y float64) float64 {
	return derive(m, axis, newPoint(x, y))
}

func Deriv3D(m Module, axis Axis, x, y, z float64) float64 {
	return derive(m, axis, newPoint(x, y, z))
}

func Deriv4D(m Module, axis Axis, x, y, z, w float64) float64 {
	return derive(m, axis, newPoint(x, y, z, w))
}

func Deriv6D(m Module, axis Axis, x, y, z, w, u, v float64) float64 {
	return derive(m, axis, newPoint(x, y, z, w, u, v))
}

func derive(m Module, axis Axis, p point) float64 {
	return deriveStep(m, axis, p, m.Spacing())
}

// deriveStep is derive with an explicit difference width s.
func deriveStep(m Module, axis Axis, p point, s float64) float64 {
	if d, ok := m.(Differentiable); ok {
		return d.Deriv(axis, p.c[:p.n])
	}
	if int(axis) >= p.n {
		return 0
	}
	lo, hi := p, p
	lo.c[axis] -= s
	hi.c[axis] += s
	return (lo.eval(m) - hi.eval(m)) / s
}

// point is a sample position of 2, 3, 4 or 6 dimensions. Composite modules
// run their algorithm once over a point instead of once per dimension.
type point struct {
	c [6]float64
	n int
}

func newPoint(c ...float64) point {
	var p point
	p.n = copy(p.c[:], c)
	return p
}

func (p point) eval(m Module) float64 {
	switch p.n {
	case 2:
		return m.Get2D(p.c[0], p.c[1])
	case 3:
		return m.Get3D(p.c[0], p.c[1], p.c[2])
	case 4:
		return m.Get4D(p.c[0], p.c[1], p.c[2], p.c[3])
	default:
		return m.Get6D(p.c[0], p.c[1], p.c[2], p.c[3], p.c[4], p.c[5])
	}
}

func (p *point) scale(f float64) {
	for i := 0; i < p.n; i++ {
		p.c[i] *= f
	}
}

// dimIndex maps 2, 3, 4, 6 to the slot index 0..3 of per-dimension tables.
func dimIndex(n int) int {
	switch n {
	case 2:
		return 0
	case 3:
		return 1
	case 4:
		return 2
	default:
		return 3
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(t, a, b float64) float64 { return a + t*(b-a) }
