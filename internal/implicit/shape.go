package implicit

import "math"

// Gradient projects the point onto the segment from p1 to p2: 0 at p1,
// 1 at p2, unclamped beyond.
type Gradient struct {
	Base
	p1, dir [6]float64
	vlen    float64
}

// NewGradient returns the gradient from (0, 0) to (1, 1).
func NewGradient() *Gradient {
	g := &Gradient{}
	g.SetGradient([6]float64{0, 0}, [6]float64{1, 1})
	return g
}

// SetGradient sets the end points; unused axes stay 0.
func (g *Gradient) SetGradient(p1, p2 [6]float64) {
	g.p1 = p1
	g.vlen = 0
	for i := range p1 {
		g.dir[i] = p2[i] - p1[i]
		g.vlen += g.dir[i] * g.dir[i]
	}
}

func (g *Gradient) get(p point) float64 {
	var dp float64
	for i := 0; i < p.n; i++ {
		dp += (p.c[i] - g.p1[i]) * g.dir[i]
	}
	return dp / g.vlen
}

func (g *Gradient) Get2D(x, y float64) float64 { return g.get(newPoint(x, y)) }

func (g *Gradient) Get3D(x, y, z float64) float64 { return g.get(newPoint(x, y, z)) }

func (g *Gradient) Get4D(x, y, z, w float64) float64 { return g.get(newPoint(x, y, z, w)) }

func (g *Gradient) Get6D(x, y, z, w, u, v float64) float64 {
	return g.get(newPoint(x, y, z, w, u, v))
}

// Sphere is a distance field around a center: 1 at the center falling
// linearly to 0 at radius and beyond.
type Sphere struct {
	Base
	center [6]ScalarParameter
	radius ScalarParameter
}

func NewSphere(radius float64, center ...float64) *Sphere {
	s := &Sphere{radius: Value(radius)}
	for i := 0; i < len(center) && i < 6; i++ {
		s.center[i] = Value(center[i])
	}
	return s
}

func (s *Sphere) SetCenter(axis Axis, p ScalarParameter) { s.center[axis] = p }

func (s *Sphere) SetRadius(p ScalarParameter) { s.radius = p }

func (s *Sphere) get(p point) float64 {
	var d2 float64
	for i := 0; i < p.n; i++ {
		d := p.c[i] - s.center[i].get(p)
		d2 += d * d
	}
	r := s.radius.get(p)
	return clamp((r-math.Sqrt(d2))/r, 0, 1)
}

func (s *Sphere) Get2D(x, y float64) float64 { return s.get(newPoint(x, y)) }

func (s *Sphere) Get3D(x, y, z float64) float64 { return s.get(newPoint(x, y, z)) }

func (s *Sphere) Get4D(x, y, z, w float64) float64 { return s.get(newPoint(x, y, z, w)) }

func (s *Sphere) Get6D(x, y, z, w, u, v float64) float64 {
	return s.get(newPoint(x, y, z, w, u, v))
}
