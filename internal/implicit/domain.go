package implicit

import "math"

// ScaleDomain multiplies each input coordinate before sampling its source.
type ScaleDomain struct {
	Base
	source ScalarParameter
	scale  [6]ScalarParameter
}

// NewScaleDomain scales the axes x, y, z, w, u, v by the given factors.
func NewScaleDomain(source ScalarParameter, x, y, z, w, u, v float64) *ScaleDomain {
	return &ScaleDomain{
		source: source,
		scale:  [6]ScalarParameter{Value(x), Value(y), Value(z), Value(w), Value(u), Value(v)},
	}
}

func (m *ScaleDomain) SetSource(p ScalarParameter) { m.source = p }

func (m *ScaleDomain) SetScale(axis Axis, p ScalarParameter) { m.scale[axis] = p }

func (m *ScaleDomain) get(p point) float64 {
	q := p
	for i := 0; i < p.n; i++ {
		q.c[i] = p.c[i] * m.scale[i].get(p)
	}
	return m.source.get(q)
}

func (m *ScaleDomain) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *ScaleDomain) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *ScaleDomain) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *ScaleDomain) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// TranslateDomain offsets each input coordinate before sampling its
// source. With module offsets this is domain warping.
type TranslateDomain struct {
	Base
	source ScalarParameter
	offset [6]ScalarParameter
}

func NewTranslateDomain(source ScalarParameter) *TranslateDomain {
	return &TranslateDomain{source: source}
}

func (m *TranslateDomain) SetSource(p ScalarParameter) { m.source = p }

func (m *TranslateDomain) SetOffset(axis Axis, p ScalarParameter) { m.offset[axis] = p }

func (m *TranslateDomain) get(p point) float64 {
	q := p
	for i := 0; i < p.n; i++ {
		q.c[i] = p.c[i] + m.offset[i].get(p)
	}
	return m.source.get(q)
}

func (m *TranslateDomain) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *TranslateDomain) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *TranslateDomain) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *TranslateDomain) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// RotateDomain rotates the input point before sampling its source. The
// angle is measured in whole turns. 2D points turn in the xy plane and
// ignore the axis; higher dimensions rotate x, y, z about the axis, which
// is normalized first, and pass the remaining axes through. A zero axis
// leaves the point alone.
type RotateDomain struct {
	Base
	source ScalarParameter
	axis   [3]ScalarParameter
	angle  ScalarParameter
}

func NewRotateDomain(source ScalarParameter, x, y, z, angle float64) *RotateDomain {
	return &RotateDomain{
		source: source,
		axis:   [3]ScalarParameter{Value(x), Value(y), Value(z)},
		angle:  Value(angle),
	}
}

func (m *RotateDomain) SetSource(p ScalarParameter) { m.source = p }

// SetAxis sets one component of the rotation axis; axis must be AxisX,
// AxisY or AxisZ.
func (m *RotateDomain) SetAxis(axis Axis, p ScalarParameter) { m.axis[axis] = p }

func (m *RotateDomain) SetAngle(p ScalarParameter) { m.angle = p }

func (m *RotateDomain) get(p point) float64 {
	angle := m.angle.get(p) * 2 * math.Pi
	q := p
	if p.n == 2 {
		c, s := math.Cos(angle), math.Sin(angle)
		q.c[0] = p.c[0]*c - p.c[1]*s
		q.c[1] = p.c[1]*c + p.c[0]*s
		return m.source.get(q)
	}

	ax := m.axis[0].get(p)
	ay := m.axis[1].get(p)
	az := m.axis[2].get(p)
	l := math.Sqrt(ax*ax + ay*ay + az*az)
	if l == 0 {
		return m.source.get(p)
	}
	r := rotationMatrix(ax/l, ay/l, az/l, angle)
	q.c[0], q.c[1], q.c[2] = rotate3(&r, p.c[0], p.c[1], p.c[2])
	return m.source.get(q)
}

func (m *RotateDomain) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *RotateDomain) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *RotateDomain) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *RotateDomain) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}
