package implicit

import (
	"fmt"
	"math"
)

// UnaryOp selects the function a Unary module applies.
type UnaryOp int

const (
	UnaryCos UnaryOp = iota
	UnarySin
	UnaryFloor
)

var unaryNames = map[UnaryOp]string{
	UnaryCos:   "cos",
	UnarySin:   "sin",
	UnaryFloor: "floor",
}

var unaryFuncs = map[UnaryOp]func(float64) float64{
	UnaryCos:   math.Cos,
	UnarySin:   math.Sin,
	UnaryFloor: math.Floor,
}

func (o UnaryOp) String() string {
	if s, ok := unaryNames[o]; ok {
		return s
	}
	return fmt.Sprintf("UnaryOp(%d)", int(o))
}

// Unary applies cos, sin or floor to its source. Unknown ops pass the
// source through.
type Unary struct {
	Base
	source ScalarParameter
	op     UnaryOp
}

func NewUnary(op UnaryOp, source ScalarParameter) *Unary {
	return &Unary{source: source, op: op}
}

func (m *Unary) SetSource(p ScalarParameter) { m.source = p }

func (m *Unary) get(p point) float64 {
	v := m.source.get(p)
	if f, ok := unaryFuncs[m.op]; ok {
		return f(v)
	}
	return v
}

func (m *Unary) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Unary) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Unary) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Unary) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// Pow raises its source to power.
type Pow struct {
	Base
	source, power ScalarParameter
}

func NewPow(source ScalarParameter, power float64) *Pow {
	return &Pow{source: source, power: Value(power)}
}

func (m *Pow) SetSource(p ScalarParameter) { m.source = p }
func (m *Pow) SetPower(p ScalarParameter)  { m.power = p }

func (m *Pow) get(p point) float64 { return math.Pow(m.source.get(p), m.power.get(p)) }

func (m *Pow) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Pow) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Pow) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Pow) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// sawTooth is a [-1, 1) ramp of the given period, crossing 0 at
// multiples of the period.
func sawTooth(v, period float64) float64 {
	t := v / period
	return 2 * (t - math.Floor(0.5+t))
}

// SawTooth maps its source onto a [-1, 1) ramp repeating every period.
type SawTooth struct {
	Base
	source, period ScalarParameter
}

func NewSawTooth(source ScalarParameter, period float64) *SawTooth {
	return &SawTooth{source: source, period: Value(period)}
}

func (m *SawTooth) SetSource(p ScalarParameter) { m.source = p }
func (m *SawTooth) SetPeriod(p ScalarParameter) { m.period = p }

func (m *SawTooth) get(p point) float64 { return sawTooth(m.source.get(p), m.period.get(p)) }

func (m *SawTooth) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *SawTooth) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *SawTooth) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *SawTooth) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// Triangle maps its source onto a [0, 1] triangle wave repeating every
// period. Offset is the share of the period spent rising; 1 or more gives
// a rising ramp and 0 or less a falling one.
type Triangle struct {
	Base
	source, period, offset ScalarParameter
}

func NewTriangle(source ScalarParameter, period, offset float64) *Triangle {
	return &Triangle{source: source, period: Value(period), offset: Value(offset)}
}

func (m *Triangle) SetSource(p ScalarParameter) { m.source = p }
func (m *Triangle) SetPeriod(p ScalarParameter) { m.period = p }
func (m *Triangle) SetOffset(p ScalarParameter) { m.offset = p }

func (m *Triangle) get(p point) float64 {
	v := m.source.get(p)
	period := m.period.get(p)
	offset := m.offset.get(p)

	up := sawTooth(v, period)*0.5 + 0.5
	switch {
	case offset >= 1:
		return up
	case offset <= 0:
		return 1 - up
	}
	down := sawTooth(-v, period)*0.5 + 0.5
	var r float64
	if up <= offset {
		r += up / offset
	}
	if down <= 1-offset {
		r += down / (1 - offset)
	}
	return r
}

func (m *Triangle) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Triangle) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Triangle) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Triangle) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// BrightContrast adds bright to its source, then scales the distance from
// threshold by factor.
type BrightContrast struct {
	Base
	source, bright, threshold, factor ScalarParameter
}

func NewBrightContrast(source ScalarParameter, bright, threshold, factor float64) *BrightContrast {
	return &BrightContrast{
		source:    source,
		bright:    Value(bright),
		threshold: Value(threshold),
		factor:    Value(factor),
	}
}

func (m *BrightContrast) SetSource(p ScalarParameter)    { m.source = p }
func (m *BrightContrast) SetBright(p ScalarParameter)    { m.bright = p }
func (m *BrightContrast) SetThreshold(p ScalarParameter) { m.threshold = p }
func (m *BrightContrast) SetFactor(p ScalarParameter)    { m.factor = p }

func (m *BrightContrast) get(p point) float64 {
	v := m.source.get(p) + m.bright.get(p)
	t := m.threshold.get(p)
	return (v-t)*m.factor.get(p) + t
}

func (m *BrightContrast) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *BrightContrast) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *BrightContrast) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *BrightContrast) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// Magnitude is the length of the vector whose components are its inputs.
// An n-dimensional sample uses the first n components.
type Magnitude struct {
	Base
	component [6]ScalarParameter
}

func NewMagnitude() *Magnitude { return &Magnitude{} }

func (m *Magnitude) SetComponent(axis Axis, p ScalarParameter) { m.component[axis] = p }

func (m *Magnitude) get(p point) float64 {
	var sum float64
	for i := 0; i < p.n; i++ {
		c := m.component[i].get(p)
		sum += c * c
	}
	return math.Sqrt(sum)
}

func (m *Magnitude) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Magnitude) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Magnitude) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Magnitude) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// NormalizeCoords projects the input point onto the sphere of radius
// length before sampling its source. The origin is passed through.
type NormalizeCoords struct {
	Base
	source, length ScalarParameter
}

func NewNormalizeCoords(source ScalarParameter, length float64) *NormalizeCoords {
	return &NormalizeCoords{source: source, length: Value(length)}
}

func (m *NormalizeCoords) SetSource(p ScalarParameter) { m.source = p }
func (m *NormalizeCoords) SetLength(p ScalarParameter) { m.length = p }

func (m *NormalizeCoords) get(p point) float64 {
	var l float64
	for i := 0; i < p.n; i++ {
		l += p.c[i] * p.c[i]
	}
	if l == 0 {
		return m.source.get(p)
	}
	p.scale(m.length.get(p) / math.Sqrt(l))
	return m.source.get(p)
}

func (m *NormalizeCoords) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *NormalizeCoords) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *NormalizeCoords) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *NormalizeCoords) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}
