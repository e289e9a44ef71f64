package implicit

import "math"

// ScaleOffset computes source*scale + offset.
type ScaleOffset struct {
	Base
	source, scale, offset ScalarParameter
}

func NewScaleOffset(source ScalarParameter, scale, offset float64) *ScaleOffset {
	return &ScaleOffset{source: source, scale: Value(scale), offset: Value(offset)}
}

func (m *ScaleOffset) SetSource(p ScalarParameter) { m.source = p }
func (m *ScaleOffset) SetScale(p ScalarParameter)  { m.scale = p }
func (m *ScaleOffset) SetOffset(p ScalarParameter) { m.offset = p }

func (m *ScaleOffset) get(p point) float64 {
	return m.source.get(p)*m.scale.get(p) + m.offset.get(p)
}

func (m *ScaleOffset) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *ScaleOffset) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *ScaleOffset) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *ScaleOffset) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// Clamp limits its source to [low, high].
type Clamp struct {
	Base
	source    ScalarParameter
	low, high float64
}

func NewClamp(source ScalarParameter, low, high float64) *Clamp {
	return &Clamp{source: source, low: low, high: high}
}

func (m *Clamp) SetRange(low, high float64) { m.low, m.high = low, high }

func (m *Clamp) SetSource(p ScalarParameter) { m.source = p }

func (m *Clamp) get(p point) float64 { return clamp(m.source.get(p), m.low, m.high) }

func (m *Clamp) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Clamp) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Clamp) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Clamp) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// bias is Perlin's bias curve t^(ln b / ln 0.5); bias(0.5, t) == t.
func bias(b, t float64) float64 {
	return math.Pow(t, math.Log(b)/math.Log(0.5))
}

func gain(g, t float64) float64 {
	if t < 0.5 {
		return bias(1-g, 2*t) / 2
	}
	return 1 - bias(1-g, 2-2*t)/2
}

// Bias pushes a [0, 1] source towards 0 or 1.
type Bias struct {
	Base
	source, bias ScalarParameter
}

func NewBias(source ScalarParameter, b float64) *Bias {
	return &Bias{source: source, bias: Value(b)}
}

func (m *Bias) SetSource(p ScalarParameter) { m.source = p }
func (m *Bias) SetBias(p ScalarParameter)   { m.bias = p }

func (m *Bias) get(p point) float64 { return bias(m.bias.get(p), m.source.get(p)) }

func (m *Bias) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Bias) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Bias) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Bias) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// Gain steepens or flattens a [0, 1] source around 0.5.
type Gain struct {
	Base
	source, gain ScalarParameter
}

func NewGain(source ScalarParameter, g float64) *Gain {
	return &Gain{source: source, gain: Value(g)}
}

func (m *Gain) SetSource(p ScalarParameter) { m.source = p }
func (m *Gain) SetGain(p ScalarParameter)   { m.gain = p }

func (m *Gain) get(p point) float64 { return gain(m.gain.get(p), m.source.get(p)) }

func (m *Gain) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Gain) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Gain) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Gain) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// FunctionGradient samples the derivative of its source along one axis.
// The difference width is the module's own spacing and the sign follows
// Deriv2D. Axes beyond the sampled dimension give 0.
type FunctionGradient struct {
	Base
	source ScalarParameter
	axis   Axis
}

func NewFunctionGradient(source ScalarParameter, axis Axis) *FunctionGradient {
	return &FunctionGradient{source: source, axis: axis}
}

func (m *FunctionGradient) SetSource(p ScalarParameter) { m.source = p }

func (m *FunctionGradient) SetAxis(a Axis) { m.axis = a }

func (m *FunctionGradient) get(p point) float64 {
	src := m.source.Module()
	if src == nil {
		return 0
	}
	return deriveStep(src, m.axis, p, m.Spacing())
}

func (m *FunctionGradient) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *FunctionGradient) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *FunctionGradient) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *FunctionGradient) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// Tiers quantizes its source into terraces of height 1/n. With smooth set
// the source climbs from one terrace to the next along a quintic curve and
// n counts the terrace levels including both ends, so n-1 steps are used.
type Tiers struct {
	Base
	source ScalarParameter
	tiers  int
	smooth bool
}

func NewTiers(source ScalarParameter, tiers int, smooth bool) *Tiers {
	return &Tiers{source: source, tiers: tiers, smooth: smooth}
}

func (m *Tiers) SetSource(p ScalarParameter) { m.source = p }

func (m *Tiers) SetTiers(n int) { m.tiers = n }

func (m *Tiers) SetSmooth(s bool) { m.smooth = s }

func (m *Tiers) get(p point) float64 {
	steps := m.tiers
	if m.smooth {
		steps--
	}
	if steps < 1 {
		steps = 1
	}
	n := float64(steps)

	v := m.source.get(p) * n
	base := math.Floor(v)
	lo := base / n
	if !m.smooth {
		return lo
	}
	hi := (base + 1) / n
	return lo + quinticBlend(v-base)*(hi-lo)
}

func (m *Tiers) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Tiers) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Tiers) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Tiers) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}
