package implicit

func quinticBlend(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

// Select picks low where control < threshold and high elsewhere. A
// positive falloff blends the two across [threshold-falloff,
// threshold+falloff] with a quintic curve.
type Select struct {
	Base
	low, high, control, threshold, falloff ScalarParameter
}

func NewSelect() *Select { return &Select{} }

func (m *Select) SetLow(p ScalarParameter)       { m.low = p }
func (m *Select) SetHigh(p ScalarParameter)      { m.high = p }
func (m *Select) SetControl(p ScalarParameter)   { m.control = p }
func (m *Select) SetThreshold(p ScalarParameter) { m.threshold = p }
func (m *Select) SetFalloff(p ScalarParameter)   { m.falloff = p }

func (m *Select) get(p point) float64 {
	control := m.control.get(p)
	falloff := m.falloff.get(p)
	threshold := m.threshold.get(p)

	if falloff <= 0 {
		if control < threshold {
			return m.low.get(p)
		}
		return m.high.get(p)
	}

	lower := threshold - falloff
	upper := threshold + falloff
	switch {
	case control < lower:
		return m.low.get(p)
	case control > upper:
		return m.high.get(p)
	}
	t := quinticBlend((control - lower) / (upper - lower))
	return lerp(t, m.low.get(p), m.high.get(p))
}

func (m *Select) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Select) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Select) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Select) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}

// Blend interpolates from low to high by control. In 2D the control is
// taken as [-1, 1] and remapped to [0, 1]; higher dimensions use it as is.
type Blend struct {
	Base
	low, high, control ScalarParameter
}

func NewBlend(low, high, control ScalarParameter) *Blend {
	return &Blend{low: low, high: high, control: control}
}

func (m *Blend) SetLow(p ScalarParameter)     { m.low = p }
func (m *Blend) SetHigh(p ScalarParameter)    { m.high = p }
func (m *Blend) SetControl(p ScalarParameter) { m.control = p }

func (m *Blend) get(p point) float64 {
	v1 := m.low.get(p)
	v2 := m.high.get(p)
	t := m.control.get(p)
	if p.n == 2 {
		t = (t + 1) * 0.5
	}
	return lerp(t, v1, v2)
}

func (m *Blend) Get2D(x, y float64) float64 { return m.get(newPoint(x, y)) }

func (m *Blend) Get3D(x, y, z float64) float64 { return m.get(newPoint(x, y, z)) }

func (m *Blend) Get4D(x, y, z, w float64) float64 { return m.get(newPoint(x, y, z, w)) }

func (m *Blend) Get6D(x, y, z, w, u, v float64) float64 {
	return m.get(newPoint(x, y, z, w, u, v))
}
