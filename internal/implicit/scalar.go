package implicit

// ScalarParameter is a module input that is either a literal value or
// another module sampled at the same point. The zero value is the literal 0.
type ScalarParameter struct {
	value  float64
	source Module
}

// Value returns a literal parameter.
func Value(v float64) ScalarParameter {
	return ScalarParameter{value: v}
}

// Source returns a parameter that samples m. A nil module behaves as the
// literal 0.
func Source(m Module) ScalarParameter {
	return ScalarParameter{source: m}
}

// Module returns the referenced module, or nil for a literal.
func (p ScalarParameter) Module() Module { return p.source }

// Literal returns the literal value; it is meaningless for a source.
func (p ScalarParameter) Literal() float64 { return p.value }

func (p ScalarParameter) Get2D(x, y float64) float64 {
	if p.source != nil {
		return p.source.Get2D(x, y)
	}
	return p.value
}

func (p ScalarParameter) Get3D(x, y, z float64) float64 {
	if p.source != nil {
		return p.source.Get3D(x, y, z)
	}
	return p.value
}

func (p ScalarParameter) Get4D(x, y, z, w float64) float64 {
	if p.source != nil {
		return p.source.Get4D(x, y, z, w)
	}
	return p.value
}

func (p ScalarParameter) Get6D(x, y, z, w, u, v float64) float64 {
	if p.source != nil {
		return p.source.Get6D(x, y, z, w, u, v)
	}
	return p.value
}

func (p ScalarParameter) get(pt point) float64 {
	if p.source != nil {
		return pt.eval(p.source)
	}
	return p.value
}
