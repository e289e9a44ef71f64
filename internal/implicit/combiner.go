package implicit

import "fmt"

// CombinerType is the reduction applied by a Combiner.
type CombinerType int

const (
	CombineAdd CombinerType = iota
	CombineMult
	CombineMax
	CombineMin
	CombineAvg
)

var combinerNames = map[CombinerType]string{
	CombineAdd:  "add",
	CombineMult: "mult",
	CombineMax:  "max",
	CombineMin:  "min",
	CombineAvg:  "avg",
}

func (t CombinerType) String() string {
	if s, ok := combinerNames[t]; ok {
		return s
	}
	return fmt.Sprintf("CombinerType(%d)", int(t))
}

func ParseCombinerType(s string) (CombinerType, error) {
	for t, name := range combinerNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown combiner %q", s)
}

// Combiner reduces up to MaxSources modules with one operation. Empty
// slots are ignored; with every slot empty Max, Min and Avg return 0.
type Combiner struct {
	Base

	ctype   CombinerType
	sources [MaxSources]Module
}

func NewCombiner(t CombinerType) *Combiner {
	return &Combiner{ctype: t}
}

func (c *Combiner) SetType(t CombinerType) { c.ctype = t }

func (c *Combiner) SetSource(which int, m Module) {
	if which < 0 || which >= MaxSources {
		return
	}
	c.sources[which] = m
}

// AddSource fills the first empty slot and reports whether one was free.
func (c *Combiner) AddSource(m Module) bool {
	for i, s := range c.sources {
		if s == nil {
			c.sources[i] = m
			return true
		}
	}
	return false
}

func (c *Combiner) ResetAllSources() {
	c.sources = [MaxSources]Module{}
}

func (c *Combiner) get(p point) float64 {
	switch c.ctype {
	case CombineMult:
		value := 1.0
		for _, s := range c.sources {
			if s != nil {
				value *= p.eval(s)
			}
		}
		return value
	case CombineMax, CombineMin:
		var value float64
		first := true
		for _, s := range c.sources {
			if s == nil {
				continue
			}
			v := p.eval(s)
			switch {
			case first:
				value, first = v, false
			case c.ctype == CombineMax && v > value:
				value = v
			case c.ctype == CombineMin && v < value:
				value = v
			}
		}
		return value
	case CombineAvg:
		var value float64
		count := 0
		for _, s := range c.sources {
			if s != nil {
				value += p.eval(s)
				count++
			}
		}
		if count == 0 {
			return 0
		}
		return value / float64(count)
	default:
		var value float64
		for _, s := range c.sources {
			if s != nil {
				value += p.eval(s)
			}
		}
		return value
	}
}

func (c *Combiner) Get2D(x, y float64) float64 { return c.get(newPoint(x, y)) }

func (c *Combiner) Get3D(x, y, z float64) float64 { return c.get(newPoint(x, y, z)) }

func (c *Combiner) Get4D(x, y, z, w float64) float64 { return c.get(newPoint(x, y, z, w)) }

func (c *Combiner) Get6D(x, y, z, w, u, v float64) float64 {
	return c.get(newPoint(x, y, z, w, u, v))
}
