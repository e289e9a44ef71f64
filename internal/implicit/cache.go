package implicit

type cacheSlot struct {
	coords [6]float64
	value  float64
	valid  bool
}

// Cache remembers the last value of its source per dimensionality. Put it
// in front of an expensive module that several parents sample at the same
// point.
type Cache struct {
	Base

	source ScalarParameter
	slots  [4]cacheSlot
}

func NewCache(source ScalarParameter) *Cache {
	return &Cache{source: source}
}

func (c *Cache) SetSource(source ScalarParameter) {
	c.source = source
	c.Invalidate()
}

func (c *Cache) Invalidate() {
	for i := range c.slots {
		c.slots[i].valid = false
	}
}

func (c *Cache) get(p point) float64 {
	s := &c.slots[dimIndex(p.n)]
	if s.valid && s.coords == p.c {
		return s.value
	}
	s.coords = p.c
	s.value = c.source.get(p)
	s.valid = true
	return s.value
}

func (c *Cache) Get2D(x, y float64) float64 { return c.get(newPoint(x, y)) }

func (c *Cache) Get3D(x, y, z float64) float64 { return c.get(newPoint(x, y, z)) }

func (c *Cache) Get4D(x, y, z, w float64) float64 { return c.get(newPoint(x, y, z, w)) }

func (c *Cache) Get6D(x, y, z, w, u, v float64) float64 {
	return c.get(newPoint(x, y, z, w, u, v))
}
