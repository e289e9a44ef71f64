package implicit

// Constant returns the same value everywhere.
type Constant struct {
	Base
	value float64
}

func NewConstant(v float64) *Constant { return &Constant{value: v} }

func (c *Constant) Set(v float64) { c.value = v }

func (c *Constant) Get2D(_, _ float64) float64             { return c.value }
func (c *Constant) Get3D(_, _, _ float64) float64          { return c.value }
func (c *Constant) Get4D(_, _, _, _ float64) float64       { return c.value }
func (c *Constant) Get6D(_, _, _, _, _, _ float64) float64 { return c.value }
func (c *Constant) Deriv(Axis, []float64) float64          { return 0 }
