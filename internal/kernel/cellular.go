package kernel

import "math"

// CellularKernel computes the four nearest feature-point distances (f) and
// the per-feature values (d) around a point.
type CellularKernel interface {
	Cellular2D(x, y float64, seed uint32, f, d *[4]float64)
	Cellular3D(x, y, z float64, seed uint32, f, d *[4]float64)
	Cellular4D(x, y, z, w float64, seed uint32, f, d *[4]float64)
	Cellular6D(x, y, z, w, u, v float64, seed uint32, f, d *[4]float64)
}

// Worley places one jittered feature point in every lattice cell and
// searches the 3^n neighbourhood of the containing cell.
type Worley struct{}

func (Worley) Cellular2D(x, y float64, seed uint32, f, d *[4]float64) {
	worley([]float64{x, y}, seed, f, d)
}

func (Worley) Cellular3D(x, y, z float64, seed uint32, f, d *[4]float64) {
	worley([]float64{x, y, z}, seed, f, d)
}

func (Worley) Cellular4D(x, y, z, w float64, seed uint32, f, d *[4]float64) {
	worley([]float64{x, y, z, w}, seed, f, d)
}

func (Worley) Cellular6D(x, y, z, w, u, v float64, seed uint32, f, d *[4]float64) {
	worley([]float64{x, y, z, w, u, v}, seed, f, d)
}

func worley(p []float64, seed uint32, f, d *[4]float64) {
	n := len(p)
	for i := range f {
		f[i] = math.MaxFloat64
		d[i] = 0
	}

	var (
		base  [6]int
		cell  [6]int
		delta [6]int
	)
	for i, c := range p {
		base[i] = int(math.Floor(c))
		delta[i] = -1
	}

	for {
		for i := 0; i < n; i++ {
			cell[i] = base[i] + delta[i]
		}
		h := hashCell(seed, cell[:n])
		var dist2 float64
		jitter := h
		for i := 0; i < n; i++ {
			// successive rehashes give independent jitter per axis
			jitter = jitter*fnvPrime ^ uint32(i+1)
			jitter ^= jitter >> 13
			fp := float64(cell[i]) + float64(jitter&0xFFFF)/65536.0
			diff := p[i] - fp
			dist2 += diff * diff
		}
		insertFeature(f, d, math.Sqrt(dist2), unitFloat(h>>16))

		// odometer over {-1, 0, 1}^n
		i := 0
		for ; i < n; i++ {
			delta[i]++
			if delta[i] <= 1 {
				break
			}
			delta[i] = -1
		}
		if i == n {
			return
		}
	}
}

// insertFeature keeps f sorted ascending, carrying d along.
func insertFeature(f, d *[4]float64, dist, val float64) {
	for i := 0; i < 4; i++ {
		if dist < f[i] {
			for j := 3; j > i; j-- {
				f[j] = f[j-1]
				d[j] = d[j-1]
			}
			f[i] = dist
			d[i] = val
			return
		}
	}
}
