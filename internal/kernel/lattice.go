package kernel

import "math"

type (
	Noise2Func func(x, y float64, seed uint32, interp InterpFunc) float64
	Noise3Func func(x, y, z float64, seed uint32, interp InterpFunc) float64
	Noise4Func func(x, y, z, w float64, seed uint32, interp InterpFunc) float64
	Noise6Func func(x, y, z, w, u, v float64, seed uint32, interp InterpFunc) float64
)

// cornerFunc evaluates one lattice corner given the corner cell and the
// offset of the sample point from it.
type cornerFunc func(seed uint32, cell []int, off []float64) float64

func valueCorner(seed uint32, cell []int, _ []float64) float64 {
	return unitFloat(hashCell(seed, cell))
}

func gradientCorner(seed uint32, cell []int, off []float64) float64 {
	g := gradientTable(len(cell))[hashCell(seed, cell)&(gradientTableSize-1)]
	var d float64
	for i, o := range off {
		d += g[i] * o
	}
	return d
}

func gradvalCorner(seed uint32, cell []int, off []float64) float64 {
	h := hashCell(seed, cell)
	g := gradientTable(len(cell))[h&(gradientTableSize-1)]
	d := unitFloat(h >> 16)
	for i, o := range off {
		d += g[i] * o
	}
	return d
}

// lattice blends the 2^n corners of the cell containing p.
func lattice(p []float64, seed uint32, interp InterpFunc, corner cornerFunc) float64 {
	n := len(p)
	var (
		base [6]int
		frac [6]float64
		wt   [6]float64
		cell [6]int
		off  [6]float64
	)
	for i, c := range p {
		f := math.Floor(c)
		base[i] = int(f)
		frac[i] = c - f
		wt[i] = interp(frac[i])
	}

	var total float64
	for mask := 0; mask < 1<<n; mask++ {
		weight := 1.0
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				cell[i] = base[i] + 1
				off[i] = frac[i] - 1
				weight *= wt[i]
			} else {
				cell[i] = base[i]
				off[i] = frac[i]
				weight *= 1 - wt[i]
			}
		}
		if weight == 0 {
			continue
		}
		total += weight * corner(seed, cell[:n], off[:n])
	}
	return total
}

func ValueNoise2D(x, y float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y}, seed, interp, valueCorner)
}

func ValueNoise3D(x, y, z float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z}, seed, interp, valueCorner)
}

func ValueNoise4D(x, y, z, w float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z, w}, seed, interp, valueCorner)
}

func ValueNoise6D(x, y, z, w, u, v float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z, w, u, v}, seed, interp, valueCorner)
}

func GradientNoise2D(x, y float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y}, seed, interp, gradientCorner)
}

func GradientNoise3D(x, y, z float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z}, seed, interp, gradientCorner)
}

func GradientNoise4D(x, y, z, w float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z, w}, seed, interp, gradientCorner)
}

func GradientNoise6D(x, y, z, w, u, v float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z, w, u, v}, seed, interp, gradientCorner)
}

// GradvalNoise2D sums gradient and value noise at every corner.
func GradvalNoise2D(x, y float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y}, seed, interp, gradvalCorner)
}

func GradvalNoise3D(x, y, z float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z}, seed, interp, gradvalCorner)
}

func GradvalNoise4D(x, y, z, w float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z, w}, seed, interp, gradvalCorner)
}

func GradvalNoise6D(x, y, z, w, u, v float64, seed uint32, interp InterpFunc) float64 {
	return lattice([]float64{x, y, z, w, u, v}, seed, interp, gradvalCorner)
}

// WhiteNoise2D hashes the point itself; the result does not depend on interp.
func WhiteNoise2D(x, y float64, seed uint32, _ InterpFunc) float64 {
	return unitFloat(hashFloats(seed, []float64{x, y}))
}

func WhiteNoise3D(x, y, z float64, seed uint32, _ InterpFunc) float64 {
	return unitFloat(hashFloats(seed, []float64{x, y, z}))
}

func WhiteNoise4D(x, y, z, w float64, seed uint32, _ InterpFunc) float64 {
	return unitFloat(hashFloats(seed, []float64{x, y, z, w}))
}

func WhiteNoise6D(x, y, z, w, u, v float64, seed uint32, _ InterpFunc) float64 {
	return unitFloat(hashFloats(seed, []float64{x, y, z, w, u, v}))
}
