package kernel

import "math"

// simplex sums radial kernels over the n+1 corners of the skewed simplex
// containing p. radius2 is the squared kernel radius.
func simplex(p []float64, seed uint32, radius2, scale float64) float64 {
	n := len(p)
	fn := float64(n)
	skew := (math.Sqrt(fn+1) - 1) / fn
	unskew := (1 - 1/math.Sqrt(fn+1)) / fn

	var s float64
	for _, c := range p {
		s += c
	}
	s *= skew

	var (
		base  [6]int
		x0    [6]float64
		order [6]int
		cell  [6]int
		off   [6]float64
	)
	var t float64
	for i, c := range p {
		base[i] = int(math.Floor(c + s))
		t += float64(base[i])
	}
	t *= unskew
	for i, c := range p {
		x0[i] = c - (float64(base[i]) - t)
		order[i] = i
	}

	// axes sorted by descending offset give the traversal order
	for i := 1; i < n; i++ {
		for j := i; j > 0 && x0[order[j]] > x0[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	copy(cell[:n], base[:n])
	table := gradientTable(n)
	var total float64
	for k := 0; k <= n; k++ {
		if k > 0 {
			cell[order[k-1]]++
		}
		var d2 float64
		for i := 0; i < n; i++ {
			off[i] = x0[i] - float64(cell[i]-base[i]) + float64(k)*unskew
			d2 += off[i] * off[i]
		}
		r := radius2 - d2
		if r <= 0 {
			continue
		}
		r *= r
		g := table[hashCell(seed, cell[:n])&(gradientTableSize-1)]
		var dot float64
		for i := 0; i < n; i++ {
			dot += g[i] * off[i]
		}
		total += r * r * dot
	}
	return scale * total
}

// SimplexNoise2D ignores interp; simplex kernels are already smooth.
func SimplexNoise2D(x, y float64, seed uint32, _ InterpFunc) float64 {
	return simplex([]float64{x, y}, seed, 0.5, 99)
}

func SimplexNoise3D(x, y, z float64, seed uint32, _ InterpFunc) float64 {
	return simplex([]float64{x, y, z}, seed, 0.6, 45)
}

func SimplexNoise4D(x, y, z, w float64, seed uint32, _ InterpFunc) float64 {
	return simplex([]float64{x, y, z, w}, seed, 0.6, 47)
}

func SimplexNoise6D(x, y, z, w, u, v float64, seed uint32, _ InterpFunc) float64 {
	return simplex([]float64{x, y, z, w, u, v}, seed, 0.6, 60)
}
