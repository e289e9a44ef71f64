package kernel

import (
	"math"

	"github.com/MeKo-Tech/noisegraph/internal/prng"
)

const (
	fnvOffset = 0x811c9dc5
	fnvPrime  = 0x01000193

	gradientTableSize = 256
)

// hashCell mixes a lattice cell and seed into a well distributed word.
func hashCell(seed uint32, cell []int) uint32 {
	h := uint32(fnvOffset)
	h = (h ^ seed) * fnvPrime
	for _, c := range cell {
		h = (h ^ uint32(int32(c))) * fnvPrime
	}
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// hashFloats hashes the bit patterns of a point, for white noise.
func hashFloats(seed uint32, coords []float64) uint32 {
	h := uint32(fnvOffset)
	h = (h ^ seed) * fnvPrime
	for _, c := range coords {
		bits := math.Float64bits(c)
		h = (h ^ uint32(bits)) * fnvPrime
		h = (h ^ uint32(bits>>32)) * fnvPrime
	}
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// unitFloat maps the low 16 bits of h to [-1, 1].
func unitFloat(h uint32) float64 {
	return float64(h&0xFFFF)/65535.0*2 - 1
}

// Gradient tables hold unit vectors drawn from a fixed LCG stream so the
// kernels are reproducible across runs and platforms.
var (
	gradients2 = buildGradients(2, 0x2d2d)
	gradients3 = buildGradients(3, 0x3d3d)
	gradients4 = buildGradients(4, 0x4d4d)
	gradients6 = buildGradients(6, 0x6d6d)
)

func buildGradients(dims int, seed uint32) [][]float64 {
	lcg := prng.NewLCGSeeded(seed)
	table := make([][]float64, 0, gradientTableSize)
	for len(table) < gradientTableSize {
		g := make([]float64, dims)
		var l2 float64
		for i := range g {
			g[i] = prng.Get01(lcg)*2 - 1
			l2 += g[i] * g[i]
		}
		// rejection keeps the directions uniform on the sphere
		if l2 < 1e-4 || l2 > 1 {
			continue
		}
		l := math.Sqrt(l2)
		for i := range g {
			g[i] /= l
		}
		table = append(table, g)
	}
	return table
}

func gradientTable(dims int) [][]float64 {
	switch dims {
	case 2:
		return gradients2
	case 3:
		return gradients3
	case 4:
		return gradients4
	default:
		return gradients6
	}
}
