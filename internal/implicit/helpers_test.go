package implicit

import "github.com/MeKo-Tech/noisegraph/internal/kernel"

// recorder returns value + slope*x and remembers every point it was asked
// for.
type recorder struct {
	Base
	value  float64
	slope  float64
	points [][]float64
	seeds  []uint32
}

func (r *recorder) record(c ...float64) float64 {
	r.points = append(r.points, c)
	return r.value + r.slope*c[0]
}

func (r *recorder) Get2D(x, y float64) float64       { return r.record(x, y) }
func (r *recorder) Get3D(x, y, z float64) float64    { return r.record(x, y, z) }
func (r *recorder) Get4D(x, y, z, w float64) float64 { return r.record(x, y, z, w) }
func (r *recorder) SetSeed(seed uint32)              { r.seeds = append(r.seeds, seed) }

func (r *recorder) Get6D(x, y, z, w, u, v float64) float64 {
	return r.record(x, y, z, w, u, v)
}

// countingKernel counts kernel invocations. With no inner kernel it fills
// F with 1, 2, 3, 4.
type countingKernel struct {
	inner kernel.CellularKernel
	calls int
}

func (k *countingKernel) fill(f, d *[4]float64) {
	*f = [4]float64{1, 2, 3, 4}
	*d = [4]float64{-1, -0.5, 0.5, 1}
}

func (k *countingKernel) Cellular2D(x, y float64, seed uint32, f, d *[4]float64) {
	k.calls++
	if k.inner == nil {
		k.fill(f, d)
		return
	}
	k.inner.Cellular2D(x, y, seed, f, d)
}

func (k *countingKernel) Cellular3D(x, y, z float64, seed uint32, f, d *[4]float64) {
	k.calls++
	if k.inner == nil {
		k.fill(f, d)
		return
	}
	k.inner.Cellular3D(x, y, z, seed, f, d)
}

func (k *countingKernel) Cellular4D(x, y, z, w float64, seed uint32, f, d *[4]float64) {
	k.calls++
	if k.inner == nil {
		k.fill(f, d)
		return
	}
	k.inner.Cellular4D(x, y, z, w, seed, f, d)
}

func (k *countingKernel) Cellular6D(x, y, z, w, u, v float64, seed uint32, f, d *[4]float64) {
	k.calls++
	if k.inner == nil {
		k.fill(f, d)
		return
	}
	k.inner.Cellular6D(x, y, z, w, u, v, seed, f, d)
}
