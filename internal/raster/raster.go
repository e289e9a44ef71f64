// Package raster samples noise modules onto pixel grids and turns them
// into images.
package raster

import (
	"context"
	"fmt"
	"math"

	"github.com/MeKo-Tech/noisegraph/internal/implicit"
	"golang.org/x/sync/errgroup"
)

// Domain is the rectangle of noise space covered by a grid. Pixel (i, j)
// of a w x h grid samples X0 + i/w*(X1-X0), Y0 + j/h*(Y1-Y0), so grids of
// adjacent domains continue each other without a repeated row.
type Domain struct {
	X0, Y0, X1, Y1 float64
}

// Validate checks that the domain has positive extent on both axes.
func (d Domain) Validate() error {
	if !(d.X1 > d.X0) || !(d.Y1 > d.Y0) {
		return fmt.Errorf("empty domain [%g, %g] x [%g, %g]", d.X0, d.X1, d.Y0, d.Y1)
	}
	return nil
}

// Mapping selects how pixel coordinates become module coordinates.
type Mapping int

const (
	// MappingNone samples the module in 2D.
	MappingNone Mapping = iota
	// MappingSeamlessX wraps x around a circle and samples in 3D, so the
	// left and right edges meet.
	MappingSeamlessX
	// MappingSeamlessY is MappingSeamlessX for the y axis.
	MappingSeamlessY
	// MappingSeamlessXY wraps both axes onto a torus in 4D.
	MappingSeamlessXY
)

var mappingNames = map[Mapping]string{
	MappingNone:       "none",
	MappingSeamlessX:  "seamless-x",
	MappingSeamlessY:  "seamless-y",
	MappingSeamlessXY: "seamless-xy",
}

func (m Mapping) String() string {
	if s, ok := mappingNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mapping(%d)", int(m))
}

func ParseMapping(s string) (Mapping, error) {
	for m, name := range mappingNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mapping %q (none, seamless-x, seamless-y, seamless-xy)", s)
}

// Grid is a row-major buffer of samples.
type Grid struct {
	W, H int
	Data []float64
}

func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Data: make([]float64, w*h)}
}

func (g *Grid) At(x, y int) float64 { return g.Data[y*g.W+x] }

func (g *Grid) Set(x, y int, v float64) { g.Data[y*g.W+x] = v }

// sampler evaluates one pixel position given as fractions p, q in [0, 1).
func sampler(m implicit.Module, d Domain, mp Mapping) func(p, q float64) float64 {
	dx := d.X1 - d.X0
	dy := d.Y1 - d.Y0
	rx := dx / (2 * math.Pi)
	ry := dy / (2 * math.Pi)

	switch mp {
	case MappingSeamlessX:
		return func(p, q float64) float64 {
			a := p * 2 * math.Pi
			return m.Get3D(d.X0+math.Cos(a)*rx, d.Y0+q*dy, d.X0+math.Sin(a)*rx)
		}
	case MappingSeamlessY:
		return func(p, q float64) float64 {
			a := q * 2 * math.Pi
			return m.Get3D(d.X0+p*dx, d.Y0+math.Cos(a)*ry, d.Y0+math.Sin(a)*ry)
		}
	case MappingSeamlessXY:
		return func(p, q float64) float64 {
			a := p * 2 * math.Pi
			b := q * 2 * math.Pi
			return m.Get4D(
				d.X0+math.Cos(a)*rx,
				d.Y0+math.Cos(b)*ry,
				d.X0+math.Sin(a)*rx,
				d.Y0+math.Sin(b)*ry,
			)
		}
	default:
		return func(p, q float64) float64 {
			return m.Get2D(d.X0+p*dx, d.Y0+q*dy)
		}
	}
}

// window is the part of the domain a grid covers, as fractions of the
// domain: pixel (x, y) sits at p0 + x/W*dp, q0 + y/H*dq.
type window struct {
	p0, q0, dp, dq float64
}

var whole = window{dp: 1, dq: 1}

func (g *Grid) fillRows(f func(p, q float64) float64, win window, y0, y1 int) {
	for y := y0; y < y1; y++ {
		q := win.q0 + float64(y)/float64(g.H)*win.dq
		row := g.Data[y*g.W : (y+1)*g.W]
		for x := range row {
			row[x] = f(win.p0+float64(x)/float64(g.W)*win.dp, q)
		}
	}
}

// Sample evaluates m over d into a w x h grid on the calling goroutine.
func Sample(m implicit.Module, d Domain, w, h int, mp Mapping) *Grid {
	g := NewGrid(w, h)
	g.fillRows(sampler(m, d, mp), whole, 0, h)
	return g
}

// SampleRegion evaluates the part r of the world domain d. Seamless
// mappings wrap around d, not r, so neighbouring regions of one world
// line up and the world edges meet.
func SampleRegion(m implicit.Module, d, r Domain, w, h int, mp Mapping) *Grid {
	dx := d.X1 - d.X0
	dy := d.Y1 - d.Y0
	win := window{
		p0: (r.X0 - d.X0) / dx,
		q0: (r.Y0 - d.Y0) / dy,
		dp: (r.X1 - r.X0) / dx,
		dq: (r.Y1 - r.Y0) / dy,
	}
	g := NewGrid(w, h)
	g.fillRows(sampler(m, d, mp), win, 0, h)
	return g
}

// SampleParallel splits the grid into horizontal bands and samples each
// band on its own goroutine. Modules keep per-instance caches, so build is
// called once per band and must return an independent graph each time.
func SampleParallel(ctx context.Context, build func() (implicit.Module, error), d Domain, w, h int, mp Mapping, bands int) (*Grid, error) {
	if bands < 1 {
		bands = 1
	}
	if bands > h {
		bands = h
	}

	g := NewGrid(w, h)
	eg, ctx := errgroup.WithContext(ctx)
	for b := 0; b < bands; b++ {
		b := b
		y0 := b * h / bands
		y1 := (b + 1) * h / bands
		eg.Go(func() error {
			m, err := build()
			if err != nil {
				return fmt.Errorf("build band %d: %w", b, err)
			}
			f := sampler(m, d, mp)
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				g.fillRows(f, whole, y, y+1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return g, nil
}

// Range returns the smallest and largest sample. NaN samples are ignored;
// a grid of only NaN reports (NaN, NaN).
func (g *Grid) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.Data {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}

// Normalize linearly maps the grid's range onto [low, high] in place. A
// flat grid becomes low everywhere.
func (g *Grid) Normalize(low, high float64) {
	lo, hi := g.Range()
	if math.IsNaN(lo) {
		return
	}
	if hi == lo {
		for i := range g.Data {
			g.Data[i] = low
		}
		return
	}
	scale := (high - low) / (hi - lo)
	for i, v := range g.Data {
		g.Data[i] = low + (v-lo)*scale
	}
}
