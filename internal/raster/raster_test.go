package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/MeKo-Tech/noisegraph/internal/implicit"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/image/tiff"
)

// dimCounter records the dimensionality of every call.
type dimCounter struct {
	implicit.Base
	dims []int
}

func (p *dimCounter) Get2D(x, y float64) float64 {
	p.dims = append(p.dims, 2)
	return x
}

func (p *dimCounter) Get3D(x, y, z float64) float64 {
	p.dims = append(p.dims, 3)
	return x
}

func (p *dimCounter) Get4D(x, y, z, w float64) float64 {
	p.dims = append(p.dims, 4)
	return x
}

func (p *dimCounter) Get6D(x, y, z, w, u, v float64) float64 {
	p.dims = append(p.dims, 6)
	return x
}

var unitDomain = Domain{X0: 0, Y0: 0, X1: 1, Y1: 1}

func TestSample_Gradient(t *testing.T) {
	g := Sample(implicit.NewGradient(), unitDomain, 4, 4, MappingNone)
	require.Equal(t, 16, len(g.Data))
	assert.Equal(t, 0.0, g.At(0, 0))
	// (x + y) / 2 at (0.5, 0.5)
	assert.Equal(t, 0.5, g.At(2, 2))
	assert.Equal(t, 0.375, g.At(3, 0))
}

func TestSample_MappingDimensions(t *testing.T) {
	tests := []struct {
		mapping Mapping
		dims    int
	}{
		{MappingNone, 2},
		{MappingSeamlessX, 3},
		{MappingSeamlessY, 3},
		{MappingSeamlessXY, 4},
	}
	for _, tt := range tests {
		t.Run(tt.mapping.String(), func(t *testing.T) {
			p := &dimCounter{}
			Sample(p, unitDomain, 3, 2, tt.mapping)
			require.Len(t, p.dims, 6)
			for _, d := range p.dims {
				assert.Equal(t, tt.dims, d)
			}
		})
	}
}

func TestSample_SeamlessEdgesMeet(t *testing.T) {
	m := implicit.NewOpenSimplex()
	d := Domain{X0: 2, Y0: -1, X1: 6, Y1: 3}

	fx := sampler(m, d, MappingSeamlessX)
	fy := sampler(m, d, MappingSeamlessY)
	fxy := sampler(m, d, MappingSeamlessXY)
	for _, q := range []float64{0, 0.3, 0.71} {
		assert.InDelta(t, fx(0, q), fx(1, q), 1e-9)
		assert.InDelta(t, fy(q, 0), fy(q, 1), 1e-9)
		assert.InDelta(t, fxy(0, q), fxy(1, q), 1e-9)
		assert.InDelta(t, fxy(q, 0), fxy(q, 1), 1e-9)
	}
}

func TestSampleRegion(t *testing.T) {
	world := Domain{X0: 0, Y0: 0, X1: 4, Y1: 4}

	g := SampleRegion(implicit.NewGradient(), world, Domain{X0: 2, Y0: 0, X1: 4, Y1: 2}, 2, 2, MappingNone)
	assert.Equal(t, 1.0, g.At(0, 0))
	assert.Equal(t, 2.0, g.At(1, 1))

	// two halves of a seamless world put together give the whole world
	m := implicit.NewOpenSimplex()
	full := Sample(m, world, 8, 4, MappingSeamlessXY)
	left := SampleRegion(m, world, Domain{X0: 0, Y0: 0, X1: 2, Y1: 4}, 4, 4, MappingSeamlessXY)
	right := SampleRegion(m, world, Domain{X0: 2, Y0: 0, X1: 4, Y1: 4}, 4, 4, MappingSeamlessXY)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.InDelta(t, full.At(x, y), left.At(x, y), 1e-12)
			assert.InDelta(t, full.At(x+4, y), right.At(x, y), 1e-12)
		}
	}
}

func newFractal() (implicit.Module, error) {
	f := implicit.NewFractal(implicit.FBM, implicit.BasisGradient, implicit.InterpQuintic)
	f.SetNumOctaves(4)
	f.SetSeed(99)
	return f, nil
}

func TestSampleParallel_MatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, _ := newFractal()
	want := Sample(m, unitDomain, 24, 17, MappingSeamlessXY)

	got, err := SampleParallel(context.Background(), newFractal, unitDomain, 24, 17, MappingSeamlessXY, 5)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parallel grid differs (-want +got):\n%s", diff)
	}

	// more bands than rows
	got, err = SampleParallel(context.Background(), newFractal, unitDomain, 24, 17, MappingSeamlessXY, 100)
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
}

func TestSampleParallel_BuildError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	_, err := SampleParallel(context.Background(), func() (implicit.Module, error) {
		return nil, boom
	}, unitDomain, 8, 8, MappingNone, 4)
	assert.ErrorIs(t, err, boom)
}

func TestSampleParallel_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SampleParallel(ctx, newFractal, unitDomain, 8, 8, MappingNone, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridRangeNormalize(t *testing.T) {
	g := NewGrid(2, 2)
	copy(g.Data, []float64{-2, 0, math.NaN(), 6})

	lo, hi := g.Range()
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 6.0, hi)

	g.Normalize(0, 1)
	assert.Equal(t, 0.0, g.At(0, 0))
	assert.Equal(t, 0.25, g.At(1, 0))
	assert.Equal(t, 1.0, g.At(1, 1))
	assert.True(t, math.IsNaN(g.At(0, 1)))

	flat := NewGrid(3, 1)
	flat.Normalize(5, 10)
	assert.Equal(t, []float64{5, 5, 5}, flat.Data)

	empty := NewGrid(1, 1)
	empty.Data[0] = math.NaN()
	lo, _ = empty.Range()
	assert.True(t, math.IsNaN(lo))
}

func TestDomainValidate(t *testing.T) {
	assert.NoError(t, unitDomain.Validate())
	assert.Error(t, Domain{X0: 1, X1: 1, Y1: 1}.Validate())
	assert.Error(t, Domain{X1: 1, Y0: 2, Y1: 1}.Validate())
	assert.Error(t, Domain{X1: math.NaN(), Y1: 1}.Validate())
}

func TestToGray(t *testing.T) {
	g := NewGrid(4, 1)
	copy(g.Data, []float64{-1, 0, 1, 3})

	img := ToGray(g, -1, 1)
	got := []uint8{img.GrayAt(0, 0).Y, img.GrayAt(1, 0).Y, img.GrayAt(2, 0).Y, img.GrayAt(3, 0).Y}
	assert.Equal(t, []uint8{0, 128, 255, 255}, got)

	img16 := ToGray16(g, -1, 1)
	assert.Equal(t, uint16(0), img16.Gray16At(0, 0).Y)
	assert.Equal(t, uint16(32768), img16.Gray16At(1, 0).Y)
	assert.Equal(t, uint16(65535), img16.Gray16At(3, 0).Y)
}

func TestFilter(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 9, 9))
	src.SetGray(4, 4, color.Gray{Y: 255})

	assert.Same(t, src, Filter(src, FilterOptions{}))

	blurred := Filter(src, FilterOptions{Blur: 1.5})
	out, ok := blurred.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, src.Bounds(), out.Bounds())
	assert.Less(t, out.GrayAt(4, 4).Y, uint8(255))
	assert.Greater(t, out.GrayAt(5, 4).Y, uint8(0))

	inv := Filter(src, FilterOptions{Invert: true}).(*image.Gray)
	assert.Equal(t, uint8(255), inv.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), inv.GrayAt(4, 4).Y)

	deep := Filter(image.NewGray16(image.Rect(0, 0, 4, 4)), FilterOptions{Contrast: 20})
	_, ok = deep.(*image.Gray16)
	assert.True(t, ok)
}

func TestEncode(t *testing.T) {
	g := Sample(implicit.NewGradient(), unitDomain, 8, 8, MappingNone)
	img16 := ToGray16(g, 0, 1)

	var buf bytes.Buffer
	require.NoError(t, EncodeTIFF(&buf, img16))
	decoded, err := tiff.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img16.Gray16At(5, 3), color.Gray16Model.Convert(decoded.At(5, 3)))

	buf.Reset()
	img8 := ToGray(g, 0, 1)
	require.NoError(t, EncodePNG(&buf, img8, png.BestSpeed))
	decoded, err = png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img8.GrayAt(7, 2), color.GrayModel.Convert(decoded.At(7, 2)))
}

func TestParseNames(t *testing.T) {
	for m, name := range mappingNames {
		got, err := ParseMapping(name)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMapping("spherical")
	assert.Error(t, err)

	lvl, err := ParseCompression("best")
	require.NoError(t, err)
	assert.Equal(t, png.BestCompression, lvl)
	_, err = ParseCompression("max")
	assert.Error(t, err)
}
