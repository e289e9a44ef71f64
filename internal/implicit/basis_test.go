package implicit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasisFunction_Defaults(t *testing.T) {
	b := NewBasisFunction(BasisGradient, InterpQuintic)
	assert.Equal(t, uint32(1000), b.Seed())
	assert.Equal(t, BasisGradient, b.Type())
	assert.Equal(t, InterpQuintic, b.Interp())

	scale, offset := b.ScaleOffset(2)
	assert.Equal(t, 1.86848, scale)
	assert.Equal(t, -0.000118, offset)
	scale, offset = b.ScaleOffset(6)
	assert.Equal(t, 1.92517, scale)
	assert.Equal(t, 0.03393, offset)

	b.SetType(BasisSimplex)
	scale, offset = b.ScaleOffset(4)
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, 0.0, offset)
}

func TestBasisFunction_Deterministic(t *testing.T) {
	for _, bt := range []BasisType{BasisValue, BasisGradient, BasisGradval, BasisSimplex, BasisWhite} {
		a := NewBasisFunction(bt, InterpQuintic)
		b := NewBasisFunction(bt, InterpQuintic)
		a.SetSeed(4321)
		b.SetSeed(4321)
		for i := 0; i < 100; i++ {
			x := float64(i)*0.37 - 10
			y := float64(i)*0.11 + 2
			require.Equal(t, a.Get2D(x, y), b.Get2D(x, y), bt.String())
			require.Equal(t, a.Get3D(x, y, 0.5), b.Get3D(x, y, 0.5), bt.String())
			require.Equal(t, a.Get4D(x, y, 0.5, -1), b.Get4D(x, y, 0.5, -1), bt.String())
			require.Equal(t, a.Get6D(x, y, 0.5, -1, 2, 3), b.Get6D(x, y, 0.5, -1, 2, 3), bt.String())
		}
	}
}

func TestBasisFunction_SeedChangesRotation(t *testing.T) {
	b := NewBasisFunction(BasisGradient, InterpQuintic)
	b.SetSeed(1)
	r1 := b.Rotation()
	c1 := b.cos2d
	b.SetSeed(2)
	assert.NotEqual(t, r1, b.Rotation())
	assert.NotEqual(t, c1, b.cos2d)

	b.SetSeed(1)
	assert.Equal(t, r1, b.Rotation())
}

func TestBasisFunction_RotationIsOrthonormal(t *testing.T) {
	for _, seed := range []uint32{0, 1, 1000, 1234, 0xFFFFFFFF} {
		b := NewBasisFunction(BasisValue, InterpLinear)
		b.SetSeed(seed)
		m := b.Rotation()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var dot float64
				for k := 0; k < 3; k++ {
					dot += m[i][k] * m[j][k]
				}
				want := 0.0
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, dot, 1e-9, "seed %d row %d.%d", seed, i, j)
			}
		}
		assert.InDelta(t, 1.0, b.cos2d*b.cos2d+b.sin2d*b.sin2d, 1e-12)
	}
}

func TestBasisFunction_ExplicitRotation(t *testing.T) {
	b := NewBasisFunction(BasisValue, InterpLinear)
	// a quarter turn about z maps x onto y
	b.SetRotationAngle(0, 0, 1, math.Pi/2)
	x, y, z := b.rotate(1, 0, 0)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, 1.0, math.Abs(y), 1e-12)
	assert.InDelta(t, 0.0, z, 1e-12)
}

func TestParseNames(t *testing.T) {
	for bt, name := range basisNames {
		got, err := ParseBasisType(name)
		require.NoError(t, err)
		assert.Equal(t, bt, got)
	}
	for it, name := range interpNames {
		got, err := ParseInterpType(name)
		require.NoError(t, err)
		assert.Equal(t, it, got)
	}
	_, err := ParseBasisType("perlin")
	assert.Error(t, err)
	_, err = ParseInterpType("bicubic")
	assert.Error(t, err)
}
