package implicit

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/noisegraph/internal/kernel"
	"github.com/MeKo-Tech/noisegraph/internal/prng"
)

// BasisType selects the noise kernel of a BasisFunction.
type BasisType int

const (
	BasisValue BasisType = iota
	BasisGradient
	BasisGradval
	BasisSimplex
	BasisWhite
)

var basisNames = map[BasisType]string{
	BasisValue:    "value",
	BasisGradient: "gradient",
	BasisGradval:  "gradval",
	BasisSimplex:  "simplex",
	BasisWhite:    "white",
}

func (b BasisType) String() string {
	if s, ok := basisNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BasisType(%d)", int(b))
}

// ParseBasisType maps a lower-case name to a BasisType.
func ParseBasisType(s string) (BasisType, error) {
	for t, name := range basisNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown basis type %q", s)
}

// InterpType selects the lattice interpolation of a BasisFunction.
type InterpType int

const (
	InterpNone InterpType = iota
	InterpLinear
	InterpCubic
	InterpQuintic
)

var interpNames = map[InterpType]string{
	InterpNone:    "none",
	InterpLinear:  "linear",
	InterpCubic:   "cubic",
	InterpQuintic: "quintic",
}

var interpFuncs = map[InterpType]kernel.InterpFunc{
	InterpNone:    kernel.NoInterp,
	InterpLinear:  kernel.LinearInterp,
	InterpCubic:   kernel.HermiteInterp,
	InterpQuintic: kernel.QuinticInterp,
}

func (i InterpType) String() string {
	if s, ok := interpNames[i]; ok {
		return s
	}
	return fmt.Sprintf("InterpType(%d)", int(i))
}

func ParseInterpType(s string) (InterpType, error) {
	for t, name := range interpNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q", s)
}

// basisEntry holds the kernels of one basis type together with the
// empirical (scale, offset) pairs that bring each kernel's output to
// roughly [-1, 1], indexed 2D, 3D, 4D, 6D.
type basisEntry struct {
	f2     kernel.Noise2Func
	f3     kernel.Noise3Func
	f4     kernel.Noise4Func
	f6     kernel.Noise6Func
	scale  [4]float64
	offset [4]float64
}

var identityScale = [4]float64{1, 1, 1, 1}

var basisTable = map[BasisType]basisEntry{
	BasisValue: {
		f2: kernel.ValueNoise2D, f3: kernel.ValueNoise3D, f4: kernel.ValueNoise4D, f6: kernel.ValueNoise6D,
		scale: identityScale,
	},
	BasisGradient: {
		f2: kernel.GradientNoise2D, f3: kernel.GradientNoise3D, f4: kernel.GradientNoise4D, f6: kernel.GradientNoise6D,
		scale:  [4]float64{1.86848, 1.85148, 1.64127, 1.92517},
		offset: [4]float64{-0.000118, -0.008272, -0.01527, 0.03393},
	},
	BasisGradval: {
		f2: kernel.GradvalNoise2D, f3: kernel.GradvalNoise3D, f4: kernel.GradvalNoise4D, f6: kernel.GradvalNoise6D,
		scale:  [4]float64{0.6769, 0.6957, 0.74622, 0.7961},
		offset: [4]float64{-0.00151, -0.133, 0.01916, -0.0352},
	},
	BasisSimplex: {
		f2: kernel.SimplexNoise2D, f3: kernel.SimplexNoise3D, f4: kernel.SimplexNoise4D, f6: kernel.SimplexNoise6D,
		scale: identityScale,
	},
	BasisWhite: {
		f2: kernel.WhiteNoise2D, f3: kernel.WhiteNoise3D, f4: kernel.WhiteNoise4D, f6: kernel.WhiteNoise6D,
		scale: identityScale,
	},
}

const defaultBasisSeed = 1000

// BasisFunction samples a single noise kernel after rotating the input
// away from the lattice axes. The rotation is derived from the seed.
type BasisFunction struct {
	Base

	basis    BasisType
	interp   InterpType
	entry    basisEntry
	interpFn kernel.InterpFunc

	seed         uint32
	rot          [3][3]float64
	cos2d, sin2d float64
}

// NewBasisFunction returns a basis function seeded with 1000.
func NewBasisFunction(basis BasisType, interp InterpType) *BasisFunction {
	b := &BasisFunction{}
	b.SetType(basis)
	b.SetInterp(interp)
	b.SetSeed(defaultBasisSeed)
	return b
}

// SetType switches the kernel. Unknown types fall back to gradient.
func (b *BasisFunction) SetType(t BasisType) {
	e, ok := basisTable[t]
	if !ok {
		t, e = BasisGradient, basisTable[BasisGradient]
	}
	b.basis = t
	b.entry = e
}

func (b *BasisFunction) Type() BasisType { return b.basis }

func (b *BasisFunction) SetInterp(i InterpType) {
	fn, ok := interpFuncs[i]
	if !ok {
		i, fn = InterpQuintic, kernel.QuinticInterp
	}
	b.interp = i
	b.interpFn = fn
}

func (b *BasisFunction) Interp() InterpType { return b.interp }

func (b *BasisFunction) Seed() uint32 { return b.seed }

// ScaleOffset returns the magic numbers for a dimensionality (2, 3, 4
// or 6). Callers apply them as v*scale + offset.
func (b *BasisFunction) ScaleOffset(dims int) (scale, offset float64) {
	i := dimIndex(dims)
	return b.entry.scale[i], b.entry.offset[i]
}

// SetSeed reseeds the kernel and derives both rotations from an LCG
// seeded with seed.
func (b *BasisFunction) SetSeed(seed uint32) {
	b.seed = seed
	lcg := prng.NewLCGSeeded(seed)

	ax := prng.Get01(lcg)
	ay := prng.Get01(lcg)
	az := prng.Get01(lcg)
	l := math.Sqrt(ax*ax + ay*ay + az*az)
	b.SetRotationAngle(ax/l, ay/l, az/l, prng.Get01(lcg)*math.Pi*2)

	angle := prng.Get01(lcg) * math.Pi * 2
	b.cos2d = math.Cos(angle)
	b.sin2d = math.Sin(angle)
}

// SetRotationAngle sets the 3D rotation to angle radians about the axis
// (x, y, z), which should be unit length.
func (b *BasisFunction) SetRotationAngle(x, y, z, angle float64) {
	b.rot = rotationMatrix(x, y, z, angle)
}

// Rotation returns the current 3D rotation matrix.
func (b *BasisFunction) Rotation() [3][3]float64 { return b.rot }

func (b *BasisFunction) rotate(x, y, z float64) (nx, ny, nz float64) {
	return rotate3(&b.rot, x, y, z)
}

// rotationMatrix is the rotation by angle radians about the unit axis
// (x, y, z). Points are multiplied as column vectors of the transpose.
func rotationMatrix(x, y, z, angle float64) [3][3]float64 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	ic := 1 - c

	var r [3][3]float64
	r[0][0] = 1 + ic*(x*x-1)
	r[1][0] = -z*s + ic*x*y
	r[2][0] = y*s + ic*x*z

	r[0][1] = z*s + ic*x*y
	r[1][1] = 1 + ic*(y*y-1)
	r[2][1] = -x*s + ic*y*z

	r[0][2] = -y*s + ic*x*z
	r[1][2] = x*s + ic*y*z
	r[2][2] = 1 + ic*(z*z-1)
	return r
}

func rotate3(m *[3][3]float64, x, y, z float64) (nx, ny, nz float64) {
	nx = m[0][0]*x + m[1][0]*y + m[2][0]*z
	ny = m[0][1]*x + m[1][1]*y + m[2][1]*z
	nz = m[0][2]*x + m[1][2]*y + m[2][2]*z
	return nx, ny, nz
}

func (b *BasisFunction) Get2D(x, y float64) float64 {
	nx := x*b.cos2d - y*b.sin2d
	ny := y*b.cos2d + x*b.sin2d
	return b.entry.f2(nx, ny, b.seed, b.interpFn)
}

func (b *BasisFunction) Get3D(x, y, z float64) float64 {
	nx, ny, nz := b.rotate(x, y, z)
	return b.entry.f3(nx, ny, nz, b.seed, b.interpFn)
}

func (b *BasisFunction) Get4D(x, y, z, w float64) float64 {
	nx, ny, nz := b.rotate(x, y, z)
	return b.entry.f4(nx, ny, nz, w, b.seed, b.interpFn)
}

func (b *BasisFunction) Get6D(x, y, z, w, u, v float64) float64 {
	nx, ny, nz := b.rotate(x, y, z)
	return b.entry.f6(nx, ny, nz, w, u, v, b.seed, b.interpFn)
}
