package preset

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsBuild(t *testing.T) {
	for _, name := range (*Set)(nil).Names() {
		t.Run(name, func(t *testing.T) {
			p, ok := Builtin(name)
			require.True(t, ok)
			require.NoError(t, p.Validate())

			m, err := p.Build()
			require.NoError(t, err)
			for i := 0; i < 16; i++ {
				x, y := float64(i)*0.37-3, float64(i)*0.11+0.5
				v := m.Get2D(x, y)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
				v = m.Get3D(x, y, 0.25)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, name := range []string{"terrain", "crackle", "opensimplex"} {
		p, _ := Builtin(name)
		p.Seed = 42
		a, err := p.Build()
		require.NoError(t, err)
		b, err := p.Build()
		require.NoError(t, err)

		p.Seed = 43
		c, err := p.Build()
		require.NoError(t, err)

		differ := 0
		for i := 0; i < 32; i++ {
			x, y := float64(i)*0.173, float64(i)*-0.29
			require.Equal(t, a.Get2D(x, y), b.Get2D(x, y), name)
			if a.Get2D(x, y) != c.Get2D(x, y) {
				differ++
			}
		}
		assert.Greater(t, differ, 16, name)
	}
}

func TestPostStages(t *testing.T) {
	grad := Preset{Kind: KindGradient}

	m, err := grad.Build()
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.Get2D(0.25, 0.75))

	p := grad
	p.ScaleDomain = []float64{2, 2}
	m, err = p.Build()
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.Get2D(0.25, 0.25))

	p = grad
	p.Clamp = []float64{0, 0.25}
	m, err = p.Build()
	require.NoError(t, err)
	assert.Equal(t, 0.25, m.Get2D(1, 1))
	assert.Equal(t, 0.0, m.Get2D(-1, -1))

	p = grad
	p.Select = &SelectConfig{Low: -1, High: 1, Threshold: 0.5}
	m, err = p.Build()
	require.NoError(t, err)
	assert.Equal(t, -1.0, m.Get2D(0, 0))
	assert.Equal(t, 1.0, m.Get2D(1, 1))

	p = grad
	p.Rotate = &RotateConfig{Angle: 0.25}
	m, err = p.Build()
	require.NoError(t, err)
	// (1, 0) turns onto (0, 1)
	assert.InDelta(t, 0.5, m.Get2D(1, 0), 1e-12)
	assert.InDelta(t, 0.0, m.Get2D(1, 1), 1e-12)

	p = grad
	p.Tiers = &TiersConfig{Count: 4}
	m, err = p.Build()
	require.NoError(t, err)
	assert.Equal(t, 0.25, m.Get2D(0.3, 0.4))

	p = grad
	p.Gradient = GradientConfig{From: []float64{0, 0, 0}, To: []float64{0, 0, 4}}
	m, err = p.Build()
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.Get3D(9, 9, 2))
}

func TestBuildGraphStructure(t *testing.T) {
	p, _ := Builtin("worley")
	g, err := p.BuildGraph()
	require.NoError(t, err)
	// cellular, scale domain, autocorrect
	assert.Equal(t, 3, g.Len())
	assert.Len(t, g.Inputs(2), 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Preset
	}{
		{"unknown kind", Preset{Kind: "plasma"}},
		{"unknown fractal", Preset{Kind: KindFractal, Fractal: fractal("turbulence")}},
		{"unknown basis", Preset{Kind: KindFractal, Fractal: FractalConfig{Type: "fbm", Basis: "wavelet"}}},
		{"unknown interp", Preset{Kind: KindFractal, Fractal: FractalConfig{Type: "fbm", Interp: "bicubic"}}},
		{"too many octaves", Preset{Kind: KindFractal, Fractal: FractalConfig{Type: "fbm", Octaves: intp(21)}}},
		{"zero octaves", Preset{Kind: KindFractal, Fractal: FractalConfig{Type: "fbm", Octaves: intp(0)}}},
		{"coefficients", Preset{Kind: KindCellular, Cellular: CellularConfig{Coefficients: make([]float64, 5)}}},
		{"perlin octaves", Preset{Kind: KindPerlin}},
		{"gradient axes", Preset{Kind: KindGradient, Gradient: GradientConfig{To: make([]float64, 7)}}},
		{"scale domain axes", Preset{Kind: KindOpenSimplex, ScaleDomain: make([]float64, 7)}},
		{"autocorrect arity", Preset{Kind: KindOpenSimplex, AutoCorrect: []float64{1}}},
		{"autocorrect order", Preset{Kind: KindOpenSimplex, AutoCorrect: []float64{1, 0}}},
		{"clamp order", Preset{Kind: KindOpenSimplex, Clamp: []float64{2, 2}}},
		{"rotate axis", Preset{Kind: KindOpenSimplex, Rotate: &RotateConfig{Axis: make([]float64, 4)}}},
		{"zero tiers", Preset{Kind: KindOpenSimplex, Tiers: &TiersConfig{}}},
		{"negative falloff", Preset{Kind: KindOpenSimplex, Select: &SelectConfig{Falloff: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			_, err = tt.p.Build()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

const configYAML = `
presets:
  dunes:
    description: soft dunes
    kind: fractal
    seed: 7
    fractal:
      type: billow
      basis: simplex
      octaves: 4
      frequency: 0.5
    autocorrect: [0, 1]
  terrain:
    kind: cellular
    cellular:
      coefficients: [0, 1]
`

func loadYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return v
}

func TestLoad(t *testing.T) {
	s, err := Load(loadYAML(t, configYAML), "presets")
	require.NoError(t, err)

	got, err := s.Get("dunes")
	require.NoError(t, err)
	want := Preset{
		Description: "soft dunes",
		Kind:        KindFractal,
		Seed:        7,
		Fractal: FractalConfig{
			Type:      "billow",
			Basis:     "simplex",
			Octaves:   intp(4),
			Frequency: floatp(0.5),
		},
		AutoCorrect: []float64{0, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded preset mismatch (-want +got):\n%s", diff)
	}

	// configured presets shadow built-ins
	terrain, err := s.Get("terrain")
	require.NoError(t, err)
	assert.Equal(t, KindCellular, terrain.Kind)
	assert.True(t, s.IsCustom("terrain"))
	assert.False(t, s.IsCustom("ridges"))

	names := s.Names()
	assert.Contains(t, names, "dunes")
	assert.Contains(t, names, "ridges")
	assert.IsIncreasing(t, names)

	_, err = s.Get("nope")
	assert.Error(t, err)
}

func TestLoadMissingKey(t *testing.T) {
	s, err := Load(viper.New(), "presets")
	require.NoError(t, err)
	p, err := s.Get("ridges")
	require.NoError(t, err)
	assert.Equal(t, KindFractal, p.Kind)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := loadYAML(t, `
presets:
  broken:
    kind: fractal
    fractal:
      type: nope
`)
	_, err := Load(v, "presets")
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), `"broken"`)
}
