package implicit

import (
	"testing"

	"github.com/MeKo-Tech/noisegraph/internal/prng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_LinkAndRoot(t *testing.T) {
	g := NewGraph()
	sum := g.Add(NewCombiner(CombineAdd))
	a := g.Add(NewConstant(1))
	b := g.Add(NewConstant(2))

	require.NoError(t, g.Link(sum, Slot{Name: SlotSource, Index: 0}, a))
	require.NoError(t, g.Link(sum, Slot{Name: SlotSource, Index: 1}, b))
	assert.Equal(t, 3.0, g.Root().Get2D(0, 0))

	in := g.Inputs(sum)
	assert.Len(t, in, 2)
	assert.Equal(t, b, in[Slot{Name: SlotSource, Index: 1}])

	// relinking a slot replaces the edge
	require.NoError(t, g.Link(sum, Slot{Name: SlotSource, Index: 1}, a))
	assert.Equal(t, 2.0, g.Root().Get2D(0, 0))
	assert.Len(t, g.Inputs(sum), 2)

	require.NoError(t, g.SetRoot(b))
	assert.Equal(t, 2.0, g.Root().Get2D(0, 0))
	assert.ErrorIs(t, g.SetRoot(10), ErrUnknownNode)
}

func TestGraph_RejectsCycles(t *testing.T) {
	g := NewGraph()
	a := g.Add(NewCombiner(CombineAdd))
	b := g.Add(NewScaleOffset(Value(0), 1, 0))
	c := g.Add(NewCache(Value(0)))

	require.NoError(t, g.Link(a, Slot{Name: SlotSource}, b))
	require.NoError(t, g.Link(b, Slot{Name: SlotSource}, c))

	assert.ErrorIs(t, g.Link(c, Slot{Name: SlotSource}, a), ErrCycle)
	assert.ErrorIs(t, g.Link(a, Slot{Name: SlotSource, Index: 1}, a), ErrCycle)

	// a diamond is fine
	require.NoError(t, g.Link(a, Slot{Name: SlotSource, Index: 1}, c))
}

func TestGraph_BadLinks(t *testing.T) {
	g := NewGraph()
	f := g.Add(NewFractal(FBM, BasisGradient, InterpQuintic))
	c := g.Add(NewConstant(1))

	assert.ErrorIs(t, g.Link(f, Slot{Name: SlotLow}, c), ErrBadSlot)
	assert.ErrorIs(t, g.Link(f, Slot{Name: SlotSource, Index: MaxSources}, c), ErrBadSlot)
	assert.ErrorIs(t, g.Link(c, Slot{Name: SlotSource}, f), ErrBadSlot)
	assert.ErrorIs(t, g.Link(f, Slot{Name: SlotSource}, 5), ErrUnknownNode)
	assert.Empty(t, g.Inputs(f))
}

func TestGraph_SeedIsReproducible(t *testing.T) {
	build := func() *Graph {
		g := NewGraph()
		root := g.Add(NewAutoCorrectRange(nil, 0, 1))
		fr := g.Add(NewFractal(RidgedMulti, BasisGradient, InterpQuintic))
		cell := NewCellular()
		cell.SetGenerator(NewCellularGenerator())
		cl := g.Add(cell)
		sel := g.Add(NewSelect())
		require.NoError(t, g.Link(sel, Slot{Name: SlotLow}, fr))
		require.NoError(t, g.Link(sel, Slot{Name: SlotHigh}, cl))
		require.NoError(t, g.Link(sel, Slot{Name: SlotControl}, fr))
		require.NoError(t, g.Link(root, Slot{Name: SlotSource}, sel))
		return g
	}

	g1, g2 := build(), build()
	g1.Seed(prng.NewKISS())
	g2.Seed(prng.NewKISS())
	for i := 0; i < 20; i++ {
		x := float64(i) * 0.21
		v := g1.Root().Get2D(x, 1-x)
		assert.Equal(t, v, g2.Root().Get2D(x, 1-x))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestSeedAll(t *testing.T) {
	r1, r2 := &recorder{}, &recorder{}
	SeedAll(prng.NewLCG(), r1, r2)
	assert.Equal(t, []uint32{691052437}, r1.seeds)
	assert.Equal(t, []uint32{329573142}, r2.seeds)
}

func TestGraph_SeedLeavesFractalSourcesToFractal(t *testing.T) {
	for _, fractalFirst := range []bool{true, false} {
		g := NewGraph()
		fr := NewFractal(FBM, BasisGradient, InterpQuintic)
		r := &recorder{}
		var fid, rid NodeID
		if fractalFirst {
			fid, rid = g.Add(fr), g.Add(r)
		} else {
			rid, fid = g.Add(r), g.Add(fr)
		}
		require.NoError(t, g.Link(fid, Slot{Name: SlotSource, Index: 2}, rid))

		g.Seed(prng.NewKISS())
		assert.Equal(t, []uint32{fr.Basis(0).Seed() + 600}, r.seeds, "fractal first: %v", fractalFirst)
	}
}

func TestGraph_BindNewModules(t *testing.T) {
	g := NewGraph()
	rot := g.Add(NewRotateDomain(Value(0), 0, 0, 1, 0))
	grad := g.Add(NewFunctionGradient(Value(0), AxisX))
	tiers := g.Add(NewTiers(Value(0), 4, false))
	ramp := g.Add(NewGradient())
	quarter := g.Add(NewConstant(0.25))

	require.NoError(t, g.Link(rot, Slot{Name: SlotSource}, ramp))
	require.NoError(t, g.Link(rot, Slot{Name: SlotAngle}, quarter))
	require.NoError(t, g.Link(rot, Slot{Name: SlotAxis, Index: 2}, quarter))
	assert.ErrorIs(t, g.Link(rot, Slot{Name: SlotAxis, Index: 3}, quarter), ErrBadSlot)
	assert.ErrorIs(t, g.Link(rot, Slot{Name: SlotScale}, quarter), ErrBadSlot)
	// (1, 0) turns to (0, 1) and the ramp is (x + y) / 2
	assert.InDelta(t, 0.5, g.Node(rot).Get2D(1, 0), 1e-12)

	require.NoError(t, g.Link(grad, Slot{Name: SlotSource}, rot))
	assert.ErrorIs(t, g.Link(grad, Slot{Name: SlotAxis}, quarter), ErrBadSlot)
	// the rotated ramp is (x - y) / 2, slope 1/2 along x
	assert.InDelta(t, -1.0, g.Node(grad).Get2D(0.3, 0.7), 1e-9)

	require.NoError(t, g.Link(tiers, Slot{Name: SlotSource}, ramp))
	assert.ErrorIs(t, g.Link(tiers, Slot{Name: SlotControl}, ramp), ErrBadSlot)
	assert.InDelta(t, 0.25, g.Node(tiers).Get2D(0.3, 0.4), 1e-12)
}
