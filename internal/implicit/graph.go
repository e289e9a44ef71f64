package implicit

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/noisegraph/internal/prng"
)

// NodeID addresses a module inside a Graph. IDs are stable for the life
// of the graph.
type NodeID int

// Slot names an input of a composite module. Index selects the octave,
// combiner source or axis where the input is indexed.
type Slot struct {
	Name  string
	Index int
}

const (
	SlotSource    = "source"
	SlotScale     = "scale"
	SlotOffset    = "offset"
	SlotLow       = "low"
	SlotHigh      = "high"
	SlotControl   = "control"
	SlotThreshold = "threshold"
	SlotFalloff   = "falloff"
	SlotBias      = "bias"
	SlotGain      = "gain"
	SlotRadius    = "radius"
	SlotCenter    = "center"
	SlotAxis      = "axis"
	SlotAngle     = "angle"
	SlotPower     = "power"
	SlotPeriod    = "period"
	SlotBright    = "bright"
	SlotFactor    = "factor"
	SlotLength    = "length"
	SlotComponent = "component"
)

func (s Slot) String() string {
	if s.Index == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s[%d]", s.Name, s.Index)
}

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrCycle       = errors.New("link would create a cycle")
	ErrBadSlot     = errors.New("module has no such input")
)

// Graph owns a set of modules and the links between them. Links are kept
// in an edge table so the structure can be inspected, and a link that
// would close a cycle is refused.
type Graph struct {
	nodes []Module
	edges map[NodeID]map[Slot]NodeID
	root  NodeID
}

func NewGraph() *Graph {
	return &Graph{
		edges: make(map[NodeID]map[Slot]NodeID),
		root:  -1,
	}
}

// Add stores m and returns its ID. The first node added becomes the root
// until SetRoot is called.
func (g *Graph) Add(m Module) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, m)
	if g.root < 0 {
		g.root = id
	}
	return id
}

func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the module stored under id, or nil.
func (g *Graph) Node(id NodeID) Module {
	if !g.valid(id) {
		return nil
	}
	return g.nodes[id]
}

func (g *Graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

func (g *Graph) SetRoot(id NodeID) error {
	if !g.valid(id) {
		return fmt.Errorf("set root %d: %w", id, ErrUnknownNode)
	}
	g.root = id
	return nil
}

// Root returns the module evaluated for the whole graph.
func (g *Graph) Root() Module { return g.Node(g.root) }

// Link wires child into the given input of parent, replacing any earlier
// link of that input.
func (g *Graph) Link(parent NodeID, slot Slot, child NodeID) error {
	if !g.valid(parent) || !g.valid(child) {
		return fmt.Errorf("link %d.%s <- %d: %w", parent, slot, child, ErrUnknownNode)
	}
	if parent == child || g.reaches(child, parent) {
		return fmt.Errorf("link %d.%s <- %d: %w", parent, slot, child, ErrCycle)
	}
	if err := bind(g.nodes[parent], slot, g.nodes[child]); err != nil {
		return fmt.Errorf("link %d.%s <- %d: %w", parent, slot, child, err)
	}
	if g.edges[parent] == nil {
		g.edges[parent] = make(map[Slot]NodeID)
	}
	g.edges[parent][slot] = child
	return nil
}

// Inputs returns the links of a node keyed by slot.
func (g *Graph) Inputs(id NodeID) map[Slot]NodeID {
	out := make(map[Slot]NodeID, len(g.edges[id]))
	for s, c := range g.edges[id] {
		out[s] = c
	}
	return out
}

// reaches reports whether to is reachable from from along links.
func (g *Graph) reaches(from, to NodeID) bool {
	seen := make(map[NodeID]bool)
	stack := []NodeID{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		for _, c := range g.edges[n] {
			stack = append(stack, c)
		}
	}
	return false
}

// Seed draws one value from rng per node in ID order and seeds the node
// with it, then recalculates AutoCorrect nodes against their reseeded
// sources. A node linked into a Fractal source slot still consumes its
// value but is left to the fractal, which seeds it with the seed of its
// octave, so the result does not depend on which of the two was added
// first.
func (g *Graph) Seed(rng prng.PRNG) {
	owned := g.fractalSources()
	for id, n := range g.nodes {
		seed := rng.Get()
		if owned[NodeID(id)] {
			continue
		}
		n.SetSeed(seed)
	}
	for _, n := range g.nodes {
		if ac, ok := n.(*AutoCorrect); ok {
			ac.Calculate()
		}
	}
}

func (g *Graph) fractalSources() map[NodeID]bool {
	owned := make(map[NodeID]bool)
	for parent, in := range g.edges {
		if _, ok := g.nodes[parent].(*Fractal); !ok {
			continue
		}
		for _, c := range in {
			owned[c] = true
		}
	}
	return owned
}

// SeedAll seeds each module with the next value of rng.
func SeedAll(rng prng.PRNG, modules ...Module) {
	for _, m := range modules {
		m.SetSeed(rng.Get())
	}
}

func bind(parent Module, slot Slot, child Module) error {
	src := Source(child)
	switch p := parent.(type) {
	case *Fractal:
		if slot.Name != SlotSource || slot.Index < 0 || slot.Index >= MaxSources {
			return ErrBadSlot
		}
		p.OverrideSource(slot.Index, child)
	case *Combiner:
		if slot.Name != SlotSource || slot.Index < 0 || slot.Index >= MaxSources {
			return ErrBadSlot
		}
		p.SetSource(slot.Index, child)
	case *AutoCorrect:
		if slot.Name != SlotSource {
			return ErrBadSlot
		}
		p.SetSource(child)
	case *Cache:
		if slot.Name != SlotSource {
			return ErrBadSlot
		}
		p.SetSource(src)
	case *ScaleOffset:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotScale:
			p.SetScale(src)
		case SlotOffset:
			p.SetOffset(src)
		default:
			return ErrBadSlot
		}
	case *Clamp:
		if slot.Name != SlotSource {
			return ErrBadSlot
		}
		p.SetSource(src)
	case *Bias:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotBias:
			p.SetBias(src)
		default:
			return ErrBadSlot
		}
	case *Gain:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotGain:
			p.SetGain(src)
		default:
			return ErrBadSlot
		}
	case *Select:
		switch slot.Name {
		case SlotLow:
			p.SetLow(src)
		case SlotHigh:
			p.SetHigh(src)
		case SlotControl:
			p.SetControl(src)
		case SlotThreshold:
			p.SetThreshold(src)
		case SlotFalloff:
			p.SetFalloff(src)
		default:
			return ErrBadSlot
		}
	case *Blend:
		switch slot.Name {
		case SlotLow:
			p.SetLow(src)
		case SlotHigh:
			p.SetHigh(src)
		case SlotControl:
			p.SetControl(src)
		default:
			return ErrBadSlot
		}
	case *ScaleDomain:
		switch {
		case slot.Name == SlotSource:
			p.SetSource(src)
		case slot.Name == SlotScale && validAxis(slot.Index):
			p.SetScale(Axis(slot.Index), src)
		default:
			return ErrBadSlot
		}
	case *TranslateDomain:
		switch {
		case slot.Name == SlotSource:
			p.SetSource(src)
		case slot.Name == SlotOffset && validAxis(slot.Index):
			p.SetOffset(Axis(slot.Index), src)
		default:
			return ErrBadSlot
		}
	case *RotateDomain:
		switch {
		case slot.Name == SlotSource:
			p.SetSource(src)
		case slot.Name == SlotAngle:
			p.SetAngle(src)
		case slot.Name == SlotAxis && slot.Index >= 0 && slot.Index < 3:
			p.SetAxis(Axis(slot.Index), src)
		default:
			return ErrBadSlot
		}
	case *FunctionGradient:
		if slot.Name != SlotSource {
			return ErrBadSlot
		}
		p.SetSource(src)
	case *Tiers:
		if slot.Name != SlotSource {
			return ErrBadSlot
		}
		p.SetSource(src)
	case *Unary:
		if slot.Name != SlotSource {
			return ErrBadSlot
		}
		p.SetSource(src)
	case *Pow:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotPower:
			p.SetPower(src)
		default:
			return ErrBadSlot
		}
	case *SawTooth:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotPeriod:
			p.SetPeriod(src)
		default:
			return ErrBadSlot
		}
	case *Triangle:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotPeriod:
			p.SetPeriod(src)
		case SlotOffset:
			p.SetOffset(src)
		default:
			return ErrBadSlot
		}
	case *BrightContrast:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotBright:
			p.SetBright(src)
		case SlotThreshold:
			p.SetThreshold(src)
		case SlotFactor:
			p.SetFactor(src)
		default:
			return ErrBadSlot
		}
	case *Magnitude:
		if slot.Name != SlotComponent || !validAxis(slot.Index) {
			return ErrBadSlot
		}
		p.SetComponent(Axis(slot.Index), src)
	case *NormalizeCoords:
		switch slot.Name {
		case SlotSource:
			p.SetSource(src)
		case SlotLength:
			p.SetLength(src)
		default:
			return ErrBadSlot
		}
	case *Sphere:
		switch {
		case slot.Name == SlotRadius:
			p.SetRadius(src)
		case slot.Name == SlotCenter && validAxis(slot.Index):
			p.SetCenter(Axis(slot.Index), src)
		default:
			return ErrBadSlot
		}
	default:
		return ErrBadSlot
	}
	return nil
}

func validAxis(i int) bool { return i >= 0 && i < 6 }
