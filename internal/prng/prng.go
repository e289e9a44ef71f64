// Package prng provides the small deterministic generators used to seed
// noise modules: an LCG plus several of Marsaglia's generators.
package prng

import (
	"fmt"
	"time"
)

// DefaultSeed is the seed every generator starts from.
const DefaultSeed uint32 = 10000

// PRNG produces a stream of 32-bit values from a settable seed.
type PRNG interface {
	Get() uint32
	SetSeed(seed uint32)
}

// Get01 returns the next value scaled to [0, 1].
func Get01(p PRNG) float64 {
	return float64(p.Get()) / 4294967295.0
}

// GetTarget returns a value in [0, t].
func GetTarget(p PRNG, t uint32) uint32 {
	return uint32(Get01(p) * float64(t))
}

// GetRange returns a value between low and high. The bounds are swapped
// when given in the wrong order.
func GetRange(p PRNG, low, high uint32) uint32 {
	if high < low {
		low, high = high, low
	}
	rg := float64(high-low) + 1
	return uint32(float64(low) + Get01(p)*rg)
}

// SeedTime seeds p from the wall clock in microseconds.
func SeedTime(p PRNG) {
	p.SetSeed(uint32(time.Now().UnixNano() / 1000))
}

// LCG is a 32-bit linear congruential generator.
type LCG struct {
	state uint32
}

// NewLCG returns an LCG seeded with DefaultSeed.
func NewLCG() *LCG {
	l := &LCG{}
	l.SetSeed(DefaultSeed)
	return l
}

// NewLCGSeeded returns an LCG seeded with seed.
func NewLCGSeeded(seed uint32) *LCG {
	l := &LCG{}
	l.SetSeed(seed)
	return l
}

func (l *LCG) Get() uint32 {
	l.state = 69069*l.state + 362437
	return l.state
}

func (l *LCG) SetSeed(seed uint32) {
	l.state = seed
}

// New returns a generator by name ("lcg", "xorshift", "mwc256",
// "cmwc4096" or "kiss") seeded with seed.
func New(name string, seed uint32) (PRNG, error) {
	var p PRNG
	switch name {
	case "lcg":
		p = NewLCG()
	case "xorshift":
		p = NewXorshift()
	case "mwc256":
		p = NewMWC256()
	case "cmwc4096":
		p = NewCMWC4096()
	case "kiss", "":
		p = NewKISS()
	default:
		return nil, fmt.Errorf("unknown prng %q", name)
	}
	p.SetSeed(seed)
	return p, nil
}
