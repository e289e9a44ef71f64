package prng

// Xorshift is Marsaglia's five-word xorshift generator.
type Xorshift struct {
	x, y, z, w, v uint32
}

func NewXorshift() *Xorshift {
	x := &Xorshift{}
	x.SetSeed(DefaultSeed)
	return x
}

func (x *Xorshift) Get() uint32 {
	t := x.x ^ (x.x >> 7)
	x.x = x.y
	x.y = x.z
	x.z = x.w
	x.w = x.v
	x.v = (x.v ^ (x.v << 6)) ^ (t ^ (t << 13))
	return (x.y + x.y + 1) * x.v
}

func (x *Xorshift) SetSeed(seed uint32) {
	lcg := NewLCGSeeded(seed)
	x.x = lcg.Get()
	x.y = lcg.Get()
	x.z = lcg.Get()
	x.w = lcg.Get()
	x.v = lcg.Get()
}

const mwc256Multiplier = 809430660

// MWC256 is a multiply-with-carry generator with a 256 word lag table.
type MWC256 struct {
	q [256]uint32
	c uint32
	i uint8
}

func NewMWC256() *MWC256 {
	m := &MWC256{}
	m.SetSeed(DefaultSeed)
	return m
}

func (m *MWC256) Get() uint32 {
	t := uint64(mwc256Multiplier)*uint64(m.q[m.i]) + uint64(m.c)
	m.i++
	m.c = uint32(t >> 32)
	m.q[m.i] = uint32(t)
	return m.q[m.i]
}

// SetSeed refills the lag table and resets the table index.
func (m *MWC256) SetSeed(seed uint32) {
	lcg := NewLCGSeeded(seed)
	for i := range m.q {
		m.q[i] = lcg.Get()
	}
	m.c = GetTarget(lcg, mwc256Multiplier)
	m.i = 255
}

const (
	cmwcMultiplier = 18782
	cmwcBase       = 0xFFFFFFFF
	cmwcStart      = 2095
)

// CMWC4096 is a complementary multiply-with-carry generator with a 4096
// word lag table.
type CMWC4096 struct {
	q [4096]uint32
	c uint32
	i int
}

func NewCMWC4096() *CMWC4096 {
	m := &CMWC4096{}
	m.SetSeed(DefaultSeed)
	return m
}

func (m *CMWC4096) Get() uint32 {
	const r = cmwcBase - 1
	m.i = (m.i + 1) & 4095
	t := uint64(cmwcMultiplier)*uint64(m.q[m.i]) + uint64(m.c)
	m.c = uint32(t >> 32)
	t = (t & cmwcBase) + uint64(m.c)
	if t > r {
		m.c++
		t -= cmwcBase
	}
	m.q[m.i] = uint32(r - t)
	return m.q[m.i]
}

func (m *CMWC4096) SetSeed(seed uint32) {
	lcg := NewLCGSeeded(seed)
	for i := range m.q {
		m.q[i] = lcg.Get()
	}
	m.c = GetTarget(lcg, cmwcMultiplier-1)
	m.i = cmwcStart
}

// KISS combines a multiply-with-carry pair, a congruential step and a
// 3-shift register.
type KISS struct {
	z, w, jsr, jcong uint32
}

func NewKISS() *KISS {
	k := &KISS{}
	k.SetSeed(DefaultSeed)
	return k
}

func (k *KISS) Get() uint32 {
	k.z = 36969*(k.z&65535) + (k.z >> 16)
	k.w = 18000*(k.w&65535) + (k.w >> 16)
	mwc := (k.z << 16) + k.w

	k.jcong = 69069*k.jcong + 1234567

	k.jsr ^= k.jsr << 17
	k.jsr ^= k.jsr >> 13
	k.jsr ^= k.jsr << 5

	return (mwc ^ k.jcong) + k.jsr
}

func (k *KISS) SetSeed(seed uint32) {
	lcg := NewLCGSeeded(seed)
	k.z = lcg.Get()
	k.w = lcg.Get()
	k.jsr = lcg.Get()
	k.jcong = lcg.Get()
}
