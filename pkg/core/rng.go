package core

// Sampler provides uniform random numbers to the sampling routines.
// Implementations are mutable and must not be shared between paths.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

const (
	pcgMultiplier = 747796405
	pcgIncrement  = 2891336453
)

// PCG32 is a one-sequence permuted congruential generator (PCG-RXS-M-XS 32/32).
// The zero value is a valid generator seeded with state 0.
type PCG32 struct {
	state uint32
}

// NewPCG32 returns a generator initialized from seed
func NewPCG32(seed uint32) *PCG32 {
	g := &PCG32{}
	g.Seed(seed)
	return g
}

// Seed reinitializes the generator. The seed is mixed in between two steps
// so that low-entropy seeds (0, 1, 2...) do not start correlated streams.
func (g *PCG32) Seed(seed uint32) {
	g.state = 0
	g.step()
	g.state += seed
	g.step()
}

func (g *PCG32) step() {
	g.state = g.state*pcgMultiplier + pcgIncrement
}

// Next returns the next 32-bit output
func (g *PCG32) Next() uint32 {
	g.step()
	s := g.state
	w := ((s >> ((s >> 28) + 4)) ^ s) * 277803737
	return (w >> 22) ^ w
}

// Get1D returns a float in [0, 1) built from the top 24 bits, so 1-u is never 0
func (g *PCG32) Get1D() float64 {
	return float64(g.Next()>>8) * (1.0 / 16777216.0)
}

// Get2D returns two independent draws
func (g *PCG32) Get2D() Vec2 {
	x := g.Get1D()
	y := g.Get1D()
	return Vec2{x, y}
}

// Get3D returns three independent draws
func (g *PCG32) Get3D() Vec3 {
	x := g.Get1D()
	y := g.Get1D()
	z := g.Get1D()
	return Vec3{x, y, z}
}
