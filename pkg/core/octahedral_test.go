package core

import (
	"math"
	"testing"
)

func TestEqualAreaOct_RoundTrip(t *testing.T) {
	dirs := []Vec3{
		{0, 0, 1},
		{0, 0, -1},
		{1, 0, 0},
		{0, 1, 0},
		{-1, 0, 0},
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-1, 2, -3).Normalize(),
		NewVec3(0.3, -0.9, 0.1).Normalize(),
	}

	for _, d := range dirs {
		uv := DirectionToEqualAreaOct(d)
		if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
			t.Errorf("direction %v mapped outside [0,1]²: %v", d, uv)
			continue
		}
		back := EqualAreaOctToDirection(uv)
		if back.Subtract(d).Length() > 1e-9 {
			t.Errorf("round trip for %v returned %v", d, back)
		}
	}
}

func TestEqualAreaOct_UnitLength(t *testing.T) {
	rng := NewPCG32(21)
	for i := 0; i < 5000; i++ {
		d := EqualAreaOctToDirection(rng.Get2D())
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Fatalf("direction not unit length: %v", d)
		}
	}
}

func TestEqualAreaOct_AreaPreserving(t *testing.T) {
	// Uniform points in the square map to uniform directions, so the
	// fraction landing in the upper hemisphere should be one half
	rng := NewPCG32(4)
	const n = 100000
	up := 0
	for i := 0; i < n; i++ {
		if EqualAreaOctToDirection(rng.Get2D()).Z > 0 {
			up++
		}
	}
	if frac := float64(up) / n; math.Abs(frac-0.5) > 0.01 {
		t.Errorf("upper hemisphere fraction = %f, expected ~0.5", frac)
	}
}
