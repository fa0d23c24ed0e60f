package core

import "math"

// Equal-area octahedral parameterization of the unit sphere (Clarberg 2008).
// The map is area preserving, so a density over [0,1]² converts to solid
// angle by dividing by 4π.

// DirectionToEqualAreaOct maps a unit direction to [0,1]²
func DirectionToEqualAreaOct(n Vec3) Vec2 {
	r := math.Sqrt(math.Max(0, 1-math.Abs(n.Z)))
	phi := math.Atan2(math.Abs(n.Y), math.Abs(n.X))

	// First quadrant
	py := r * phi * (2 / math.Pi)
	px := r - py

	// Fold the lower hemisphere over the diagonals
	if n.Z < 0 {
		px, py = 1-py, 1-px
	}
	px = math.Copysign(px, n.X)
	py = math.Copysign(py, n.Y)

	return Vec2{px*0.5 + 0.5, py*0.5 + 0.5}
}

// EqualAreaOctToDirection is the inverse of DirectionToEqualAreaOct
func EqualAreaOctToDirection(uv Vec2) Vec3 {
	px := uv.X*2 - 1
	py := uv.Y*2 - 1

	// r is 0 at +z (center) and at -z (corners)
	d := 1 - (math.Abs(px) + math.Abs(py))
	r := 1 - math.Abs(d)

	phi := 0.0
	if r > 0 {
		phi = ((math.Abs(py)-math.Abs(px))/r + 1) * (math.Pi / 4)
	}

	f := r * math.Sqrt(math.Max(0, 2-r*r))
	x := math.Copysign(f*math.Cos(phi), px)
	y := math.Copysign(f*math.Sin(phi), py)
	z := math.Copysign(1-r*r, d)

	return Vec3{x, y, z}
}

// EqualAreaOctJacobian is the solid angle per unit of [0,1]² area
const EqualAreaOctJacobian = 4 * math.Pi
