package core

import "math"

// ONB is an orthonormal basis with N as its Z axis. Reflectance and light
// math runs in this local frame.
type ONB struct {
	T, B, N Vec3
}

// NewONB builds a tangent frame around the unit normal n using the branchless
// construction of Duff et al., which stays stable near both poles.
func NewONB(n Vec3) ONB {
	sign := 1.0
	if n.Z < 0 {
		sign = -1
	}
	a := -1.0 / (sign + n.Z)
	b := n.X * n.Y * a
	return ONB{
		T: Vec3{1 + sign*n.X*n.X*a, sign * b, -sign * n.X},
		B: Vec3{b, sign + n.Y*n.Y*a, -n.Y},
		N: n,
	}
}

// ToLocal expresses world-space v in the basis
func (o ONB) ToLocal(v Vec3) Vec3 {
	return Vec3{v.Dot(o.T), v.Dot(o.B), v.Dot(o.N)}
}

// ToWorld maps local v back to world space
func (o ONB) ToWorld(v Vec3) Vec3 {
	return o.T.Multiply(v.X).Add(o.B.Multiply(v.Y)).Add(o.N.Multiply(v.Z))
}

// Local-frame angle helpers. All inputs are unit vectors in a frame whose
// normal is +Z.

func CosTheta(w Vec3) float64    { return w.Z }
func Cos2Theta(w Vec3) float64   { return w.Z * w.Z }
func AbsCosTheta(w Vec3) float64 { return math.Abs(w.Z) }

func Sin2Theta(w Vec3) float64 { return math.Max(0, 1-Cos2Theta(w)) }
func SinTheta(w Vec3) float64  { return math.Sqrt(Sin2Theta(w)) }

// TanTheta is +Inf for grazing directions
func TanTheta(w Vec3) float64 { return SinTheta(w) / CosTheta(w) }

// Tan2Theta is +Inf for grazing directions
func Tan2Theta(w Vec3) float64 { return Sin2Theta(w) / Cos2Theta(w) }

// CosPhi returns 1 at the pole, where phi is undefined
func CosPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return math.Max(-1, math.Min(1, w.X/sinTheta))
}

// SinPhi returns 0 at the pole
func SinPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, w.Y/sinTheta))
}

// SameHemisphere reports whether a and b lie on the same side of the surface
func SameHemisphere(a, b Vec3) bool {
	return a.Z*b.Z > 0
}

// Reflect mirrors w about n; both point away from the surface
func Reflect(w, n Vec3) Vec3 {
	return n.Multiply(2 * w.Dot(n)).Subtract(w)
}
