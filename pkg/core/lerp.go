package core

import "golang.org/x/exp/constraints"

// Lerp linearly interpolates between a and b
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// LerpVec3 interpolates each component of a toward b
func LerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

// Clamp01 clamps x into [0, 1]
func Clamp01[T constraints.Float](x T) T {
	return max(0, min(1, x))
}
