package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// FresnelConductor returns the unpolarized reflectance of a conductor with
// relative index of refraction eta and extinction k, per color channel.
func FresnelConductor(cosThetaI float64, eta, k core.Vec3) core.Vec3 {
	cosThetaI = core.Clamp01(cosThetaI)
	return core.Vec3{
		X: fresnelConductorScalar(cosThetaI, eta.X, k.X),
		Y: fresnelConductorScalar(cosThetaI, eta.Y, k.Y),
		Z: fresnelConductorScalar(cosThetaI, eta.Z, k.Z),
	}
}

func fresnelConductorScalar(cosThetaI, eta, k float64) float64 {
	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2 := eta * eta
	k2 := k * k

	t0 := eta2 - k2 - sin2
	a2PlusB2 := math.Sqrt(math.Max(t0*t0+4*eta2*k2, 0))
	t1 := a2PlusB2 + cos2
	a := math.Sqrt(math.Max(0.5*(a2PlusB2+t0), 0))
	t2 := 2 * cosThetaI * a

	if t1+t2 == 0 {
		return 1
	}
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2*a2PlusB2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs
	if t3+t4 != 0 {
		rp = rs * (t3 - t4) / (t3 + t4)
	}

	return core.Clamp01(0.5 * (rp + rs))
}

// maxReflectivity keeps the artistic inversion away from its pole at r = 1
const maxReflectivity = 0.99

// ArtisticIOR converts reflectivity (normal-incidence color) and edge tint
// into a complex index of refraction, after Gulbrandsen's "Artist Friendly
// Metallic Fresnel". Returns (eta, k).
func ArtisticIOR(reflectivity, edgeTint core.Vec3) (eta, k core.Vec3) {
	eta.X, k.X = artisticIORScalar(reflectivity.X, edgeTint.X)
	eta.Y, k.Y = artisticIORScalar(reflectivity.Y, edgeTint.Y)
	eta.Z, k.Z = artisticIORScalar(reflectivity.Z, edgeTint.Z)
	return eta, k
}

func artisticIORScalar(r, g float64) (float64, float64) {
	r = math.Max(0, math.Min(maxReflectivity, r))
	g = core.Clamp01(g)

	sqrtR := math.Sqrt(r)
	nMin := (1 - r) / (1 + r)
	nMax := (1 + sqrtR) / (1 - sqrtR)
	n := core.Lerp(nMax, nMin, g)

	k2 := ((n+1)*(n+1)*r - (n-1)*(n-1)) / (1 - r)
	return n, math.Sqrt(math.Max(k2, 0))
}
