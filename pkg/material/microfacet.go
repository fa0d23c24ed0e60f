package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// minAlpha is the smallest roughness the distribution will represent. Below it
// the lobe is treated as a perfect mirror.
const minAlpha = 1e-3

// TrowbridgeReitz is the anisotropic GGX microfacet distribution. All
// directions are in the local shading frame (normal = +Z, tangent = +X).
type TrowbridgeReitz struct {
	AlphaX float64 // roughness along the tangent
	AlphaY float64 // roughness along the bitangent
}

// NewTrowbridgeReitz creates a distribution, clamping both alphas to minAlpha
func NewTrowbridgeReitz(alphaX, alphaY float64) TrowbridgeReitz {
	return TrowbridgeReitz{
		AlphaX: math.Max(alphaX, minAlpha),
		AlphaY: math.Max(alphaY, minAlpha),
	}
}

// RoughnessToAlpha maps perceptual roughness in [0,1] to GGX alpha
func RoughnessToAlpha(roughness float64) float64 {
	r := core.Clamp01(roughness)
	return r * r
}

// IsSingular reports whether the surface is smooth enough to be a mirror
func (tr TrowbridgeReitz) IsSingular() bool {
	return math.Max(tr.AlphaX, tr.AlphaY) <= minAlpha
}

// D returns the microfacet normal distribution for the half vector wm
func (tr TrowbridgeReitz) D(wm core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(wm)
	if math.IsInf(tan2Theta, 0) || math.IsNaN(tan2Theta) {
		return 0
	}
	cos4Theta := core.Cos2Theta(wm) * core.Cos2Theta(wm)
	if cos4Theta < 1e-16 {
		return 0
	}
	cx := core.CosPhi(wm) / tr.AlphaX
	sy := core.SinPhi(wm) / tr.AlphaY
	e := tan2Theta * (cx*cx + sy*sy)
	return 1 / (math.Pi * tr.AlphaX * tr.AlphaY * cos4Theta * (1 + e) * (1 + e))
}

// Lambda is the auxiliary masking function for direction w
func (tr TrowbridgeReitz) Lambda(w core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(w)
	if math.IsInf(tan2Theta, 0) || math.IsNaN(tan2Theta) {
		return 0
	}
	ax := core.CosPhi(w) * tr.AlphaX
	ay := core.SinPhi(w) * tr.AlphaY
	alpha2 := ax*ax + ay*ay
	return (math.Sqrt(1+alpha2*tan2Theta) - 1) / 2
}

// G1 is the fraction of microfacets visible from w
func (tr TrowbridgeReitz) G1(w core.Vec3) float64 {
	return 1 / (1 + tr.Lambda(w))
}

// G2 is the height-correlated masking-shadowing term for a direction pair
func (tr TrowbridgeReitz) G2(wo, wi core.Vec3) float64 {
	return 1 / (1 + tr.Lambda(wo) + tr.Lambda(wi))
}

// PDF is the density of SampleVisibleNormal producing wm when viewed from w
func (tr TrowbridgeReitz) PDF(w, wm core.Vec3) float64 {
	cosTheta := core.AbsCosTheta(w)
	if cosTheta == 0 {
		return 0
	}
	return tr.G1(w) / cosTheta * tr.D(wm) * math.Abs(w.Dot(wm))
}

// SampleVisibleNormal draws a microfacet normal from the distribution of
// normals visible from w, using the spherical-cap construction of Dupuy and
// Benyoub. The returned normal is always in the upper hemisphere.
func (tr TrowbridgeReitz) SampleVisibleNormal(w core.Vec3, u core.Vec2) core.Vec3 {
	// Stretch into the hemispherical (alpha = 1) configuration
	wh := core.Vec3{X: tr.AlphaX * w.X, Y: tr.AlphaY * w.Y, Z: w.Z}.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	// Sample the spherical cap over (-wh.z, 1]
	phi := 2 * math.Pi * u.X
	z := (1-u.Y)*(1+wh.Z) - wh.Z
	sinTheta := math.Sqrt(math.Max(0, 1-z*z))
	c := core.Vec3{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: z}

	// Unstretch back to the ellipsoidal configuration
	h := c.Add(wh)
	return core.Vec3{X: tr.AlphaX * h.X, Y: tr.AlphaY * h.Y, Z: math.Max(h.Z, 0)}.Normalize()
}
