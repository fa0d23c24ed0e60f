package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ConductorBxDF is a rough or smooth metal. When the distribution is singular
// it behaves as a perfect mirror.
type ConductorBxDF struct {
	Distrib TrowbridgeReitz
	Eta     core.Spectrum // relative index of refraction
	K       core.Spectrum // extinction coefficient
}

// NewConductor creates a conductor from artist-facing colors
func NewConductor(reflectivity, edgeTint core.Spectrum, alphaX, alphaY float64) ConductorBxDF {
	eta, k := ArtisticIOR(reflectivity, edgeTint)
	return ConductorBxDF{
		Distrib: NewTrowbridgeReitz(alphaX, alphaY),
		Eta:     eta,
		K:       k,
	}
}

// Flags reports specular or glossy reflection
func (c ConductorBxDF) Flags() Lobe {
	if c.Distrib.IsSingular() {
		return LobeSpecularReflection
	}
	return LobeGlossyReflection
}

// Evaluate returns the microfacet reflectance and the sampling density of wo.
// Mirrors have no finite density and evaluate to zero.
func (c ConductorBxDF) Evaluate(wi, wo core.Vec3) (core.Spectrum, float64) {
	if !core.SameHemisphere(wi, wo) || c.Distrib.IsSingular() {
		return core.Vec3{}, 0
	}

	cosThetaI := core.AbsCosTheta(wi)
	cosThetaO := core.AbsCosTheta(wo)
	if cosThetaI < 1e-8 || cosThetaO < 1e-8 {
		return core.Vec3{}, 0
	}

	wm := wi.Add(wo)
	if wm.LengthSquared() == 0 {
		return core.Vec3{}, 0
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}

	f := FresnelConductor(wi.AbsDot(wm), c.Eta, c.K)
	value := f.Multiply(c.Distrib.D(wm) * c.Distrib.G2(wo, wi) / (4 * cosThetaI * cosThetaO))
	return value, c.reflectionPDF(wi, wm)
}

// Sample reflects wi about a visible microfacet normal
func (c ConductorBxDF) Sample(wi core.Vec3, u core.Vec2) BSDFSample {
	if c.Distrib.IsSingular() {
		wo := core.Vec3{X: -wi.X, Y: -wi.Y, Z: wi.Z}
		cosTheta := core.AbsCosTheta(wo)
		if cosTheta == 0 {
			return BSDFSample{}
		}
		f := FresnelConductor(cosTheta, c.Eta, c.K)
		return BSDFSample{
			Wo:    wo,
			PDF:   SpecularPDF,
			Value: f.Multiply(1 / cosTheta),
			Lobe:  LobeSpecularReflection,
		}
	}

	if wi.Z == 0 {
		return BSDFSample{}
	}
	wm := c.Distrib.SampleVisibleNormal(wi, u)
	wo := core.Reflect(wi, wm)
	if !core.SameHemisphere(wi, wo) {
		return BSDFSample{}
	}

	cosThetaI := core.AbsCosTheta(wi)
	cosThetaO := core.AbsCosTheta(wo)
	if cosThetaI < 1e-8 || cosThetaO < 1e-8 {
		return BSDFSample{}
	}

	pdf := c.reflectionPDF(wi, wm)
	if pdf == 0 || math.IsNaN(pdf) {
		return BSDFSample{}
	}
	f := FresnelConductor(wi.AbsDot(wm), c.Eta, c.K)
	return BSDFSample{
		Wo:    wo,
		PDF:   pdf,
		Value: f.Multiply(c.Distrib.D(wm) * c.Distrib.G2(wo, wi) / (4 * cosThetaI * cosThetaO)),
		Lobe:  LobeGlossyReflection,
	}
}

// reflectionPDF converts the visible-normal density to a density over wo
func (c ConductorBxDF) reflectionPDF(wi, wm core.Vec3) float64 {
	d := wi.AbsDot(wm)
	if d == 0 {
		return 0
	}
	return c.Distrib.PDF(wi, wm) / (4 * d)
}
