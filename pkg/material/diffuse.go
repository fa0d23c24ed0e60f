package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// DiffuseBxDF is a Lambertian reflector
type DiffuseBxDF struct {
	Albedo core.Spectrum
}

// Evaluate returns albedo/π when wi and wo share a hemisphere
func (d DiffuseBxDF) Evaluate(wi, wo core.Vec3) (core.Spectrum, float64) {
	if !core.SameHemisphere(wi, wo) {
		return core.Vec3{}, 0
	}
	return d.Albedo.Multiply(1 / math.Pi), core.PDFCosineHemisphere(core.AbsCosTheta(wo))
}

// Sample draws a cosine-weighted direction on wi's side of the surface
func (d DiffuseBxDF) Sample(wi core.Vec3, u core.Vec2) BSDFSample {
	wo := core.SampleCosineHemisphere(u)
	if wi.Z < 0 {
		wo.Z = -wo.Z
	}
	pdf := core.PDFCosineHemisphere(core.AbsCosTheta(wo))
	if pdf == 0 {
		return BSDFSample{}
	}
	return BSDFSample{
		Wo:    wo,
		PDF:   pdf,
		Value: d.Albedo.Multiply(1 / math.Pi),
		Lobe:  LobeDiffuseReflection,
	}
}
