package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Lobe classifies a scattering event. Specular lobes carry a delta pdf and
// must not be MIS-weighted against light sampling.
type Lobe uint8

const (
	LobeReflection Lobe = 1 << iota
	LobeTransmission
	LobeDiffuse
	LobeGlossy
	LobeSpecular

	LobeDiffuseReflection  = LobeDiffuse | LobeReflection
	LobeGlossyReflection   = LobeGlossy | LobeReflection
	LobeSpecularReflection = LobeSpecular | LobeReflection
)

// IsSpecular reports whether the lobe is a delta distribution
func (l Lobe) IsSpecular() bool { return l&LobeSpecular != 0 }

// IsReflection reports whether the lobe stays on the incident side
func (l Lobe) IsReflection() bool { return l&LobeReflection != 0 }

// SpecularPDF is the reserved pdf reported for delta lobes
const SpecularPDF = 1.0

// BSDFSample is the result of sampling an outgoing direction.
// A PDF of zero marks the sample as rejected.
type BSDFSample struct {
	Wo    core.Vec3     // sampled direction, local frame, pointing away from the surface
	PDF   float64       // solid-angle density, or SpecularPDF for delta lobes
	Value core.Spectrum // BSDF value f(wi, wo)
	Lobe  Lobe
}

// BSDFKind tags the active model in a BSDF
type BSDFKind uint8

const (
	BSDFDiffuse BSDFKind = iota
	BSDFConductor
)

// BSDF is a closed sum over the reflectance models. It is a plain value; only
// the member selected by Kind is meaningful.
//
// Both wi and wo point away from the surface and are expressed in the local
// shading frame. wi is the given direction (toward the previous path vertex)
// and wo is the one being sampled.
type BSDF struct {
	Kind      BSDFKind
	Diffuse   DiffuseBxDF
	Conductor ConductorBxDF
}

// NewDiffuseBSDF wraps a Lambertian model
func NewDiffuseBSDF(albedo core.Spectrum) BSDF {
	return BSDF{Kind: BSDFDiffuse, Diffuse: DiffuseBxDF{Albedo: albedo}}
}

// NewConductorBSDF wraps a conductor model
func NewConductorBSDF(c ConductorBxDF) BSDF {
	return BSDF{Kind: BSDFConductor, Conductor: c}
}

// Evaluate returns f(wi, wo) and the density with which Sample would pick wo
func (b BSDF) Evaluate(wi, wo core.Vec3) (core.Spectrum, float64) {
	switch b.Kind {
	case BSDFConductor:
		return b.Conductor.Evaluate(wi, wo)
	default:
		return b.Diffuse.Evaluate(wi, wo)
	}
}

// Sample draws an outgoing direction for the given wi
func (b BSDF) Sample(wi core.Vec3, sampler core.Sampler) BSDFSample {
	switch b.Kind {
	case BSDFConductor:
		return b.Conductor.Sample(wi, sampler.Get2D())
	default:
		return b.Diffuse.Sample(wi, sampler.Get2D())
	}
}

// PDF returns the sampling density of wo given wi
func (b BSDF) PDF(wi, wo core.Vec3) float64 {
	_, pdf := b.Evaluate(wi, wo)
	return pdf
}

// Flags reports the lobes the model can produce
func (b BSDF) Flags() Lobe {
	switch b.Kind {
	case BSDFConductor:
		return b.Conductor.Flags()
	default:
		return LobeDiffuseReflection
	}
}
