package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Kind selects the reflectance model of a material record
type Kind uint32

const (
	KindDiffuse Kind = iota
	KindConductor
)

// String returns the name used in scene files
func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindConductor:
		return "conductor"
	default:
		return "unknown"
	}
}

// Params is the per-instance material record looked up through an
// instance's material offset.
type Params struct {
	Kind         Kind
	Albedo       core.Spectrum // diffuse color
	Reflectivity core.Spectrum // conductor color at normal incidence
	EdgeTint     core.Spectrum // conductor color toward grazing angles
	Roughness    float64       // perceptual roughness in [0,1]
	Anisotropy   float64       // 0 is isotropic, 1 stretches along the tangent
}

// Diffuse creates a Lambertian material record
func Diffuse(albedo core.Spectrum) Params {
	return Params{Kind: KindDiffuse, Albedo: albedo}
}

// Conductor creates a metal material record
func Conductor(reflectivity, edgeTint core.Spectrum, roughness, anisotropy float64) Params {
	return Params{
		Kind:         KindConductor,
		Reflectivity: reflectivity,
		EdgeTint:     edgeTint,
		Roughness:    roughness,
		Anisotropy:   anisotropy,
	}
}

// Alphas returns the tangent and bitangent GGX roughness
func (p Params) Alphas() (float64, float64) {
	alpha := RoughnessToAlpha(p.Roughness)
	aspect := math.Sqrt(1 - 0.9*core.Clamp01(p.Anisotropy))
	return alpha / aspect, alpha * aspect
}

// BSDF builds the reflectance model for this record
func (p Params) BSDF() BSDF {
	switch p.Kind {
	case KindConductor:
		ax, ay := p.Alphas()
		return NewConductorBSDF(NewConductor(p.Reflectivity, p.EdgeTint, ax, ay))
	default:
		return NewDiffuseBSDF(p.Albedo)
	}
}
