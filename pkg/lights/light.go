package lights

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Type is the tag stored in the first four bytes of a light record
type Type uint32

const (
	TypeDome Type = iota
	TypeRect
	TypeSphere
)

// String returns the light type name
func (t Type) String() string {
	switch t {
	case TypeDome:
		return "dome"
	case TypeRect:
		return "rect"
	case TypeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// LightSample is an unshadowed incident radiance sample toward a light.
// A PDF of zero marks the sample as invalid.
type LightSample struct {
	Radiance core.Spectrum // incident radiance, before occlusion
	Wi       core.Vec3     // unit direction from the shading point toward the light
	Distance float64       // distance to the sampled point, +Inf for infinite lights
	PDF      float64       // solid-angle density
}

// Light is a closed sum over the supported light types. Only the member
// selected by Type is meaningful.
type Light struct {
	Type   Type
	Dome   DomeLight
	Rect   RectLight
	Sphere SphereLight
}

// IsInfinite reports whether the light is at infinity and seen on ray misses
func (l Light) IsInfinite() bool { return l.Type == TypeDome }

// SampleIncident samples a direction from point toward the light
func (l Light) SampleIncident(point core.Vec3, sampler core.Sampler) LightSample {
	switch l.Type {
	case TypeDome:
		return l.Dome.SampleIncident(point, sampler.Get2D())
	case TypeRect:
		return l.Rect.SampleIncident(point, sampler.Get2D())
	case TypeSphere:
		return l.Sphere.SampleIncident(point, sampler.Get2D())
	default:
		return LightSample{}
	}
}

// PDFIncident returns the solid-angle density SampleIncident assigns to dir
func (l Light) PDFIncident(point, dir core.Vec3) float64 {
	switch l.Type {
	case TypeDome:
		return l.Dome.PDFIncident(point, dir)
	case TypeRect:
		return l.Rect.PDFIncident(point, dir)
	case TypeSphere:
		return l.Sphere.PDFIncident(point, dir)
	default:
		return 0
	}
}
