package lights

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// RectLight is a one-sided rectangular emitter centered at Position with full
// edge vectors X and Y. AreaScaledNormal points to the lit side and its
// length is the rectangle's area.
type RectLight struct {
	Emission         core.Spectrum
	Position         core.Vec3
	AreaScaledNormal core.Vec3
	X                core.Vec3
	Y                core.Vec3
}

// NewRect creates a rect light record; it emits along Y × X
func NewRect(emission core.Spectrum, center, x, y core.Vec3) Light {
	return Light{Type: TypeRect, Rect: RectLight{
		Emission:         emission,
		Position:         center,
		AreaScaledNormal: y.Cross(x),
		X:                x,
		Y:                y,
	}}
}

// SampleIncident picks a uniform point on the rectangle and converts the area
// density to solid angle. Points behind the light get a zero sample.
func (rl RectLight) SampleIncident(point core.Vec3, u core.Vec2) LightSample {
	area := rl.AreaScaledNormal.Length()
	if area == 0 {
		return LightSample{}
	}
	normal := rl.AreaScaledNormal.Multiply(1 / area)

	p := rl.Position.Add(rl.X.Multiply(u.X - 0.5)).Add(rl.Y.Multiply(u.Y - 0.5))
	toLight := p.Subtract(point)
	dist2 := toLight.LengthSquared()
	if dist2 == 0 {
		return LightSample{}
	}
	dist := math.Sqrt(dist2)
	wi := toLight.Multiply(1 / dist)

	cosLight := -wi.Dot(normal)
	if cosLight <= 1e-8 {
		return LightSample{}
	}

	return LightSample{
		Radiance: rl.Emission,
		Wi:       wi,
		Distance: dist,
		PDF:      dist2 / (area * cosLight),
	}
}

// PDFIncident intersects dir with the rectangle and returns the density
// SampleIncident would report for the hit point.
func (rl RectLight) PDFIncident(point, dir core.Vec3) float64 {
	area := rl.AreaScaledNormal.Length()
	if area == 0 {
		return 0
	}
	normal := rl.AreaScaledNormal.Multiply(1 / area)
	dir = dir.Normalize()

	cosLight := -dir.Dot(normal)
	if cosLight <= 1e-8 {
		return 0
	}
	t := rl.Position.Subtract(point).Dot(normal) / -cosLight
	if t <= 0 {
		return 0
	}

	local := point.Add(dir.Multiply(t)).Subtract(rl.Position)
	if math.Abs(local.Dot(rl.X)) > 0.5*rl.X.LengthSquared() || math.Abs(local.Dot(rl.Y)) > 0.5*rl.Y.LengthSquared() {
		return 0
	}
	return t * t / (area * cosLight)
}
