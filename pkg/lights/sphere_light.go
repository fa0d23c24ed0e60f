package lights

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// sin²(1.5°). Below this the cone is sampled with a Taylor expansion to avoid
// cancellation in 1 - cosθmax.
const smallConeSin2 = 0.00068523

// SphereLight is a spherical emitter sampled by the cone it subtends
type SphereLight struct {
	Emission core.Spectrum
	Position core.Vec3
	Radius   float64
}

// NewSphere creates a sphere light record
func NewSphere(emission core.Spectrum, position core.Vec3, radius float64) Light {
	return Light{Type: TypeSphere, Sphere: SphereLight{Emission: emission, Position: position, Radius: radius}}
}

// cone returns the subtended cone around the point-to-center axis. ok is
// false when the point is inside the sphere.
func (sl SphereLight) cone(point core.Vec3) (axis core.Vec3, dist, sin2ThetaMax float64, ok bool) {
	toCenter := sl.Position.Subtract(point)
	dist2 := toCenter.LengthSquared()
	if dist2 <= sl.Radius*sl.Radius {
		return core.Vec3{}, 0, 0, false
	}
	dist = math.Sqrt(dist2)
	return toCenter.Multiply(1 / dist), dist, sl.Radius * sl.Radius / dist2, true
}

// oneMinusCosThetaMax is the cone's solid angle over 2π
func oneMinusCosThetaMax(sin2ThetaMax float64) float64 {
	if sin2ThetaMax < smallConeSin2 {
		return sin2ThetaMax / 2
	}
	return 1 - math.Sqrt(math.Max(0, 1-sin2ThetaMax))
}

// SampleIncident samples the visible cone of the sphere. A point inside the
// sphere gets a zero sample.
func (sl SphereLight) SampleIncident(point core.Vec3, u core.Vec2) LightSample {
	axis, dist, sin2ThetaMax, ok := sl.cone(point)
	if !ok {
		return LightSample{}
	}

	cosThetaMax := math.Sqrt(math.Max(0, 1-sin2ThetaMax))
	oneMinusCos := oneMinusCosThetaMax(sin2ThetaMax)

	cosTheta := (cosThetaMax-1)*u.X + 1
	sin2Theta := 1 - cosTheta*cosTheta
	if sin2ThetaMax < smallConeSin2 {
		sin2Theta = sin2ThetaMax * u.X
		cosTheta = math.Sqrt(1 - sin2Theta)
	}
	sinTheta := math.Sqrt(math.Max(0, sin2Theta))
	phi := 2 * math.Pi * u.Y

	local := core.Vec3{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	wi := core.NewONB(axis).ToWorld(local).Normalize()

	// Nearest intersection of the sampled ray with the sphere
	disc := sl.Radius*sl.Radius - dist*dist*sin2Theta
	distance := dist*cosTheta - math.Sqrt(math.Max(0, disc))

	return LightSample{
		Radiance: sl.Emission,
		Wi:       wi,
		Distance: math.Max(distance, 0),
		PDF:      1 / (2 * math.Pi * oneMinusCos),
	}
}

// PDFIncident returns the cone density, or zero if dir misses the sphere
func (sl SphereLight) PDFIncident(point, dir core.Vec3) float64 {
	axis, _, sin2ThetaMax, ok := sl.cone(point)
	if !ok {
		return 0
	}
	cosTheta := dir.Normalize().Dot(axis)
	if cosTheta <= 0 || 1-cosTheta*cosTheta > sin2ThetaMax*(1+1e-6) {
		return 0
	}
	return 1 / (2 * math.Pi * oneMinusCosThetaMax(sin2ThetaMax))
}
