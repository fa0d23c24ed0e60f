package integrator

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Lens describes a physical camera. Lengths on the sensor are in millimeters,
// distances in the scene in meters.
type Lens struct {
	FocalLength   float64 `yaml:"focal_length"`
	FocusDistance float64 `yaml:"focus_distance"`
	SensorWidth   float64 `yaml:"sensor_width"`
	SensorHeight  float64 `yaml:"sensor_height"`
	DepthOfField  bool    `yaml:"depth_of_field"`
	FStop         float64 `yaml:"f_stop"`
}

// DefaultLens is a 50mm lens on a 16:9 crop of a full-frame sensor
func DefaultLens() Lens {
	return Lens{
		FocalLength:   50,
		FocusDistance: 3,
		SensorWidth:   36,
		SensorHeight:  36 / (16.0 / 9.0),
		FStop:         22,
	}
}

// Camera is the per-frame camera record. U, V and W are the right, up and
// forward axes; the scale factors place the focus plane at W·ScaleW with a
// half extent of ScaleU by ScaleV.
type Camera struct {
	U, V, W                core.Vec3
	ScaleU, ScaleV, ScaleW float64
	Position               core.Vec3
	ApertureRadius         float64
}

// CameraFromLens derives a camera at position looking at target
func CameraFromLens(lens Lens, position, target, up core.Vec3) Camera {
	view := mgl64.LookAtV(toMgl(position), toMgl(target), toMgl(up))
	// Rows of the view rotation are the camera axes in world space
	right := core.NewVec3(view.At(0, 0), view.At(0, 1), view.At(0, 2))
	camUp := core.NewVec3(view.At(1, 0), view.At(1, 1), view.At(1, 2))
	back := core.NewVec3(view.At(2, 0), view.At(2, 1), view.At(2, 2))

	cam := Camera{
		U:        right,
		V:        camUp,
		W:        back.Negate(),
		ScaleU:   0.5 * lens.SensorWidth / lens.FocalLength * lens.FocusDistance,
		ScaleV:   0.5 * lens.SensorHeight / lens.FocalLength * lens.FocusDistance,
		ScaleW:   lens.FocusDistance,
		Position: position,
	}
	if lens.DepthOfField {
		// f-stop is focal length over aperture diameter, converted to meters
		cam.ApertureRadius = 0.5 * (lens.FocalLength / lens.FStop) * 0.001
	}
	return cam
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// GenerateRay returns a normalized ray through the film point (s, t) in
// [-1,1]², with t pointing up, and a lens sample in [0,1)².
func (c *Camera) GenerateRay(s, t float64, lensSample core.Vec2) core.Ray {
	focus := c.Position.
		Add(c.U.Multiply(s * c.ScaleU)).
		Add(c.V.Multiply(t * c.ScaleV)).
		Add(c.W.Multiply(c.ScaleW))

	origin := c.Position
	if c.ApertureRadius > 0 {
		d := core.SampleUniformDiskConcentric(lensSample)
		origin = origin.
			Add(c.U.Multiply(d.X * c.ApertureRadius)).
			Add(c.V.Multiply(d.Y * c.ApertureRadius))
	}
	return core.NewRay(origin, focus.Subtract(origin).Normalize())
}

// ViewDepth converts a distance along ray to depth along the view axis
func (c *Camera) ViewDepth(ray core.Ray, t float64) float64 {
	return t * ray.Direction.Dot(c.W)
}
