package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// triangle is a world-space triangle with back references to its instance
type triangle struct {
	V0, V1, V2 core.Vec3
	Instance   uint32
	Primitive  uint32
	bbox       AABB
}

func newTriangle(v0, v1, v2 core.Vec3, instance, primitive uint32) triangle {
	return triangle{
		V0:        v0,
		V1:        v1,
		V2:        v2,
		Instance:  instance,
		Primitive: primitive,
		bbox:      NewAABBFromPoints(v0, v1, v2),
	}
}

// hit tests the ray with the Möller-Trumbore algorithm and returns the
// distance and the barycentrics of V1 and V2.
func (t *triangle) hit(ray core.Ray, tMin, tMax float64) (float64, core.Vec2, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return 0, core.Vec2{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, core.Vec2{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, core.Vec2{}, false
	}

	dist := f * edge2.Dot(q)
	if dist <= tMin || dist > tMax {
		return 0, core.Vec2{}, false
	}
	return dist, core.Vec2{X: u, Y: v}, true
}
