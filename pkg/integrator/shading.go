package integrator

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

// ShadingContext is the per-hit data derived from a triangle hit
type ShadingContext struct {
	Position        core.Vec3 // interpolated hit position
	ShadingPoint    core.Vec3 // terminator-safe origin for outgoing rays
	Normal          core.Vec3 // interpolated shading normal
	GeometricNormal core.Vec3
	MaterialOffset  uint32
}

// NewShadingContext interpolates the hit attributes. Both normals are
// flipped to face the side the ray arrived from.
func NewShadingContext(data *geometry.InstanceData, hit geometry.Hit, rayDir core.Vec3) ShadingContext {
	a, b, c := data.Triangle(hit.Primitive)
	b1, b2 := hit.Barycentrics.X, hit.Barycentrics.Y
	b0 := 1 - b1 - b2

	position := a.Position.Multiply(b0).Add(b.Position.Multiply(b1)).Add(c.Position.Multiply(b2))

	ng := b.Position.Subtract(a.Position).Cross(c.Position.Subtract(a.Position)).Normalize()
	if ng.Dot(rayDir) > 0 {
		ng = ng.Negate()
	}

	// Vertex normals on the geometric normal's side
	na, nb, nc := faceForward(a.Normal, ng), faceForward(b.Normal, ng), faceForward(c.Normal, ng)
	ns := na.Multiply(b0).Add(nb.Multiply(b1)).Add(nc.Multiply(b2)).Normalize()
	if !ns.IsFinite() || ns.IsZero() {
		ns = ng
	}

	// Hanika, "Hacking the Shadow Terminator": project the hit onto the
	// tangent plane of each vertex and blend the offsets.
	pa := terminatorOffset(position, a.Position, na)
	pb := terminatorOffset(position, b.Position, nb)
	pc := terminatorOffset(position, c.Position, nc)
	shading := position.Add(pa.Multiply(b0)).Add(pb.Multiply(b1)).Add(pc.Multiply(b2))

	return ShadingContext{
		Position:        position,
		ShadingPoint:    shading,
		Normal:          ns,
		GeometricNormal: ng,
		MaterialOffset:  data.MaterialOffset,
	}
}

func faceForward(n, ref core.Vec3) core.Vec3 {
	if n.IsZero() {
		return ref
	}
	if n.Dot(ref) < 0 {
		return n.Negate()
	}
	return n
}

func terminatorOffset(p, vertex, n core.Vec3) core.Vec3 {
	tmp := p.Subtract(vertex)
	d := min(0, tmp.Dot(n))
	return tmp.Subtract(n.Multiply(d))
}

// OffsetOrigin returns the shading point nudged off the surface along the
// geometric normal, on the side of dir.
func (sc *ShadingContext) OffsetOrigin(dir core.Vec3) core.Vec3 {
	if dir.Dot(sc.GeometricNormal) < 0 {
		return core.OffsetRayOrigin(sc.ShadingPoint, sc.GeometricNormal.Negate())
	}
	return core.OffsetRayOrigin(sc.ShadingPoint, sc.GeometricNormal)
}
