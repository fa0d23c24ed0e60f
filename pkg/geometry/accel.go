package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ErrUnknownMesh is returned when an instance references a missing mesh
var ErrUnknownMesh = errors.New("geometry: unknown mesh")

// Instance places a mesh in the world
type Instance struct {
	Mesh           int
	Transform      mgl64.Mat4
	MaterialOffset uint32
}

// NewInstance creates an instance with the identity transform
func NewInstance(mesh int, materialOffset uint32) Instance {
	return Instance{Mesh: mesh, Transform: mgl64.Ident4(), MaterialOffset: materialOffset}
}

// Hit is the closest intersection returned by Accel.Intersect. Barycentrics
// are the weights of the triangle's second and third vertex.
type Hit struct {
	T            float64
	Instance     uint32
	Primitive    uint32
	Barycentrics core.Vec2
}

// InstanceData is the world-space geometry of one instance used for shading
type InstanceData struct {
	Vertices       []Vertex
	Indices        []uint32
	MaterialOffset uint32
}

// Triangle returns the three vertices of primitive p
func (d *InstanceData) Triangle(p uint32) (Vertex, Vertex, Vertex) {
	i := 3 * p
	return d.Vertices[d.Indices[i]], d.Vertices[d.Indices[i+1]], d.Vertices[d.Indices[i+2]]
}

// Accel answers closest-hit and occlusion queries for a set of instances
type Accel struct {
	instances []InstanceData
	bvh       *bvh
}

// NewAccel transforms every instance into world space and builds a BVH over
// the resulting triangles.
func NewAccel(meshes []Mesh, instances []Instance) (*Accel, error) {
	a := &Accel{instances: make([]InstanceData, len(instances))}

	var triangles []triangle
	for id, inst := range instances {
		if inst.Mesh < 0 || inst.Mesh >= len(meshes) {
			return nil, errors.Wrapf(ErrUnknownMesh, "instance %d references mesh %d", id, inst.Mesh)
		}
		mesh := &meshes[inst.Mesh]
		if err := mesh.Validate(); err != nil {
			return nil, errors.Wrapf(err, "mesh %d", inst.Mesh)
		}

		world := mesh.Transformed(inst.Transform)
		a.instances[id] = InstanceData{
			Vertices:       world.Vertices,
			Indices:        world.Indices,
			MaterialOffset: inst.MaterialOffset,
		}
		for p := 0; p < world.TriangleCount(); p++ {
			v0, v1, v2 := a.instances[id].Triangle(uint32(p))
			triangles = append(triangles, newTriangle(v0.Position, v1.Position, v2.Position, uint32(id), uint32(p)))
		}
	}

	a.bvh = newBVH(triangles)
	return a, nil
}

// InstanceCount returns the number of instances
func (a *Accel) InstanceCount() int {
	return len(a.instances)
}

// TriangleCount returns the number of world-space triangles
func (a *Accel) TriangleCount() int {
	return len(a.bvh.triangles)
}

// Bounds returns the world bounds of all geometry
func (a *Accel) Bounds() AABB {
	if a.bvh.root == nil {
		return EmptyAABB()
	}
	return a.bvh.root.Bounds
}

// Instance returns the shading data for instance id
func (a *Accel) Instance(id uint32) *InstanceData {
	return &a.instances[id]
}

// Intersect returns the closest hit with 0 < t <= tMax
func (a *Accel) Intersect(ray core.Ray, tMax float64) (Hit, bool) {
	return a.bvh.closest(ray, 0, tMax)
}

// Occluded reports whether any geometry lies along the ray with 0 < t < tMax
func (a *Accel) Occluded(ray core.Ray, tMax float64) bool {
	return a.bvh.any(ray, 0, tMax)
}
