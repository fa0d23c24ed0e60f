package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ErrIndexOutOfRange is returned for meshes whose indices exceed the vertex buffer
var ErrIndexOutOfRange = errors.New("geometry: index out of range")

// Vertex is the per-vertex record the shading code reads
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
}

// Mesh is an indexed triangle list
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the index buffer against the vertex buffer
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return errors.Errorf("geometry: index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return errors.Wrapf(ErrIndexOutOfRange, "index %d = %d, %d vertices", i, idx, len(m.Vertices))
		}
	}
	return nil
}

// ComputeNormals replaces vertex normals with area-weighted face normals
func (m *Mesh) ComputeNormals() {
	normals := make([]core.Vec3, len(m.Vertices))
	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2 := m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]
		p0, p1, p2 := m.Vertices[i0].Position, m.Vertices[i1].Position, m.Vertices[i2].Position
		// Unnormalized cross product weights by area
		n := p1.Subtract(p0).Cross(p2.Subtract(p0))
		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = normals[i].Normalize()
	}
}

// Bounds returns the bounding box of all vertices
func (m *Mesh) Bounds() AABB {
	box := EmptyAABB()
	for _, v := range m.Vertices {
		box = box.Extend(v.Position)
	}
	return box
}

// Transformed returns a copy of the mesh with positions transformed by xf and
// normals by its inverse transpose.
func (m *Mesh) Transformed(xf mgl64.Mat4) Mesh {
	normalXf := xf.Mat3().Inv().Transpose()
	out := Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  m.Indices,
	}
	for i, v := range m.Vertices {
		p := xf.Mul4x1(mgl64.Vec4{v.Position.X, v.Position.Y, v.Position.Z, 1})
		n := normalXf.Mul3x1(mgl64.Vec3{v.Normal.X, v.Normal.Y, v.Normal.Z})
		out.Vertices[i] = Vertex{
			Position: core.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   core.Vec3{X: n[0], Y: n[1], Z: n[2]}.Normalize(),
		}
	}
	return out
}
