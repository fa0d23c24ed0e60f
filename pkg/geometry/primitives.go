package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// UVSphere creates a sphere mesh centered at the origin
func UVSphere(radius float64, rings, segments int) Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	var m Mesh
	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			n := core.Vec3{
				X: math.Sin(theta) * math.Cos(phi),
				Y: math.Cos(theta),
				Z: math.Sin(theta) * math.Sin(phi),
			}
			m.Vertices = append(m.Vertices, Vertex{Position: n.Multiply(radius), Normal: n})
		}
	}

	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			// Skip the degenerate triangles at the poles
			if r != 0 {
				m.Indices = append(m.Indices, a, a+1, b)
			}
			if r != rings-1 {
				m.Indices = append(m.Indices, a+1, b+1, b)
			}
		}
	}
	return m
}

// Quad creates a two-triangle mesh spanning corner, corner+u, corner+u+v, corner+v.
// The face normal is u × v.
func Quad(corner, u, v core.Vec3) Mesh {
	n := u.Cross(v).Normalize()
	return Mesh{
		Vertices: []Vertex{
			{Position: corner, Normal: n},
			{Position: corner.Add(u), Normal: n},
			{Position: corner.Add(u).Add(v), Normal: n},
			{Position: corner.Add(v), Normal: n},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Grid creates a subdivided square in the XZ plane, centered at the origin and facing +Y
func Grid(size float64, divisions int) Mesh {
	divisions = max(divisions, 1)
	up := core.Vec3{Y: 1}
	half := size / 2

	var m Mesh
	for z := 0; z <= divisions; z++ {
		for x := 0; x <= divisions; x++ {
			p := core.Vec3{
				X: -half + size*float64(x)/float64(divisions),
				Z: -half + size*float64(z)/float64(divisions),
			}
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: up})
		}
	}

	stride := uint32(divisions + 1)
	for z := 0; z < divisions; z++ {
		for x := 0; x < divisions; x++ {
			a := uint32(z)*stride + uint32(x)
			b := a + stride
			// Counter-clockwise seen from +Y
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

// Box creates an axis-aligned box with outward facing normals and flat shading
func Box(lo, hi core.Vec3) Mesh {
	size := hi.Subtract(lo)
	dx := core.Vec3{X: size.X}
	dy := core.Vec3{Y: size.Y}
	dz := core.Vec3{Z: size.Z}

	faces := []Mesh{
		Quad(lo, dy, dx),         // -Z
		Quad(lo.Add(dz), dx, dy), // +Z
		Quad(lo, dz, dy),         // -X
		Quad(lo.Add(dx), dy, dz), // +X
		Quad(lo, dx, dz),         // -Y
		Quad(lo.Add(dy), dz, dx), // +Y
	}

	var m Mesh
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, f.Vertices...)
		for _, i := range f.Indices {
			m.Indices = append(m.Indices, base+i)
		}
	}
	return m
}
