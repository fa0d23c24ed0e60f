package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func randomVec3(rng *core.PCG32, scale float64) core.Vec3 {
	v := rng.Get3D()
	return core.Vec3{X: (v.X*2 - 1) * scale, Y: (v.Y*2 - 1) * scale, Z: (v.Z*2 - 1) * scale}
}

// randomTriangleSoup returns a mesh of small scattered triangles
func randomTriangleSoup(rng *core.PCG32, count int) Mesh {
	var m Mesh
	for i := 0; i < count; i++ {
		c := randomVec3(rng, 5)
		for j := 0; j < 3; j++ {
			m.Vertices = append(m.Vertices, Vertex{Position: c.Add(randomVec3(rng, 0.5))})
			m.Indices = append(m.Indices, uint32(3*i+j))
		}
	}
	m.ComputeNormals()
	return m
}

func bruteForceClosest(a *Accel, ray core.Ray, tMax float64) (Hit, bool) {
	var best Hit
	found := false
	for i := range a.bvh.triangles {
		tri := &a.bvh.triangles[i]
		if t, bary, ok := tri.hit(ray, 0, tMax); ok {
			tMax = t
			found = true
			best = Hit{T: t, Instance: tri.Instance, Primitive: tri.Primitive, Barycentrics: bary}
		}
	}
	return best, found
}

func TestAccel_MatchesBruteForce(t *testing.T) {
	rng := core.NewPCG32(42)
	meshes := []Mesh{randomTriangleSoup(rng, 300), UVSphere(1, 12, 24)}
	instances := []Instance{
		NewInstance(0, 0),
		{Mesh: 1, Transform: mgl64.Translate3D(2, 0, 0), MaterialOffset: 1},
		{Mesh: 1, Transform: mgl64.Translate3D(-2, 1, 0).Mul4(mgl64.Scale3D(0.5, 0.5, 0.5)), MaterialOffset: 2},
	}
	accel, err := NewAccel(meshes, instances)
	if err != nil {
		t.Fatalf("NewAccel failed: %v", err)
	}

	hits := 0
	for i := 0; i < 2000; i++ {
		origin := randomVec3(rng, 8)
		dir := randomVec3(rng, 1).Normalize()
		ray := core.NewRay(origin, dir)

		got, gotOK := accel.Intersect(ray, math.Inf(1))
		want, wantOK := bruteForceClosest(accel, ray, math.Inf(1))
		if gotOK != wantOK {
			t.Fatalf("ray %d: hit mismatch, bvh=%v brute=%v", i, gotOK, wantOK)
		}
		if !gotOK {
			if accel.Occluded(ray, math.Inf(1)) {
				t.Fatalf("ray %d: occluded without a closest hit", i)
			}
			continue
		}
		hits++
		if math.Abs(got.T-want.T) > 1e-9 {
			t.Fatalf("ray %d: t mismatch, bvh=%f brute=%f", i, got.T, want.T)
		}
		if !accel.Occluded(ray, got.T*1.001) {
			t.Fatalf("ray %d: closest hit at %f not reported as occluding", i, got.T)
		}
		if accel.Occluded(ray, got.T*0.999) {
			t.Fatalf("ray %d: occluded before the closest hit", i)
		}
	}
	if hits < 100 {
		t.Errorf("only %d rays hit anything, test is not exercising the BVH", hits)
	}
}

func TestAccel_HitReportsInstanceAndBarycentrics(t *testing.T) {
	quad := Quad(core.Vec3{X: -1, Y: -1}, core.Vec3{X: 2}, core.Vec3{Y: 2})
	accel, err := NewAccel([]Mesh{quad}, []Instance{
		{Mesh: 0, Transform: mgl64.Translate3D(0, 0, -5), MaterialOffset: 7},
	})
	if err != nil {
		t.Fatalf("NewAccel failed: %v", err)
	}

	ray := core.NewRay(core.Vec3{X: 0.5, Y: -0.5}, core.Vec3{Z: -1})
	hit, ok := accel.Intersect(ray, math.Inf(1))
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("t = %f, expected 5", hit.T)
	}
	if hit.Instance != 0 {
		t.Errorf("instance = %d, expected 0", hit.Instance)
	}

	data := accel.Instance(hit.Instance)
	if data.MaterialOffset != 7 {
		t.Errorf("material offset = %d, expected 7", data.MaterialOffset)
	}

	// Reconstruct the hit point from the barycentrics
	v0, v1, v2 := data.Triangle(hit.Primitive)
	b1, b2 := hit.Barycentrics.X, hit.Barycentrics.Y
	p := v0.Position.Multiply(1 - b1 - b2).Add(v1.Position.Multiply(b1)).Add(v2.Position.Multiply(b2))
	if p.Subtract(ray.At(hit.T)).Length() > 1e-9 {
		t.Errorf("barycentric point %v, expected %v", p, ray.At(hit.T))
	}

	// tMax shorter than the hit
	if _, ok := accel.Intersect(ray, 4.9); ok {
		t.Error("hit beyond tMax should be ignored")
	}
}

func TestAccel_Empty(t *testing.T) {
	accel, err := NewAccel(nil, nil)
	if err != nil {
		t.Fatalf("NewAccel failed: %v", err)
	}
	ray := core.NewRay(core.Vec3{}, core.Vec3{Z: 1})
	if _, ok := accel.Intersect(ray, math.Inf(1)); ok {
		t.Error("empty accel should never hit")
	}
	if accel.Occluded(ray, math.Inf(1)) {
		t.Error("empty accel should never occlude")
	}
}

func TestAccel_Errors(t *testing.T) {
	tests := []struct {
		name      string
		meshes    []Mesh
		instances []Instance
		want      error
	}{
		{
			name:      "unknown mesh",
			meshes:    []Mesh{Grid(1, 1)},
			instances: []Instance{NewInstance(3, 0)},
			want:      ErrUnknownMesh,
		},
		{
			name:      "index out of range",
			meshes:    []Mesh{{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 5}}},
			instances: []Instance{NewInstance(0, 0)},
			want:      ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccel(tt.meshes, tt.instances)
			if errors.Cause(err) != tt.want {
				t.Errorf("got error %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestMesh_TransformedNormals(t *testing.T) {
	m := Quad(core.Vec3{}, core.Vec3{X: 1}, core.Vec3{Z: -1})
	// Non-uniform scale must keep the normal perpendicular to the surface
	xf := mgl64.HomogRotate3DZ(math.Pi / 4).Mul4(mgl64.Scale3D(3, 1, 1))
	w := m.Transformed(xf)

	e1 := w.Vertices[1].Position.Subtract(w.Vertices[0].Position)
	e2 := w.Vertices[3].Position.Subtract(w.Vertices[0].Position)
	for i, v := range w.Vertices {
		if math.Abs(v.Normal.Dot(e1)) > 1e-9 || math.Abs(v.Normal.Dot(e2)) > 1e-9 {
			t.Errorf("vertex %d normal %v not perpendicular to the transformed quad", i, v.Normal)
		}
		if math.Abs(v.Normal.Length()-1) > 1e-9 {
			t.Errorf("vertex %d normal not normalized: %v", i, v.Normal)
		}
	}
}
