package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestCameraFromLens_Basis(t *testing.T) {
	tests := []struct {
		name             string
		position, target core.Vec3
		up               core.Vec3
	}{
		{"looking down -Z", core.Vec3{}, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)},
		{"oblique", core.NewVec3(3, 2, 5), core.NewVec3(-1, 0.5, 0), core.NewVec3(0, 1, 0)},
		{"looking down", core.NewVec3(0, 4, 0), core.Vec3{}, core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := CameraFromLens(DefaultLens(), tt.position, tt.target, tt.up)

			forward := tt.target.Subtract(tt.position).Normalize()
			if cam.W.Subtract(forward).Length() > 1e-9 {
				t.Errorf("W = %v, expected %v", cam.W, forward)
			}
			axes := []core.Vec3{cam.U, cam.V, cam.W}
			for i, a := range axes {
				if math.Abs(a.Length()-1) > 1e-9 {
					t.Errorf("axis %d not unit length: %v", i, a)
				}
				for j := i + 1; j < len(axes); j++ {
					if math.Abs(a.Dot(axes[j])) > 1e-9 {
						t.Errorf("axes %d and %d not orthogonal", i, j)
					}
				}
			}
			// Right-handed with V roughly along up
			if cam.U.Cross(cam.V).Subtract(cam.W.Negate()).Length() > 1e-9 {
				t.Errorf("U x V should point backwards, got %v", cam.U.Cross(cam.V))
			}
			if cam.V.Dot(tt.up) <= 0 {
				t.Errorf("V = %v points away from up %v", cam.V, tt.up)
			}
		})
	}
}

func TestCameraFromLens_Scales(t *testing.T) {
	lens := Lens{FocalLength: 50, FocusDistance: 2, SensorWidth: 36, SensorHeight: 24, FStop: 2}
	cam := CameraFromLens(lens, core.Vec3{}, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0))

	if math.Abs(cam.ScaleU-0.72) > 1e-12 || math.Abs(cam.ScaleV-0.48) > 1e-12 || cam.ScaleW != 2 {
		t.Errorf("scales = (%f, %f, %f), expected (0.72, 0.48, 2)", cam.ScaleU, cam.ScaleV, cam.ScaleW)
	}
	if cam.ApertureRadius != 0 {
		t.Errorf("aperture without depth of field = %f, expected 0", cam.ApertureRadius)
	}

	lens.DepthOfField = true
	cam = CameraFromLens(lens, core.Vec3{}, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0))
	if math.Abs(cam.ApertureRadius-0.0125) > 1e-12 {
		t.Errorf("aperture radius = %f, expected 0.0125", cam.ApertureRadius)
	}
}

func TestCamera_GenerateRay(t *testing.T) {
	lens := DefaultLens()
	lens.DepthOfField = true
	lens.FStop = 1.4
	cam := CameraFromLens(lens, core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 0), core.NewVec3(0, 1, 0))

	// All lens samples for a film point converge on the same focus point
	focus := cam.Position.Add(cam.U.Multiply(0.3 * cam.ScaleU)).
		Add(cam.V.Multiply(-0.6 * cam.ScaleV)).
		Add(cam.W.Multiply(cam.ScaleW))

	rng := core.NewPCG32(8)
	for i := 0; i < 100; i++ {
		ray := cam.GenerateRay(0.3, -0.6, rng.Get2D())
		if math.Abs(ray.Direction.Length()-1) > 1e-9 {
			t.Fatalf("ray direction not normalized: %v", ray.Direction)
		}
		offset := ray.Origin.Subtract(cam.Position)
		if offset.Length() > cam.ApertureRadius+1e-12 {
			t.Fatalf("origin %v outside the aperture", ray.Origin)
		}
		if math.Abs(offset.Dot(cam.W)) > 1e-12 {
			t.Fatalf("origin %v not on the lens plane", ray.Origin)
		}
		toFocus := focus.Subtract(ray.Origin)
		if ray.Direction.Cross(toFocus.Normalize()).Length() > 1e-9 {
			t.Fatalf("ray %d misses the focus point", i)
		}
	}

	// Center of the film looks straight ahead
	pinhole := CameraFromLens(DefaultLens(), core.Vec3{}, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0))
	ray := pinhole.GenerateRay(0, 0, core.NewVec2(0.9, 0.1))
	if ray.Direction.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-12 || !ray.Origin.IsZero() {
		t.Errorf("center ray = %v, expected straight down -Z from the origin", ray)
	}
}
