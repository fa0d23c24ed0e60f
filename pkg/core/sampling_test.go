package core

import (
	"math"
	"testing"
)

// integrateOverSphere estimates ∫ pdf(ω) dω using uniform sphere directions
func integrateOverSphere(pdf func(Vec3) float64, n int) float64 {
	rng := NewPCG32(42)
	sum := 0.0
	for i := 0; i < n; i++ {
		w := SampleUniformSphere(rng.Get2D())
		sum += pdf(w) / PDFUniformSphere()
	}
	return sum / float64(n)
}

func TestSamplingPDFsIntegrateToOne(t *testing.T) {
	const n = 200000
	cosMax := math.Cos(0.6)

	tests := []struct {
		name string
		pdf  func(Vec3) float64
	}{
		{"uniform sphere", func(Vec3) float64 { return PDFUniformSphere() }},
		{"uniform hemisphere", func(w Vec3) float64 {
			if w.Z < 0 {
				return 0
			}
			return PDFUniformHemisphere()
		}},
		{"cosine hemisphere", func(w Vec3) float64 { return PDFCosineHemisphere(w.Z) }},
		{"uniform cone", func(w Vec3) float64 {
			if w.Z < cosMax {
				return 0
			}
			return PDFUniformCone(cosMax)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := integrateOverSphere(tt.pdf, n)
			if math.Abs(got-1) > 0.03 {
				t.Errorf("∫pdf = %f, expected ~1", got)
			}
		})
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	rng := NewPCG32(5)
	const n = 100000
	sumCos := 0.0
	for i := 0; i < n; i++ {
		w := SampleCosineHemisphere(rng.Get2D())
		if w.Z < 0 {
			t.Fatalf("sample below the hemisphere: %v", w)
		}
		if math.Abs(w.Length()-1) > 1e-9 {
			t.Fatalf("sample not unit length: %v", w.Length())
		}
		sumCos += w.Z
	}
	// E[cosθ] under a cosine density is 2/3
	if mean := sumCos / n; math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("mean cosθ = %f, expected ~0.6667", mean)
	}
}

func TestSampleCosineHemisphereAround(t *testing.T) {
	normal := NewVec3(1, 1, 0).Normalize()
	rng := NewPCG32(11)
	for i := 0; i < 1000; i++ {
		w := SampleCosineHemisphereAround(normal, rng.Get2D())
		if w.Dot(normal) < -1e-9 {
			t.Fatalf("direction %v is below the normal", w)
		}
	}
}

func TestSampleUniformCone(t *testing.T) {
	cosMax := math.Cos(math.Asin(0.2))
	rng := NewPCG32(3)
	for i := 0; i < 10000; i++ {
		w := SampleUniformCone(rng.Get2D(), cosMax)
		if w.Z < cosMax-1e-9 {
			t.Fatalf("cone sample outside the cone: z=%f cosMax=%f", w.Z, cosMax)
		}
	}
	if PDFUniformCone(1) != 0 {
		t.Error("degenerate cone should have zero pdf")
	}
}

func TestSampleUniformDisk(t *testing.T) {
	rng := NewPCG32(8)
	for _, sample := range []func(Vec2) Vec2{SampleUniformDiskConcentric, SampleUniformDiskPolar} {
		for i := 0; i < 5000; i++ {
			p := sample(rng.Get2D())
			if p.X*p.X+p.Y*p.Y > 1+1e-9 {
				t.Fatalf("disk sample outside the unit disk: %v", p)
			}
		}
	}
	if p := SampleUniformDiskConcentric(NewVec2(0.5, 0.5)); p.X != 0 || p.Y != 0 {
		t.Errorf("center sample should map to the origin, got %v", p)
	}
}

func TestSampleUniformTriangle(t *testing.T) {
	rng := NewPCG32(13)
	for i := 0; i < 5000; i++ {
		b := SampleUniformTriangle(rng.Get2D())
		if b.X < 0 || b.Y < 0 || b.Z < -1e-12 {
			t.Fatalf("negative barycentric: %v", b)
		}
		if math.Abs(b.X+b.Y+b.Z-1) > 1e-12 {
			t.Fatalf("barycentrics do not sum to one: %v", b)
		}
	}
	if PDFUniformTriangle(0) != 0 {
		t.Error("degenerate triangle should have zero pdf")
	}
}

func TestSampleUniformRegularPolygon(t *testing.T) {
	tests := []struct {
		name  string
		sides int
	}{
		{"triangle", 3},
		{"hexagon", 6},
		{"falls back to disk", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := NewPCG32(17)
			for i := 0; i < 5000; i++ {
				p := SampleUniformRegularPolygon(tt.sides, rng.Get2D())
				if p.X*p.X+p.Y*p.Y > 1+1e-9 {
					t.Fatalf("polygon sample outside the circumcircle: %v", p)
				}
			}
		})
	}

	// A square inscribed in the unit circle has area 2
	if got := PDFUniformRegularPolygon(4); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("square pdf = %f, expected 0.5", got)
	}
}
