package material

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func testBSDFs() []struct {
	name string
	bsdf BSDF
} {
	return []struct {
		name string
		bsdf BSDF
	}{
		{"diffuse", NewDiffuseBSDF(core.NewVec3(0.8, 0.5, 0.2))},
		{"rough conductor", Conductor(core.NewVec3(0.9, 0.6, 0.3), core.NewVec3(0.95, 0.8, 0.6), 0.5, 0).BSDF()},
		{"anisotropic conductor", Conductor(core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(1, 1, 1), 0.7, 0.8).BSDF()},
		{"glossy conductor", Conductor(core.NewVec3(0.95, 0.64, 0.54), core.NewVec3(1, 0.9, 0.8), 0.2, 0).BSDF()},
	}
}

func TestDiffuse_EnergyConservation(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.5, 0.2)
	d := NewDiffuseBSDF(albedo)
	wi := core.NewVec3(0.3, 0.2, 0.9).Normalize()

	rng := core.NewPCG32(1)
	const n = 200000
	sum := core.Vec3{}
	for i := 0; i < n; i++ {
		wo := core.SampleUniformHemisphere(rng.Get2D())
		f, _ := d.Evaluate(wi, wo)
		sum = sum.Add(f.Multiply(core.AbsCosTheta(wo) / core.PDFUniformHemisphere()))
	}
	got := sum.Multiply(1.0 / n)

	for _, c := range []struct{ got, want float64 }{{got.X, albedo.X}, {got.Y, albedo.Y}, {got.Z, albedo.Z}} {
		if math.Abs(c.got-c.want) > 0.01 {
			t.Errorf("∫f·cos = %v, expected %v", got, albedo)
			break
		}
	}
}

func TestDiffuse_OppositeHemisphere(t *testing.T) {
	d := NewDiffuseBSDF(core.NewVec3(1, 1, 1))
	f, pdf := d.Evaluate(core.NewVec3(0, 0, 1), core.NewVec3(0, 0.6, -0.8))
	if !f.IsZero() || pdf != 0 {
		t.Errorf("expected zero value and pdf across the surface, got %v %f", f, pdf)
	}

	// Sampling from below the surface stays below
	rng := core.NewPCG32(2)
	for i := 0; i < 100; i++ {
		s := d.Sample(core.NewVec3(0, 0, -1), rng)
		if s.Wo.Z > 0 {
			t.Fatalf("sample flipped to the wrong side: %v", s.Wo)
		}
	}
}

func TestBSDF_SampleMatchesEvaluate(t *testing.T) {
	incident := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0.5, 0.1, 0.8).Normalize(),
		core.NewVec3(-0.7, 0.6, 0.2).Normalize(),
		core.NewVec3(0.2, -0.3, -0.9).Normalize(),
	}

	for _, tt := range testBSDFs() {
		t.Run(tt.name, func(t *testing.T) {
			rng := core.NewPCG32(9)
			for _, wi := range incident {
				valid := 0
				for i := 0; i < 500; i++ {
					s := tt.bsdf.Sample(wi, rng)
					if s.PDF == 0 {
						continue
					}
					valid++
					f, pdf := tt.bsdf.Evaluate(wi, s.Wo)
					if !relClose(pdf, s.PDF, 1e-6) {
						t.Fatalf("wi=%v wo=%v: sample pdf %g, evaluate pdf %g", wi, s.Wo, s.PDF, pdf)
					}
					if !relClose(f.X, s.Value.X, 1e-6) || !relClose(f.Y, s.Value.Y, 1e-6) || !relClose(f.Z, s.Value.Z, 1e-6) {
						t.Fatalf("wi=%v wo=%v: sample value %v, evaluate value %v", wi, s.Wo, s.Value, f)
					}
					if tt.bsdf.PDF(wi, s.Wo) != pdf {
						t.Fatal("PDF disagrees with Evaluate")
					}
				}
				if valid == 0 {
					t.Errorf("wi=%v: no valid samples", wi)
				}
			}
		})
	}
}

func TestBSDF_Reciprocity(t *testing.T) {
	for _, tt := range testBSDFs() {
		t.Run(tt.name, func(t *testing.T) {
			rng := core.NewPCG32(31)
			for i := 0; i < 500; i++ {
				wi := core.SampleUniformHemisphere(rng.Get2D())
				wo := core.SampleUniformHemisphere(rng.Get2D())
				a, _ := tt.bsdf.Evaluate(wi, wo)
				b, _ := tt.bsdf.Evaluate(wo, wi)
				if !relClose(a.X, b.X, 1e-9) || !relClose(a.Y, b.Y, 1e-9) || !relClose(a.Z, b.Z, 1e-9) {
					t.Fatalf("f(%v,%v)=%v but f(%v,%v)=%v", wi, wo, a, wo, wi, b)
				}
			}
		})
	}
}

func TestBSDF_ValuesFinite(t *testing.T) {
	for _, tt := range testBSDFs() {
		t.Run(tt.name, func(t *testing.T) {
			rng := core.NewPCG32(77)
			for i := 0; i < 2000; i++ {
				wi := core.SampleUniformSphere(rng.Get2D())
				s := tt.bsdf.Sample(wi, rng)
				if !s.Value.IsFinite() || math.IsNaN(s.PDF) || s.PDF < 0 {
					t.Fatalf("non-finite sample for wi=%v: %+v", wi, s)
				}
				f, pdf := tt.bsdf.Evaluate(wi, core.SampleUniformSphere(rng.Get2D()))
				if !f.IsFinite() || math.IsNaN(pdf) || pdf < 0 {
					t.Fatalf("non-finite evaluation for wi=%v: %v %f", wi, f, pdf)
				}
			}
		})
	}
}

func TestConductor_Mirror(t *testing.T) {
	reflectivity := core.NewVec3(0.9, 0.7, 0.5)
	b := Conductor(reflectivity, core.NewVec3(1, 1, 1), 0, 0).BSDF()
	if b.Flags() != LobeSpecularReflection {
		t.Fatalf("expected specular flags, got %v", b.Flags())
	}

	wi := core.NewVec3(0.6, 0, 0.8)
	s := b.Sample(wi, core.NewPCG32(1))

	expected := core.NewVec3(-0.6, 0, 0.8)
	if s.Wo.Subtract(expected).Length() > 1e-12 {
		t.Errorf("mirror direction = %v, expected %v", s.Wo, expected)
	}
	if s.PDF != SpecularPDF {
		t.Errorf("mirror pdf = %f, expected exactly %f", s.PDF, SpecularPDF)
	}
	if !s.Lobe.IsSpecular() || !s.Lobe.IsReflection() {
		t.Errorf("mirror lobe = %v", s.Lobe)
	}

	f := FresnelConductor(0.8, b.Conductor.Eta, b.Conductor.K)
	want := f.Multiply(1 / 0.8)
	if s.Value.Subtract(want).Length() > 1e-12 {
		t.Errorf("mirror value = %v, expected %v", s.Value, want)
	}

	if v, pdf := b.Evaluate(wi, s.Wo); !v.IsZero() || pdf != 0 {
		t.Errorf("delta lobe must evaluate to zero, got %v %f", v, pdf)
	}
}

func TestConductor_WhiteFurnace(t *testing.T) {
	// With near-unit reflectance the sample weight f·cos/pdf = F·G2/G1 never exceeds one
	b := Conductor(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), 0.6, 0.3).BSDF()
	rng := core.NewPCG32(5)
	for i := 0; i < 5000; i++ {
		wi := core.SampleUniformHemisphere(rng.Get2D())
		s := b.Sample(wi, rng)
		if s.PDF == 0 {
			continue
		}
		weight := s.Value.Multiply(core.AbsCosTheta(s.Wo) / s.PDF)
		if weight.MaxComponent() > 1+1e-6 {
			t.Fatalf("sample weight %v exceeds one for wi=%v", weight, wi)
		}
	}
}

func TestLobeFlags(t *testing.T) {
	tests := []struct {
		lobe     Lobe
		specular bool
	}{
		{LobeDiffuseReflection, false},
		{LobeGlossyReflection, false},
		{LobeSpecularReflection, true},
		{LobeSpecular | LobeTransmission, true},
	}
	for _, tt := range tests {
		if tt.lobe.IsSpecular() != tt.specular {
			t.Errorf("lobe %b: IsSpecular = %v", tt.lobe, !tt.specular)
		}
	}
	if NewDiffuseBSDF(core.Vec3{}).Flags() != LobeDiffuseReflection {
		t.Error("diffuse flags wrong")
	}
}

func TestParams(t *testing.T) {
	ax, ay := Conductor(core.Vec3{}, core.Vec3{}, 0.5, 0).Alphas()
	if ax != ay || math.Abs(ax-0.25) > 1e-12 {
		t.Errorf("isotropic alphas = %f, %f", ax, ay)
	}
	ax, ay = Conductor(core.Vec3{}, core.Vec3{}, 0.5, 1).Alphas()
	if ax <= ay {
		t.Errorf("anisotropy should stretch along the tangent: %f, %f", ax, ay)
	}
	if KindConductor.String() != "conductor" || KindDiffuse.String() != "diffuse" {
		t.Error("kind names")
	}
	if Diffuse(core.NewVec3(1, 0, 0)).BSDF().Kind != BSDFDiffuse {
		t.Error("diffuse params built the wrong model")
	}
}
