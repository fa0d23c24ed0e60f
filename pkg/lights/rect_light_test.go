package lights

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func ceilingLight() Light {
	// 2x2 rectangle at height 2, emitting downward
	return NewRect(core.NewVec3(4, 4, 4), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0))
}

func TestRectLight_CenterSampleMatchesPDF(t *testing.T) {
	light := ceilingLight()
	if n := light.Rect.AreaScaledNormal; !n.Equals(core.NewVec3(0, 0, -4)) {
		t.Fatalf("area-scaled normal = %v, expected (0,0,-4)", n)
	}

	point := core.NewVec3(0, 0, 0)
	s := light.Rect.SampleIncident(point, core.NewVec2(0.5, 0.5))
	if !s.Wi.Equals(core.NewVec3(0, 0, 1)) || s.Distance != 2 {
		t.Fatalf("center sample = %+v", s)
	}
	if s.PDF != 1 {
		t.Errorf("center pdf = %f, expected distance²/area = 1", s.PDF)
	}
	if pdf := light.PDFIncident(point, s.Wi); pdf != s.PDF {
		t.Errorf("PDFIncident = %v, SampleIncident pdf = %v", pdf, s.PDF)
	}
}

func TestRectLight_RandomSamplesMatchPDF(t *testing.T) {
	light := ceilingLight()
	point := core.NewVec3(0.3, -0.7, 0.5)

	rng := core.NewPCG32(6)
	for i := 0; i < 5000; i++ {
		s := light.SampleIncident(point, rng)
		if s.PDF <= 0 {
			t.Fatalf("zero pdf for a point facing the light")
		}
		pdf := light.PDFIncident(point, s.Wi)
		if math.Abs(pdf-s.PDF) > 1e-9*s.PDF {
			t.Fatalf("PDFIncident = %v, sample pdf = %v", pdf, s.PDF)
		}
	}
}

func TestRectLight_PDFIntegratesToOne(t *testing.T) {
	light := ceilingLight()
	point := core.NewVec3(0, 0, 1)

	rng := core.NewPCG32(10)
	const n = 400000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := core.SampleUniformSphere(rng.Get2D())
		sum += light.PDFIncident(point, dir) / core.PDFUniformSphere()
	}
	if got := sum / n; math.Abs(got-1) > 0.03 {
		t.Errorf("∫pdf = %f, expected ~1", got)
	}
}

func TestRectLight_FacingAway(t *testing.T) {
	light := ceilingLight()
	above := core.NewVec3(0, 0, 3)

	s := light.SampleIncident(above, core.NewPCG32(1))
	if s.PDF != 0 {
		t.Errorf("expected a zero sample behind the light, got pdf %f", s.PDF)
	}
	if pdf := light.PDFIncident(above, core.NewVec3(0, 0, -1)); pdf != 0 {
		t.Errorf("expected zero pdf behind the light, got %f", pdf)
	}
	if pdf := light.PDFIncident(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0.1).Normalize()); pdf != 0 {
		t.Errorf("expected zero pdf for a direction missing the rectangle, got %f", pdf)
	}
}
