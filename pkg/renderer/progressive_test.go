package renderer

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/envmap"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// createTestScene builds a sphere on a floor under a gradient sky and a sphere light
func createTestScene(t *testing.T) (*integrator.Scene, *integrator.Camera) {
	t.Helper()
	accel, err := geometry.NewAccel(
		[]geometry.Mesh{geometry.Grid(20, 2), geometry.UVSphere(1, 12, 24)},
		[]geometry.Instance{geometry.NewInstance(0, 0), geometry.NewInstance(1, 1)},
	)
	if err != nil {
		t.Fatalf("NewAccel failed: %v", err)
	}

	res := lights.NewResources()
	sky := res.AddEnvironment(envmap.Gradient{Top: core.NewVec3(0.5, 0.7, 1.0), Bottom: core.NewVec3(1, 1, 1)})
	table, err := lights.NewTableFromLights([]lights.Light{
		lights.NewSphere(core.NewVec3(10, 10, 10), core.NewVec3(2, 4, 2), 0.5),
		lights.NewDome(sky, lights.NoHandle, 0),
	}, res)
	if err != nil {
		t.Fatalf("NewTableFromLights failed: %v", err)
	}

	scene := &integrator.Scene{
		Accel: accel,
		Materials: []material.Params{
			material.Diffuse(core.NewVec3(0.6, 0.6, 0.6)),
			material.Conductor(core.NewVec3(0.9, 0.7, 0.4), core.NewVec3(1, 1, 1), 0.2, 0.5),
		},
		Lights: table,
	}
	cam := integrator.CameraFromLens(integrator.DefaultLens(), core.NewVec3(0, 1, 5), core.NewVec3(0, 0.5, 0), core.NewVec3(0, 1, 0))
	return scene, &cam
}

func testOptions(workers int) Options {
	return Options{Width: 20, Height: 12, TileSize: 8, Workers: workers}
}

func TestNewProgressive_Errors(t *testing.T) {
	scene, cam := createTestScene(t)

	tests := []struct {
		name   string
		scene  *integrator.Scene
		camera *integrator.Camera
		opts   Options
		want   error
	}{
		{"no scene", nil, cam, testOptions(1), ErrSceneNotDefined},
		{"no accel", &integrator.Scene{}, cam, testOptions(1), ErrSceneNotDefined},
		{"no camera", scene, nil, testOptions(1), ErrCameraNotDefined},
		{"zero width", scene, cam, Options{Width: 0, Height: 4, TileSize: 8}, ErrInvalidResolution},
		{"zero tile", scene, cam, Options{Width: 4, Height: 4}, ErrInvalidResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProgressive(tt.scene, tt.camera, tt.opts)
			if errors.Cause(err) != tt.want {
				t.Errorf("got %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestProgressive_AccumulationFactor(t *testing.T) {
	scene, cam := createTestScene(t)
	p, err := NewProgressive(scene, cam, testOptions(2))
	if err != nil {
		t.Fatalf("NewProgressive failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		stats, err := p.RenderFrame(ctx)
		if err != nil {
			t.Fatalf("frame %d failed: %v", i, err)
		}
		if want := 1 / float64(i+1); stats.AccumulationFactor != want {
			t.Errorf("frame %d: factor %f, expected %f", i, stats.AccumulationFactor, want)
		}
		if stats.Reset != (i == 0) {
			t.Errorf("frame %d: reset = %v", i, stats.Reset)
		}
		if stats.Pixels != 20*12 {
			t.Errorf("frame %d: traced %d pixels, expected %d", i, stats.Pixels, 20*12)
		}
		// 3x2 tiles of 8x8 cover 24x16 invocations
		if stats.Skipped != 24*16-20*12 {
			t.Errorf("frame %d: skipped %d invocations, expected %d", i, stats.Skipped, 24*16-20*12)
		}
	}

	p.SetCamera(*cam)
	stats, err := p.RenderFrame(ctx)
	if err != nil {
		t.Fatalf("frame after reset failed: %v", err)
	}
	if stats.AccumulationFactor != 1 || !stats.Reset || stats.Frame != 0 {
		t.Errorf("after reset: %+v, expected factor 1 on frame 0", stats)
	}
}

func TestProgressive_DeterministicAcrossWorkers(t *testing.T) {
	ctx := context.Background()
	var surfaces []*Surface
	var depths []*DepthSurface
	for _, workers := range []int{1, 3, 8} {
		scene, cam := createTestScene(t)
		p, err := NewProgressive(scene, cam, testOptions(workers))
		if err != nil {
			t.Fatalf("NewProgressive failed: %v", err)
		}
		if _, err := p.Run(ctx, 3, nil); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		surfaces = append(surfaces, p.Color())
		depths = append(depths, p.Depth())
	}

	for i := 1; i < len(surfaces); i++ {
		if diff := cmp.Diff(surfaces[0].Pix, surfaces[i].Pix); diff != "" {
			t.Errorf("color differs with worker count (-1 worker +more):\n%s", diff)
		}
		if diff := cmp.Diff(depths[0].Pix, depths[i].Pix); diff != "" {
			t.Errorf("depth differs with worker count:\n%s", diff)
		}
	}
}

func TestProgressive_ResetRestartsSeedStream(t *testing.T) {
	ctx := context.Background()
	scene, cam := createTestScene(t)
	p, err := NewProgressive(scene, cam, testOptions(0))
	if err != nil {
		t.Fatalf("NewProgressive failed: %v", err)
	}

	first, err := p.RenderFrame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := append([]float32(nil), p.Color().Pix...)

	second, err := p.RenderFrame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.Seed == second.Seed {
		t.Errorf("consecutive frames share seed %d", first.Seed)
	}

	p.Reset()
	again, err := p.RenderFrame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.Seed != first.Seed {
		t.Errorf("seed after reset = %d, expected %d", again.Seed, first.Seed)
	}
	if diff := cmp.Diff(snapshot, p.Color().Pix); diff != "" {
		t.Errorf("first frame after reset differs from the first frame before reset:\n%s", diff)
	}
}

func TestProgressive_Depth(t *testing.T) {
	ctx := context.Background()
	scene, cam := createTestScene(t)
	p, err := NewProgressive(scene, cam, testOptions(2))
	if err != nil {
		t.Fatalf("NewProgressive failed: %v", err)
	}
	if _, err := p.RenderFrame(ctx); err != nil {
		t.Fatal(err)
	}

	// The bottom rows look at the floor, the top rows at the sky
	bottom := p.Depth().At(10, 11)
	if math.IsInf(bottom, 1) || bottom <= 0 {
		t.Errorf("bottom depth = %f, expected a finite positive distance", bottom)
	}
	if top := p.Depth().At(0, 0); !math.IsInf(top, 1) {
		t.Errorf("top-left depth = %f, expected +Inf", top)
	}

	// Later frames leave depth alone
	p.Depth().Set(10, 11, 123)
	if _, err := p.RenderFrame(ctx); err != nil {
		t.Fatal(err)
	}
	if got := p.Depth().At(10, 11); got != 123 {
		t.Errorf("depth overwritten on a non-reset frame: %f", got)
	}
}

func TestProgressive_Interrupted(t *testing.T) {
	scene, cam := createTestScene(t)
	p, err := NewProgressive(scene, cam, testOptions(1))
	if err != nil {
		t.Fatalf("NewProgressive failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	frames, err := p.Run(ctx, 5, func(s FrameStats) {
		if s.Frame == 1 {
			cancel()
		}
	})
	if errors.Cause(err) != ErrInterrupted {
		t.Fatalf("got %v, expected ErrInterrupted", err)
	}
	if len(frames) != 2 {
		t.Errorf("rendered %d frames before stopping, expected 2", len(frames))
	}
	if p.Frame() != 2 {
		t.Errorf("frame counter = %d, expected 2", p.Frame())
	}
}

func TestProgressive_ImageAndStats(t *testing.T) {
	scene, cam := createTestScene(t)
	p, err := NewProgressive(scene, cam, testOptions(0))
	if err != nil {
		t.Fatalf("NewProgressive failed: %v", err)
	}
	frames, err := p.Run(context.Background(), 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	img := p.Image()
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 12 {
		t.Errorf("image bounds = %v", img.Bounds())
	}

	last := frames[len(frames)-1]
	if math.Abs(last.MeanLuminance-CalculateAverageLuminance(p.Color())) > 1e-4 {
		t.Errorf("frame mean luminance %f does not match the surface %f",
			last.MeanLuminance, CalculateAverageLuminance(p.Color()))
	}
	if last.MeanLuminance <= 0 {
		t.Error("lit scene rendered black")
	}

	summary := Summarize(20, 12, frames)
	if len(summary.Frames) != 2 || summary.MeanLuminance != last.MeanLuminance {
		t.Errorf("unexpected summary %+v", summary)
	}
}
