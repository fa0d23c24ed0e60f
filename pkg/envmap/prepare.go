package envmap

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
)

// Defaults for importance map preparation
const (
	DefaultResolution      = 512
	DefaultSamplesPerTexel = 64
)

var logger = log.New("envmap")

// SampleGrid splits a per-texel sample budget into an nx × ny grid
func SampleGrid(spp int) (nx, ny int) {
	nx = max(1, int(math.Sqrt(float64(spp))))
	ny = max(1, spp/nx)
	return nx, ny
}

// Prepare computes the finest importance level: for every texel of a
// size×size equal-area octahedral image it averages the luminance of a regular
// grid of environment lookups. Rows are processed in parallel.
func Prepare(ctx context.Context, env Texture, size, spp int) ([]float32, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, errors.Wrapf(ErrNotPowerOfTwo, "size %d", size)
	}
	if spp < 1 {
		return nil, errors.Errorf("envmap: samples per texel must be positive, got %d", spp)
	}

	nx, ny := SampleGrid(spp)
	invSamples := 1 / float64(nx*ny)
	resX := float64(size * nx)
	resY := float64(size * ny)
	out := make([]float32, size*size)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for y := 0; y < size; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < size; x++ {
				sum := 0.0
				for j := 0; j < ny; j++ {
					for i := 0; i < nx; i++ {
						uv := core.Vec2{
							X: (float64(x*nx+i) + 0.5) / resX,
							Y: (float64(y*ny+j) + 0.5) / resY,
						}
						sum += env.Lookup(core.EqualAreaOctToDirection(uv)).Luminance()
					}
				}
				out[y*size+x] = float32(math.Max(sum*invSamples, 0))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "envmap: prepare importance map")
	}
	return out, nil
}

// Build prepares the base level for env and reduces it into an ImportanceMap
func Build(ctx context.Context, env Texture, size, spp int) (*ImportanceMap, error) {
	start := time.Now()
	base, err := Prepare(ctx, env, size, spp)
	if err != nil {
		return nil, err
	}
	m, err := NewImportanceMap(base, size)
	if err != nil {
		return nil, err
	}
	logger.Infof("built %dx%d importance map (%d levels, integral %.4g) in %v",
		size, size, m.Levels(), m.Total(), time.Since(start))
	return m, nil
}
