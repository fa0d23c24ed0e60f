package renderer

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rand"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
)

var logger = log.New("renderer")

// Progressive accumulates one path per pixel per frame into a running mean
type Progressive struct {
	scene  *integrator.Scene
	tracer *integrator.PathTracer
	camera integrator.Camera
	opts   Options

	color *Surface
	depth *DepthSurface
	tiles []Tile

	seeds *rand.Rand // frame seed stream, restarted on reset
	frame int        // frames rendered since the last reset
}

// NewProgressive creates a progressive renderer for scene as seen from camera
func NewProgressive(scene *integrator.Scene, camera *integrator.Camera, opts Options) (*Progressive, error) {
	if scene == nil || scene.Accel == nil {
		return nil, ErrSceneNotDefined
	}
	if camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Progressive{
		scene:  scene,
		tracer: integrator.NewPathTracer(scene),
		camera: *camera,
		opts:   opts,
		color:  NewSurface(opts.Width, opts.Height),
		depth:  NewDepthSurface(opts.Width, opts.Height),
		tiles:  NewTileGrid(opts.Width, opts.Height, opts.TileSize),
	}
	p.Reset()
	return p, nil
}

// Reset restarts accumulation. The next frame overwrites color and depth.
func (p *Progressive) Reset() {
	p.seeds = rand.New(0)
	p.frame = 0
}

// SetCamera replaces the camera and restarts accumulation
func (p *Progressive) SetCamera(camera integrator.Camera) {
	p.camera = camera
	p.Reset()
}

// Frame returns the number of frames accumulated since the last reset
func (p *Progressive) Frame() int {
	return p.frame
}

// Color returns the accumulated linear color surface
func (p *Progressive) Color() *Surface {
	return p.color
}

// Depth returns the view depth surface
func (p *Progressive) Depth() *DepthSurface {
	return p.depth
}

// Image converts the accumulated color to 8-bit output
func (p *Progressive) Image() *image.RGBA {
	return p.color.Image()
}

// RenderFrame traces one path per pixel and blends it into the surfaces.
// Cancellation is only observed before the frame starts.
func (p *Progressive) RenderFrame(ctx context.Context) (FrameStats, error) {
	if err := ctx.Err(); err != nil {
		return FrameStats{}, errors.Wrapf(ErrInterrupted, "before frame %d: %v", p.frame, err)
	}

	start := time.Now()
	params := integrator.FrameParams{
		Camera:             p.camera,
		Width:              p.opts.Width,
		Height:             p.opts.Height,
		Seed:               p.seeds.Uint32(),
		AccumulationFactor: 1 / float64(p.frame+1),
		Reset:              p.frame == 0,
	}
	if params.Reset {
		p.depth.Clear()
	}

	// Each tile writes only its own pixels and its own results slot
	results := make([]tileStats, len(p.tiles))
	workers := p.opts.workerCount()
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range p.tiles {
		tile := p.tiles[i]
		g.Go(func() error {
			results[tile.ID] = p.renderTile(tile.Bounds, &params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FrameStats{}, err
	}

	stats := FrameStats{
		Frame:              p.frame,
		Seed:               params.Seed,
		AccumulationFactor: params.AccumulationFactor,
		Reset:              params.Reset,
		Tiles:              len(p.tiles),
		Workers:            workers,
	}
	luminance := 0.0
	for _, r := range results {
		stats.Pixels += r.pixels
		stats.Skipped += r.skipped
		luminance += r.luminance
	}
	stats.MeanLuminance = luminance / float64(p.opts.Width*p.opts.Height)
	stats.DurationMS = float64(time.Since(start)) / float64(time.Millisecond)

	logger.Debugf("frame %d: seed %d, factor %.4f, %d pixels in %.1fms",
		stats.Frame, stats.Seed, stats.AccumulationFactor, stats.Pixels, stats.DurationMS)

	p.frame++
	return stats, nil
}

// renderTile traces every invocation in bounds. Invocations outside the
// frame are reported as skipped.
func (p *Progressive) renderTile(bounds image.Rectangle, params *integrator.FrameParams) tileStats {
	var ts tileStats
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			res, ok := p.tracer.TracePixel(x, y, params)
			if !ok {
				ts.skipped++
				continue
			}

			c := integrator.Accumulate(p.color.At(x, y), res.Radiance, params.AccumulationFactor)
			p.color.Set(x, y, c)
			if params.Reset && res.WroteDepth {
				p.depth.Set(x, y, res.Depth)
			}

			ts.pixels++
			ts.luminance += c.Luminance()
		}
	}
	return ts
}

// Run resets accumulation and renders frames frames. onFrame, if set, is
// called after every frame. Cancellation takes effect between frames.
func (p *Progressive) Run(ctx context.Context, frames int, onFrame func(FrameStats)) ([]FrameStats, error) {
	p.Reset()
	logger.Infof("rendering %d frames at %dx%d", frames, p.opts.Width, p.opts.Height)

	all := make([]FrameStats, 0, frames)
	for i := 0; i < frames; i++ {
		stats, err := p.RenderFrame(ctx)
		if err != nil {
			logger.Warningf("stopped after %d of %d frames", i, frames)
			return all, err
		}
		all = append(all, stats)
		if onFrame != nil {
			onFrame(stats)
		}
	}
	return all, nil
}
