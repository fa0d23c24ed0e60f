package integrator

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

const (
	// MaxBounces is the hard cap on path segments
	MaxBounces = 4

	// BSDF samples below this density terminate the path
	minBSDFPDF = 1e-5

	// Shadow rays stop this fraction short of the light
	shadowEpsilon = 1e-4
)

// Scene is the read-only input shared by every pixel of a frame
type Scene struct {
	Accel     *geometry.Accel
	Materials []material.Params
	Lights    *lights.Table
}

// FrameParams holds the per-frame constants
type FrameParams struct {
	Camera             Camera
	Width, Height      int
	Seed               uint32
	AccumulationFactor float64
	Reset              bool
}

// PixelResult is the outcome of tracing one pixel for one frame
type PixelResult struct {
	Radiance   core.Spectrum
	Depth      float64 // view-space depth of the primary hit, +Inf on a miss
	WroteDepth bool
}

// PathTracer implements unidirectional path tracing with next-event
// estimation and MIS against BSDF sampling.
type PathTracer struct {
	scene *Scene
}

// NewPathTracer creates a path tracer over scene
func NewPathTracer(scene *Scene) *PathTracer {
	return &PathTracer{scene: scene}
}

// PixelSeed returns the sample generator seed for a pixel in a frame
func PixelSeed(x, y, width int, frameSeed uint32) uint32 {
	return uint32(y*width+x) ^ frameSeed
}

// TracePixel estimates the radiance arriving through pixel (x, y). ok is
// false for pixels outside the frame, which are skipped.
func (pt *PathTracer) TracePixel(x, y int, frame *FrameParams) (res PixelResult, ok bool) {
	if x < 0 || y < 0 || x >= frame.Width || y >= frame.Height {
		return res, false
	}

	sampler := core.NewPCG32(PixelSeed(x, y, frame.Width, frame.Seed))

	// Jittered film position, t pointing up
	jitter := sampler.Get2D()
	s := 2*(float64(x)+jitter.X)/float64(frame.Width) - 1
	t := 1 - 2*(float64(y)+jitter.Y)/float64(frame.Height)
	ray := frame.Camera.GenerateRay(s, t, sampler.Get2D())

	radiance, depth := pt.trace(ray, &frame.Camera, sampler)
	return PixelResult{Radiance: radiance, Depth: depth, WroteDepth: true}, true
}

// trace runs the bounce loop for a primary ray and returns the radiance and
// the primary view depth.
func (pt *PathTracer) trace(ray core.Ray, camera *Camera, sampler core.Sampler) (core.Spectrum, float64) {
	radiance := core.Vec3{}
	throughput := core.Splat(1)
	pdf := 1.0
	specular := false
	depth := math.Inf(1)

	for bounce := 0; bounce < MaxBounces; bounce++ {
		hit, isHit := pt.scene.Accel.Intersect(ray, math.Inf(1))
		if bounce == 0 && isHit {
			depth = camera.ViewDepth(ray, hit.T)
		}

		if !isHit {
			// Previous BSDF sample is balanced against the domes unless
			// there was none or it was a delta lobe
			radiance = radiance.Add(pt.escaped(ray, throughput, pdf, bounce == 0 || specular))
			break
		}

		sc := NewShadingContext(pt.scene.Accel.Instance(hit.Instance), hit, ray.Direction)
		bsdf := pt.material(sc.MaterialOffset).BSDF()
		onb := core.NewONB(sc.Normal)
		wi := onb.ToLocal(ray.Direction.Negate())

		if !bsdf.Flags().IsSpecular() {
			radiance = radiance.Add(throughput.MultiplyVec(pt.sampleDirect(&sc, onb, bsdf, wi, sampler)))
		}

		bs := bsdf.Sample(wi, sampler)
		if bs.PDF < minBSDFPDF {
			break
		}
		dir := onb.ToWorld(bs.Wo).Normalize()
		// Shading normals can send samples under the surface
		if dir.Dot(sc.GeometricNormal) <= 0 {
			break
		}

		throughput = throughput.MultiplyVec(bs.Value).Multiply(core.AbsCosTheta(bs.Wo) / bs.PDF)
		pdf = bs.PDF
		specular = bs.Lobe.IsSpecular()
		ray = core.NewRay(sc.OffsetOrigin(dir), dir)

		var alive bool
		throughput, alive = RussianRoulette(throughput, sampler.Get1D())
		if !alive {
			break
		}
	}
	return radiance, depth
}

// sampleDirect performs next-event estimation toward one uniformly chosen light
func (pt *PathTracer) sampleDirect(sc *ShadingContext, onb core.ONB, bsdf material.BSDF, wi core.Vec3, sampler core.Sampler) core.Spectrum {
	ls, _, pmf, ok := pt.scene.Lights.SampleUniform(sc.ShadingPoint, sampler)
	if !ok || ls.PDF <= 0 {
		return core.Vec3{}
	}
	if ls.Wi.Dot(sc.GeometricNormal) <= 0 {
		return core.Vec3{}
	}

	wo := onb.ToLocal(ls.Wi)
	f, bsdfPDF := bsdf.Evaluate(wi, wo)
	if f.IsZero() {
		return core.Vec3{}
	}

	shadow := core.NewRay(sc.OffsetOrigin(ls.Wi), ls.Wi)
	if pt.scene.Accel.Occluded(shadow, ls.Distance*(1-shadowEpsilon)) {
		return core.Vec3{}
	}

	lightPDF := ls.PDF * pmf
	weight := core.PowerHeuristic(1, lightPDF, 1, bsdfPDF)
	return ls.Radiance.MultiplyVec(f).Multiply(weight * core.AbsCosTheta(wo) / lightPDF)
}

// escaped gathers the infinite lights seen by a ray that left the scene
func (pt *PathTracer) escaped(ray core.Ray, throughput core.Spectrum, bsdfPDF float64, skipMIS bool) core.Spectrum {
	table := pt.scene.Lights
	sum := core.Vec3{}
	for i := 0; i < table.InfiniteCount(); i++ {
		weight := 1.0
		if !skipMIS {
			lightPDF := table.PDF(i, ray.Origin, ray.Direction) / float64(table.Count())
			weight = core.PowerHeuristic(1, bsdfPDF, 1, lightPDF)
		}
		sum = sum.Add(table.Radiance(i, ray.Direction).Multiply(weight))
	}
	return throughput.MultiplyVec(sum)
}

// material returns the parameters at offset, or a grey diffuse fallback
func (pt *PathTracer) material(offset uint32) material.Params {
	if int(offset) < len(pt.scene.Materials) {
		return pt.scene.Materials[offset]
	}
	return material.Diffuse(core.Splat(0.5))
}

// RussianRoulette kills a path with probability q = max(0, 1 - max channel)
// and scales survivors by 1/(1-q).
func RussianRoulette(throughput core.Spectrum, u float64) (core.Spectrum, bool) {
	q := math.Max(0, 1-throughput.MaxComponent())
	if u < q {
		return core.Vec3{}, false
	}
	return throughput.Multiply(1 / (1 - q)), true
}

// Accumulate blends a new estimate into the running pixel value
func Accumulate(prev, radiance core.Spectrum, factor float64) core.Spectrum {
	if factor >= 1 {
		return radiance
	}
	return core.LerpVec3(prev, radiance, factor)
}
