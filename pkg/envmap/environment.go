package envmap

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Texture returns environment radiance arriving from a world direction.
// Directions point away from the scene; +Y is up.
type Texture interface {
	Lookup(dir core.Vec3) core.Spectrum
}

// LatLong is an equirectangular RGB radiance image sampled bilinearly
type LatLong struct {
	Width  int
	Height int
	Pixels []core.Spectrum // row-major, row 0 is the zenith
	Scale  float64
}

// NewLatLong wraps decoded pixels
func NewLatLong(width, height int, pixels []core.Spectrum) (*LatLong, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("envmap: invalid environment size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, errors.Errorf("envmap: environment has %d pixels, expected %d", len(pixels), width*height)
	}
	return &LatLong{Width: width, Height: height, Pixels: pixels, Scale: 1}, nil
}

// Lookup implements Texture
func (e *LatLong) Lookup(dir core.Vec3) core.Spectrum {
	dir = dir.Normalize()
	u := 0.5 + math.Atan2(dir.X, -dir.Z)/(2*math.Pi)
	v := math.Acos(math.Max(-1, math.Min(1, dir.Y))) / math.Pi

	// Texel centers sit at half-integer coordinates
	fx := u*float64(e.Width) - 0.5
	fy := v*float64(e.Height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := e.texel(x0, y0)
	c10 := e.texel(x0+1, y0)
	c01 := e.texel(x0, y0+1)
	c11 := e.texel(x0+1, y0+1)

	top := core.LerpVec3(c00, c10, tx)
	bottom := core.LerpVec3(c01, c11, tx)
	return core.LerpVec3(top, bottom, ty).Multiply(e.Scale)
}

// texel wraps horizontally and clamps vertically
func (e *LatLong) texel(x, y int) core.Spectrum {
	x %= e.Width
	if x < 0 {
		x += e.Width
	}
	y = max(0, min(e.Height-1, y))
	return e.Pixels[y*e.Width+x]
}

// Constant is a uniform environment
type Constant struct {
	Radiance core.Spectrum
}

// Lookup implements Texture
func (c Constant) Lookup(core.Vec3) core.Spectrum { return c.Radiance }

// Gradient blends from Bottom at the nadir to Top at the zenith
type Gradient struct {
	Top    core.Spectrum
	Bottom core.Spectrum
}

// Lookup implements Texture
func (g Gradient) Lookup(dir core.Vec3) core.Spectrum {
	t := 0.5 * (dir.Normalize().Y + 1)
	return core.LerpVec3(g.Bottom, g.Top, t)
}
