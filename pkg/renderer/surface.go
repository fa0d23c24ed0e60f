package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// displayGamma is applied when converting linear color to 8-bit output
const displayGamma = 2.2

// Surface is a linear RGBA float32 color target
type Surface struct {
	Width, Height int
	Pix           []float32 // RGBA, row-major
}

// NewSurface allocates a black surface
func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height, Pix: make([]float32, 4*width*height)}
}

// At returns the color stored at (x, y)
func (s *Surface) At(x, y int) core.Spectrum {
	i := 4 * (y*s.Width + x)
	return core.NewVec3(float64(s.Pix[i]), float64(s.Pix[i+1]), float64(s.Pix[i+2]))
}

// Set stores c at (x, y) with full alpha
func (s *Surface) Set(x, y int, c core.Spectrum) {
	i := 4 * (y*s.Width + x)
	s.Pix[i] = float32(c.X)
	s.Pix[i+1] = float32(c.Y)
	s.Pix[i+2] = float32(c.Z)
	s.Pix[i+3] = 1
}

// Clear sets every pixel to transparent black
func (s *Surface) Clear() {
	clear(s.Pix)
}

// Image converts the surface to 8-bit gamma-corrected RGBA for output
func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.SetRGBA(x, y, toRGBA(s.At(x, y)))
		}
	}
	return img
}

func toRGBA(c core.Spectrum) color.RGBA {
	c = c.GammaCorrect(displayGamma).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}

// DepthSurface is a single-channel float32 view depth target
type DepthSurface struct {
	Width, Height int
	Pix           []float32
}

// NewDepthSurface allocates a depth surface cleared to +Inf
func NewDepthSurface(width, height int) *DepthSurface {
	d := &DepthSurface{Width: width, Height: height, Pix: make([]float32, width*height)}
	d.Clear()
	return d
}

// At returns the depth at (x, y)
func (d *DepthSurface) At(x, y int) float64 {
	return float64(d.Pix[y*d.Width+x])
}

// Set stores depth at (x, y)
func (d *DepthSurface) Set(x, y int, depth float64) {
	d.Pix[y*d.Width+x] = float32(depth)
}

// Clear sets every pixel to +Inf
func (d *DepthSurface) Clear() {
	inf := float32(math.Inf(1))
	for i := range d.Pix {
		d.Pix[i] = inf
	}
}
