package loaders

import (
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/envmap"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
)

var logger = log.New("loaders")

// displayGamma is used to linearize 8-bit images
const displayGamma = 2.2

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage loads a PNG or JPEG image and converts it to Vec3 color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image file")
	}
	defer file.Close()

	return DecodeImage(file)
}

// DecodeImage decodes a PNG or JPEG stream. Values are left in display space.
func DecodeImage(r io.Reader) (*ImageData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	logger.Debugf("decoded %s image %dx%d", format, width, height)
	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// Linearize converts display-space pixels to linear radiance in place
func (d *ImageData) Linearize() {
	for i, p := range d.Pixels {
		d.Pixels[i] = core.NewVec3(
			math.Pow(p.X, displayGamma),
			math.Pow(p.Y, displayGamma),
			math.Pow(p.Z, displayGamma),
		)
	}
}

// LoadEnvironment loads an equirectangular image as a linear environment
// texture scaled by intensity.
func LoadEnvironment(filename string, intensity float64) (*envmap.LatLong, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	data.Linearize()

	env, err := envmap.NewLatLong(data.Width, data.Height, data.Pixels)
	if err != nil {
		return nil, errors.Wrapf(err, "environment %s", filename)
	}
	env.Scale = intensity
	return env, nil
}
