package envmap

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ErrNotPowerOfTwo is returned for importance maps whose side is not a power of two
var ErrNotPowerOfTwo = errors.New("envmap: importance map size must be a power of two")

const oneMinusEpsilon = 0x1.fffffffffffffp-1

// ImportanceMap is a sum quadtree over a square luminance image. Level 0 is the
// finest; every texel of level i+1 is the sum of its four children in level i,
// and the last level is a single texel holding the total.
type ImportanceMap struct {
	size int
	mips [][]float32
}

// NewImportanceMap builds the mip pyramid for a size×size base level
func NewImportanceMap(base []float32, size int) (*ImportanceMap, error) {
	mips, err := BuildMips(base, size)
	if err != nil {
		return nil, err
	}
	return &ImportanceMap{size: size, mips: mips}, nil
}

// BuildMips reduces base into a sum pyramid, finest level first
func BuildMips(base []float32, size int) ([][]float32, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, errors.Wrapf(ErrNotPowerOfTwo, "size %d", size)
	}
	if len(base) != size*size {
		return nil, errors.Errorf("envmap: base level has %d texels, expected %d", len(base), size*size)
	}

	levels := bits.TrailingZeros(uint(size)) + 1
	mips := make([][]float32, levels)
	mips[0] = append([]float32(nil), base...)

	for i := 1; i < levels; i++ {
		src := mips[i-1]
		srcRes := size >> (i - 1)
		res := srcRes / 2
		dst := make([]float32, res*res)
		for y := 0; y < res; y++ {
			for x := 0; x < res; x++ {
				s := 2*y*srcRes + 2*x
				dst[y*res+x] = src[s] + src[s+1] + src[s+srcRes] + src[s+srcRes+1]
			}
		}
		mips[i] = dst
	}
	return mips, nil
}

// Size returns the side of the finest level
func (m *ImportanceMap) Size() int { return m.size }

// Levels returns the number of mip levels, including the 1×1 root
func (m *ImportanceMap) Levels() int { return len(m.mips) }

// Level returns the texels of mip i (0 = finest)
func (m *ImportanceMap) Level(i int) []float32 { return m.mips[i] }

// BaseMip is the index of the finest level counted from the root
func (m *ImportanceMap) BaseMip() int { return len(m.mips) - 1 }

// Total returns the integral stored in the root
func (m *ImportanceMap) Total() float64 { return float64(m.mips[len(m.mips)-1][0]) }

// Sample picks a texel with probability proportional to its value by
// descending the pyramid from the 2×2 level, then returns a continuous
// position inside it and the density with respect to [0,1]² area.
func (m *ImportanceMap) Sample(u core.Vec2) (core.Vec2, float64) {
	if m.Total() <= 0 {
		return u, 0
	}

	x, y := 0, 0
	for level := len(m.mips) - 2; level >= 0; level-- {
		res := m.size >> level
		texels := m.mips[level]
		x, y = 2*x, 2*y

		w0 := float64(texels[y*res+x])
		w1 := float64(texels[y*res+x+1])
		w2 := float64(texels[(y+1)*res+x])
		w3 := float64(texels[(y+1)*res+x+1])

		// Horizontal split on the left column's share
		d := 0.5
		if sum := w0 + w1 + w2 + w3; sum > 0 {
			d = (w0 + w2) / sum
		}
		top, bottom := w0, w2
		if u.X < d {
			u.X /= d
		} else {
			u.X = (u.X - d) / (1 - d)
			x++
			top, bottom = w1, w3
		}

		// Vertical split within the chosen column
		d = 0.5
		if sum := top + bottom; sum > 0 {
			d = top / sum
		}
		if u.Y < d {
			u.Y /= d
		} else {
			u.Y = (u.Y - d) / (1 - d)
			y++
		}

		u.X = math.Min(u.X, oneMinusEpsilon)
		u.Y = math.Min(u.Y, oneMinusEpsilon)
	}

	// Keep the continuous position inside the chosen texel so PDF finds it again
	n := float64(m.size)
	uv := core.Vec2{
		X: math.Min((float64(x)+u.X)/n, math.Nextafter(float64(x+1)/n, 0)),
		Y: math.Min((float64(y)+u.Y)/n, math.Nextafter(float64(y+1)/n, 0)),
	}
	return uv, m.density(x, y)
}

// PDF returns the density Sample would report for uv
func (m *ImportanceMap) PDF(uv core.Vec2) float64 {
	if m.Total() <= 0 {
		return 0
	}
	x := texelIndex(uv.X, m.size)
	y := texelIndex(uv.Y, m.size)
	return m.density(x, y)
}

func (m *ImportanceMap) density(x, y int) float64 {
	texel := float64(m.mips[0][y*m.size+x])
	return texel / m.Total() * float64(m.size*m.size)
}

func texelIndex(u float64, size int) int {
	i := int(math.Floor(u * float64(size)))
	return max(0, min(size-1, i))
}
