package core

import (
	"github.com/chewxy/math32"
)

// Constants from Wächter and Binder, "A Fast and Robust Method for Avoiding
// Self-Intersection" (Ray Tracing Gems, ch. 6). Positions are offset at
// float32 precision to match the precision of the vertex buffers.
const (
	offsetOrigin     = 1.0 / 32.0
	offsetFloatScale = 1.0 / 65536.0
	offsetIntScale   = 256.0
)

// OffsetRayOrigin nudges p along the geometric normal n so that rays leaving
// the surface do not re-hit it. Near the world origin a small float offset is
// used; elsewhere the offset is applied in ULPs of the float32 bit pattern.
func OffsetRayOrigin(p, n Vec3) Vec3 {
	return Vec3{
		X: float64(offsetComponent(float32(p.X), float32(n.X))),
		Y: float64(offsetComponent(float32(p.Y), float32(n.Y))),
		Z: float64(offsetComponent(float32(p.Z), float32(n.Z))),
	}
}

func offsetComponent(p, n float32) float32 {
	if math32.Abs(p) < offsetOrigin {
		return p + offsetFloatScale*n
	}
	of := int32(offsetIntScale * n)
	if p < 0 {
		of = -of
	}
	bits := int32(math32.Float32bits(p)) + of
	return math32.Float32frombits(uint32(bits))
}
