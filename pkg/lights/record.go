package lights

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/math/f32"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// RecordSize is the fixed size of a light record in bytes
const RecordSize = 64

// Record is the packed form of a light: a little-endian uint32 type tag
// followed by a float32 payload.
//
//	Dome:   env map handle, importance map handle, base mip (uint32)
//	Rect:   emission, position, area-scaled normal, x, y (f32.Vec3)
//	Sphere: emission, position (f32.Vec3), radius (float32)
type Record [RecordSize]byte

// Type returns the record's tag
func (r Record) Type() Type {
	return Type(binary.LittleEndian.Uint32(r[0:4]))
}

// Encode packs a light into a record. Resolved dome resources are not stored.
func Encode(l Light) Record {
	var r Record
	binary.LittleEndian.PutUint32(r[0:4], uint32(l.Type))

	switch l.Type {
	case TypeDome:
		binary.LittleEndian.PutUint32(r[4:8], l.Dome.EnvMap)
		binary.LittleEndian.PutUint32(r[8:12], l.Dome.ImportanceMap)
		binary.LittleEndian.PutUint32(r[12:16], l.Dome.BaseMip)
	case TypeRect:
		putVec3(r[4:], l.Rect.Emission)
		putVec3(r[16:], l.Rect.Position)
		putVec3(r[28:], l.Rect.AreaScaledNormal)
		putVec3(r[40:], l.Rect.X)
		putVec3(r[52:], l.Rect.Y)
	case TypeSphere:
		putVec3(r[4:], l.Sphere.Emission)
		putVec3(r[16:], l.Sphere.Position)
		putFloat(r[28:], l.Sphere.Radius)
	}
	return r
}

// Decode unpacks a record. Dome resources are left unresolved.
func (r Record) Decode() (Light, error) {
	switch t := r.Type(); t {
	case TypeDome:
		return NewDome(
			binary.LittleEndian.Uint32(r[4:8]),
			binary.LittleEndian.Uint32(r[8:12]),
			binary.LittleEndian.Uint32(r[12:16]),
		), nil
	case TypeRect:
		return Light{Type: TypeRect, Rect: RectLight{
			Emission:         getVec3(r[4:]),
			Position:         getVec3(r[16:]),
			AreaScaledNormal: getVec3(r[28:]),
			X:                getVec3(r[40:]),
			Y:                getVec3(r[52:]),
		}}, nil
	case TypeSphere:
		return NewSphere(getVec3(r[4:]), getVec3(r[16:]), getFloat(r[28:])), nil
	default:
		return Light{}, errors.Errorf("lights: unknown light type %d", t)
	}
}

func toF32(v core.Vec3) f32.Vec3 {
	return f32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func fromF32(v f32.Vec3) core.Vec3 {
	return core.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func putVec3(b []byte, v core.Vec3) {
	fv := toF32(v)
	for i, c := range fv {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(c))
	}
}

func getVec3(b []byte) core.Vec3 {
	var fv f32.Vec3
	for i := range fv {
		fv[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return fromF32(fv)
}

func putFloat(b []byte, v float64) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
}

func getFloat(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
