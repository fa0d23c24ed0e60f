package lights

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/envmap"
)

// NoHandle marks an unset resource handle in a dome record
const NoHandle = math.MaxUint32

// DomeLight is an environment at infinity. The handles are what the record
// stores; Env and Importance are resolved from a Resources registry.
// Without an importance map the sphere is sampled uniformly.
type DomeLight struct {
	EnvMap        uint32
	ImportanceMap uint32
	BaseMip       uint32

	Env        envmap.Texture
	Importance *envmap.ImportanceMap
}

// NewDome creates a dome light record from resource handles
func NewDome(envMap, importanceMap, baseMip uint32) Light {
	return Light{Type: TypeDome, Dome: DomeLight{EnvMap: envMap, ImportanceMap: importanceMap, BaseMip: baseMip}}
}

// Radiance returns the environment radiance arriving along -dir
func (dl DomeLight) Radiance(dir core.Vec3) core.Spectrum {
	if dl.Env == nil {
		return core.Vec3{}
	}
	return dl.Env.Lookup(dir)
}

// SampleIncident draws a direction proportional to environment luminance
func (dl DomeLight) SampleIncident(_ core.Vec3, u core.Vec2) LightSample {
	if dl.Env == nil {
		return LightSample{}
	}

	var wi core.Vec3
	var pdf float64
	if dl.Importance != nil {
		uv, uvPDF := dl.Importance.Sample(u)
		if uvPDF == 0 {
			return LightSample{}
		}
		wi = core.EqualAreaOctToDirection(uv)
		pdf = uvPDF / core.EqualAreaOctJacobian
	} else {
		wi = core.SampleUniformSphere(u)
		pdf = core.PDFUniformSphere()
	}

	return LightSample{
		Radiance: dl.Env.Lookup(wi),
		Wi:       wi,
		Distance: math.Inf(1),
		PDF:      pdf,
	}
}

// PDFIncident maps dir back to the importance map and converts to solid angle
func (dl DomeLight) PDFIncident(_ core.Vec3, dir core.Vec3) float64 {
	if dl.Env == nil {
		return 0
	}
	if dl.Importance == nil {
		return core.PDFUniformSphere()
	}
	return dl.Importance.PDF(core.DirectionToEqualAreaOct(dir.Normalize())) / core.EqualAreaOctJacobian
}
