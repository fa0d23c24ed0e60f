package lights

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// PickUniform chooses a light index uniformly from u in [0,1) and returns it
// with its selection probability. ok is false for an empty table.
func (t *Table) PickUniform(u float64) (index int, pmf float64, ok bool) {
	n := t.Count()
	if n == 0 {
		return -1, 0, false
	}
	index = min(int(u*float64(n)), n-1)
	return index, 1 / float64(n), true
}

// SampleUniform picks one light uniformly and samples it from point. The
// returned sample's PDF is the light's own solid-angle density; the
// selection probability is returned separately.
func (t *Table) SampleUniform(point core.Vec3, sampler core.Sampler) (LightSample, int, float64, bool) {
	index, pmf, ok := t.PickUniform(sampler.Get1D())
	if !ok {
		return LightSample{}, -1, 0, false
	}
	return t.Sample(index, point, sampler), index, pmf, true
}
