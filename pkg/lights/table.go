package lights

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// MaxLights is the capacity of a light table
const MaxLights = 100

var (
	ErrTooManyLights      = errors.New("lights: too many lights")
	ErrInfiniteLightOrder = errors.New("lights: infinite lights must precede finite lights")
	ErrUnknownResource    = errors.New("lights: unknown resource handle")
)

// Table is the read-only light data of a frame: dense records with the
// infinite lights first, plus their decoded form.
type Table struct {
	records       []Record
	lights        []Light
	infiniteCount int
}

// NewTable validates and decodes records, resolving dome resources through res
func NewTable(records []Record, res *Resources) (*Table, error) {
	if len(records) > MaxLights {
		return nil, errors.Wrapf(ErrTooManyLights, "%d lights, max %d", len(records), MaxLights)
	}

	t := &Table{
		records: append([]Record(nil), records...),
		lights:  make([]Light, len(records)),
	}
	for i := range t.records {
		l, err := t.records[i].Decode()
		if err != nil {
			return nil, errors.Wrapf(err, "light %d", i)
		}

		if l.IsInfinite() {
			if i != t.infiniteCount {
				return nil, errors.Wrapf(ErrInfiniteLightOrder, "light %d", i)
			}
			t.infiniteCount++
			if err := resolveDome(&l.Dome, res); err != nil {
				return nil, errors.Wrapf(err, "light %d", i)
			}
		}
		t.lights[i] = l
	}
	return t, nil
}

// NewTableFromLights orders lights with infinite lights first, encodes them and
// builds a table. The order among finite lights is preserved.
func NewTableFromLights(ls []Light, res *Resources) (*Table, error) {
	sorted := append([]Light(nil), ls...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IsInfinite() && !sorted[j].IsInfinite()
	})

	records := make([]Record, len(sorted))
	for i, l := range sorted {
		records[i] = Encode(l)
	}
	return NewTable(records, res)
}

func resolveDome(d *DomeLight, res *Resources) error {
	if res == nil {
		return errors.Wrap(ErrUnknownResource, "no resources for dome light")
	}
	env, ok := res.Environment(d.EnvMap)
	if !ok {
		return errors.Wrapf(ErrUnknownResource, "environment %d", d.EnvMap)
	}
	d.Env = env

	if d.ImportanceMap != NoHandle {
		m, ok := res.ImportanceMap(d.ImportanceMap)
		if !ok {
			return errors.Wrapf(ErrUnknownResource, "importance map %d", d.ImportanceMap)
		}
		d.Importance = m
	}
	return nil
}

// Count returns the number of lights
func (t *Table) Count() int {
	if t == nil {
		return 0
	}
	return len(t.lights)
}

// InfiniteCount returns the number of leading infinite lights
func (t *Table) InfiniteCount() int {
	if t == nil {
		return 0
	}
	return t.infiniteCount
}

// Records returns the packed light records
func (t *Table) Records() []Record { return t.records }

// Light returns the decoded light at index i
func (t *Table) Light(i int) Light { return t.lights[i] }

// Sample samples light i from point
func (t *Table) Sample(i int, point core.Vec3, sampler core.Sampler) LightSample {
	return t.lights[i].SampleIncident(point, sampler)
}

// PDF returns light i's solid-angle density for dir
func (t *Table) PDF(i int, point, dir core.Vec3) float64 {
	return t.lights[i].PDFIncident(point, dir)
}

// Radiance returns infinite light i's radiance along dir
func (t *Table) Radiance(i int, dir core.Vec3) core.Spectrum {
	if !t.lights[i].IsInfinite() {
		return core.Vec3{}
	}
	return t.lights[i].Dome.Radiance(dir)
}
