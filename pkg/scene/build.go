package scene

import (
	"context"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/envmap"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

var logger = log.New("scene")

// Default mesh tessellation
const (
	defaultSphereRings    = 32
	defaultSphereSegments = 64
	defaultGridDivisions  = 1
)

// ErrInvalidScene is returned for structurally invalid scene descriptions
var ErrInvalidScene = errors.New("scene: invalid scene")

// Scene is a built scene, ready for a renderer.Progressive
type Scene struct {
	Name    string
	World   *integrator.Scene
	Camera  integrator.Camera
	Options renderer.Options
	Frames  int
}

// Build tessellates meshes, builds the acceleration structure, prepares
// importance maps and encodes the light table
func (c *Config) Build(ctx context.Context) (*Scene, error) {
	materials, index := c.buildMaterials()

	meshes := make([]geometry.Mesh, 0, len(c.Meshes))
	instances := make([]geometry.Instance, 0, len(c.Meshes))
	for i, mc := range c.Meshes {
		mesh, err := c.buildMesh(mc)
		if err != nil {
			return nil, errors.Wrapf(err, "scene: mesh %d", i)
		}
		inst := geometry.NewInstance(len(meshes), index[mc.Material])
		inst.Transform = mc.Transform.matrix()
		meshes = append(meshes, mesh)
		instances = append(instances, inst)
	}

	accel, err := geometry.NewAccel(meshes, instances)
	if err != nil {
		return nil, errors.Wrap(err, "scene: build acceleration structure")
	}

	table, err := c.buildLights(ctx)
	if err != nil {
		return nil, err
	}

	lens := integrator.DefaultLens()
	if c.Camera.Lens != nil {
		lens = *c.Camera.Lens
	}
	camera := integrator.CameraFromLens(lens, c.Camera.Position.vec(), c.Camera.Target.vec(), c.Camera.Up.vec())

	logger.Infof("built scene %q: %d instances, %d triangles, %d lights",
		c.Name, accel.InstanceCount(), accel.TriangleCount(), table.Count())

	return &Scene{
		Name:    c.Name,
		World:   &integrator.Scene{Accel: accel, Materials: materials, Lights: table},
		Camera:  camera,
		Options: c.Render.Options,
		Frames:  c.Render.Frames,
	}, nil
}

// buildMaterials converts the material list and maps names to offsets.
// Meshes without a material use offset len(materials), which the integrator
// shades with its fallback material.
func (c *Config) buildMaterials() ([]material.Params, map[string]uint32) {
	params := make([]material.Params, len(c.Materials))
	index := make(map[string]uint32, len(c.Materials)+1)
	for i, m := range c.Materials {
		switch m.Type {
		case "conductor":
			params[i] = material.Conductor(m.Reflectivity.vec(), m.EdgeTint.vec(), m.Roughness, m.Anisotropy)
		default:
			params[i] = material.Diffuse(m.Albedo.vec())
		}
		index[m.Name] = uint32(i)
	}
	index[""] = uint32(len(params))
	return params, index
}

func (c *Config) buildMesh(mc MeshConfig) (geometry.Mesh, error) {
	switch mc.Type {
	case "sphere":
		radius := mc.Radius
		if radius == 0 {
			radius = 1
		}
		rings, segments := mc.Rings, mc.Segments
		if rings == 0 {
			rings = defaultSphereRings
		}
		if segments == 0 {
			segments = defaultSphereSegments
		}
		return geometry.UVSphere(radius, rings, segments), nil
	case "quad":
		return geometry.Quad(mc.Corner.vec(), mc.U.vec(), mc.V.vec()), nil
	case "box":
		return geometry.Box(mc.Min.vec(), mc.Max.vec()), nil
	case "grid":
		divisions := mc.Divisions
		if divisions == 0 {
			divisions = defaultGridDivisions
		}
		return geometry.Grid(mc.Size, divisions), nil
	case "ply":
		return loaders.LoadPLYFile(c.resolve(mc.File))
	}
	return geometry.Mesh{}, errors.Wrapf(ErrInvalidScene, "unknown mesh type %q", mc.Type)
}

func (c *Config) buildLights(ctx context.Context) (*lights.Table, error) {
	res := lights.NewResources()
	ls := make([]lights.Light, 0, len(c.Lights))
	for i, lc := range c.Lights {
		switch lc.Type {
		case "sphere":
			ls = append(ls, lights.NewSphere(lc.Emission.vec(), lc.Position.vec(), lc.Radius))
		case "rect":
			ls = append(ls, lights.NewRect(lc.Emission.vec(), lc.Center.vec(), lc.X.vec(), lc.Y.vec()))
		case "dome":
			dome, err := c.buildDome(ctx, lc.Environment, res)
			if err != nil {
				return nil, errors.Wrapf(err, "scene: light %d", i)
			}
			ls = append(ls, dome)
		default:
			return nil, errors.Wrapf(ErrInvalidScene, "light %d: unknown type %q", i, lc.Type)
		}
	}

	table, err := lights.NewTableFromLights(ls, res)
	if err != nil {
		return nil, errors.Wrap(err, "scene: light table")
	}
	return table, nil
}

func (c *Config) buildDome(ctx context.Context, ec *EnvironmentConfig, res *lights.Resources) (lights.Light, error) {
	env, err := c.environment(ec)
	if err != nil {
		return lights.Light{}, err
	}
	envHandle := res.AddEnvironment(env)

	if ec.ImportanceSize == 0 {
		return lights.NewDome(envHandle, lights.NoHandle, 0), nil
	}
	spp := ec.ImportanceSPP
	if spp == 0 {
		spp = envmap.DefaultSamplesPerTexel
	}
	m, err := envmap.Build(ctx, env, ec.ImportanceSize, spp)
	if err != nil {
		return lights.Light{}, err
	}
	return lights.NewDome(envHandle, res.AddImportanceMap(m), uint32(m.BaseMip())), nil
}

func (c *Config) environment(ec *EnvironmentConfig) (envmap.Texture, error) {
	intensity := ec.Intensity
	if intensity == 0 {
		intensity = 1
	}
	switch {
	case ec.File != "":
		return loaders.LoadEnvironment(c.resolve(ec.File), intensity)
	case ec.Top != (Vec3{}) || ec.Bottom != (Vec3{}):
		return envmap.Gradient{
			Top:    ec.Top.vec().Multiply(intensity),
			Bottom: ec.Bottom.vec().Multiply(intensity),
		}, nil
	default:
		return envmap.Constant{Radiance: ec.Color.vec().Multiply(intensity)}, nil
	}
}

func (c *Config) resolve(path string) string {
	if c.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// matrix composes translate · rotateY · rotateX · rotateZ · scale
func (t TransformConfig) matrix() mgl64.Mat4 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	m := mgl64.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2])
	m = m.Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.Rotate[1])))
	m = m.Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(t.Rotate[0])))
	m = m.Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(t.Rotate[2])))
	return m.Mul4(mgl64.Scale3D(scale, scale, scale))
}
