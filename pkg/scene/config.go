package scene

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// Vec3 is a YAML triple, written as [x, y, z]
type Vec3 [3]float64

func (v Vec3) vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// Config is a complete scene description
type Config struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Render      RenderConfig     `yaml:"render"`
	Camera      CameraConfig     `yaml:"camera"`
	Materials   []MaterialConfig `yaml:"materials"`
	Meshes      []MeshConfig     `yaml:"meshes"`
	Lights      []LightConfig    `yaml:"lights"`

	// Relative mesh and environment paths are resolved against this
	// directory. LoadFile sets it to the file's directory.
	BaseDir string `yaml:"-"`
}

// RenderConfig holds the renderer options and frame count
type RenderConfig struct {
	renderer.Options `yaml:",inline"`
	Frames           int `yaml:"frames"`
}

// CameraConfig places the camera. A missing lens uses integrator.DefaultLens.
type CameraConfig struct {
	Position Vec3             `yaml:"position"`
	Target   Vec3             `yaml:"target"`
	Up       Vec3             `yaml:"up"`
	Lens     *integrator.Lens `yaml:"lens"`
}

// MaterialConfig describes a named material.
// Type is "diffuse" (Albedo) or "conductor" (Reflectivity, EdgeTint,
// Roughness, Anisotropy).
type MaterialConfig struct {
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type"`
	Albedo       Vec3    `yaml:"albedo"`
	Reflectivity Vec3    `yaml:"reflectivity"`
	EdgeTint     Vec3    `yaml:"edge_tint"`
	Roughness    float64 `yaml:"roughness"`
	Anisotropy   float64 `yaml:"anisotropy"`
}

// MeshConfig describes one mesh instance.
// Type selects the generator: "sphere", "quad", "box", "grid" or "ply".
type MeshConfig struct {
	Type     string `yaml:"type"`
	Material string `yaml:"material"`

	// sphere
	Radius   float64 `yaml:"radius"`
	Rings    int     `yaml:"rings"`
	Segments int     `yaml:"segments"`

	// quad
	Corner Vec3 `yaml:"corner"`
	U      Vec3 `yaml:"u"`
	V      Vec3 `yaml:"v"`

	// box
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`

	// grid
	Size      float64 `yaml:"size"`
	Divisions int     `yaml:"divisions"`

	// ply
	File string `yaml:"file"`

	Transform TransformConfig `yaml:"transform"`
}

// TransformConfig is applied as translate · rotateY · rotateX · rotateZ · scale
type TransformConfig struct {
	Translate Vec3    `yaml:"translate"`
	Rotate    Vec3    `yaml:"rotate"` // degrees about X, Y, Z
	Scale     float64 `yaml:"scale"`  // uniform, 0 means 1
}

// LightConfig describes a light.
// Type is "sphere" (Position, Radius), "rect" (Center, X, Y) or "dome".
type LightConfig struct {
	Type     string `yaml:"type"`
	Emission Vec3   `yaml:"emission"`

	Position Vec3    `yaml:"position"`
	Radius   float64 `yaml:"radius"`

	Center Vec3 `yaml:"center"`
	X      Vec3 `yaml:"x"`
	Y      Vec3 `yaml:"y"`

	Environment *EnvironmentConfig `yaml:"environment"`
}

// EnvironmentConfig selects the dome texture. File loads a lat-long image;
// otherwise Top/Bottom give a gradient, and with only Color set the
// environment is constant.
type EnvironmentConfig struct {
	File      string  `yaml:"file"`
	Intensity float64 `yaml:"intensity"`
	Color     Vec3    `yaml:"color"`
	Top       Vec3    `yaml:"top"`
	Bottom    Vec3    `yaml:"bottom"`

	// Importance map resolution (power of two) and samples per texel.
	// A zero size disables importance sampling.
	ImportanceSize int `yaml:"importance_size"`
	ImportanceSPP  int `yaml:"importance_spp"`
}

// Parse decodes a YAML scene. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "scene: decode")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseBytes is Parse over an in-memory document
func ParseBytes(data []byte) (*Config, error) {
	return Parse(bytes.NewReader(data))
}

// LoadFile parses a YAML scene file
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "scene: open %s", filename)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "scene: %s", filename)
	}
	cfg.BaseDir = filepath.Dir(filename)
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := renderer.DefaultOptions()
	if c.Render.Width == 0 {
		c.Render.Width = def.Width
	}
	if c.Render.Height == 0 {
		c.Render.Height = def.Height
	}
	if c.Render.TileSize == 0 {
		c.Render.TileSize = def.TileSize
	}
	if c.Render.Frames == 0 {
		c.Render.Frames = 1
	}
	if c.Camera.Up == (Vec3{}) {
		c.Camera.Up = Vec3{0, 1, 0}
	}
}

// Validate checks references and required fields
func (c *Config) Validate() error {
	if err := c.Render.Options.Validate(); err != nil {
		return errors.Wrap(err, "scene: render")
	}
	if c.Render.Frames < 0 {
		return errors.Errorf("scene: negative frame count %d", c.Render.Frames)
	}
	if c.Camera.Position == c.Camera.Target {
		return errors.Wrap(ErrInvalidScene, "camera position equals target")
	}

	names := make(map[string]bool, len(c.Materials))
	for i, m := range c.Materials {
		if m.Name == "" {
			return errors.Wrapf(ErrInvalidScene, "material %d has no name", i)
		}
		if names[m.Name] {
			return errors.Wrapf(ErrInvalidScene, "duplicate material %q", m.Name)
		}
		switch m.Type {
		case "diffuse", "conductor":
		default:
			return errors.Wrapf(ErrInvalidScene, "material %q: unknown type %q", m.Name, m.Type)
		}
		names[m.Name] = true
	}

	for i, m := range c.Meshes {
		if m.Material != "" && !names[m.Material] {
			return errors.Wrapf(ErrInvalidScene, "mesh %d: unknown material %q", i, m.Material)
		}
		switch m.Type {
		case "sphere", "quad", "box", "grid":
		case "ply":
			if m.File == "" {
				return errors.Wrapf(ErrInvalidScene, "mesh %d: ply without file", i)
			}
		default:
			return errors.Wrapf(ErrInvalidScene, "mesh %d: unknown type %q", i, m.Type)
		}
	}

	for i, l := range c.Lights {
		switch l.Type {
		case "sphere":
			if l.Radius <= 0 {
				return errors.Wrapf(ErrInvalidScene, "light %d: sphere radius %g", i, l.Radius)
			}
		case "rect":
		case "dome":
			if l.Environment == nil {
				return errors.Wrapf(ErrInvalidScene, "light %d: dome without environment", i)
			}
		default:
			return errors.Wrapf(ErrInvalidScene, "light %d: unknown type %q", i, l.Type)
		}
	}
	return nil
}
