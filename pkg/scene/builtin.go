package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// NewCornellConfig creates a classic Cornell box with a ceiling rect light,
// a diffuse block and a rough gold sphere
func NewCornellConfig() *Config {
	const boxSize = 555.0
	const lightSize = 130.0

	return &Config{
		Name:        "cornell",
		Description: "Cornell box with a rect light, a block and a rough gold sphere",
		Render: RenderConfig{
			Options: renderer.Options{Width: 400, Height: 400, TileSize: 32}, // Square aspect ratio for Cornell box
			Frames:  64,
		},
		Camera: CameraConfig{
			Position: Vec3{278, 278, -800}, // Outside the box looking in
			Target:   Vec3{278, 278, 0},
			Up:       Vec3{0, 1, 0},
			Lens: &integrator.Lens{
				FocalLength:   50,
				FocusDistance: 1000,
				SensorWidth:   36,
				SensorHeight:  36,
				FStop:         22,
			},
		},
		Materials: []MaterialConfig{
			{Name: "white", Type: "diffuse", Albedo: Vec3{0.73, 0.73, 0.73}},
			{Name: "red", Type: "diffuse", Albedo: Vec3{0.65, 0.05, 0.05}},
			{Name: "green", Type: "diffuse", Albedo: Vec3{0.12, 0.45, 0.15}},
			{Name: "gold", Type: "conductor", Reflectivity: Vec3{1.0, 0.78, 0.34}, EdgeTint: Vec3{1, 0.95, 0.8}, Roughness: 0.25},
		},
		Meshes: []MeshConfig{
			// Walls face into the box
			{Type: "quad", Material: "white", Corner: Vec3{0, 0, 0}, U: Vec3{0, 0, boxSize}, V: Vec3{boxSize, 0, 0}},       // floor
			{Type: "quad", Material: "white", Corner: Vec3{0, boxSize, 0}, U: Vec3{boxSize, 0, 0}, V: Vec3{0, 0, boxSize}}, // ceiling
			{Type: "quad", Material: "white", Corner: Vec3{0, 0, boxSize}, U: Vec3{0, boxSize, 0}, V: Vec3{boxSize, 0, 0}}, // back
			{Type: "quad", Material: "red", Corner: Vec3{0, 0, 0}, U: Vec3{0, boxSize, 0}, V: Vec3{0, 0, boxSize}},         // left
			{Type: "quad", Material: "green", Corner: Vec3{boxSize, 0, 0}, U: Vec3{0, 0, boxSize}, V: Vec3{0, boxSize, 0}}, // right
			{Type: "box", Material: "white", Min: Vec3{-82.5, 0, -82.5}, Max: Vec3{82.5, 330, 82.5},
				Transform: TransformConfig{Translate: Vec3{368, 0, 351}, Rotate: Vec3{0, 15, 0}}},
			{Type: "sphere", Material: "gold", Radius: 90, Transform: TransformConfig{Translate: Vec3{185, 90, 169}}},
		},
		Lights: []LightConfig{
			{
				Type:     "rect",
				Emission: Vec3{15, 15, 15},
				Center:   Vec3{boxSize / 2, boxSize - 1, boxSize / 2}, // Slightly below the ceiling
				X:        Vec3{0, 0, lightSize},                       // Y × X points down
				Y:        Vec3{lightSize, 0, 0},
			},
		},
	}
}

// NewSpheresConfig creates a row of spheres on a ground grid, lit by a
// gradient sky and a warm sphere light
func NewSpheresConfig() *Config {
	return &Config{
		Name:        "spheres",
		Description: "Diffuse and conductor spheres under a sky gradient and a sphere light",
		Render: RenderConfig{
			Options: renderer.Options{Width: 640, Height: 360, TileSize: 32},
			Frames:  32,
		},
		Camera: CameraConfig{
			Position: Vec3{0, 0.75, 3},
			Target:   Vec3{0, 0.5, 0},
			Up:       Vec3{0, 1, 0},
			Lens: &integrator.Lens{
				FocalLength:   35,
				FocusDistance: 3,
				SensorWidth:   36,
				SensorHeight:  36 / (16.0 / 9.0),
				DepthOfField:  true,
				FStop:         2.8,
			},
		},
		Materials: []MaterialConfig{
			{Name: "ground", Type: "diffuse", Albedo: Vec3{0.48, 0.48, 0.0}},
			{Name: "red", Type: "diffuse", Albedo: Vec3{0.65, 0.25, 0.2}},
			{Name: "silver", Type: "conductor", Reflectivity: Vec3{0.8, 0.8, 0.8}, EdgeTint: Vec3{1, 1, 1}, Roughness: 0.05},
			{Name: "gold", Type: "conductor", Reflectivity: Vec3{0.8, 0.6, 0.2}, EdgeTint: Vec3{1, 0.9, 0.6}, Roughness: 0.3, Anisotropy: 0.6},
		},
		Meshes: []MeshConfig{
			{Type: "grid", Material: "ground", Size: 40, Divisions: 4},
			{Type: "sphere", Material: "red", Radius: 0.5, Transform: TransformConfig{Translate: Vec3{0, 0.5, 0}}},
			{Type: "sphere", Material: "silver", Radius: 0.5, Transform: TransformConfig{Translate: Vec3{-1.1, 0.5, 0}}},
			{Type: "sphere", Material: "gold", Radius: 0.5, Transform: TransformConfig{Translate: Vec3{1.1, 0.5, 0}}},
		},
		Lights: []LightConfig{
			{Type: "sphere", Emission: Vec3{15, 14, 13}, Position: Vec3{30, 30.5, 15}, Radius: 10},
			{Type: "dome", Environment: &EnvironmentConfig{Top: Vec3{0.5, 0.7, 1.0}, Bottom: Vec3{1, 1, 1}}},
		},
	}
}

// NewDomeConfig creates an environment-lit scene. The sky is importance
// sampled through a small importance map.
func NewDomeConfig() *Config {
	return &Config{
		Name:        "dome",
		Description: "Conductor spheres lit only by an importance-sampled sky",
		Render: RenderConfig{
			Options: renderer.Options{Width: 480, Height: 270, TileSize: 32},
			Frames:  32,
		},
		Camera: CameraConfig{
			Position: Vec3{0, 1, 4},
			Target:   Vec3{0, 0.6, 0},
			Up:       Vec3{0, 1, 0},
		},
		Materials: []MaterialConfig{
			{Name: "floor", Type: "diffuse", Albedo: Vec3{0.5, 0.5, 0.5}},
			{Name: "copper", Type: "conductor", Reflectivity: Vec3{0.95, 0.64, 0.54}, EdgeTint: Vec3{1, 0.9, 0.8}, Roughness: 0.15},
			{Name: "chrome", Type: "conductor", Reflectivity: Vec3{0.55, 0.55, 0.55}, EdgeTint: Vec3{0.7, 0.7, 0.7}, Roughness: 0.02},
		},
		Meshes: []MeshConfig{
			{Type: "grid", Material: "floor", Size: 20, Divisions: 2},
			{Type: "sphere", Material: "copper", Radius: 0.6, Transform: TransformConfig{Translate: Vec3{-0.7, 0.6, 0}}},
			{Type: "sphere", Material: "chrome", Radius: 0.6, Transform: TransformConfig{Translate: Vec3{0.7, 0.6, 0}}},
		},
		Lights: []LightConfig{
			{Type: "dome", Environment: &EnvironmentConfig{
				Top:            Vec3{0.9, 1.1, 1.6},
				Bottom:         Vec3{0.3, 0.25, 0.2},
				ImportanceSize: 64,
				ImportanceSPP:  4,
			}},
		},
	}
}
