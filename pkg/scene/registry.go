package scene

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownScene is returned by Get for unregistered names
var ErrUnknownScene = errors.New("scene: unknown scene")

// Info describes a scene that can be rendered by name or path
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // YAML path (file type only)
}

var builtins = map[string]func() *Config{
	"cornell": NewCornellConfig,
	"spheres": NewSpheresConfig,
	"dome":    NewDomeConfig,
}

// List returns the built-in scenes sorted by name
func List() []Info {
	infos := make([]Info, 0, len(builtins))
	for _, newConfig := range builtins {
		cfg := newConfig()
		infos = append(infos, Info{Name: cfg.Name, Description: cfg.Description, Type: "builtin"})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Get returns a fresh copy of a built-in scene
func Get(name string) (*Config, error) {
	newConfig, ok := builtins[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScene, "%q", name)
	}
	return newConfig(), nil
}

// Resolve loads ref as a YAML file if it has a .yaml or .yml extension,
// and as a built-in scene name otherwise
func Resolve(ref string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		return LoadFile(ref)
	}
	return Get(ref)
}

// Discover scans dir for YAML scene files. Files that fail to parse are
// logged and skipped. A missing directory yields no scenes.
func Discover(dir string) ([]Info, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "scene: scan %s", dir)
		}
		files = append(files, matches...)
	}

	var infos []Info
	for _, path := range files {
		cfg, err := LoadFile(path)
		if err != nil {
			logger.Warningf("skipping %s: %v", path, err)
			continue
		}
		name := cfg.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		infos = append(infos, Info{Name: name, Description: cfg.Description, Type: "file", FilePath: path})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}
