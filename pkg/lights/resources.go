package lights

import (
	"sync"

	"github.com/df07/go-progressive-pathtracer/pkg/envmap"
)

// Resources maps the small integer handles stored in dome records to the
// environment textures and importance maps they name.
type Resources struct {
	mu       sync.RWMutex
	textures []envmap.Texture
	maps     []*envmap.ImportanceMap
}

// NewResources creates an empty registry
func NewResources() *Resources {
	return &Resources{}
}

// AddEnvironment registers a texture and returns its handle
func (r *Resources) AddEnvironment(t envmap.Texture) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textures = append(r.textures, t)
	return uint32(len(r.textures) - 1)
}

// AddImportanceMap registers an importance map and returns its handle
func (r *Resources) AddImportanceMap(m *envmap.ImportanceMap) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps = append(r.maps, m)
	return uint32(len(r.maps) - 1)
}

// Environment looks up a texture handle
func (r *Resources) Environment(h uint32) (envmap.Texture, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(h) >= len(r.textures) {
		return nil, false
	}
	return r.textures[h], true
}

// ImportanceMap looks up an importance map handle
func (r *Resources) ImportanceMap(h uint32) (*envmap.ImportanceMap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(h) >= len(r.maps) {
		return nil, false
	}
	return r.maps[h], true
}
