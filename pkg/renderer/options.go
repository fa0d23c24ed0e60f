package renderer

import (
	"runtime"

	"github.com/pkg/errors"
)

// Options configures the progressive renderer
type Options struct {
	// Frame dims.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Edge length of the square pixel groups dispatched to workers.
	TileSize int `yaml:"tile_size"`

	// Number of parallel tile workers, 0 uses every CPU.
	Workers int `yaml:"workers"`
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Width:    640,
		Height:   360,
		TileSize: 32,
		Workers:  0,
	}
}

// Validate reports invalid frame dimensions
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Wrapf(ErrInvalidResolution, "%dx%d", o.Width, o.Height)
	}
	if o.TileSize <= 0 {
		return errors.Wrapf(ErrInvalidResolution, "tile size %d", o.TileSize)
	}
	return nil
}

func (o Options) workerCount() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}
