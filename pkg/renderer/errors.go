package renderer

import "github.com/pkg/errors"

var (
	ErrSceneNotDefined   = errors.New("renderer: no scene defined")
	ErrCameraNotDefined  = errors.New("renderer: no camera defined")
	ErrInvalidResolution = errors.New("renderer: invalid frame resolution")
	ErrInterrupted       = errors.New("renderer: interrupted while rendering")
)
