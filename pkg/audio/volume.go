package audio

import "errors"

// ErrUnsupported marks platforms without a system-volume binding. The
// numbing policy treats it as "no capability" and never numbs.
var ErrUnsupported = errors.New("system volume control is not supported on this platform")

// Volume is the system output-volume collaborator. Levels are scalars in
// [0,1]. Implementations decide what "the output" is (default render
// endpoint, a specific device, ...); the numbing policy only decides when
// and to what target.
type Volume interface {
	Get() (float64, error)
	Set(float64) error
}
