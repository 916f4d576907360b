package sensor

import "math"

// Sample is one raw 3-axis accelerometer reading, in the unit the wearable
// reports (typically m/s² including gravity).
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (this Sample) IsFinite() bool {
	for _, v := range []float64{this.X, this.Y, this.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Source delivers a stream of accelerometer samples from some acquisition
// backend. At most one subscriber is active at a time; samples are
// delivered sequentially from a single goroutine owned by the source.
type Source interface {
	Dispose() error

	// Available reports whether a streaming-capable accelerometer could
	// be negotiated. When it returns false, Subscribe is allowed to fail
	// and motion tracking silently stays off.
	Available() bool

	Subscribe(func(Sample)) error
	Unsubscribe() error

	GetType() Type
}
