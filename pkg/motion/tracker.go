// Package motion turns the noisy raw accelerometer stream of the wearable
// into a single edge-triggered "is the wearer still" signal.
package motion

import (
	"math"
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/zen-master/pkg/filter"
	"github.com/blaubaer/zen-master/pkg/sensor"
)

type Tracker struct {
	conf   *Configuration
	source sensor.Source

	onDeadzoneChange func(bool)

	gravity  [3]*filter.Lowpass
	smoothed *filter.Ewma

	deadzone bool
	running  bool
	mutex    sync.Mutex
}

func (this *Tracker) Initialize(conf *Configuration, source sensor.Source) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.conf = conf
	this.source = source
	for i := range this.gravity {
		this.gravity[i] = filter.NewLowpass(conf.GravityAlpha)
	}
	this.smoothed = filter.NewEwma(conf.SmoothingAlpha)
	this.deadzone = true

	return nil
}

// OnDeadzoneChange registers the callback invoked whenever the stillness
// state flips. It is invoked only on change, never per sample, from the
// source's delivery goroutine.
func (this *Tracker) OnDeadzoneChange(callback func(bool)) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.onDeadzoneChange = callback
}

// Start begins consuming the sensor stream. Without a streaming-capable
// accelerometer this is a silent no-op: the session keeps working, the
// wearer is just always assumed still.
func (this *Tracker) Start() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.running {
		return
	}
	if this.source == nil || !this.source.Available() {
		log.Debug("No streaming-capable accelerometer available. Motion tracking stays off.")
		return
	}

	this.resetState()
	if err := this.source.Subscribe(this.consume); err != nil {
		log.WithError(err).
			Debug("Cannot subscribe to accelerometer stream. Motion tracking stays off.")
		return
	}

	this.running = true
}

// Stop unsubscribes from the stream and falls back to the initial "still"
// assumption.
func (this *Tracker) Stop() {
	this.mutex.Lock()
	if !this.running {
		this.mutex.Unlock()
		return
	}
	this.running = false
	source := this.source
	this.mutex.Unlock()

	// Outside the mutex: Unsubscribe waits for the delivery goroutine,
	// which may at this moment sit inside consume waiting for that very
	// mutex. An in-flight sample is dropped by the running guard instead.
	if err := source.Unsubscribe(); err != nil {
		log.WithError(err).
			Warn("Cannot unsubscribe from accelerometer stream.")
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.resetState()
}

func (this *Tracker) resetState() {
	for _, g := range this.gravity {
		g.Reset()
	}
	this.smoothed.Reset()
	this.deadzone = true
}

func (this *Tracker) Deadzone() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.deadzone
}

func (this *Tracker) consume(sample sensor.Sample) {
	this.mutex.Lock()

	if !this.running || !sample.IsFinite() {
		this.mutex.Unlock()
		return
	}

	linX := sample.X - this.gravity[0].Update(sample.X)
	linY := sample.Y - this.gravity[1].Update(sample.Y)
	linZ := sample.Z - this.gravity[2].Update(sample.Z)

	magnitude := this.smoothed.Update(math.Sqrt(linX*linX + linY*linY + linZ*linZ))

	deadzone := magnitude <= this.conf.DeadzoneThreshold
	if deadzone == this.deadzone {
		this.mutex.Unlock()
		return
	}

	this.deadzone = deadzone
	callback := this.onDeadzoneChange
	this.mutex.Unlock()

	log.With("deadzone", deadzone).
		With("magnitude", magnitude).
		Debug("Stillness state changed.")

	// Invoked outside the mutex: the consumer usually reaches back into
	// the session, which in turn may stop this tracker.
	if callback != nil {
		callback(deadzone)
	}
}
