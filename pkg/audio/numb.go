// Package audio decides when the output volume of the host is temporarily
// halved ("numbed") while the wearer moves, and when it is restored.
package audio

import (
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/zen-master/pkg/common"
)

// numbFactor is the fraction of the baseline volume played back while the
// wearer moves.
const numbFactor = 0.5

// Numb debounces volume restoration: a restore always waits at least the
// configured debounce window after the most recent numbing request, so a
// wearer oscillating around the stillness threshold does not hear the
// volume chatter.
//
// The baseline volume is captured lazily on the first numbing request and
// kept for the lifetime of the instance, across sessions.
type Numb struct {
	// Clock defaults to common.SystemClock; tests inject a manual one.
	Clock common.Clock

	conf   *Configuration
	volume Volume

	baseline      *float64
	numbed        bool
	restoreQueued bool
	debounce      common.Timer
	debounceGen   uint64
	mutex         sync.Mutex
}

func (this *Numb) Initialize(conf *Configuration, volume Volume) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.conf = conf
	this.volume = volume
	if this.Clock == nil {
		this.Clock = common.SystemClock
	}

	return nil
}

// Apply numbs the output. Safe to call repeatedly; every call restarts the
// debounce window and drops any queued restore.
func (this *Numb) Apply() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.baseline == nil {
		v, err := this.volume.Get()
		if err != nil {
			log.WithError(err).
				Debug("Cannot capture baseline volume. Numbing stays off.")
			return
		}
		this.baseline = &v
		log.With("baseline", v).
			Debug("Baseline volume captured.")
	}

	this.set(*this.baseline * numbFactor)
	this.numbed = true
	this.restoreQueued = false

	if this.debounce != nil {
		this.debounce.Stop()
	}
	this.debounceGen++
	gen := this.debounceGen
	this.debounce = this.Clock.AfterFunc(this.conf.DebounceInterval, func() {
		this.onDebounceElapsed(gen)
	})
}

// Restore queues a restoration to the baseline volume. It happens
// immediately when no debounce window is pending, otherwise when the
// window elapses (unless another Apply arrives first).
func (this *Numb) Restore() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.debounce != nil {
		this.restoreQueued = true
		return
	}

	this.restore()
}

func (this *Numb) onDebounceElapsed(gen uint64) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	// A newer Apply may have restarted the window while this callback was
	// already on its way.
	if gen != this.debounceGen {
		return
	}

	this.debounce = nil
	if !this.restoreQueued {
		return
	}

	this.restoreQueued = false
	this.restore()
}

// Reset ends the numbing of the current session: timers are cancelled and
// the volume restored when numbed. The captured baseline survives.
func (this *Numb) Reset() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.debounce != nil {
		this.debounce.Stop()
		this.debounce = nil
	}
	this.restoreQueued = false
	this.restore()
}

func (this *Numb) restore() {
	if !this.numbed || this.baseline == nil {
		return
	}

	this.set(*this.baseline)
	this.numbed = false
}

func (this *Numb) set(target float64) {
	if err := this.volume.Set(target); err != nil {
		log.WithError(err).
			With("target", target).
			Warn("Cannot adjust output volume.")
	}
}

func (this *Numb) IsNumbed() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.numbed
}
