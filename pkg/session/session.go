// Package session holds the state machine of one stillness-meditation
// session: a fixed settle-down countdown, the user-selected running timer
// and the coupling of the motion deadzone to the audio numbing policy.
//
// Nothing in here propagates errors: every guard violation is a silent
// no-op. A meditation aid must never interrupt itself.
package session

import (
	"sync"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/zen-master/pkg/common"
)

// Tracker is the motion subsystem as the session sees it. Start is allowed
// to silently do nothing when no wearable is available.
type Tracker interface {
	Start()
	Stop()
}

// Numbing is the audio policy as the session sees it.
type Numbing interface {
	Apply()
	Restore()
	Reset()
}

// Snapshot is the observable state consumed by the presentation layer.
type Snapshot struct {
	Phase              Phase
	CountdownRemaining int
	Remaining          time.Duration
	Selected           time.Duration
	Deadzone           bool
}

type Session struct {
	// Clock defaults to common.SystemClock; tests inject a manual one.
	Clock common.Clock

	conf    *Configuration
	tracker Tracker
	numbing Numbing

	observers []func(Snapshot)

	phase              Phase
	selected           time.Duration
	remaining          time.Duration
	countdownRemaining int
	deadzone           bool

	ticker    common.Timer
	tickerGen uint64
	closed    bool
	mutex     sync.Mutex
}

func (this *Session) Initialize(conf *Configuration, tracker Tracker, numbing Numbing) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.conf = conf
	this.tracker = tracker
	this.numbing = numbing
	if this.Clock == nil {
		this.Clock = common.SystemClock
	}

	this.phase = PhaseIdle
	this.selected = conf.DefaultDuration
	this.deadzone = true

	return nil
}

// Subscribe registers an observer that receives a snapshot after every
// observable change. Observers are invoked outside the session lock, in
// registration order.
func (this *Session) Subscribe(observer func(Snapshot)) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.observers = append(this.observers, observer)
}

func (this *Session) Snapshot() Snapshot {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.snapshot()
}

func (this *Session) snapshot() Snapshot {
	return Snapshot{
		Phase:              this.phase,
		CountdownRemaining: this.countdownRemaining,
		Remaining:          this.remaining,
		Selected:           this.selected,
		Deadzone:           this.deadzone,
	}
}

// SetSelectedDuration stores the target length of the next session. An
// in-progress session keeps its remaining duration.
func (this *Session) SetSelectedDuration(d time.Duration) {
	this.mutex.Lock()
	if this.closed {
		this.mutex.Unlock()
		return
	}

	this.selected = d
	this.notifyAndUnlock()
}

// StartCountdown begins the settle-down countdown. Silent no-op when the
// selected duration is not positive or a session is already underway.
func (this *Session) StartCountdown() {
	this.mutex.Lock()
	if this.closed || this.selected <= 0 || this.phase != PhaseIdle {
		this.mutex.Unlock()
		return
	}

	this.cancelTicker()
	this.phase = PhaseCountdown
	this.countdownRemaining = this.conf.CountdownTicks
	this.remaining = this.selected
	this.deadzone = true

	log.With("selected", this.selected).
		With("countdownTicks", this.countdownRemaining).
		Info("Session countdown started.")

	this.startTicker(this.onCountdownTick)
	this.notifyAndUnlock()
}

func (this *Session) onCountdownTick(gen uint64) {
	this.mutex.Lock()
	if this.closed || gen != this.tickerGen || this.phase != PhaseCountdown {
		this.mutex.Unlock()
		return
	}

	this.countdownRemaining--
	if this.countdownRemaining > 0 {
		this.notifyAndUnlock()
		return
	}

	this.enterRunningAndUnlock()
}

func (this *Session) enterRunningAndUnlock() {
	this.cancelTicker()
	this.phase = PhaseRunning
	this.countdownRemaining = 0
	this.remaining = this.selected
	this.deadzone = true

	log.With("remaining", this.remaining).
		Info("Session running.")

	this.startTicker(this.onRunningTick)
	tracker := this.tracker
	this.notifyAndUnlock()

	// Outside the lock: the tracker reaches back via HandleDeadzoneChange.
	tracker.Start()
}

func (this *Session) onRunningTick(gen uint64) {
	this.mutex.Lock()
	if this.closed || gen != this.tickerGen || this.phase != PhaseRunning {
		this.mutex.Unlock()
		return
	}

	this.remaining -= this.conf.TickInterval
	if this.remaining > 0 {
		this.notifyAndUnlock()
		return
	}

	this.remaining = 0
	log.Info("Session completed.")
	this.teardownAndUnlock()
}

// Stop aborts the current session, whatever phase it is in.
func (this *Session) Stop() {
	this.mutex.Lock()
	if this.closed || this.phase == PhaseIdle {
		this.mutex.Unlock()
		return
	}

	log.With("phase", this.phase).
		Info("Session stopped.")
	this.teardownAndUnlock()
}

func (this *Session) teardownAndUnlock() {
	this.cancelTicker()
	this.phase = PhaseIdle
	this.countdownRemaining = 0
	this.remaining = 0
	this.deadzone = true

	tracker := this.tracker
	numbing := this.numbing
	this.notifyAndUnlock()

	tracker.Stop()
	numbing.Reset()
}

// HandleDeadzoneChange is the motion tracker's change callback. Only acts
// while Running; numbing follows the stillness state.
func (this *Session) HandleDeadzoneChange(deadzone bool) {
	this.mutex.Lock()
	if this.closed || this.phase != PhaseRunning || this.deadzone == deadzone {
		this.mutex.Unlock()
		return
	}

	this.deadzone = deadzone
	numbing := this.numbing
	this.notifyAndUnlock()

	if deadzone {
		numbing.Restore()
	} else {
		numbing.Apply()
	}
}

// Close makes the instance inert: all timers are cancelled and any late
// tick or deadzone callback is a guaranteed no-op.
func (this *Session) Close() error {
	this.mutex.Lock()
	if this.closed {
		this.mutex.Unlock()
		return nil
	}

	this.closed = true
	this.cancelTicker()
	this.phase = PhaseIdle
	tracker := this.tracker
	numbing := this.numbing
	this.mutex.Unlock()

	// Both may still be absent when initialization failed halfway.
	if tracker != nil {
		tracker.Stop()
	}
	if numbing != nil {
		numbing.Reset()
	}
	return nil
}

func (this *Session) startTicker(tick func(gen uint64)) {
	this.tickerGen++
	gen := this.tickerGen
	this.ticker = this.Clock.Every(this.conf.TickInterval, func() {
		tick(gen)
	})
}

func (this *Session) cancelTicker() {
	this.tickerGen++
	if this.ticker != nil {
		this.ticker.Stop()
		this.ticker = nil
	}
}

// notifyAndUnlock snapshots the state, releases the lock and then informs
// the observers. Keeps observers free to call back into the session.
func (this *Session) notifyAndUnlock() {
	snapshot := this.snapshot()
	observers := this.observers
	this.mutex.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
}
