package common

import (
	"sync"
	"time"
)

// Clock abstracts the wall-clock timer scheduling used by the session and
// audio packages, so their debounce/tick behavior can be driven manually
// in tests.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules f to run once after d.
	AfterFunc(d time.Duration, f func()) Timer

	// Every schedules f to run repeatedly every d until the returned
	// Timer is stopped.
	Every(d time.Duration, f func()) Timer
}

type Timer interface {
	// Stop prevents any future invocation of the scheduled function. It
	// does not wait for an invocation that is already running.
	Stop()
}

var SystemClock Clock = &systemClock{}

type systemClock struct{}

func (this *systemClock) Now() time.Time {
	return time.Now()
}

func (this *systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return &systemTimer{stop: time.AfterFunc(d, f).Stop}
}

func (this *systemClock) Every(d time.Duration, f func()) Timer {
	ticker := time.NewTicker(d)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				f()
			}
		}
	}()

	return &systemTimer{stop: func() bool {
		ticker.Stop()
		close(done)
		return true
	}}
}

type systemTimer struct {
	stop func() bool
	once sync.Once
}

func (this *systemTimer) Stop() {
	this.once.Do(func() {
		_ = this.stop()
	})
}
