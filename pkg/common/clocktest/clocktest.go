// Package clocktest provides a manually advanced common.Clock for tests.
package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/blaubaer/zen-master/pkg/common"
)

func NewClock() *Clock {
	return &Clock{now: time.Unix(1700000000, 0)}
}

type Clock struct {
	mutex sync.Mutex
	now   time.Time

	scheduled []*entry
}

type entry struct {
	owner    *Clock
	deadline time.Time
	period   time.Duration
	f        func()
	stopped  bool
}

func (this *entry) Stop() {
	this.owner.mutex.Lock()
	defer this.owner.mutex.Unlock()
	this.stopped = true
}

func (this *Clock) Now() time.Time {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.now
}

func (this *Clock) AfterFunc(d time.Duration, f func()) common.Timer {
	return this.schedule(d, 0, f)
}

func (this *Clock) Every(d time.Duration, f func()) common.Timer {
	return this.schedule(d, d, f)
}

func (this *Clock) schedule(d, period time.Duration, f func()) common.Timer {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	e := &entry{
		owner:    this,
		deadline: this.now.Add(d),
		period:   period,
		f:        f,
	}
	this.scheduled = append(this.scheduled, e)
	return e
}

// Advance moves the clock forward by d, firing every scheduled function
// whose deadline is reached, in deadline order. Callbacks run on the
// caller's goroutine, matching the single sequential execution context the
// production code assumes.
func (this *Clock) Advance(d time.Duration) {
	this.mutex.Lock()
	target := this.now.Add(d)
	this.mutex.Unlock()

	for {
		e := this.nextDue(target)
		if e == nil {
			break
		}
		e.f()
	}

	this.mutex.Lock()
	this.now = target
	this.mutex.Unlock()
}

func (this *Clock) nextDue(target time.Time) *entry {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	live := this.scheduled[:0]
	for _, e := range this.scheduled {
		if !e.stopped {
			live = append(live, e)
		}
	}
	this.scheduled = live

	sort.SliceStable(this.scheduled, func(i, j int) bool {
		return this.scheduled[i].deadline.Before(this.scheduled[j].deadline)
	})

	for _, e := range this.scheduled {
		if e.deadline.After(target) {
			continue
		}

		this.now = e.deadline
		if e.period > 0 {
			e.deadline = e.deadline.Add(e.period)
		} else {
			e.stopped = true
		}
		return e
	}

	return nil
}
