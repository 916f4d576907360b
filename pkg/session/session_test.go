package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/zen-master/pkg/common/clocktest"
)

func TestSession_StartCountdown_guardedOnNonPositiveDuration(t *testing.T) {
	instance, env := newTestSession(t)

	instance.SetSelectedDuration(0)
	instance.StartCountdown()

	assert.Equal(t, PhaseIdle, instance.Snapshot().Phase)
	assert.Equal(t, 0, env.tracker.started)

	instance.SetSelectedDuration(-5 * time.Second)
	instance.StartCountdown()

	assert.Equal(t, PhaseIdle, instance.Snapshot().Phase)
}

func TestSession_fullScenario_countdownRunningCompletion(t *testing.T) {
	instance, env := newTestSession(t)

	instance.SetSelectedDuration(10 * time.Second)
	instance.StartCountdown()

	actual := instance.Snapshot()
	require.Equal(t, PhaseCountdown, actual.Phase)
	require.Equal(t, 5, actual.CountdownRemaining)
	require.Equal(t, 10*time.Second, actual.Remaining)
	require.True(t, actual.Deadzone)

	env.clock.Advance(4 * time.Second)
	actual = instance.Snapshot()
	require.Equal(t, PhaseCountdown, actual.Phase)
	require.Equal(t, 1, actual.CountdownRemaining)
	require.Equal(t, 0, env.tracker.started)

	env.clock.Advance(1 * time.Second)
	actual = instance.Snapshot()
	require.Equal(t, PhaseRunning, actual.Phase)
	require.Equal(t, 10*time.Second, actual.Remaining)
	require.Equal(t, 1, env.tracker.started)

	env.clock.Advance(9 * time.Second)
	actual = instance.Snapshot()
	require.Equal(t, PhaseRunning, actual.Phase)
	require.Equal(t, 1*time.Second, actual.Remaining)

	env.clock.Advance(1 * time.Second)
	actual = instance.Snapshot()
	assert.Equal(t, PhaseIdle, actual.Phase)
	assert.Equal(t, 1, env.tracker.stopped)
	assert.Equal(t, 1, env.numbing.resets)

	// completed session leaves no live timers behind
	env.clock.Advance(time.Minute)
	assert.Equal(t, PhaseIdle, instance.Snapshot().Phase)
}

func TestSession_StartCountdown_whileUnderwayIsNoop(t *testing.T) {
	instance, env := newTestSession(t)

	instance.SetSelectedDuration(10 * time.Second)
	instance.StartCountdown()
	env.clock.Advance(2 * time.Second)

	instance.StartCountdown()

	// restart must not reset the countdown
	assert.Equal(t, 3, instance.Snapshot().CountdownRemaining)
}

func TestSession_Stop_duringCountdown(t *testing.T) {
	instance, env := newTestSession(t)

	instance.SetSelectedDuration(10 * time.Second)
	instance.StartCountdown()
	env.clock.Advance(2 * time.Second)

	instance.Stop()

	actual := instance.Snapshot()
	assert.Equal(t, PhaseIdle, actual.Phase)
	assert.Equal(t, 0, env.tracker.started)

	// cancelled countdown never reaches Running
	env.clock.Advance(time.Minute)
	assert.Equal(t, PhaseIdle, instance.Snapshot().Phase)
	assert.Equal(t, 0, env.tracker.started)
}

func TestSession_HandleDeadzoneChange_drivesNumbing(t *testing.T) {
	instance, env := newTestSession(t)
	startRunning(t, instance, env, 60*time.Second)

	instance.HandleDeadzoneChange(false)
	require.Equal(t, 1, env.numbing.applies)
	require.False(t, instance.Snapshot().Deadzone)

	// duplicate state is ignored
	instance.HandleDeadzoneChange(false)
	require.Equal(t, 1, env.numbing.applies)

	instance.HandleDeadzoneChange(true)
	assert.Equal(t, 1, env.numbing.restores)
	assert.True(t, instance.Snapshot().Deadzone)
}

func TestSession_HandleDeadzoneChange_outsideRunningIsNoop(t *testing.T) {
	instance, env := newTestSession(t)

	instance.HandleDeadzoneChange(false)
	assert.Equal(t, 0, env.numbing.applies)

	instance.SetSelectedDuration(10 * time.Second)
	instance.StartCountdown()
	instance.HandleDeadzoneChange(false)
	assert.Equal(t, 0, env.numbing.applies)
}

func TestSession_SetSelectedDuration_doesNotTouchRunningSession(t *testing.T) {
	instance, env := newTestSession(t)
	startRunning(t, instance, env, 10*time.Second)

	instance.SetSelectedDuration(30 * time.Minute)

	actual := instance.Snapshot()
	assert.Equal(t, 10*time.Second, actual.Remaining)
	assert.Equal(t, 30*time.Minute, actual.Selected)
}

func TestSession_Close_makesInstanceInert(t *testing.T) {
	instance, env := newTestSession(t)
	startRunning(t, instance, env, 10*time.Second)

	require.NoError(t, instance.Close())
	require.Equal(t, 1, env.tracker.stopped)

	before := instance.Snapshot()
	env.clock.Advance(time.Minute)
	instance.HandleDeadzoneChange(false)
	instance.StartCountdown()
	instance.Stop()

	assert.Equal(t, before, instance.Snapshot())
	assert.Equal(t, 0, env.numbing.applies)
}

func TestSession_observersSeePhaseSequence(t *testing.T) {
	instance, env := newTestSession(t)

	var phases []Phase
	instance.Subscribe(func(s Snapshot) {
		if len(phases) == 0 || phases[len(phases)-1] != s.Phase {
			phases = append(phases, s.Phase)
		}
	})

	instance.SetSelectedDuration(2 * time.Second)
	instance.StartCountdown()
	env.clock.Advance(7 * time.Second)

	assert.Equal(t, []Phase{PhaseIdle, PhaseCountdown, PhaseRunning, PhaseIdle}, phases)
}

type testEnv struct {
	clock   *clocktest.Clock
	tracker *fakeTracker
	numbing *fakeNumbing
}

func newTestSession(t *testing.T) (*Session, *testEnv) {
	t.Helper()

	env := &testEnv{
		clock:   clocktest.NewClock(),
		tracker: &fakeTracker{},
		numbing: &fakeNumbing{},
	}

	instance := Session{Clock: env.clock}
	conf := NewConfiguration()
	require.NoError(t, instance.Initialize(&conf, env.tracker, env.numbing))

	return &instance, env
}

func startRunning(t *testing.T, instance *Session, env *testEnv, d time.Duration) {
	t.Helper()

	instance.SetSelectedDuration(d)
	instance.StartCountdown()
	env.clock.Advance(5 * time.Second)
	require.Equal(t, PhaseRunning, instance.Snapshot().Phase)
}

type fakeTracker struct {
	started int
	stopped int
}

func (this *fakeTracker) Start() {
	this.started++
}

func (this *fakeTracker) Stop() {
	this.stopped++
}

type fakeNumbing struct {
	applies  int
	restores int
	resets   int
}

func (this *fakeNumbing) Apply() {
	this.applies++
}

func (this *fakeNumbing) Restore() {
	this.restores++
}

func (this *fakeNumbing) Reset() {
	this.resets++
}
