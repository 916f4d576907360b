package audio

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/zen-master/pkg/common/clocktest"
)

func TestNumb_Apply_capturesBaselineOnce(t *testing.T) {
	instance, volume, _ := newTestNumb(t, 0.8)

	instance.Apply()
	instance.Apply()

	assert.Equal(t, 1, volume.gets)
	assert.Equal(t, []float64{0.4, 0.4}, volume.writes)
	assert.True(t, instance.IsNumbed())
}

func TestNumb_Restore_waitsForDebounceWindow(t *testing.T) {
	instance, volume, clock := newTestNumb(t, 0.8)

	instance.Apply()
	require.Equal(t, []float64{0.4}, volume.writes)

	instance.Restore()
	// still inside the window: nothing restored yet
	assert.Equal(t, []float64{0.4}, volume.writes)

	clock.Advance(2 * time.Second)
	assert.Equal(t, []float64{0.4, 0.8}, volume.writes)
	assert.False(t, instance.IsNumbed())
}

func TestNumb_Restore_countsFromLastApply(t *testing.T) {
	instance, volume, clock := newTestNumb(t, 0.8)

	instance.Apply()
	clock.Advance(1500 * time.Millisecond)
	instance.Apply() // restarts the window
	instance.Restore()

	clock.Advance(1500 * time.Millisecond)
	// only 1.5s since the last Apply: restore still pending
	require.Equal(t, []float64{0.4, 0.4}, volume.writes)

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, []float64{0.4, 0.4, 0.8}, volume.writes)
}

func TestNumb_Apply_cancelsQueuedRestore(t *testing.T) {
	instance, volume, clock := newTestNumb(t, 0.8)

	instance.Apply()
	instance.Restore()
	instance.Apply()

	clock.Advance(10 * time.Second)

	assert.Equal(t, []float64{0.4, 0.4}, volume.writes)
	assert.True(t, instance.IsNumbed())
}

func TestNumb_Restore_immediateWhenNoWindowPending(t *testing.T) {
	instance, volume, clock := newTestNumb(t, 0.6)

	instance.Apply()
	clock.Advance(2 * time.Second)
	// window elapsed without a queued restore: nothing happened
	require.Equal(t, []float64{0.3}, volume.writes)

	instance.Restore()
	assert.Equal(t, []float64{0.3, 0.6}, volume.writes)
	assert.False(t, instance.IsNumbed())
}

func TestNumb_Restore_withoutNumbingIsNoop(t *testing.T) {
	instance, volume, _ := newTestNumb(t, 0.8)

	instance.Restore()

	assert.Empty(t, volume.writes)
	assert.Equal(t, 0, volume.gets)
}

func TestNumb_Reset_restoresButKeepsBaseline(t *testing.T) {
	instance, volume, clock := newTestNumb(t, 0.8)

	instance.Apply()
	instance.Reset()
	require.Equal(t, []float64{0.4, 0.8}, volume.writes)
	require.False(t, instance.IsNumbed())

	// the window died with the session
	clock.Advance(10 * time.Second)
	require.Equal(t, []float64{0.4, 0.8}, volume.writes)

	// baseline survives into the next session even if the user changed
	// the volume meanwhile
	volume.level = 0.2
	instance.Apply()
	assert.Equal(t, 1, volume.gets)
	assert.Equal(t, []float64{0.4, 0.8, 0.4}, volume.writes)
}

func TestNumb_Apply_withoutVolumeCapabilityIsNoop(t *testing.T) {
	volume := &fakeVolume{getErr: fmt.Errorf("no audio endpoint")}
	clock := clocktest.NewClock()
	instance := Numb{Clock: clock}
	conf := NewConfiguration()
	require.NoError(t, instance.Initialize(&conf, volume))

	instance.Apply()
	instance.Restore()
	clock.Advance(10 * time.Second)

	assert.Empty(t, volume.writes)
	assert.False(t, instance.IsNumbed())
}

func newTestNumb(t *testing.T, level float64) (*Numb, *fakeVolume, *clocktest.Clock) {
	t.Helper()

	volume := &fakeVolume{level: level}
	clock := clocktest.NewClock()
	instance := Numb{Clock: clock}

	conf := NewConfiguration()
	require.NoError(t, instance.Initialize(&conf, volume))

	return &instance, volume, clock
}

type fakeVolume struct {
	level  float64
	getErr error

	gets   int
	writes []float64
}

func (this *fakeVolume) Get() (float64, error) {
	this.gets++
	if this.getErr != nil {
		return 0, this.getErr
	}
	return this.level, nil
}

func (this *fakeVolume) Set(v float64) error {
	this.writes = append(this.writes, v)
	this.level = v
	return nil
}
