package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/zen-master/pkg/common/clocktest"
	"github.com/blaubaer/zen-master/pkg/sensor"
)

func TestReplay_Subscribe_deliversCaptureAtPace(t *testing.T) {
	instance, clock := newTestInstance(t, "0,0,9.8\n0.1,0,9.8\nnot-a-sample\n0.2,0,9.8\n", false)

	var received []sensor.Sample
	require.NoError(t, instance.Subscribe(func(s sensor.Sample) {
		received = append(received, s)
	}))

	clock.Advance(20 * time.Millisecond)
	assert.Equal(t, []sensor.Sample{{X: 0, Y: 0, Z: 9.8}}, received)

	clock.Advance(40 * time.Millisecond)
	assert.Equal(t, []sensor.Sample{{X: 0, Y: 0, Z: 9.8}, {X: 0.1, Y: 0, Z: 9.8}, {X: 0.2, Y: 0, Z: 9.8}}, received)

	// capture exhausted, no loop: nothing more arrives
	clock.Advance(100 * time.Millisecond)
	assert.Len(t, received, 3)
}

func TestReplay_Subscribe_loopsWhenConfigured(t *testing.T) {
	instance, clock := newTestInstance(t, "1,0,0\n2,0,0\n", true)

	var received []sensor.Sample
	require.NoError(t, instance.Subscribe(func(s sensor.Sample) {
		received = append(received, s)
	}))

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []sensor.Sample{{X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, received)
}

func TestReplay_Unsubscribe_stopsDelivery(t *testing.T) {
	instance, clock := newTestInstance(t, "1,0,0\n2,0,0\n", true)

	var received []sensor.Sample
	require.NoError(t, instance.Subscribe(func(s sensor.Sample) {
		received = append(received, s)
	}))
	clock.Advance(20 * time.Millisecond)
	require.Len(t, received, 1)

	require.NoError(t, instance.Unsubscribe())
	clock.Advance(200 * time.Millisecond)
	assert.Len(t, received, 1)
}

func TestReplay_Available(t *testing.T) {
	instance, _ := newTestInstance(t, "1,0,0\n", false)
	assert.True(t, instance.Available())

	var empty Replay
	conf := NewConfiguration()
	require.NoError(t, empty.Initialize(&conf))
	assert.False(t, empty.Available())
}

func newTestInstance(t *testing.T, capture string, loop bool) (*Replay, *clocktest.Clock) {
	t.Helper()

	fn := filepath.Join(t.TempDir(), "capture.csv")
	require.NoError(t, os.WriteFile(fn, []byte(capture), 0600))

	clock := clocktest.NewClock()
	instance := Replay{Clock: clock}

	conf := NewConfiguration()
	conf.File = fn
	conf.Loop = loop
	require.NoError(t, instance.Initialize(&conf))

	return &instance, clock
}
