package calibrate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/zen-master/pkg/motion"
	"github.com/blaubaer/zen-master/pkg/sensor"
)

func TestCollector_tooFewSamples(t *testing.T) {
	conf := NewConfiguration()
	motionConf := motion.NewConfiguration()

	instance := NewCollector(&motionConf)
	for i := 0; i < minSamples-1; i++ {
		instance.Feed(sensor.Sample{X: 0, Y: 0, Z: 9.81})
	}

	_, actualErr := instance.Result(&conf)
	assert.Error(t, actualErr)
}

func TestCollector_ignoresNonFiniteSamples(t *testing.T) {
	motionConf := motion.NewConfiguration()

	instance := NewCollector(&motionConf)
	instance.Feed(sensor.Sample{X: math.NaN(), Y: 0, Z: 9.81})
	instance.Feed(sensor.Sample{X: 0, Y: 0, Z: 9.81})

	assert.Equal(t, 1, instance.Len())
}

func TestCollector_restingDevice(t *testing.T) {
	conf := NewConfiguration()
	motionConf := motion.NewConfiguration()

	instance := NewCollector(&motionConf)
	for i := 0; i < 200; i++ {
		// Resting on a table, tiny alternating jitter on one axis.
		jitter := 0.002
		if i%2 == 0 {
			jitter = -jitter
		}
		instance.Feed(sensor.Sample{X: jitter, Y: 0, Z: 9.81})
	}

	actual, actualErr := instance.Result(&conf)
	require.NoError(t, actualErr)

	assert.Equal(t, 200, actual.Samples)
	assert.LessOrEqual(t, actual.Min, actual.Mean)
	assert.LessOrEqual(t, actual.Mean, actual.Max)
	assert.LessOrEqual(t, actual.Quantile, actual.Max)

	// The suggestion carries the configured headroom above the quantile.
	assert.InDelta(t, actual.Quantile*conf.Margin, actual.SuggestedThreshold, 1e-12)

	// Resting noise at this amplitude stays far below the default
	// threshold, so the suggestion must too.
	assert.Less(t, actual.SuggestedThreshold, motionConf.DeadzoneThreshold)
}

func TestCollector_suggestionScalesWithNoise(t *testing.T) {
	conf := NewConfiguration()
	motionConf := motion.NewConfiguration()

	quiet := NewCollector(&motionConf)
	noisy := NewCollector(&motionConf)
	for i := 0; i < 200; i++ {
		jitter := 0.002
		if i%2 == 0 {
			jitter = -jitter
		}
		quiet.Feed(sensor.Sample{X: jitter, Y: 0, Z: 9.81})
		noisy.Feed(sensor.Sample{X: jitter * 10, Y: 0, Z: 9.81})
	}

	quietResult, actualErr := quiet.Result(&conf)
	require.NoError(t, actualErr)
	noisyResult, actualErr := noisy.Result(&conf)
	require.NoError(t, actualErr)

	assert.Greater(t, noisyResult.SuggestedThreshold, quietResult.SuggestedThreshold)
}
