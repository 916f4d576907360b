package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEwma_Update_seedsWithFirstSample(t *testing.T) {
	for _, alpha := range []float64{0.01, 0.2, 0.5, 0.99} {
		instance := NewEwma(alpha)

		assert.Equal(t, 42.5, instance.Update(42.5))
		assert.Equal(t, 42.5, instance.Value())
		assert.True(t, instance.IsInitialized())
	}
}

func TestEwma_Update_weightsNewSampleByAlpha(t *testing.T) {
	instance := NewEwma(0.2)

	instance.Update(10)
	actual := instance.Update(20)

	assert.InDelta(t, 0.2*20+0.8*10, actual, 1e-12)
}

func TestEwma_Update_convergesToConstantInput(t *testing.T) {
	instance := NewEwma(0.2)
	instance.Update(0)

	// error shrinks by (1-alpha) per step: bounded by log(eps)/log(1-alpha)
	steps := int(math.Ceil(math.Log(1e-9)/math.Log(1-0.2))) + 1
	var last float64
	for i := 0; i < steps; i++ {
		last = instance.Update(1)
	}

	assert.InDelta(t, 1.0, last, 1e-8)
}

func TestEwma_Reset_reseedsOnNextUpdate(t *testing.T) {
	instance := NewEwma(0.2)
	instance.Update(10)
	instance.Update(20)

	instance.Reset()

	require.False(t, instance.IsInitialized())
	assert.Equal(t, 7.0, instance.Update(7))
}

func TestLowpass_Update_seedsWithFirstSample(t *testing.T) {
	for _, alpha := range []float64{0.01, 0.5, 0.9, 0.99} {
		instance := NewLowpass(alpha)

		assert.Equal(t, -9.81, instance.Update(-9.81))
		assert.True(t, instance.IsInitialized())
	}
}

func TestLowpass_Update_weightsHistoryByAlpha(t *testing.T) {
	instance := NewLowpass(0.9)

	instance.Update(10)
	actual := instance.Update(20)

	assert.InDelta(t, 0.9*10+0.1*20, actual, 1e-12)
}

func TestLowpass_Update_convergesToConstantInput(t *testing.T) {
	instance := NewLowpass(0.9)
	instance.Update(0)

	steps := int(math.Ceil(math.Log(1e-9)/math.Log(0.9))) + 1
	var last float64
	for i := 0; i < steps; i++ {
		last = instance.Update(1)
	}

	assert.InDelta(t, 1.0, last, 1e-8)
}

func TestLowpass_Reset_reseedsOnNextUpdate(t *testing.T) {
	instance := NewLowpass(0.9)
	instance.Update(10)

	instance.Reset()

	require.False(t, instance.IsInitialized())
	assert.Equal(t, 3.25, instance.Update(3.25))
}
