package sensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSample(t *testing.T) {
	cases := []struct {
		line     string
		expected Sample
		ok       bool
	}{
		{"0.01,-0.02,9.81", Sample{0.01, -0.02, 9.81}, true},
		{"  1 , 2 , 3 ", Sample{1, 2, 3}, true},
		{"-1.5e-3,0,0", Sample{-0.0015, 0, 0}, true},
		{"", Sample{}, false},
		{"1,2", Sample{}, false},
		{"1,2,3,4", Sample{}, false},
		{"a,b,c", Sample{}, false},
		{"NaN,0,0", Sample{}, false},
		{"0,+Inf,0", Sample{}, false},
	}

	for _, c := range cases {
		actual, ok := ParseSample(c.line)
		assert.Equal(t, c.ok, ok, c.line)
		if c.ok {
			assert.Equal(t, c.expected, actual, c.line)
		}
	}
}

func TestSample_IsFinite(t *testing.T) {
	assert.True(t, Sample{0, 0, 0}.IsFinite())
	assert.True(t, Sample{-9.81, 0.001, 12345}.IsFinite())
	assert.False(t, Sample{math.NaN(), 0, 0}.IsFinite())
	assert.False(t, Sample{0, math.Inf(1), 0}.IsFinite())
	assert.False(t, Sample{0, 0, math.Inf(-1)}.IsFinite())
}
