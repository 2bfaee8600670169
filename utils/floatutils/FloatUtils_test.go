package floatutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	assert.Equal(t, 1.0, Clip(3, -1, 1))
	assert.Equal(t, -1.0, Clip(-3, -1, 1))
	assert.Equal(t, 0.5, ClipInterval(0.5, r1.Interval{Min: 0, Max: 1}))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		value, want float64
	}{
		{0, 0},
		{370, 10},
		{-90, 270},
		{360, 0},
		{-720, 0},
	}

	for _, test := range tests {
		assert.InDelta(t, test.want, Wrap(test.value, 0, 360), 1e-9,
			"wrap(%v)", test.value)
	}
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 10.0, Lerp(0, 10, 2))
	assert.Equal(t, 0.0, Lerp(0, 10, -1))
}
