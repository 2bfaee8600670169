package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestStepTypes(t *testing.T) {
	obs := mat.NewVecDense(1, []float64{0})

	step := New(First, 0, 0.99, obs, 0)
	assert.True(t, step.First())
	assert.False(t, step.Last())

	step = New(Mid, 1.5, 0.99, obs, 3)
	assert.True(t, step.Mid())
	_, ended := step.EndType()
	assert.False(t, ended)
}

func TestSetEnd(t *testing.T) {
	step := New(Last, 0, 1, mat.NewVecDense(1, nil), 10)
	step.SetEnd(TerminalStateReached)

	end, ended := step.EndType()
	assert.True(t, ended)
	assert.Equal(t, TerminalStateReached, end)
	assert.Equal(t, "TerminalStateReached", end.String())
	assert.Equal(t, "Last", step.StepType.String())
}

func TestEndTypeUnset(t *testing.T) {
	end, ended := New(Last, 0, 1, mat.NewVecDense(1, nil), 5).EndType()
	assert.True(t, ended)
	assert.Equal(t, Unknown, end)
	assert.Equal(t, "Unknown", end.String())
	assert.Equal(t, "Timeout", Timeout.String())
}
