package parking

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	ts "github.com/samuelfneumann/goparking/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

var noop = mat.NewVecDense(2, []float64{1, 1})
var forward = mat.NewVecDense(2, []float64{1, 2})

func testConfig() Config {
	return Config{
		ObserveRays: 8,
		SensorRange: SensorRange,
		IgnoreMask:  0x0002,
		TickSeconds: 0.25,
		Discount:    0.99,
	}
}

func newTestPark(t *testing.T, c Config, start Pose,
	v *fakeVehicle, opts ...Option) (*Park, ts.TimeStep) {
	t.Helper()

	slot := NewSlot(r2.Vec{}, 0, 2.5, 5)
	p, step, err := New(c, slot, v, &fakeCaster{}, fixedStarter{start},
		opts...)
	require.NoError(t, err)
	return p, step
}

func TestNewRejectsIllegalConfig(t *testing.T) {
	slot := NewSlot(r2.Vec{}, 0, 2.5, 5)
	starter := fixedStarter{poseAt(10, 0)}

	for _, rays := range []int{0, -1} {
		c := testConfig()
		c.ObserveRays = rays

		_, _, err := New(c, slot, &fakeVehicle{}, &fakeCaster{}, starter)
		assert.Error(t, err, "observe rays %v", rays)
	}

	c := testConfig()
	c.TickSeconds = 0
	_, _, err := New(c, slot, &fakeVehicle{}, &fakeCaster{}, starter)
	assert.Error(t, err)

	_, _, err = New(testConfig(), slot, nil, &fakeCaster{}, starter)
	assert.Error(t, err)
}

func TestFirstStep(t *testing.T) {
	v := &fakeVehicle{}
	p, step := newTestPark(t, testConfig(), poseAt(10, -90), v)

	assert.True(t, step.First())
	assert.Equal(t, 0, step.Number)
	assert.Equal(t, HeaderFeatures+8, step.Observation.Len())
	assert.Equal(t, 1.0, step.Observation.AtVec(3))
	assert.Equal(t, 1, v.resets)
	assert.Equal(t, poseAt(10, -90), v.Pose())

	assert.Equal(t, HeaderFeatures+8, p.ObservationSpec().Shape.Len())
	assert.True(t, p.ObservationSpec().Contains(step.Observation))
	assert.Equal(t, ActionDims, p.ActionSpec().Shape.Len())
}

func TestParkingScenario(t *testing.T) {
	// Car 1 unit from the slot, misaligned by 10 degrees
	indicator := &recordingIndicator{}
	p, _ := newTestPark(t, testConfig(), poseAt(1, 10), &fakeVehicle{},
		WithIndicator(indicator))

	step, done, err := p.Step(noop)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, ParkBonus, step.Reward)
	assert.Equal(t, 0.0, step.Observation.AtVec(3))
	assert.True(t, p.Status().Parked)
	assert.InDelta(t, 10, p.Status().Angle, 1e-9)

	for i := 0; i < 2; i++ {
		step, done, err = p.Step(noop)
		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, 0.0, step.Reward)
	}

	// The stay timer runs out on the fourth quarter-second tick
	step, done, err = p.Step(noop)
	require.NoError(t, err)
	assert.True(t, done)
	assert.InDelta(t, 0.578, step.Reward, 1e-3)

	end, ended := step.EndType()
	assert.True(t, ended)
	assert.Equal(t, ts.TerminalStateReached, end)
	assert.Equal(t, []IndicatorState{Success, Success, Success, Success},
		indicator.states)

	// Ended episodes cannot be stepped
	_, _, err = p.Step(noop)
	assert.Error(t, err)

	step, err = p.Reset()
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, StayTime, p.Episode().StayTimer())
	assert.False(t, p.Episode().Parked())
}

func TestCollisionRewards(t *testing.T) {
	v := &fakeVehicle{contacts: []Contact{Enter, Stay, Stay, None, Enter}}
	p, _ := newTestPark(t, testConfig(), poseAt(10, -90), v)

	want := []float64{-1, -0.025, -0.025, 0, -1}
	for i, reward := range want {
		step, _, err := p.Step(noop)
		require.NoError(t, err)
		assert.InDelta(t, reward, step.Reward, 1e-12, "step %v", i+1)
	}
}

func TestProgressShaping(t *testing.T) {
	// Start 10 units to the right of the slot, facing it
	v := &fakeVehicle{stride: 0.5}
	start := Pose{Position: r2.Vec{X: 10}, Heading: -90}
	p, _ := newTestPark(t, testConfig(), start, v)

	for i := 1; i <= 20; i++ {
		a := forward
		if i > 10 {
			// Back away from the slot
			a = mat.NewVecDense(2, []float64{1, 0})
		}

		step, _, err := p.Step(a)
		require.NoError(t, err)

		switch i {
		case 10:
			assert.Equal(t, ProgressReward, step.Reward)
		case 20:
			assert.InDelta(t, -0.1, step.Reward, 1e-9)
		default:
			assert.Equal(t, 0.0, step.Reward, "step %v", i)
		}
	}
}

func TestEpisodeCutoff(t *testing.T) {
	c := testConfig()
	c.EpisodeCutoff = 3
	p, _ := newTestPark(t, c, poseAt(10, -90), &fakeVehicle{})

	for i := 1; i <= 3; i++ {
		step, done, err := p.Step(noop)
		require.NoError(t, err)
		assert.Equal(t, i == 3, done)
		assert.Equal(t, i, step.Number)
	}

	end, ended := p.LastTimeStep().EndType()
	assert.True(t, ended)
	assert.Equal(t, ts.Timeout, end)
}

func TestStepRejectsIllegalAction(t *testing.T) {
	p, _ := newTestPark(t, testConfig(), poseAt(10, -90), &fakeVehicle{})

	_, _, err := p.Step(mat.NewVecDense(2, []float64{4, 1}))
	assert.Error(t, err)

	// The environment is still usable
	_, _, err = p.Step(noop)
	assert.NoError(t, err)
}

func TestEpisodesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	c := testConfig()
	c.EpisodeCutoff = 1
	p, _ := newTestPark(t, c, poseAt(10, -90), &fakeVehicle{},
		WithLogger(log))

	_, done, err := p.Step(noop)
	require.NoError(t, err)
	require.True(t, done)

	assert.Contains(t, buf.String(), "episode started")
	assert.Contains(t, buf.String(), "episode ended")
	assert.Contains(t, buf.String(), `"end":"Timeout"`)
}
