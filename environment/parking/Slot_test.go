package parking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestIsParkedWithinTolerance(t *testing.T) {
	for _, distance := range []float64{0, 0.5, 1, 2, MaxParkDistance} {
		for _, angle := range []float64{0, 5, 10, 24.9, MaxParkAngle} {
			assert.True(t, IsParked(distance, angle),
				"distance %v, angle %v", distance, angle)
		}
	}
}

func TestIsParkedOutsideTolerance(t *testing.T) {
	tests := []struct {
		distance, angle float64
	}{
		{MaxParkDistance + 1e-9, 0},
		{3, 10},
		{0, MaxParkAngle + 1e-9},
		{1, 45},
		{10, 90},
	}

	for _, test := range tests {
		assert.False(t, IsParked(test.distance, test.angle),
			"distance %v, angle %v", test.distance, test.angle)
	}
}

func TestAlignmentEitherFace(t *testing.T) {
	slot := NewSlot(r2.Vec{}, 0, 2.5, 5)

	tests := []struct {
		heading, want float64
	}{
		{0, 0},
		{180, 0},
		{-180, 0},
		{10, 10},
		{-10, 10},
		{170, 10},
		{190, 10},
		{90, 90},
		{-90, 90},
		{45, 45},
	}

	for _, test := range tests {
		got := slot.Alignment(Pose{Heading: test.heading})
		assert.InDelta(t, test.want, got, 1e-9, "heading %v", test.heading)
	}
}

func TestAlignmentRotatedSlot(t *testing.T) {
	slot := NewSlot(r2.Vec{}, 90, 2.5, 5)

	assert.InDelta(t, 0, slot.Alignment(Pose{Heading: 90}), 1e-9)
	assert.InDelta(t, 0, slot.Alignment(Pose{Heading: -90}), 1e-9)
	assert.InDelta(t, 90, slot.Alignment(Pose{Heading: 0}), 1e-9)
}

func TestCheckParkStatus(t *testing.T) {
	slot := NewSlot(r2.Vec{}, 0, 2.5, 5)
	indicator := &recordingIndicator{}

	car := poseAt(1, 10)
	status := slot.CheckParkStatus(car, slot.Distance(car), indicator)
	assert.True(t, status.Parked)
	assert.InDelta(t, 10, status.Angle, 1e-9)

	car = poseAt(1, 40)
	status = slot.CheckParkStatus(car, slot.Distance(car), indicator)
	assert.False(t, status.Parked)
	assert.InDelta(t, 40, status.Angle, 1e-9)

	car = poseAt(3, 0)
	status = slot.CheckParkStatus(car, slot.Distance(car), indicator)
	assert.False(t, status.Parked)

	assert.Equal(t, []IndicatorState{Success, Fail, Fail}, indicator.states)
}

func TestCheckParkStatusWithoutIndicator(t *testing.T) {
	slot := NewSlot(r2.Vec{X: 3, Y: 4}, 0, 2.5, 5)
	car := Pose{}

	assert.InDelta(t, 5, slot.Distance(car), 1e-9)
	assert.NotPanics(t, func() {
		slot.CheckParkStatus(car, slot.Distance(car), nil)
	})
}
