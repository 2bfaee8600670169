package parking

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// fakeVehicle moves a fixed distance per tick along its heading and
// replays a scripted sequence of contacts
type fakeVehicle struct {
	pose     Pose
	intent   Intent
	stride   float64
	contacts []Contact
	resets   int
}

func (f *fakeVehicle) Pose() Pose { return f.pose }

func (f *fakeVehicle) SetIntent(i Intent) { f.intent = i }

func (f *fakeVehicle) Reset(position r2.Vec, heading float64) {
	f.pose = Pose{Position: position, Heading: heading}
	f.resets++
}

func (f *fakeVehicle) Advance(float64) Contact {
	f.pose.Heading += 5 * float64(f.intent.Steer)
	move := r2.Scale(f.stride*float64(f.intent.Throttle), f.pose.Forward())
	f.pose.Position = r2.Add(f.pose.Position, move)

	if len(f.contacts) == 0 {
		return None
	}
	c := f.contacts[0]
	f.contacts = f.contacts[1:]
	return c
}

// fakeCaster reports a hit at a fixed distance for rays pointing
// along hitDirection, and no hit otherwise
type fakeCaster struct {
	hitDirection *r2.Vec
	distance     float64
	ignored      []uint16
}

func (f *fakeCaster) Cast(_, direction r2.Vec, maxDistance float64,
	ignore uint16) (float64, bool) {
	f.ignored = append(f.ignored, ignore)
	if f.hitDirection == nil {
		return maxDistance, false
	}
	if r2.Norm(r2.Sub(direction, *f.hitDirection)) < 1e-9 {
		return f.distance, true
	}
	return maxDistance, false
}

// recordingIndicator remembers every state it was set to
type recordingIndicator struct {
	states []IndicatorState
}

func (r *recordingIndicator) SetState(s IndicatorState) {
	r.states = append(r.states, s)
}

// fixedStarter always starts the car at the same pose
type fixedStarter struct {
	pose Pose
}

func (f fixedStarter) Start() *mat.VecDense {
	return mat.NewVecDense(StartFeatures, []float64{
		f.pose.Position.X,
		f.pose.Position.Y,
		f.pose.Heading,
	})
}

// poseAt returns a pose at distance from the origin along +y, rotated
// by heading degrees
func poseAt(distance, heading float64) Pose {
	return Pose{Position: r2.Vec{Y: distance}, Heading: heading}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
