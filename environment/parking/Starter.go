package parking

import (
	"fmt"

	"github.com/samuelfneumann/goparking/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// LateralScale scales the jitter drawn by a LateralStarter
	LateralScale float64 = 1.5

	// StartHeading is the default heading of the car at the start of
	// an episode
	StartHeading float64 = -90
)

// StartJitter is the default interval that LateralStarter jitter is
// drawn from. Scaled by LateralScale, the car starts between 1.5 and
// 4.5 units to the right of its start position.
var StartJitter = r1.Interval{Min: 1, Max: 3}

// StartFeatures is the length of starting vectors: x, y, heading
const StartFeatures int = 3

// LateralStarter samples start poses for the car. Each start pose is
// the fixed start position shifted along the +x axis by a uniformly
// drawn jitter scaled by LateralScale, with the fixed start heading.
//
// Starting vectors have the form [x, y, heading].
type LateralStarter struct {
	start  Pose
	jitter environment.UniformStarter
}

// NewLateralStarter returns a new LateralStarter around start, drawing
// jitter from the argument interval using a source seeded with seed
func NewLateralStarter(start Pose, jitter r1.Interval,
	seed uint64) (*LateralStarter, error) {
	if jitter.Min > jitter.Max {
		return nil, fmt.Errorf("newLateralStarter: illegal jitter "+
			"interval [%v, %v]", jitter.Min, jitter.Max)
	}

	return &LateralStarter{
		start:  start,
		jitter: environment.NewUniformStarter([]r1.Interval{jitter}, seed),
	}, nil
}

// Start returns a starting vector
func (l *LateralStarter) Start() *mat.VecDense {
	r := l.jitter.Start().AtVec(0)
	position := r2.Add(l.start.Position, r2.Vec{X: r * LateralScale})

	return mat.NewVecDense(StartFeatures, []float64{
		position.X,
		position.Y,
		l.start.Heading,
	})
}

// poseFromStart converts a starting vector into a Pose
func poseFromStart(start *mat.VecDense) (Pose, error) {
	if start.Len() != StartFeatures {
		return Pose{}, fmt.Errorf("starting vectors should be "+
			"%v-dimensional, got %v", StartFeatures, start.Len())
	}

	return Pose{
		Position: r2.Vec{X: start.AtVec(0), Y: start.AtVec(1)},
		Heading:  start.AtVec(2),
	}, nil
}
