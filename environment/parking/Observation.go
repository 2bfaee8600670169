package parking

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goparking/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// SensorRange is the default maximum distance a sensor ray measures
	SensorRange float64 = 20

	// HeaderFeatures is the number of observation features preceding
	// the sensor readings: the slot's x and y position relative to the
	// car, the car's heading, and the inverted parking flag
	HeaderFeatures int = 4
)

// Raycaster casts rays into the world. Cast returns the distance from
// origin to the nearest surface along direction within maxDistance,
// skipping surfaces whose collision category intersects ignore. The
// boolean is false if nothing was hit.
type Raycaster interface {
	Cast(origin, direction r2.Vec, maxDistance float64,
		ignore uint16) (float64, bool)
}

// SensorRay is a single reading of the sensor fan, kept for
// visualization only
type SensorRay struct {
	Direction r2.Vec
	Distance  float64
}

// Encoder builds observation vectors. Observations consist of the
// following features in the following order:
//
//  1. The x position of the slot relative to the car
//  2. The y position of the slot relative to the car
//  3. The heading of the car in degrees, in [0, 360)
//  4. 0 if the car is parked and 1 otherwise
//  5. Rays distance readings, evenly spaced around the car
//
// Sensor rays are spaced 360/rays degrees apart and rotate with the
// car. A ray that hits nothing within range reads exactly the sensor
// range.
type Encoder struct {
	rays        int
	step        float64
	sensorRange float64
	ignore      uint16
}

// NewEncoder returns an Encoder with the given number of sensor rays
// and sensor range. Surfaces whose collision category intersects
// ignore, usually the car itself, are invisible to the sensors.
func NewEncoder(rays int, sensorRange float64, ignore uint16) (*Encoder,
	error) {
	if rays <= 0 {
		return nil, fmt.Errorf("newEncoder: number of sensor rays must be "+
			"positive, got %v", rays)
	}
	if sensorRange <= 0 {
		return nil, fmt.Errorf("newEncoder: sensor range must be "+
			"positive, got %v", sensorRange)
	}

	return &Encoder{
		rays:        rays,
		step:        360 / float64(rays),
		sensorRange: sensorRange,
		ignore:      ignore,
	}, nil
}

// Len returns the length of the observation vectors built by the
// Encoder
func (e *Encoder) Len() int {
	return HeaderFeatures + e.rays
}

// Rays returns the number of sensor rays
func (e *Encoder) Rays() int {
	return e.rays
}

// Range returns the sensor range
func (e *Encoder) Range() float64 {
	return e.sensorRange
}

// Encode returns the observation for a car at the argument pose, along
// with the individual sensor readings.
func (e *Encoder) Encode(car Pose, slot *Slot, parked bool,
	caster Raycaster) (*mat.VecDense, []SensorRay) {
	obs := make([]float64, e.Len())

	// Position of the slot relative to the car on the ground plane
	relative := r2.Sub(slot.Position, car.Position)
	obs[0] = relative.X
	obs[1] = relative.Y

	obs[2] = floatutils.Wrap(car.Heading, 0, 360)

	if !parked {
		obs[3] = 1
	}

	rays := make([]SensorRay, e.rays)
	for i := range rays {
		angle := (float64(i)*e.step - car.Heading) * math.Pi / 180
		direction := r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}

		distance := e.sensorRange
		if hit, ok := caster.Cast(car.Position, direction, e.sensorRange,
			e.ignore); ok {
			distance = floatutils.Clip(hit, 0, e.sensorRange)
		}

		obs[HeaderFeatures+i] = distance
		rays[i] = SensorRay{Direction: direction, Distance: distance}
	}

	return mat.NewVecDense(len(obs), obs), rays
}
