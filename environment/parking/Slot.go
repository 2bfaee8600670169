package parking

import (
	"math"

	"github.com/samuelfneumann/goparking/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// MaxParkDistance is the largest distance between the car and the
	// centre of the slot at which the car counts as parked
	MaxParkDistance float64 = 2.25

	// MaxParkAngle is the largest misalignment, in degrees, between the
	// car's forward axis and the slot's long axis at which the car
	// counts as parked
	MaxParkAngle float64 = 25
)

// Pose is a position on the ground plane together with a heading.
//
// Headings are in degrees and measured clockwise from the +y axis, so
// that a heading of 0 faces +y and a heading of 90 faces +x.
type Pose struct {
	Position r2.Vec
	Heading  float64
}

// Forward returns the unit vector the pose is facing
func (p Pose) Forward() r2.Vec {
	rad := p.Heading * math.Pi / 180
	return r2.Vec{X: math.Sin(rad), Y: math.Cos(rad)}
}

// IndicatorState is the visual state of a slot's indicator
type IndicatorState int

const (
	Fail IndicatorState = iota
	Success
)

func (i IndicatorState) String() string {
	if i == Success {
		return "Success"
	}
	return "Fail"
}

// Indicator is notified of the outcome of every parking check so that
// it can show it, e.g. by colouring the slot. SetState must not block.
type Indicator interface {
	SetState(IndicatorState)
}

// ParkStatus is the outcome of a single parking check
type ParkStatus struct {
	Parked bool

	// Angle is the misalignment in degrees measured by the check,
	// in [0, 90]
	Angle float64
}

// Slot is a rectangular parking slot. The slot may be entered from
// either of its short sides, so a car is aligned with the slot when
// it faces along the slot's heading or against it.
type Slot struct {
	Pose
	Width  float64
	Length float64
}

// NewSlot returns a new Slot centred on position
func NewSlot(position r2.Vec, heading, width, length float64) *Slot {
	return &Slot{
		Pose:   Pose{Position: position, Heading: heading},
		Width:  width,
		Length: length,
	}
}

// Distance returns the Euclidean distance between the car and the
// centre of the slot
func (s *Slot) Distance(car Pose) float64 {
	return r2.Norm(r2.Sub(s.Position, car.Position))
}

// Alignment returns the angle in degrees between the car's forward
// axis and the nearer of the slot's two normals
func (s *Slot) Alignment(car Pose) float64 {
	up := s.Forward()
	forward := car.Forward()

	angle1 := angleBetween(forward, r2.Scale(-1, up))
	angle2 := angleBetween(forward, up)

	return math.Min(angle1, angle2)
}

// CheckParkStatus determines whether the car is parked in the slot.
// The distance argument is the precomputed distance between the car
// and the slot, see Distance. If indicator is non-nil, it is set to
// Success or Fail according to the outcome.
func (s *Slot) CheckParkStatus(car Pose, distance float64,
	indicator Indicator) ParkStatus {
	angle := s.Alignment(car)
	parked := IsParked(distance, angle)

	if indicator != nil {
		if parked {
			indicator.SetState(Success)
		} else {
			indicator.SetState(Fail)
		}
	}

	return ParkStatus{Parked: parked, Angle: angle}
}

// IsParked returns whether a car at the given distance from a slot and
// misaligned by angle degrees is within parking tolerance
func IsParked(distance, angle float64) bool {
	return distance <= MaxParkDistance && angle <= MaxParkAngle
}

// angleBetween returns the unsigned angle in degrees between a and b
func angleBetween(a, b r2.Vec) float64 {
	cos := floatutils.Clip(r2.Cos(a, b), -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}
