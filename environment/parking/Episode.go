package parking

import "github.com/samuelfneumann/goparking/utils/floatutils"

const (
	// StayTime is how long, in seconds, the car must stay parked before
	// the episode ends successfully
	StayTime float64 = 1.0

	// stayTolerance absorbs rounding when summing tick durations
	stayTolerance float64 = 1e-9

	// ParkBonus is granted each time the car goes from not parked to
	// parked
	ParkBonus float64 = 0.5

	// ProgressInterval is the number of ticks between two progress
	// checks
	ProgressInterval int = 10

	// ProgressReward is granted by a progress check when the car did
	// not move away from the slot since the previous check
	ProgressReward float64 = 0.01

	// CollisionPenalty is given on the first tick of contact with the
	// environment, ContactPenalty on every following tick of contact
	CollisionPenalty float64 = -1
	ContactPenalty   float64 = -0.025
)

// Contact describes the car's contact with environment obstacles
// during a single tick
type Contact int

const (
	None  Contact = iota // No contact
	Enter                // Contact began this tick
	Stay                 // Contact continued from the previous tick
)

func (c Contact) String() string {
	switch c {
	case Enter:
		return "Enter"
	case Stay:
		return "Stay"
	default:
		return "None"
	}
}

// Episode tracks the reward-relevant state of a single episode: the
// stay timer that confirms sustained parking, the previous tick's
// parking status for edge detection, and the distance at the last
// progress check.
//
// An Episode is owned by a single environment and is not safe for
// concurrent use.
type Episode struct {
	parkedFor    float64
	lastParked   bool
	prevDistance float64
	total        float64
	done         bool
}

// NewEpisode returns a new Episode, reset for a car at the given
// distance from the slot
func NewEpisode(distance float64) *Episode {
	e := &Episode{}
	e.Reset(distance)
	return e
}

// Reset clears the episode state. The distance argument is the car's
// starting distance from the slot and serves as the reference for the
// first progress check.
func (e *Episode) Reset(distance float64) {
	e.parkedFor = 0
	e.lastParked = false
	e.prevDistance = distance
	e.total = 0
	e.done = false
}

// Park advances the stay timer by dt seconds given this tick's parking
// status and distance to the slot. It returns the reward earned and
// whether the car has now stayed parked for StayTime seconds, which
// ends the episode.
//
// ParkBonus is earned only on the tick the car becomes parked. Once the
// stay timer runs out, TerminalBonus is earned on top, so both may be
// earned on the same tick.
func (e *Episode) Park(status ParkStatus, distance, dt float64) (float64,
	bool) {
	reward := 0.0

	if status.Parked {
		if !e.lastParked {
			reward += ParkBonus
		}

		e.parkedFor += dt
		if e.parkedFor >= StayTime-stayTolerance {
			reward += TerminalBonus(distance, status.Angle)
			e.done = true
		}
	} else {
		e.parkedFor = 0
	}
	e.lastParked = status.Parked

	e.total += reward
	return reward, e.done
}

// Progress returns the shaping reward for the given tick. Every
// ProgressInterval ticks, the car is rewarded with ProgressReward if
// it is no further from the slot than at the previous check and
// penalized by distance/100 otherwise. All other ticks earn nothing.
func (e *Episode) Progress(tick int, distance float64) float64 {
	if tick%ProgressInterval != 0 {
		return 0
	}

	reward := -distance / 100
	if distance <= e.prevDistance {
		reward = ProgressReward
	}
	e.prevDistance = distance

	e.total += reward
	return reward
}

// Collide returns the penalty for the tick's contact with the
// environment
func (e *Episode) Collide(c Contact) float64 {
	reward := 0.0
	switch c {
	case Enter:
		reward = CollisionPenalty
	case Stay:
		reward = ContactPenalty
	}

	e.total += reward
	return reward
}

// Parked returns the parking status of the most recent tick
func (e *Episode) Parked() bool { return e.lastParked }

// StayTimer returns the seconds left before a parked car ends the
// episode
func (e *Episode) StayTimer() float64 { return StayTime - e.parkedFor }

// Done returns whether the car stayed parked long enough to end the
// episode
func (e *Episode) Done() bool { return e.done }

// Return returns the sum of all rewards earned this episode
func (e *Episode) Return() float64 { return e.total }

// TerminalBonus returns the bonus for ending an episode parked at the
// given distance and misalignment angle. The bonus is the sum of a
// distance term and an angle term, each in [0, 0.5], which grow as the
// car gets closer to the centre of the slot and better aligned.
func TerminalBonus(distance, angle float64) float64 {
	distanceBonus := (MaxParkDistance - distance) / (2 * MaxParkDistance)
	angleBonus := (MaxParkAngle - angle) / (2 * MaxParkAngle)

	return floatutils.Clip(distanceBonus, 0, 0.5) +
		floatutils.Clip(angleBonus, 0, 0.5)
}
