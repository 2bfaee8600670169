// Package parking implements an environment in which a car must learn
// to park in a marked slot.
//
// Every tick, the environment checks whether the car is parked, shapes
// a reward from the car's parking status, its progress towards the
// slot and its collisions, and builds an observation from the car's
// pose and a fan of distance sensors. An episode ends successfully once
// the car stays parked for StayTime seconds.
//
// The physics of the world are provided by collaborators: a Vehicle
// that moves the car and reports collisions, and a Raycaster that the
// distance sensors use. Package box2d/lot implements both.
package parking

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goparking/environment"
	ts "github.com/samuelfneumann/goparking/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// TickSeconds is the default simulated duration of a tick
	TickSeconds float64 = 1.0 / 50

	// MaxReward is the largest reward a single tick can earn: the park
	// bonus, the largest terminal bonus and a progress reward
	MaxReward float64 = ParkBonus + 1.0 + ProgressReward
)

// Vehicle is the car's motion model.
type Vehicle interface {
	// Pose returns the current pose of the car
	Pose() Pose

	// SetIntent sets the directional intent used by following calls
	// to Advance
	SetIntent(Intent)

	// Reset places the car at position with the given heading and
	// brings it to a stop
	Reset(position r2.Vec, heading float64)

	// Advance moves the car forward in time by dt seconds and reports
	// its contact with environment obstacles during that time
	Advance(dt float64) Contact
}

// Config configures a Park environment
type Config struct {
	// ObserveRays is the number of distance sensors
	ObserveRays int

	// SensorRange is the maximum distance a sensor measures
	SensorRange float64

	// IgnoreMask is the collision category of surfaces the sensors
	// cannot see, usually the car itself
	IgnoreMask uint16

	// TickSeconds is the simulated duration of a tick
	TickSeconds float64

	// EpisodeCutoff is the maximum number of ticks in an episode. Zero
	// means episodes only end once the car has parked.
	EpisodeCutoff int

	Discount float64
}

// Validate returns an error if the Config cannot be used to construct
// an environment
func (c Config) Validate() error {
	if c.ObserveRays <= 0 {
		return fmt.Errorf("observe rays must be positive, got %v",
			c.ObserveRays)
	}
	if c.SensorRange <= 0 {
		return fmt.Errorf("sensor range must be positive, got %v",
			c.SensorRange)
	}
	if c.TickSeconds <= 0 {
		return fmt.Errorf("tick duration must be positive, got %v",
			c.TickSeconds)
	}
	if c.EpisodeCutoff < 0 {
		return fmt.Errorf("episode cutoff must be non-negative, got %v",
			c.EpisodeCutoff)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1], got %v", c.Discount)
	}
	return nil
}

// Option configures optional collaborators of a Park environment
type Option func(*Park)

// WithIndicator attaches an Indicator that is notified of the outcome
// of every parking check
func WithIndicator(i Indicator) Option {
	return func(p *Park) { p.indicator = i }
}

// WithLogger sets the logger of the environment. By default, nothing
// is logged.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Park) { p.log = log }
}

// Park implements the parking environment.
//
// Actions are 2-dimensional and discrete, see Interpret. Observations
// are described by Encoder. Rewards are shaped as follows:
//
//	Event										Reward
//	Car becomes parked							+0.5
//	Car stays parked for StayTime seconds		TerminalBonus, ends episode
//	Every ProgressInterval ticks, not further	+0.01
//	Every ProgressInterval ticks, further		-distance/100
//	First tick of a collision					-1
//	Each following tick of the collision		-0.025
//
// Park implements the environment.Environment interface. It is not
// safe for concurrent use; each agent should own its own Park.
type Park struct {
	slot    *Slot
	vehicle Vehicle
	caster  Raycaster
	starter environment.Starter

	indicator Indicator
	log       zerolog.Logger

	encoder *Encoder
	episode *Episode
	cutoff  environment.Ender

	tick     float64
	discount float64

	lastStep ts.TimeStep
	status   ParkStatus
	rays     []SensorRay
	episodes int
}

// New returns a new Park environment and the first TimeStep of its
// first episode. Starting poses are drawn from s, which must return
// starting vectors of the form [x, y, heading], see LateralStarter.
func New(c Config, slot *Slot, v Vehicle, caster Raycaster,
	s environment.Starter, opts ...Option) (*Park, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: invalid config: %v", err)
	}
	if slot == nil || v == nil || caster == nil || s == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: slot, vehicle, " +
			"raycaster and starter must all be non-nil")
	}

	encoder, err := NewEncoder(c.ObserveRays, c.SensorRange, c.IgnoreMask)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	p := &Park{
		slot:     slot,
		vehicle:  v,
		caster:   caster,
		starter:  s,
		log:      zerolog.Nop(),
		encoder:  encoder,
		episode:  &Episode{},
		cutoff:   environment.NewStepLimit(c.EpisodeCutoff),
		tick:     c.TickSeconds,
		discount: c.Discount,
	}
	for _, opt := range opts {
		opt(p)
	}

	step, err := p.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	return p, step, nil
}

// Reset resets the environment to a starting pose drawn from the
// environment's Starter and returns the first TimeStep of the new
// episode
func (p *Park) Reset() (ts.TimeStep, error) {
	start, err := poseFromStart(p.starter.Start())
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	p.vehicle.SetIntent(Intent{})
	p.vehicle.Reset(start.Position, start.Heading)

	car := p.vehicle.Pose()
	p.episode.Reset(p.slot.Distance(car))
	p.status = ParkStatus{Angle: p.slot.Alignment(car)}

	obs, rays := p.encoder.Encode(car, p.slot, false, p.caster)
	p.rays = rays
	p.lastStep = ts.New(ts.First, 0, p.discount, obs, 0)
	p.episodes++

	p.log.Debug().
		Int("episode", p.episodes).
		Float64("x", start.Position.X).
		Float64("y", start.Position.Y).
		Float64("heading", start.Heading).
		Msg("episode started")

	return p.lastStep, nil
}

// Step takes one environmental step given action a and returns the
// next TimeStep and whether or not the episode has ended. Stepping an
// environment whose episode has ended is an error; call Reset first.
func (p *Park) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if p.lastStep.Last() {
		return p.lastStep, true, fmt.Errorf("step: episode has ended, " +
			"the environment must be reset")
	}

	intent, err := Interpret(a)
	if err != nil {
		return p.lastStep, false, fmt.Errorf("step: %v", err)
	}

	// Move the car
	p.vehicle.SetIntent(intent)
	contact := p.vehicle.Advance(p.tick)
	reward := p.episode.Collide(contact)

	// Check the parking status and shape the reward
	car := p.vehicle.Pose()
	distance := p.slot.Distance(car)
	p.status = p.slot.CheckParkStatus(car, distance, p.indicator)

	parkReward, parked := p.episode.Park(p.status, distance, p.tick)
	reward += parkReward

	number := p.lastStep.Number + 1
	reward += p.episode.Progress(number, distance)

	obs, rays := p.encoder.Encode(car, p.slot, p.episode.Parked(), p.caster)
	p.rays = rays

	step := ts.New(ts.Mid, reward, p.discount, obs, number)
	if parked {
		step.StepType = ts.Last
		step.SetEnd(ts.TerminalStateReached)
	} else {
		p.cutoff.End(&step)
	}
	p.lastStep = step

	if contact == Enter {
		p.log.Debug().
			Int("episode", p.episodes).
			Int("step", number).
			Msg("collision")
	}
	if step.Last() {
		end, _ := step.EndType()
		p.log.Debug().
			Int("episode", p.episodes).
			Int("steps", number).
			Float64("return", p.episode.Return()).
			Stringer("end", end).
			Msg("episode ended")
	}

	return step, step.Last(), nil
}

// LastTimeStep returns the most recent TimeStep
func (p *Park) LastTimeStep() ts.TimeStep {
	return p.lastStep
}

// Slot returns the parking slot of the environment
func (p *Park) Slot() *Slot {
	return p.slot
}

// Status returns the outcome of the most recent parking check
func (p *Park) Status() ParkStatus {
	return p.status
}

// Episode returns the state of the current episode
func (p *Park) Episode() *Episode {
	return p.episode
}

// Rays returns the sensor readings of the most recent observation
func (p *Park) Rays() []SensorRay {
	return p.rays
}

// ActionSpec returns the action specification of the environment
func (p *Park) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{
		float64(MinDiscreteAction),
		float64(MinDiscreteAction),
	})
	upperBound := mat.NewVecDense(ActionDims, []float64{
		float64(MaxDiscreteAction),
		float64(MaxDiscreteAction),
	})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Park) ObservationSpec() environment.Spec {
	features := p.encoder.Len()
	shape := mat.NewVecDense(features, nil)

	lower := make([]float64, features)
	upper := make([]float64, features)

	// Relative slot position
	lower[0], upper[0] = math.Inf(-1), math.Inf(1)
	lower[1], upper[1] = math.Inf(-1), math.Inf(1)

	// Heading
	lower[2], upper[2] = 0, 360

	// Parking flag
	lower[3], upper[3] = 0, 1

	for i := HeaderFeatures; i < features; i++ {
		lower[i], upper[i] = 0, p.encoder.Range()
	}

	return environment.NewSpec(shape, environment.Observation,
		mat.NewVecDense(features, lower), mat.NewVecDense(features, upper),
		environment.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (p *Park) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{p.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

// RewardSpec returns the reward specification of the environment.
// Progress penalties grow with the distance to the slot, so rewards
// have no lower bound.
func (p *Park) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{math.Inf(-1)})
	upperBound := mat.NewVecDense(1, []float64{MaxReward})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}

// String returns a string representation of the environment
func (p *Park) String() string {
	str := "Park  |  Position: (%.2f, %.2f)  |  Heading: %.1f  |  " +
		"Parked: %v"
	car := p.vehicle.Pose()
	return fmt.Sprintf(str, car.Position.X, car.Position.Y, car.Heading,
		p.status.Parked)
}
