// Package agent defines an agent interface along with agents that
// drive the car in the parking environment without learning
package agent

import (
	ts "github.com/samuelfneumann/goparking/timestep"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns from experience, and
// a Policy which chooses actions in each state.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextObs ts.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(ts.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()
}

// Policy represents a policy that an agent can have. Policies
// determine how agents select actions.
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
}

// noLearning implements the Learner interface for agents that do not
// learn
type noLearning struct{}

func (noLearning) Step() error                           { return nil }
func (noLearning) Observe(mat.Vector, ts.TimeStep) error { return nil }
func (noLearning) ObserveFirst(ts.TimeStep) error        { return nil }
func (noLearning) EndEpisode()                           {}
