// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/samuelfneumann/goparking/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes should end
type Ender interface {
	// End checks whether the argument TimeStep ends the episode. If so,
	// it modifies the TimeStep's StepType and EndType and returns true.
	End(*ts.TimeStep) bool
}

// Environment implements a simualted environment. Environments start
// ready to use: their constructors return the first TimeStep of the
// first episode.
type Environment interface {
	Reset() (ts.TimeStep, error) // Resets between episodes
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)
	LastTimeStep() ts.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
