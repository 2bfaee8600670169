package agent

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goparking/environment"
	ts "github.com/samuelfneumann/goparking/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects actions uniformly at random from a discrete action
// space. Dimension i of each action is sampled from a uniform
// categorical distribution over (0, 1, ... N) where N is the upper
// bound of dimension i in the action specification.
type Random struct {
	noLearning

	seed uint64
	rand []distuv.Categorical
}

// NewRandom returns a new Random agent acting in an environment with
// the given action specification
func NewRandom(actionSpec environment.Spec, seed uint64) (*Random, error) {
	if actionSpec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newRandom: cannot use %v actions",
			actionSpec.Cardinality)
	}
	if actionSpec.LowerBound.AtVec(0) != 0 {
		return nil, fmt.Errorf("newRandom: actions must start at 0")
	}

	source := rand.NewSource(seed)

	dims := actionSpec.Shape.Len()
	rand := make([]distuv.Categorical, dims)
	for i := range rand {
		// Create the weights for the uniform categorical distribution
		n := int(actionSpec.UpperBound.AtVec(i)) + 1
		weights := make([]float64, n)
		for j := range weights {
			weights[j] = 1.0 / float64(n)
		}

		rand[i] = distuv.NewCategorical(weights, source)
	}

	return &Random{seed: seed, rand: rand}, nil
}

// SelectAction returns a random action
func (r *Random) SelectAction(ts.TimeStep) *mat.VecDense {
	action := make([]float64, len(r.rand))
	for i := range action {
		action[i] = r.rand[i].Rand()
	}

	return mat.NewVecDense(len(action), action)
}

// Seed returns the seed of the agent's source
func (r *Random) Seed() uint64 {
	return r.seed
}
