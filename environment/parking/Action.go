package parking

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goparking/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

const (
	// ActionDims is the number of action dimensions: steering first,
	// then throttle
	ActionDims int = 2

	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2
)

// Intent is the directional intent of the car. Each axis is in
// {-1, 0, 1}.
//
//	Axis		-1		0		1
//	Steer		Left	None	Right
//	Throttle	Reverse	None	Forward
type Intent struct {
	Steer    int
	Throttle int
}

// Interpret converts a discrete action into an Intent. Actions are
// 2-dimensional with each dimension in {0, 1, 2}:
//
//	Action	Steer	Throttle
//	  0		Left	Reverse
//	  1		None	None
//	  2		Right	Forward
func Interpret(a mat.Vector) (Intent, error) {
	if a.Len() != ActionDims {
		return Intent{}, fmt.Errorf("interpret: actions should be "+
			"%v-dimensional, got %v", ActionDims, a.Len())
	}

	var axes [2]int
	for i := range axes {
		value := a.AtVec(i)
		if value != math.Trunc(value) || value < float64(MinDiscreteAction) ||
			value > float64(MaxDiscreteAction) {
			return Intent{}, fmt.Errorf("interpret: illegal action %v "+
				"∉ (0, 1, 2)", a.AtVec(i))
		}

		// Convert action (0, 1, 2) to a direction (-1, 0, 1)
		axes[i] = int(value) - 1
	}

	return Intent{Steer: axes[0], Throttle: axes[1]}, nil
}

// Heuristic converts raw analog input axes, e.g. from a joystick or
// keyboard, into a discrete action. Each axis is rounded to the
// nearest direction in {-1, 0, 1} before being shifted into {0, 1, 2}.
// It is used for driving the car manually.
func Heuristic(horizontal, vertical float64) *mat.VecDense {
	return mat.NewVecDense(ActionDims, []float64{
		axisToAction(horizontal),
		axisToAction(vertical),
	})
}

func axisToAction(axis float64) float64 {
	if math.IsNaN(axis) {
		axis = 0
	}
	return floatutils.Clip(math.Round(axis), -1, 1) + 1
}
