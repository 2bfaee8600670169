// Package checkpointer implements Checkpointers, which snapshot an
// experiment's environment at chosen timesteps
package checkpointer

import ts "github.com/samuelfneumann/goparking/timestep"

// Renderer is an object that can draw itself to a file
type Renderer interface {
	Render(filename string) error
}

// Checkpointer checkpoints objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
