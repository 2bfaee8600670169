package checkpointer

import (
	"fmt"

	ts "github.com/samuelfneumann/goparking/timestep"
)

// nStep implements checkpointing every N steps
type nStep struct {
	interval int
	object   Renderer // Object to render

	// filename returns the string filename of the file to render the
	// object to.
	//
	// If each frame should be saved in a separate file with each file
	// having an incremented number as a suffix (e.g. frame1.png,
	// frame2.png, ..., frameK.png), then simply use the static function
	// FilenameEnumerator, which will return a function that will
	// enumerate filenames. For example:
	//
	// n := NewNStep(10, object, FilenameEnumerator(0, "frame", ".png"))
	filename func() string
}

// NewNStep returns a checkpointer that renders object every n steps
// of an episode, including the first step
func NewNStep(n int, object Renderer,
	filename func() string) (Checkpointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: interval must be positive, got %v",
			n)
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint renders the Checkpointer's tracked object if the
// timestep falls on the interval
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.Number%n.interval == 0 {
		if err := n.object.Render(n.filename()); err != nil {
			return fmt.Errorf("checkpoint: %v", err)
		}
	}
	return nil
}
