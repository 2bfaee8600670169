// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/samuelfneumann/goparking/experiment/checkpointer"
	"github.com/samuelfneumann/goparking/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function will then take
// all cached data and save it to disk. This is usually performed after
// an experiment has been run. The Run() method will run all episodes
// util the maximum timestep limit is reached. The RunEpisode() function
// will run a single episode.
//
// In order to save data, Experiments use Trackers, which determine
// which data generated during the experiment is saved. Experiments
// send each TimeStep to Trackers using the Tracker's Track() method.
// Checkpointers are sent each TimeStep as well, and can snapshot the
// environment, e.g. by rendering it.
type Experiment interface {
	Run() error

	// RunEpisode returns whether the step budget is exhausted
	RunEpisode() (bool, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)

	// Adds a new checkpointer.Checkpointer to the experiment
	RegisterCheckpointer(c checkpointer.Checkpointer)
}
