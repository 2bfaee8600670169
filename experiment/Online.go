package experiment

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goparking/agent"
	env "github.com/samuelfneumann/goparking/environment"
	"github.com/samuelfneumann/goparking/experiment/checkpointer"
	"github.com/samuelfneumann/goparking/experiment/tracker"
	ts "github.com/samuelfneumann/goparking/timestep"
)

// ErrStopped is returned by Stopper agents that have no more actions
// to take, e.g. manual agents whose input is exhausted
var ErrStopped = errors.New("agent stopped")

// Stopper is an agent that may stop acting before the experiment's
// step budget is exhausted. Err reports why the agent stopped: nil or
// io.EOF for a clean stop, any other error for a failure.
type Stopper interface {
	Done() bool
	Err() error
}

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      int
	currentSteps  int
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	log           zerolog.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter is a
// slice of tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps int,
	log zerolog.Logger, t ...tracker.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
		log:         log,
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RegisterCheckpointer registers a checkpointer.Checkpointer with an
// Experiment so that it is sent every TimeStep of the experiment
func (o *Online) RegisterCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// Steps returns the number of steps run so far
func (o *Online) Steps() int {
	return o.currentSteps
}

// RunEpisode runs a single episode of the experiment and returns
// whether the step budget is exhausted
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}
	if err := o.track(step); err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		if s, ok := o.Agent.(Stopper); ok && s.Done() {
			if err := s.Err(); err != nil && !errors.Is(err, io.EOF) {
				return false, fmt.Errorf("runEpisode: agent failed: %v", err)
			}
			return true, ErrStopped
		}

		o.currentSteps++
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		// Cache the environment step in each Tracker
		if err := o.track(step); err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}
	}

	if step.Last() {
		o.Agent.EndEpisode()
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps. Run returns
// without error when a Stopper agent stops cleanly before the step
// budget is exhausted.
func (o *Online) Run() error {
	episodes := 0
	for {
		ended, err := o.RunEpisode()
		if errors.Is(err, ErrStopped) {
			o.log.Info().Int("steps", o.currentSteps).Msg("agent stopped")
			return nil
		}
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}

		episodes++
		if ended {
			o.log.Info().
				Int("steps", o.currentSteps).
				Int("episodes", episodes).
				Msg("step budget exhausted")
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// track tracks the current timestep by caching its data in each
// tracker and sending it to each checkpointer
func (o *Online) track(t ts.TimeStep) error {
	for _, tracker := range o.trackers {
		if err := tracker.Track(t); err != nil {
			return err
		}
	}
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
