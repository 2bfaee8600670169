package tracker

import (
	"fmt"

	ts "github.com/samuelfneumann/goparking/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment. Lengths are saved as float64 so that they can be loaded
// with LoadData, along with whether the episode ended by reaching a
// terminal state (the car parked) or by timing out.
//
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// length will not be saved.
type EpisodeLength struct {
	episodeLengths []float64
	terminal       int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track tracks the episode lengths in an experiment. When this function
// is called, it caches the episode length if the timestep passed to it
// is the last timestep in the episode.
func (e *EpisodeLength) Track(t ts.TimeStep) error {
	if !t.Last() {
		return nil
	}

	e.episodeLengths = append(e.episodeLengths, float64(t.Number))
	if end, _ := t.EndType(); end == ts.TerminalStateReached {
		e.terminal++
	}
	return nil
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength) Data() []float64 {
	return e.episodeLengths
}

// Terminal returns the number of episodes that ended in a terminal
// state
func (e *EpisodeLength) Terminal() int {
	return e.terminal
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	if err := save(e.filename, e.episodeLengths); err != nil {
		return fmt.Errorf("save episode lengths: %v", err)
	}
	return nil
}
