package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goparking/agent"
	"github.com/samuelfneumann/goparking/environment"
	"github.com/samuelfneumann/goparking/environment/envconfig"
	"github.com/samuelfneumann/goparking/experiment"
	"github.com/samuelfneumann/goparking/experiment/checkpointer"
	"github.com/samuelfneumann/goparking/experiment/tracker"
	ts "github.com/samuelfneumann/goparking/timestep"
	"github.com/samuelfneumann/goparking/utils/progressbar"
	"gonum.org/v1/gonum/mat"
)

type runOptions struct {
	configDir   string
	steps       int
	agent       string
	returns     string
	lengths     string
	renderEvery int
	frames      string
}

// loadConfig loads the configuration in dir, or the default
// configuration if dir is empty
func loadConfig(dir string) (envconfig.Config, error) {
	if dir == "" {
		return envconfig.Default()
	}
	return envconfig.Load(dir)
}

// newLogger returns a console logger at the configured level
func newLogger(w io.Writer, c envconfig.Config) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}).Level(c.Level()).With().Timestamp().Logger()
}

// progress is a Tracker that advances a progress bar on every step
type progress struct {
	bar *progressbar.ManualProgressBar
}

func (p progress) Track(t ts.TimeStep) error {
	if !t.First() {
		p.bar.Increment()
		p.bar.Display()
	}
	return nil
}

func (p progress) Save() error { return nil }

func run(stdin io.Reader, stdout, stderr io.Writer, opts runOptions) error {
	c, err := loadConfig(opts.configDir)
	if err != nil {
		return err
	}
	log := newLogger(stderr, c)

	env, _, err := c.Create(log)
	if err != nil {
		return err
	}

	var a agent.Agent
	switch opts.agent {
	case "random":
		a, err = agent.NewRandom(env.ActionSpec(), c.Seed)
		if err != nil {
			return err
		}
	case "manual":
		a = agent.NewManual(agent.NewLineAxes(stdin))
	default:
		return fmt.Errorf("no such agent %q", opts.agent)
	}

	e := experiment.NewOnline(env, a, opts.steps, log,
		tracker.NewReturn(opts.returns),
		tracker.NewEpisodeLength(opts.lengths))

	if opts.renderEvery > 0 {
		if err := os.MkdirAll(opts.frames, 0755); err != nil {
			return fmt.Errorf("could not create frames directory: %v", err)
		}
		name := filepath.Join(opts.frames, "frame")
		frames, err := checkpointer.NewNStep(opts.renderEvery, env,
			checkpointer.FilenameEnumerator(0, name, ".png"))
		if err != nil {
			return err
		}
		e.RegisterCheckpointer(frames)
	}

	// Manual input is echoed on the terminal, so no progress bar
	if opts.agent != "manual" {
		bar := progressbar.NewManualProgressBar(stdout, 40, opts.steps)
		defer bar.Close()
		e.Register(progress{bar})
	}

	log.Info().
		Str("agent", opts.agent).
		Int("steps", opts.steps).
		Int("rays", c.Environment.ObserveRays).
		Uint64("seed", c.Seed).
		Msg("starting experiment")

	if err := e.Run(); err != nil {
		return err
	}
	if err := e.Save(); err != nil {
		return err
	}

	log.Info().
		Str("returns", opts.returns).
		Str("lengths", opts.lengths).
		Msg("saved episode data")
	return nil
}

func inspect(w io.Writer, configDir string) error {
	c, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("could not encode config: %v", err)
	}

	env, _, err := c.Create(zerolog.Nop())
	if err != nil {
		return err
	}

	for _, spec := range []environment.Spec{
		env.ObservationSpec(),
		env.ActionSpec(),
		env.RewardSpec(),
		env.DiscountSpec(),
	} {
		fmt.Fprintf(w, "%v: %v features, %v, %v to %v\n", spec.Type,
			spec.Shape.Len(), spec.Cardinality,
			formatVec(spec.LowerBound), formatVec(spec.UpperBound))
	}
	return nil
}

func formatVec(v *mat.VecDense) string {
	return fmt.Sprint(v.RawVector().Data)
}
