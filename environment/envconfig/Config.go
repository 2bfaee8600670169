// Package envconfig provides configuration of the parking environment
// and the lot it is simulated in. Configurations are read from JSON
// files with default values for every field.
package envconfig

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goparking/environment/box2d/lot"
	"github.com/samuelfneumann/goparking/environment/parking"
	ts "github.com/samuelfneumann/goparking/timestep"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// FileName is the name of the configuration file looked up by Load
const FileName = "parking.cfg.json"

// EnvironmentConfig configures the observations, rewards and episodes
// of the parking environment
type EnvironmentConfig struct {
	ObserveRays   int     `json:"observeRays" mapstructure:"observeRays"`
	SensorRange   float64 `json:"sensorRange" mapstructure:"sensorRange"`
	TickSeconds   float64 `json:"tickSeconds" mapstructure:"tickSeconds"`
	EpisodeCutoff int     `json:"episodeCutoff" mapstructure:"episodeCutoff"`
	Discount      float64 `json:"discount" mapstructure:"discount"`
}

// SlotConfig places the parking slot
type SlotConfig struct {
	X       float64 `json:"x" mapstructure:"x"`
	Y       float64 `json:"y" mapstructure:"y"`
	Heading float64 `json:"heading" mapstructure:"heading"`
	Width   float64 `json:"width" mapstructure:"width"`
	Length  float64 `json:"length" mapstructure:"length"`
}

// StartConfig configures the start poses of the car, see
// parking.LateralStarter
type StartConfig struct {
	X         float64 `json:"x" mapstructure:"x"`
	Y         float64 `json:"y" mapstructure:"y"`
	Heading   float64 `json:"heading" mapstructure:"heading"`
	JitterMin float64 `json:"jitterMin" mapstructure:"jitterMin"`
	JitterMax float64 `json:"jitterMax" mapstructure:"jitterMax"`
}

// BoxConfig places a static obstacle, such as a parked car
type BoxConfig struct {
	X       float64 `json:"x" mapstructure:"x"`
	Y       float64 `json:"y" mapstructure:"y"`
	Heading float64 `json:"heading" mapstructure:"heading"`
	Width   float64 `json:"width" mapstructure:"width"`
	Length  float64 `json:"length" mapstructure:"length"`
}

// LotConfig configures the geometry of the lot and the motion of the
// car
type LotConfig struct {
	Width     float64     `json:"width" mapstructure:"width"`
	Height    float64     `json:"height" mapstructure:"height"`
	Wall      float64     `json:"wall" mapstructure:"wall"`
	Obstacles []BoxConfig `json:"obstacles" mapstructure:"obstacles"`

	CarWidth  float64 `json:"carWidth" mapstructure:"carWidth"`
	CarLength float64 `json:"carLength" mapstructure:"carLength"`
	Speed     float64 `json:"speed" mapstructure:"speed"`
	TurnRate  float64 `json:"turnRate" mapstructure:"turnRate"`

	EnvironmentCategory uint16 `json:"environmentCategory" mapstructure:"environmentCategory"`
	CarCategory         uint16 `json:"carCategory" mapstructure:"carCategory"`
}

// RenderConfig configures rendering of the lot. Colours are given as
// hex strings, e.g. "#00c800".
type RenderConfig struct {
	Scale         float64 `json:"scale" mapstructure:"scale"`
	SuccessColour string  `json:"successColour" mapstructure:"successColour"`
	FailColour    string  `json:"failColour" mapstructure:"failColour"`
}

// Config implements a configuration of the parking environment and
// its lot
type Config struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
	Seed     uint64 `json:"seed" mapstructure:"seed"`

	Environment EnvironmentConfig `json:"environment" mapstructure:"environment"`
	Slot        SlotConfig        `json:"slot" mapstructure:"slot"`
	Start       StartConfig       `json:"start" mapstructure:"start"`
	Lot         LotConfig         `json:"lot" mapstructure:"lot"`
	Render      RenderConfig      `json:"render" mapstructure:"render"`
}

// setDefaults registers the default configuration with v
func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("seed", 0)

	v.SetDefault("environment.observeRays", 8)
	v.SetDefault("environment.sensorRange", parking.SensorRange)
	v.SetDefault("environment.tickSeconds", parking.TickSeconds)
	v.SetDefault("environment.episodeCutoff", 5000)
	v.SetDefault("environment.discount", 0.99)

	v.SetDefault("slot.x", 0.0)
	v.SetDefault("slot.y", 0.0)
	v.SetDefault("slot.heading", 0.0)
	v.SetDefault("slot.width", 2.5)
	v.SetDefault("slot.length", 5.0)

	v.SetDefault("start.x", 0.0)
	v.SetDefault("start.y", 8.0)
	v.SetDefault("start.heading", parking.StartHeading)
	v.SetDefault("start.jitterMin", parking.StartJitter.Min)
	v.SetDefault("start.jitterMax", parking.StartJitter.Max)

	v.SetDefault("lot.width", 30.0)
	v.SetDefault("lot.height", 30.0)
	v.SetDefault("lot.wall", 1.0)
	v.SetDefault("lot.obstacles", []map[string]interface{}{
		{"x": -3.0, "y": 0.0, "heading": 0.0, "width": 1.8, "length": 4.2},
		{"x": 3.0, "y": 0.0, "heading": 0.0, "width": 1.8, "length": 4.2},
	})
	v.SetDefault("lot.carWidth", 1.8)
	v.SetDefault("lot.carLength", 4.2)
	v.SetDefault("lot.speed", 5.0)
	v.SetDefault("lot.turnRate", 90.0)
	v.SetDefault("lot.environmentCategory", lot.EnvironmentCategory)
	v.SetDefault("lot.carCategory", lot.CarCategory)

	v.SetDefault("render.scale", 20.0)
	v.SetDefault("render.successColour", "#00c800")
	v.SetDefault("render.failColour", "#c80000")
}

// Default returns the default configuration
func Default() (Config, error) {
	v := viper.New()
	setDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("default: %v", err)
	}
	return c, nil
}

// Load reads the configuration file FileName from configDir, filling
// in default values for missing fields. The configuration is
// validated before it is returned.
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.AddConfigPath(configDir)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error reading config file: %v", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("error decoding config file: %v", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %v", err)
	}
	return c, nil
}

// Validate returns an error if the environment cannot be created from
// the Config
func (c Config) Validate() error {
	var errs []error

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %v", err))
	}
	if err := c.Park().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.LotConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Slot.Width <= 0 || c.Slot.Length <= 0 {
		errs = append(errs, fmt.Errorf("slot dimensions must be "+
			"positive, got %v × %v", c.Slot.Width, c.Slot.Length))
	}
	if c.Start.JitterMin > c.Start.JitterMax {
		errs = append(errs, fmt.Errorf("illegal start jitter [%v, %v]",
			c.Start.JitterMin, c.Start.JitterMax))
	}
	if c.Render.Scale <= 0 {
		errs = append(errs, fmt.Errorf("render scale must be positive, "+
			"got %v", c.Render.Scale))
	}
	if _, err := ParseColour(c.Render.SuccessColour); err != nil {
		errs = append(errs, fmt.Errorf("success colour: %v", err))
	}
	if _, err := ParseColour(c.Render.FailColour); err != nil {
		errs = append(errs, fmt.Errorf("fail colour: %v", err))
	}

	return errors.Join(errs...)
}

// Level returns the configured log level, defaulting to Info
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Park returns the configuration of the parking environment
func (c Config) Park() parking.Config {
	return parking.Config{
		ObserveRays:   c.Environment.ObserveRays,
		SensorRange:   c.Environment.SensorRange,
		IgnoreMask:    c.Lot.CarCategory,
		TickSeconds:   c.Environment.TickSeconds,
		EpisodeCutoff: c.Environment.EpisodeCutoff,
		Discount:      c.Environment.Discount,
	}
}

// LotConfig returns the configuration of the lot
func (c Config) LotConfig() lot.Config {
	obstacles := make([]lot.Box, len(c.Lot.Obstacles))
	for i, o := range c.Lot.Obstacles {
		obstacles[i] = lot.Box{
			X:       o.X,
			Y:       o.Y,
			Width:   o.Width,
			Length:  o.Length,
			Heading: o.Heading,
		}
	}

	return lot.Config{
		Width:               c.Lot.Width,
		Height:              c.Lot.Height,
		Wall:                c.Lot.Wall,
		Obstacles:           obstacles,
		CarWidth:            c.Lot.CarWidth,
		CarLength:           c.Lot.CarLength,
		Speed:               c.Lot.Speed,
		TurnRate:            c.Lot.TurnRate,
		EnvironmentCategory: c.Lot.EnvironmentCategory,
		CarCategory:         c.Lot.CarCategory,
	}
}

// Environment bundles a parking environment with the lot it is
// simulated in
type Environment struct {
	*parking.Park
	Lot       *lot.Lot
	Indicator *lot.Indicator
	Renderer  *lot.Renderer

	sensorRange float64
}

// Render draws the current state of the environment to a PNG file
func (e *Environment) Render(filename string) error {
	return e.Renderer.Render(filename, e.Rays(), e.sensorRange)
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create(log zerolog.Logger) (*Environment, ts.TimeStep,
	error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	l, err := lot.New(c.LotConfig())
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	slot := parking.NewSlot(r2.Vec{X: c.Slot.X, Y: c.Slot.Y},
		c.Slot.Heading, c.Slot.Width, c.Slot.Length)

	start := parking.Pose{
		Position: r2.Vec{X: c.Start.X, Y: c.Start.Y},
		Heading:  c.Start.Heading,
	}
	jitter := r1.Interval{Min: c.Start.JitterMin, Max: c.Start.JitterMax}
	s, err := parking.NewLateralStarter(start, jitter, c.Seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	// Colours were checked by Validate
	success, _ := ParseColour(c.Render.SuccessColour)
	fail, _ := ParseColour(c.Render.FailColour)
	indicator := lot.NewIndicator(success, fail)

	renderer, err := lot.NewRenderer(l, slot, indicator, c.Render.Scale)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	park, step, err := parking.New(c.Park(), slot, l, l, s,
		parking.WithIndicator(indicator), parking.WithLogger(log))
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	return &Environment{
		Park:      park,
		Lot:       l,
		Indicator: indicator,
		Renderer:  renderer,

		sensorRange: c.Environment.SensorRange,
	}, step, nil
}

// ParseColour parses a colour given as "#rrggbb" or "#rrggbbaa"
func ParseColour(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("illegal colour %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("illegal colour %q: %v", s, err)
	}

	return color.RGBA{
		R: uint8(value >> 24),
		G: uint8(value >> 16),
		B: uint8(value >> 8),
		A: uint8(value),
	}, nil
}
