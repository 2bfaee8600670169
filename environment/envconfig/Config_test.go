package envconfig

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goparking/environment/parking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func writeConfig(t *testing.T, cfg string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName),
		[]byte(cfg), 0644))
	return dir
}

func TestLoadDefaultValues(t *testing.T) {
	c, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, zerolog.InfoLevel, c.Level())
	assert.Equal(t, 8, c.Environment.ObserveRays)
	assert.Equal(t, parking.SensorRange, c.Environment.SensorRange)
	assert.Equal(t, parking.TickSeconds, c.Environment.TickSeconds)
	assert.Equal(t, 0.99, c.Environment.Discount)
	assert.Equal(t, parking.StartHeading, c.Start.Heading)
	assert.Equal(t, 1.0, c.Start.JitterMin)
	assert.Equal(t, 3.0, c.Start.JitterMax)
	assert.Len(t, c.Lot.Obstacles, 2)
	assert.Equal(t, uint16(0x0001), c.Lot.EnvironmentCategory)
	assert.Equal(t, uint16(0x0002), c.Lot.CarCategory)
	assert.Equal(t, "#00c800", c.Render.SuccessColour)

	d, err := Default()
	require.NoError(t, err)
	assert.Equal(t, d, c)
}

func TestLoadWithValidConfigFile(t *testing.T) {
	cfg := `{
		"logLevel": "debug",
		"seed": 42,
		"environment": { "observeRays": 16, "episodeCutoff": 100 },
		"slot": { "x": 1.5, "heading": 90 },
		"lot": {
			"width": 20,
			"obstacles": [ { "x": 4, "y": 4, "width": 2, "length": 4 } ]
		}
	}`
	c, err := Load(writeConfig(t, cfg))
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, c.Level())
	assert.Equal(t, uint64(42), c.Seed)
	assert.Equal(t, 16, c.Environment.ObserveRays)
	assert.Equal(t, 100, c.Environment.EpisodeCutoff)
	assert.Equal(t, 1.5, c.Slot.X)
	assert.Equal(t, 90.0, c.Slot.Heading)
	assert.Equal(t, 2.5, c.Slot.Width)
	assert.Equal(t, 20.0, c.Lot.Width)
	assert.Equal(t, 30.0, c.Lot.Height)
	require.Len(t, c.Lot.Obstacles, 1)
	assert.Equal(t, BoxConfig{X: 4, Y: 4, Width: 2, Length: 4},
		c.Lot.Obstacles[0])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"rays":   `{ "environment": { "observeRays": 0 } }`,
		"range":  `{ "environment": { "sensorRange": -1 } }`,
		"tick":   `{ "environment": { "tickSeconds": 0 } }`,
		"colour": `{ "render": { "failColour": "red" } }`,
		"level":  `{ "logLevel": "loud" }`,
		"jitter": `{ "start": { "jitterMin": 4, "jitterMax": 3 } }`,
		"lot":    `{ "lot": { "width": 0 } }`,
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, cfg))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestParseColour(t *testing.T) {
	c, err := ParseColour("#00c800")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 200, A: 255}, c)

	c, err = ParseColour("10203040")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, c)

	for _, s := range []string{"", "#fff", "#gggggg", "#1234567"} {
		_, err := ParseColour(s)
		assert.Error(t, err, s)
	}
}

func TestCreate(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	c.Seed = 7

	env, step, err := c.Create(zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, step.First())
	assert.Equal(t, parking.HeaderFeatures+8, step.Observation.Len())
	assert.True(t, env.ObservationSpec().Contains(step.Observation))

	// The car starts to the right of the start position
	car := env.Lot.Pose()
	assert.GreaterOrEqual(t, car.Position.X, 1.5-1e-9)
	assert.LessOrEqual(t, car.Position.X, 4.5+1e-9)
	assert.InDelta(t, 8, car.Position.Y, 1e-9)
	assert.InDelta(t, -90, car.Heading, 1e-9)

	// The slot is out of reach, so the indicator fails
	_, done, err := env.Step(mat.NewVecDense(2, []float64{1, 1}))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, parking.Fail, env.Indicator.State())

	file := filepath.Join(t.TempDir(), "lot.png")
	require.NoError(t, env.Render(file))
	assert.FileExists(t, file)
}

func TestCreateInvalidConfig(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	c.Environment.ObserveRays = 0

	_, _, err = c.Create(zerolog.Nop())
	assert.Error(t, err)
}
