package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/goparking/experiment/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T, agent string) runOptions {
	dir := t.TempDir()
	return runOptions{
		steps:   30,
		agent:   agent,
		returns: filepath.Join(dir, "returns.bin"),
		lengths: filepath.Join(dir, "lengths.bin"),
		frames:  filepath.Join(dir, "frames"),
	}
}

func TestRunRandom(t *testing.T) {
	opts := testOptions(t, "random")
	opts.renderEvery = 10

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(strings.NewReader(""), &stdout, &stderr, opts))

	assert.Contains(t, stdout.String(), "100.00%")
	assert.Contains(t, stderr.String(), "starting experiment")

	// No episode finishes within 30 steps of the default configuration
	returns, err := tracker.LoadData(opts.returns)
	require.NoError(t, err)
	assert.Empty(t, returns)

	frames, err := os.ReadDir(opts.frames)
	require.NoError(t, err)
	assert.Len(t, frames, 4)
}

func TestRunManual(t *testing.T) {
	opts := testOptions(t, "manual")

	var stdout, stderr bytes.Buffer
	input := strings.NewReader("0 1\n0 1\n1 1\n")
	require.NoError(t, run(input, &stdout, &stderr, opts))

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "agent stopped")
	assert.FileExists(t, opts.lengths)
}

func TestRunManualBadInput(t *testing.T) {
	opts := testOptions(t, "manual")

	var stdout, stderr bytes.Buffer
	input := strings.NewReader("1 1\n1 x\n2 2\n")
	err := run(input, &stdout, &stderr, opts)
	assert.ErrorContains(t, err, "line 2")

	assert.NotContains(t, stderr.String(), "agent stopped")
	assert.NotContains(t, stderr.String(), "saved episode data")
	assert.NoFileExists(t, opts.lengths)
}

func TestRunUnknownAgent(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(strings.NewReader(""), &stdout, &stderr,
		testOptions(t, "expert"))
	assert.ErrorContains(t, err, "no such agent")
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, inspect(&out, ""))

	assert.Contains(t, out.String(), `"observeRays": 8`)
	assert.Contains(t, out.String(), "Observation: 12 features")
	assert.Contains(t, out.String(), "Action: 2 features, Discrete")
}

func TestInspectMissingConfig(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, inspect(&out, filepath.Join(t.TempDir(), "missing")))
}
