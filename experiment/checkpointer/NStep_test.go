package checkpointer

import (
	"errors"
	"testing"

	ts "github.com/samuelfneumann/goparking/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renderFunc func(string) error

func (r renderFunc) Render(filename string) error { return r(filename) }

func TestNStep(t *testing.T) {
	var files []string
	record := renderFunc(func(f string) error {
		files = append(files, f)
		return nil
	})

	_, err := NewNStep(0, record, FilenameEnumerator(0, "f", ".png"))
	assert.Error(t, err)

	c, err := NewNStep(3, record, FilenameEnumerator(9, "out/f", ".png"))
	require.NoError(t, err)

	for i := 0; i <= 7; i++ {
		require.NoError(t, c.Checkpoint(ts.New(ts.Mid, 0, 1, nil, i)))
	}
	assert.Equal(t, []string{"out/f000010.png", "out/f000011.png",
		"out/f000012.png"}, files)
}

func TestNStepRenderError(t *testing.T) {
	fail := renderFunc(func(string) error { return errors.New("disk full") })

	c, err := NewNStep(1, fail, FilenameEnumerator(0, "f", ".png"))
	require.NoError(t, err)
	assert.ErrorContains(t, c.Checkpoint(ts.New(ts.First, 0, 1, nil, 0)),
		"disk full")
}
