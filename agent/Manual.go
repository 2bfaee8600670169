package agent

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samuelfneumann/goparking/environment/parking"
	ts "github.com/samuelfneumann/goparking/timestep"
	"gonum.org/v1/gonum/mat"
)

// AxisReader reads the horizontal and vertical axes of some input
// device, such as a joystick
type AxisReader interface {
	Axes() (horizontal, vertical float64, err error)
}

// LineAxes reads axes from lines of text, each holding the horizontal
// and vertical axis separated by whitespace, e.g. "1 -0.5". Empty lines
// are skipped.
type LineAxes struct {
	scanner *bufio.Scanner
	line    int
}

// NewLineAxes returns a new LineAxes reading from r
func NewLineAxes(r io.Reader) *LineAxes {
	return &LineAxes{scanner: bufio.NewScanner(r)}
}

// Axes returns the axes on the next line. Once the input is exhausted,
// it returns io.EOF.
func (l *LineAxes) Axes() (float64, float64, error) {
	for l.scanner.Scan() {
		l.line++

		fields := strings.Fields(l.scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return 0, 0, fmt.Errorf("line %v: expected 2 axes, got %v",
				l.line, len(fields))
		}

		horizontal, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("line %v: %v", l.line, err)
		}
		vertical, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("line %v: %v", l.line, err)
		}
		return horizontal, vertical, nil
	}

	if err := l.scanner.Err(); err != nil {
		return 0, 0, err
	}
	return 0, 0, io.EOF
}

// Manual is an agent driven by a human through an AxisReader. Input
// axes are converted to actions with parking.Heuristic.
//
// If the AxisReader fails, the car is left idle and the error is kept,
// see Err.
type Manual struct {
	noLearning

	axes AxisReader
	err  error
}

// NewManual returns a new Manual agent reading input from axes
func NewManual(axes AxisReader) *Manual {
	return &Manual{axes: axes}
}

// SelectAction reads the input axes and returns the matching action
func (m *Manual) SelectAction(ts.TimeStep) *mat.VecDense {
	if m.err != nil {
		return parking.Heuristic(0, 0)
	}

	horizontal, vertical, err := m.axes.Axes()
	if err != nil {
		m.err = err
		return parking.Heuristic(0, 0)
	}
	return parking.Heuristic(horizontal, vertical)
}

// Err returns the first error returned by the AxisReader, if any.
// io.EOF means the input was exhausted.
func (m *Manual) Err() error {
	return m.err
}

// Done returns whether the input is exhausted or has failed
func (m *Manual) Done() bool {
	return m.err != nil
}
