package lot

import (
	"fmt"
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"
	"github.com/samuelfneumann/goparking/environment/parking"
	"github.com/samuelfneumann/goparking/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r2"
)

// Default colours
var (
	GroundColour   color.Color = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	ObstacleColour color.Color = color.RGBA{R: 255, G: 166, B: 0, A: 255}
	CarColour      color.Color = color.RGBA{R: 128, G: 102, B: 230, A: 255}
	SuccessColour  color.Color = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	FailColour     color.Color = color.RGBA{R: 200, G: 0, B: 0, A: 255}
)

// Indicator colours the parking slot by the outcome of the most recent
// parking check. It implements parking.Indicator.
type Indicator struct {
	state   parking.IndicatorState
	success color.Color
	fail    color.Color
}

// NewIndicator returns a new Indicator showing the given colours
func NewIndicator(success, fail color.Color) *Indicator {
	return &Indicator{state: parking.Fail, success: success, fail: fail}
}

// SetState sets the state of the indicator
func (i *Indicator) SetState(s parking.IndicatorState) {
	i.state = s
}

// State returns the state of the indicator
func (i *Indicator) State() parking.IndicatorState {
	return i.state
}

// Colour returns the colour the indicator currently shows
func (i *Indicator) Colour() color.Color {
	if i.state == parking.Success {
		return i.success
	}
	return i.fail
}

// Renderer draws a lot, its parking slot and the car's sensor rays to
// PNG files
type Renderer struct {
	lot       *Lot
	slot      *parking.Slot
	indicator *Indicator
	scale     float64
}

// NewRenderer returns a new Renderer drawing at scale pixels per unit
func NewRenderer(l *Lot, slot *parking.Slot, indicator *Indicator,
	scale float64) (*Renderer, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("newRenderer: scale must be positive, got %v",
			scale)
	}
	return &Renderer{lot: l, slot: slot, indicator: indicator, scale: scale}, nil
}

// worldToPixel converts world coordinates to pixel coordinates. The
// lot, including its walls, fills the image.
func (r *Renderer) worldToPixel(v r2.Vec) (float64, float64) {
	c := r.lot.config
	x := (v.X + c.Width/2 + c.Wall) * r.scale
	y := (c.Height/2 + c.Wall - v.Y) * r.scale
	return x, y
}

// size returns the size of rendered images in pixels
func (r *Renderer) size() (int, int) {
	c := r.lot.config
	return int((c.Width + 2*c.Wall) * r.scale),
		int((c.Height + 2*c.Wall) * r.scale)
}

// Image draws the current state of the lot. Sensor rays are drawn from
// the car, coloured from red to green as their reading grows towards
// sensorRange.
func (r *Renderer) Image(rays []parking.SensorRay,
	sensorRange float64) *gg.Context {
	w, h := r.size()
	dc := gg.NewContext(w, h)
	dc.SetColor(GroundColour)
	dc.Clear()

	// Slot
	if r.slot != nil {
		corners := boxCorners(r.slot.Position, r.slot.Width, r.slot.Length,
			r.slot.Heading)
		r.polygon(dc, corners)
		dc.SetLineWidth(3.0)
		if r.indicator != nil {
			dc.SetColor(r.indicator.Colour())
		} else {
			dc.SetColor(FailColour)
		}
		dc.Stroke()
	}

	// Walls and obstacles
	for _, body := range r.lot.statics {
		r.body(dc, body)
		dc.SetColor(ObstacleColour)
		dc.Fill()
	}

	// Car
	r.body(dc, r.lot.car)
	dc.SetColor(CarColour)
	dc.Fill()

	// Sensor rays
	origin := r.lot.Pose().Position
	ox, oy := r.worldToPixel(origin)
	dc.SetLineWidth(1.0)
	for _, ray := range rays {
		end := r2.Add(origin, r2.Scale(ray.Distance, ray.Direction))
		ex, ey := r.worldToPixel(end)

		t := floatutils.Clip(ray.Distance/sensorRange, 0, 1)
		dc.SetRGB(floatutils.Lerp(1, 0, t), floatutils.Lerp(0, 1, t), 0)
		dc.DrawLine(ox, oy, ex, ey)
		dc.Stroke()
	}

	return dc
}

// Render draws the current state of the lot to a PNG file
func (r *Renderer) Render(filename string, rays []parking.SensorRay,
	sensorRange float64) error {
	if err := r.Image(rays, sensorRange).SavePNG(filename); err != nil {
		return fmt.Errorf("render: %v", err)
	}
	return nil
}

// body traces the polygon fixtures of a body
func (r *Renderer) body(dc *gg.Context, body *box2d.B2Body) {
	for fix := body.GetFixtureList(); fix != nil; fix = fix.M_next {
		shape, ok := fix.M_shape.(*box2d.B2PolygonShape)
		if !ok {
			continue
		}

		path := make([]r2.Vec, 0, shape.M_count)
		for i := 0; i < shape.M_count; i++ {
			vertex := box2d.B2TransformVec2Mul(body.M_xf,
				shape.M_vertices[i])
			path = append(path, r2.Vec{X: vertex.X, Y: vertex.Y})
		}
		r.polygon(dc, path)
	}
}

// polygon traces a closed polygon given in world coordinates
func (r *Renderer) polygon(dc *gg.Context, path []r2.Vec) {
	if len(path) == 0 {
		return
	}

	dc.NewSubPath()
	for _, point := range path {
		dc.LineTo(r.worldToPixel(point))
	}
	dc.ClosePath()
}

// boxCorners returns the corners of a box centred on centre with its
// length along heading
func boxCorners(centre r2.Vec, width, length, heading float64) []r2.Vec {
	forward := parking.Pose{Heading: heading}.Forward()
	right := r2.Vec{X: forward.Y, Y: -forward.X}

	f := r2.Scale(length/2, forward)
	s := r2.Scale(width/2, right)

	return []r2.Vec{
		r2.Add(centre, r2.Add(f, s)),
		r2.Add(centre, r2.Sub(f, s)),
		r2.Sub(centre, r2.Add(f, s)),
		r2.Sub(centre, r2.Sub(f, s)),
	}
}
