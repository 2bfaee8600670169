// Package lot provides a Box2D parking lot in which a car can be
// driven. The lot implements the physics collaborators of the parking
// environment: it moves the car, reports the car's collisions with the
// lot and answers the raycasts of the car's distance sensors.
package lot

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/goparking/environment/parking"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// Default collision categories
	EnvironmentCategory uint16 = 0x0001
	CarCategory         uint16 = 0x0002

	// Box2D solver iterations per step
	VelocityIterations int = 6
	PositionIterations int = 2
)

// Box is a rectangular obstacle in the lot, e.g. a parked car. The box
// is centred on (X, Y) with its Length along its heading, which is in
// degrees clockwise from +y.
type Box struct {
	X, Y    float64
	Width   float64
	Length  float64
	Heading float64
}

// Config describes the geometry of a lot and the motion of its car
type Config struct {
	// Width and Height of the lot, which is centred on the origin and
	// enclosed by walls
	Width  float64
	Height float64
	Wall   float64

	// Obstacles are static boxes inside the lot
	Obstacles []Box

	CarWidth  float64
	CarLength float64

	// Speed is the car's speed in units per second at full throttle
	Speed float64

	// TurnRate is the car's turning rate in degrees per second at full
	// steer
	TurnRate float64

	// EnvironmentCategory tags walls and obstacles, CarCategory tags
	// the car
	EnvironmentCategory uint16
	CarCategory         uint16
}

// Validate returns an error if a lot cannot be built from the Config
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("lot dimensions must be positive, got %v × %v",
			c.Width, c.Height)
	}
	if c.Wall <= 0 {
		return fmt.Errorf("wall thickness must be positive, got %v", c.Wall)
	}
	if c.CarWidth <= 0 || c.CarLength <= 0 {
		return fmt.Errorf("car dimensions must be positive, got %v × %v",
			c.CarWidth, c.CarLength)
	}
	for i, o := range c.Obstacles {
		if o.Width <= 0 || o.Length <= 0 {
			return fmt.Errorf("obstacle %v: dimensions must be positive, "+
				"got %v × %v", i, o.Width, o.Length)
		}
	}
	if c.EnvironmentCategory == 0 || c.CarCategory == 0 {
		return fmt.Errorf("collision categories must be non-zero")
	}
	if c.EnvironmentCategory&c.CarCategory != 0 {
		return fmt.Errorf("environment category %#04x and car category "+
			"%#04x overlap", c.EnvironmentCategory, c.CarCategory)
	}
	return nil
}

// Lot is a parking lot simulated with Box2D. The car is a dynamic box
// driven with an arcade motion model: throttle sets the car's speed
// along its heading and steering sets its turning rate. Walls and
// obstacles are static.
//
// Lot implements parking.Vehicle and parking.Raycaster. It is not safe
// for concurrent use.
type Lot struct {
	config Config
	world  box2d.B2World

	statics []*box2d.B2Body
	car     *box2d.B2Body

	intent   parking.Intent
	contacts *contactDetector
	touching bool
}

// New returns a new Lot with the car at the origin
func New(c Config) (*Lot, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	l := &Lot{
		config: c,
		world:  box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
	}

	// Walls, in order: left, top, right, bottom
	halfW, halfH, halfWall := c.Width/2, c.Height/2, c.Wall/2
	walls := []Box{
		{X: -halfW - halfWall, Width: c.Wall, Length: c.Height + 2*c.Wall},
		{Y: halfH + halfWall, Width: c.Width, Length: c.Wall},
		{X: halfW + halfWall, Width: c.Wall, Length: c.Height + 2*c.Wall},
		{Y: -halfH - halfWall, Width: c.Width, Length: c.Wall},
	}
	for _, b := range append(walls, c.Obstacles...) {
		l.statics = append(l.statics, l.createStatic(b))
	}

	l.car = l.createCar()
	l.contacts = newContactDetector(l.car, c.EnvironmentCategory)
	l.world.SetContactListener(l.contacts)

	return l, nil
}

// createStatic adds a static box to the world
func (l *Lot) createStatic(b Box) *box2d.B2Body {
	def := box2d.NewB2BodyDef()
	def.Type = 0 // Static body
	def.Position = box2d.MakeB2Vec2(b.X, b.Y)
	def.Angle = toAngle(b.Heading)
	body := l.world.CreateBody(def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(b.Width/2, b.Length/2)

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Friction = 0.1
	filter := box2d.MakeB2Filter()
	filter.CategoryBits = l.config.EnvironmentCategory
	fix.Filter = filter
	body.CreateFixtureFromDef(&fix)

	return body
}

// createCar adds the car to the world
func (l *Lot) createCar() *box2d.B2Body {
	def := box2d.MakeB2BodyDef()
	def.Type = 2 // Dynamic body
	def.Position = box2d.MakeB2Vec2(0, 0)
	body := l.world.CreateBody(&def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(l.config.CarWidth/2, l.config.CarLength/2)

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = 1.0
	fix.Friction = 0.1
	fix.Restitution = 0.0
	filter := box2d.MakeB2Filter()
	filter.CategoryBits = l.config.CarCategory
	filter.MaskBits = l.config.EnvironmentCategory
	fix.Filter = filter
	body.CreateFixtureFromDef(&fix)

	return body
}

// Config returns the configuration of the lot
func (l *Lot) Config() Config {
	return l.config
}

// Pose returns the pose of the car
func (l *Lot) Pose() parking.Pose {
	pos := l.car.GetPosition()
	return parking.Pose{
		Position: r2.Vec{X: pos.X, Y: pos.Y},
		Heading:  fromAngle(l.car.GetAngle()),
	}
}

// SetIntent sets the intent used to drive the car on following calls
// to Advance
func (l *Lot) SetIntent(i parking.Intent) {
	l.intent = i
}

// Reset teleports the car to position with the given heading and
// stops it
func (l *Lot) Reset(position r2.Vec, heading float64) {
	l.car.SetTransform(box2d.MakeB2Vec2(position.X, position.Y),
		toAngle(heading))
	l.car.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	l.car.SetAngularVelocity(0)
	l.car.SetAwake(true)
	l.touching = false
}

// Advance drives the car for dt seconds and reports its contact with
// walls and obstacles. Contact is Enter on the first tick the car
// touches the lot and Stay on every following tick that it keeps
// touching.
func (l *Lot) Advance(dt float64) parking.Contact {
	throttle := float64(l.intent.Throttle)
	steer := float64(l.intent.Steer)

	// Cars only turn while moving, and turn the other way in reverse
	forward := l.Pose().Forward()
	velocity := r2.Scale(throttle*l.config.Speed, forward)
	yawRate := steer * throttle * l.config.TurnRate

	l.car.SetLinearVelocity(box2d.MakeB2Vec2(velocity.X, velocity.Y))
	l.car.SetAngularVelocity(-yawRate * math.Pi / 180)

	l.contacts.began = false
	l.world.Step(dt, VelocityIterations, PositionIterations)

	touching := l.contacts.began || l.contacts.count > 0
	contact := parking.None
	if touching && !l.touching {
		contact = parking.Enter
	} else if touching {
		contact = parking.Stay
	}
	l.touching = l.contacts.count > 0

	return contact
}

// Cast returns the distance from origin along direction to the nearest
// fixture within maxDistance, skipping fixtures whose category
// intersects ignore. The boolean is false if nothing was hit.
func (l *Lot) Cast(origin, direction r2.Vec, maxDistance float64,
	ignore uint16) (float64, bool) {
	if maxDistance <= 0 || r2.Norm(direction) == 0 {
		return maxDistance, false
	}
	end := r2.Add(origin, r2.Scale(maxDistance, r2.Unit(direction)))

	hit := false
	closest := 1.0
	callback := func(f *box2d.B2Fixture, point, normal box2d.B2Vec2,
		fraction float64) float64 {
		if f.GetFilterData().CategoryBits&ignore != 0 {
			// Filter the fixture, continue the ray
			return -1
		}
		hit = true
		if fraction < closest {
			closest = fraction
		}

		// Clip the ray to this hit
		return fraction
	}
	l.world.RayCast(callback, box2d.MakeB2Vec2(origin.X, origin.Y),
		box2d.MakeB2Vec2(end.X, end.Y))

	if !hit {
		return maxDistance, false
	}
	return closest * maxDistance, true
}

// toAngle converts a heading in degrees clockwise from +y into a Box2D
// angle in radians counterclockwise
func toAngle(heading float64) float64 {
	return -heading * math.Pi / 180
}

// fromAngle converts a Box2D angle into a heading
func fromAngle(angle float64) float64 {
	return -angle * 180 / math.Pi
}
