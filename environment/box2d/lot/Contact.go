package lot

import "github.com/ByteArena/box2d"

// contactDetector counts the contacts between the car and fixtures of
// the environment category
type contactDetector struct {
	car      *box2d.B2Body
	category uint16

	count int
	began bool
}

func newContactDetector(car *box2d.B2Body,
	category uint16) *contactDetector {
	return &contactDetector{car: car, category: category}
}

// involvesCar returns whether the contact is between the car and the
// environment
func (c *contactDetector) involvesCar(contact box2d.B2ContactInterface) bool {
	a, b := contact.GetFixtureA(), contact.GetFixtureB()

	if a.GetBody() == c.car {
		return b.GetFilterData().CategoryBits&c.category != 0
	}
	if b.GetBody() == c.car {
		return a.GetFilterData().CategoryBits&c.category != 0
	}
	return false
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	if c.involvesCar(contact) {
		c.count++
		c.began = true
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {
	if c.involvesCar(contact) && c.count > 0 {
		c.count--
	}
}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}
