package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Transform reads and writes an entity's world placement.
// Rotation is in degrees, counter-clockwise.
type Transform interface {
	Position() mgl64.Vec2
	SetPosition(mgl64.Vec2)
	Rotation() float64
	SetRotation(float64)
	Forward() mgl64.Vec2
}

// Body is the physics side of an entity.
type Body interface {
	ApplyImpulse(mgl64.Vec2)
	SetVelocity(mgl64.Vec2)
}

// Renderable is the visual side of an entity.
type Renderable interface {
	SetScale(float64)
	SetTint(colorful.Color)
	SetActive(bool)
}

// Entity is the host object a particle drives.
type Entity interface {
	Transform
	Body
	Renderable
	Destroy()
}

// Host is implemented by entities that want to call back into the particle
// they carry (per-frame updates, contact events).
type Host interface {
	Attach(p *Particle)
}

// Carrier is implemented by host objects that hold a particle. It is used to
// tell whether a contact counterpart is itself a particle.
type Carrier interface {
	Particle() *Particle
}

// SizeCurve maps a time fraction in [0,1] to a size multiplier.
type SizeCurve interface {
	Evaluate(t float64) float64
}

// ColorGradient maps a time fraction in [0,1] to a color.
type ColorGradient interface {
	Evaluate(t float64) colorful.Color
}

// Contact is the payload of collision and trigger events. It is relayed to
// listeners unchanged.
type Contact struct {
	Other  any
	Point  mgl64.Vec2
	Normal mgl64.Vec2
}

// ContactHandler receives contact events from the physics service.
type ContactHandler interface {
	OnCollisionEnter(Contact)
	OnCollisionExit(Contact)
	OnTriggerEnter(Contact)
	OnTriggerExit(Contact)
}

// IsParticle reports whether a contact counterpart is a particle.
func IsParticle(other any) bool {
	switch o := other.(type) {
	case *Particle:
		return o != nil
	case Carrier:
		return o.Particle() != nil
	}
	return false
}

// Forward returns the unit "up" axis rotated by deg degrees.
func Forward(deg float64) mgl64.Vec2 {
	rad := mgl64.DegToRad(deg)
	return mgl64.Vec2{-math.Sin(rad), math.Cos(rad)}
}

// Point is a fixed Transform, useful as an emitter origin.
type Point struct {
	Pos mgl64.Vec2
	Rot float64
}

func (p *Point) Position() mgl64.Vec2     { return p.Pos }
func (p *Point) SetPosition(v mgl64.Vec2) { p.Pos = v }
func (p *Point) Rotation() float64        { return p.Rot }
func (p *Point) SetRotation(deg float64)  { p.Rot = deg }
func (p *Point) Forward() mgl64.Vec2      { return Forward(p.Rot) }
