package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/particle"
)

// BodyId identifies a body within its world. Ids are never reused.
type BodyId uint32

// Behaviour is per-frame logic attached to a body.
type Behaviour interface {
	Update(dt float64)
}

// BodyDef describes a body to spawn.
type BodyDef struct {
	Position    mgl64.Vec2
	Rotation    float64 // degrees
	Radius      float64
	Mass        float64 // defaults to 1
	Static      bool    // static bodies never move
	Trigger     bool    // triggers report overlaps but never collide
	Restitution float64 // bounce factor applied to bodies hitting this one, static only
	Inactive    bool
	Tag         string
}

// Body is a circle in a World. It implements particle.Entity so particles
// can drive it directly.
type Body struct {
	id    BodyId
	world *World
	def   BodyDef

	pos mgl64.Vec2
	rot float64
	vel mgl64.Vec2

	scale     float64
	tint      colorful.Color
	active    bool
	destroyed bool

	behaviour Behaviour
	handler   particle.ContactHandler
	particle  *particle.Particle
}

var (
	_ particle.Entity  = (*Body)(nil)
	_ particle.Host    = (*Body)(nil)
	_ particle.Carrier = (*Body)(nil)
)

func (b *Body) Id() BodyId           { return b.id }
func (b *Body) Tag() string          { return b.def.Tag }
func (b *Body) Radius() float64      { return b.def.Radius }
func (b *Body) Static() bool         { return b.def.Static }
func (b *Body) Trigger() bool        { return b.def.Trigger }
func (b *Body) Velocity() mgl64.Vec2 { return b.vel }
func (b *Body) Active() bool         { return b.active }
func (b *Body) Destroyed() bool      { return b.destroyed }
func (b *Body) Scale() float64       { return b.scale }
func (b *Body) Tint() colorful.Color { return b.tint }

func (b *Body) Position() mgl64.Vec2     { return b.pos }
func (b *Body) SetPosition(v mgl64.Vec2) { b.pos = v }
func (b *Body) Rotation() float64        { return b.rot }
func (b *Body) SetRotation(deg float64)  { b.rot = deg }
func (b *Body) Forward() mgl64.Vec2      { return particle.Forward(b.rot) }

// ApplyImpulse changes velocity by impulse/mass. Static bodies ignore it.
func (b *Body) ApplyImpulse(impulse mgl64.Vec2) {
	if b.def.Static {
		return
	}
	b.vel = b.vel.Add(impulse.Mul(1 / b.def.Mass))
}

func (b *Body) SetVelocity(v mgl64.Vec2) {
	if b.def.Static {
		return
	}
	b.vel = v
}

func (b *Body) SetScale(s float64)       { b.scale = s }
func (b *Body) SetTint(c colorful.Color) { b.tint = c }
func (b *Body) SetActive(active bool)    { b.active = active && !b.destroyed }

// Destroy removes the body from its world.
func (b *Body) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.active = false
	b.world.remove(b)
}

// Attach makes p the body's behaviour and contact handler.
func (b *Body) Attach(p *particle.Particle) {
	b.particle = p
	b.behaviour = p
	b.handler = p
}

// Particle returns the particle driving this body, if any.
func (b *Body) Particle() *particle.Particle { return b.particle }

func (b *Body) SetBehaviour(bh Behaviour) { b.behaviour = bh }

func (b *Body) SetContactHandler(h particle.ContactHandler) { b.handler = h }
