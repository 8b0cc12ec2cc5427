package particle

import (
	"weak"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/task"
)

// Particle is a reusable, time-limited unit driving one host entity.
//
// A particle is Inert until StartLife makes it Alive. When its lifetime
// elapses it becomes Inert again, fires life-finished and, if it has no
// owning emitter, destroys itself.
type Particle struct {
	id     Id
	entity Entity
	look   Prototype
	sched  *task.Scheduler

	lifetime  float64
	elapsed   float64
	alive     bool
	destroyed bool
	pooled    bool

	scale float64
	tint  colorful.Color

	owner     weak.Pointer[Emitter]
	countdown task.Id
	onDestroy func(*Particle)

	events   [eventKindCount]Listeners[Contact]
	finished Listeners[*Particle]
}

// NewParticle wraps entity in a standalone particle with no owner.
func NewParticle(sched *task.Scheduler, entity Entity, look Prototype) *Particle {
	return newParticle(0, sched, entity, look)
}

func newParticle(id Id, sched *task.Scheduler, entity Entity, look Prototype) *Particle {
	if sched == nil {
		panic("particle requires a task scheduler")
	}
	if entity == nil {
		panic("particle requires an entity")
	}
	look.New = nil
	p := &Particle{
		id:       id,
		entity:   entity,
		look:     look,
		sched:    sched,
		lifetime: 1,
	}
	if h, ok := entity.(Host); ok {
		h.Attach(p)
	}
	return p
}

func (p *Particle) Id() Id            { return p.id }
func (p *Particle) Entity() Entity    { return p.entity }
func (p *Particle) Alive() bool       { return p.alive }
func (p *Particle) Destroyed() bool   { return p.destroyed }
func (p *Particle) Lifetime() float64 { return p.lifetime }
func (p *Particle) Elapsed() float64  { return p.elapsed }

// Scale returns the last scale pushed to the entity.
func (p *Particle) Scale() float64 { return p.scale }

// Tint returns the last tint pushed to the entity.
func (p *Particle) Tint() colorful.Color { return p.tint }

// DetectsOtherParticles reports whether contacts with other particles are relayed.
func (p *Particle) DetectsOtherParticles() bool { return p.look.DetectOtherParticles }

// SetLifetime sets the lifetime in seconds used by the next StartLife.
// Negative values clamp to zero.
func (p *Particle) SetLifetime(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	p.lifetime = seconds
}

// Fraction returns elapsed/lifetime clamped to [0,1]. A zero lifetime is
// always at its terminal fraction.
func (p *Particle) Fraction() float64 {
	if p.lifetime <= 0 {
		return 1
	}
	f := p.elapsed / p.lifetime
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Owner returns the owning emitter, or nil if there is none or it was torn down.
func (p *Particle) Owner() *Emitter {
	e := p.owner.Value()
	if e == nil || e.torn {
		return nil
	}
	return e
}

// SetOwner sets or clears the owning emitter. The reference is weak: it
// never keeps the emitter alive.
func (p *Particle) SetOwner(e *Emitter) {
	if e == nil {
		p.owner = weak.Pointer[Emitter]{}
		return
	}
	p.owner = weak.Make(e)
}

// StartLife activates the particle and (re)starts its lifetime countdown.
// Calling it on an alive particle restarts the countdown from zero. A
// particle sitting in its emitter's pool is left alone.
func (p *Particle) StartLife() {
	if p.destroyed || p.pooled {
		return
	}
	p.stopCountdown()

	p.entity.SetActive(true)
	p.elapsed = 0
	p.alive = true

	if p.lifetime <= 0 {
		p.applyVisuals(1)
		p.expire()
		return
	}

	p.applyVisuals(0)
	p.countdown = p.sched.After(clock.Seconds(p.lifetime), p.expire)
}

// Update advances the visual animation. The fraction used is the one
// reached before this tick's delta is added, so the first frame of a life
// renders fraction 0.
func (p *Particle) Update(dt float64) {
	if !p.alive {
		return
	}
	p.applyVisuals(p.Fraction())
	p.elapsed += dt
}

// Destroy permanently removes the particle and its entity.
func (p *Particle) Destroy() {
	if p.destroyed {
		return
	}
	p.stopCountdown()
	p.alive = false
	p.destroyed = true
	p.entity.Destroy()
	if p.onDestroy != nil {
		p.onDestroy(p)
	}
}

func (p *Particle) expire() {
	p.countdown = 0
	p.entity.SetActive(false)
	p.alive = false
	p.finished.Emit(p)
	if p.Owner() == nil {
		p.Destroy()
	}
}

func (p *Particle) stopCountdown() {
	if p.countdown != 0 {
		p.sched.Cancel(p.countdown)
		p.countdown = 0
	}
}

func (p *Particle) applyVisuals(t float64) {
	p.scale = p.look.sizeAt(t)
	p.tint = p.look.colorAt(t)
	p.entity.SetScale(p.scale)
	p.entity.SetTint(p.tint)
}

// AddListener registers fn for contact events of the given kind.
func (p *Particle) AddListener(kind EventKind, fn func(Contact)) ListenerId {
	if !kind.Valid() {
		return 0
	}
	return p.events[kind].Add(fn)
}

// RemoveListener unregisters a contact listener by handle.
func (p *Particle) RemoveListener(kind EventKind, id ListenerId) bool {
	if !kind.Valid() {
		return false
	}
	return p.events[kind].Remove(id)
}

func (p *Particle) AddCollisionEnterListener(fn func(Contact)) ListenerId {
	return p.AddListener(CollisionEnter, fn)
}

func (p *Particle) AddCollisionExitListener(fn func(Contact)) ListenerId {
	return p.AddListener(CollisionExit, fn)
}

func (p *Particle) AddTriggerEnterListener(fn func(Contact)) ListenerId {
	return p.AddListener(TriggerEnter, fn)
}

func (p *Particle) AddTriggerExitListener(fn func(Contact)) ListenerId {
	return p.AddListener(TriggerExit, fn)
}

// AddLifeFinishedListener registers fn to run each time a life ends.
func (p *Particle) AddLifeFinishedListener(fn func(*Particle)) ListenerId {
	return p.finished.Add(fn)
}

// RemoveLifeFinishedListener unregisters a life-finished listener by handle.
func (p *Particle) RemoveLifeFinishedListener(id ListenerId) bool {
	return p.finished.Remove(id)
}

// OnCollisionEnter is called by the physics service.
func (p *Particle) OnCollisionEnter(c Contact) { p.relay(CollisionEnter, c) }

// OnCollisionExit is called by the physics service.
func (p *Particle) OnCollisionExit(c Contact) { p.relay(CollisionExit, c) }

// OnTriggerEnter is called by the physics service.
func (p *Particle) OnTriggerEnter(c Contact) { p.relay(TriggerEnter, c) }

// OnTriggerExit is called by the physics service.
func (p *Particle) OnTriggerExit(c Contact) { p.relay(TriggerExit, c) }

func (p *Particle) relay(kind EventKind, c Contact) {
	if !p.alive {
		return
	}
	if IsParticle(c.Other) && !p.look.DetectOtherParticles {
		return
	}
	p.events[kind].Emit(c)
}
