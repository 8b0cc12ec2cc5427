package particle

import (
	"log"
	"math/rand/v2"
	"sync/atomic"
	"weak"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/task"
)

// Orientation selects the reference frame of the launch heading.
type Orientation int

const (
	// Local adds the origin's rotation to the configured angle.
	Local Orientation = iota
	// World uses the configured angle as is.
	World
)

func (o Orientation) String() string {
	switch o {
	case Local:
		return "local"
	case World:
		return "world"
	}
	return "unknown"
}

// ParseOrientation resolves "local" or "world". The empty string is Local.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "", "local":
		return Local, true
	case "world":
		return World, true
	}
	return Local, false
}

// EmitterConfig holds the declarative emitter settings.
type EmitterConfig struct {
	Rate     int     // particles per second
	Lifetime float64 // seconds
	Spread   float64 // total angular spread in degrees
	Angle    float64 // base launch angle in degrees
	Force    float64 // impulse magnitude
	Frame    Orientation

	DetectCollisionEnter bool
	DetectCollisionExit  bool
	DetectTriggerEnter   bool
	DetectTriggerExit    bool

	PlayOnStart bool
}

func (c *EmitterConfig) detects(kind EventKind) bool {
	switch kind {
	case CollisionEnter:
		return c.DetectCollisionEnter
	case CollisionExit:
		return c.DetectCollisionExit
	case TriggerEnter:
		return c.DetectTriggerEnter
	case TriggerExit:
		return c.DetectTriggerExit
	}
	return false
}

// Stats is a snapshot of an emitter's particle accounting.
// Constructed always equals Alive + Pooled + Destroyed.
type Stats struct {
	Constructed int
	Alive       int
	Pooled      int
	Destroyed   int
	Working     bool
	Emitting    bool
}

var lastEmitterId atomic.Uint32

// Emitter schedules particle spawns and owns the pool of retired particles.
type Emitter struct {
	id     uint32
	self   weak.Pointer[Emitter]
	cfg    EmitterConfig
	proto  Prototype
	origin Transform
	sched  *task.Scheduler
	rng    *rand.Rand

	working  bool
	emitting bool
	torn     bool
	cycle    task.Id

	pool        pool
	alive       *intmap.Map[Id, *Particle]
	constructed int
	destroyed   int

	listeners [eventKindCount]Listeners[Contact]
}

// NewEmitter creates an emitter spawning at origin. A nil origin emits from
// a fixed point at the world origin.
func NewEmitter(sched *task.Scheduler, origin Transform, cfg EmitterConfig, proto Prototype) *Emitter {
	if sched == nil {
		panic("emitter requires a task scheduler")
	}
	if proto.New == nil {
		panic("emitter prototype has no factory")
	}
	if origin == nil {
		origin = &Point{}
	}
	e := &Emitter{
		id:     lastEmitterId.Add(1),
		cfg:    cfg,
		proto:  proto,
		origin: origin,
		sched:  sched,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		alive:  intmap.New[Id, *Particle](64),
	}
	e.self = weak.Make(e)
	e.pool.reserve(poolHint(cfg))
	if cfg.PlayOnStart {
		e.StartWork()
	}
	return e
}

// poolHint estimates how many particles sit retired at once: half of the
// particles alive in a steady cycle.
func poolHint(cfg EmitterConfig) int {
	if cfg.Rate <= 0 || cfg.Lifetime <= 0 {
		return 0
	}
	return int(float64(cfg.Rate)*cfg.Lifetime) / 2
}

func (e *Emitter) Id() uint32 { return e.id }

// Config returns a copy of the current settings.
func (e *Emitter) Config() EmitterConfig { return e.cfg }

// Origin returns the spawn transform.
func (e *Emitter) Origin() Transform { return e.origin }

// SetRand replaces the random source used for spawn headings.
func (e *Emitter) SetRand(r *rand.Rand) {
	if r != nil {
		e.rng = r
	}
}

// SetRate changes the emission rate. It applies from the next cycle.
func (e *Emitter) SetRate(rate int) { e.cfg.Rate = rate }

// SetLifetime changes the lifetime given to subsequent spawns.
func (e *Emitter) SetLifetime(seconds float64) { e.cfg.Lifetime = seconds }

// StartWork enables emission. Idempotent.
func (e *Emitter) StartWork() {
	if e.torn {
		return
	}
	e.working = true
}

// StopWork disables emission and cancels the in-flight cycle. Particles
// already alive are not affected.
func (e *Emitter) StopWork() {
	e.working = false
	if e.cycle != 0 {
		e.sched.Cancel(e.cycle)
		e.cycle = 0
	}
	e.emitting = false
}

func (e *Emitter) IsWorking() bool  { return e.working }
func (e *Emitter) IsEmitting() bool { return e.emitting }

// Torn reports whether Destroy has been called.
func (e *Emitter) Torn() bool { return e.torn }

// Tick is called once per frame. It begins a new emission cycle when the
// emitter is working and no cycle is in flight.
func (e *Emitter) Tick(dt float64) {
	if e.torn || !e.working || e.emitting {
		return
	}
	e.beginCycle()
}

// beginCycle spreads Rate spawn steps evenly over one second of real time.
func (e *Emitter) beginCycle() {
	rate := e.cfg.Rate
	if rate <= 0 {
		return
	}
	interval := clock.Seconds(1 / float64(rate))
	e.emitting = true

	var step func(i int)
	step = func(i int) {
		e.cycle = 0
		if i >= rate {
			e.emitting = false
			return
		}
		if e.working {
			e.spawn()
		}
		if !e.emitting {
			// stopped from inside the spawn
			return
		}
		e.cycle = e.sched.After(interval, func() { step(i + 1) })
	}
	step(0)
}

func (e *Emitter) spawn() {
	if p, ok := e.pool.pop(); ok {
		e.place(p)
		p.SetLifetime(e.cfg.Lifetime)
		e.alive.Put(p.id, p)
		p.StartLife()
		p.entity.SetVelocity(mgl64.Vec2{})
		e.launch(p)
		return
	}

	p := e.pool.insert(func(index uint32) *Particle {
		return newParticle(NewId(e.id, index), e.sched, e.proto.New(), e.proto)
	})
	e.constructed++

	// particles reach the emitter only through the weak reference
	self := e.self
	p.onDestroy = func(p *Particle) {
		if e := self.Value(); e != nil {
			e.particleDestroyed(p)
		}
	}

	e.place(p)
	p.SetLifetime(e.cfg.Lifetime)
	p.SetOwner(e)
	for kind := EventKind(0); kind < eventKindCount; kind++ {
		if e.cfg.detects(kind) {
			p.AddListener(kind, func(c Contact) {
				if e := self.Value(); e != nil {
					e.listeners[kind].Emit(c)
				}
			})
		}
	}
	p.AddLifeFinishedListener(func(p *Particle) {
		if e := self.Value(); e != nil {
			e.particleFinished(p)
		}
	})
	e.launch(p)
	e.alive.Put(p.id, p)
	p.StartLife()
}

func (e *Emitter) place(p *Particle) {
	p.entity.SetPosition(e.origin.Position())
	p.entity.SetRotation(e.heading())
}

// heading samples a launch angle uniformly within the spread around the base angle.
func (e *Emitter) heading() float64 {
	base := e.cfg.Angle
	if e.cfg.Frame == Local {
		base += e.origin.Rotation()
	}
	half := e.cfg.Spread / 2
	return base - half + e.rng.Float64()*e.cfg.Spread
}

func (e *Emitter) launch(p *Particle) {
	p.entity.ApplyImpulse(p.entity.Forward().Mul(e.cfg.Force))
}

func (e *Emitter) particleFinished(p *Particle) {
	e.alive.Del(p.id)
	if e.torn {
		return
	}
	e.pool.push(p.id.Index())
}

func (e *Emitter) particleDestroyed(p *Particle) {
	e.alive.Del(p.id)
	e.pool.release(p.id.Index())
	e.destroyed++
}

// AddListener registers fn to receive relayed events of the given kind.
func (e *Emitter) AddListener(kind EventKind, fn func(Contact)) ListenerId {
	if !kind.Valid() {
		return 0
	}
	return e.listeners[kind].Add(fn)
}

// RemoveListener unregisters a relayed-event listener by handle.
func (e *Emitter) RemoveListener(kind EventKind, id ListenerId) bool {
	if !kind.Valid() {
		return false
	}
	return e.listeners[kind].Remove(id)
}

func (e *Emitter) AddCollisionEnterListener(fn func(Contact)) ListenerId {
	return e.AddListener(CollisionEnter, fn)
}

func (e *Emitter) AddCollisionExitListener(fn func(Contact)) ListenerId {
	return e.AddListener(CollisionExit, fn)
}

func (e *Emitter) AddTriggerEnterListener(fn func(Contact)) ListenerId {
	return e.AddListener(TriggerEnter, fn)
}

func (e *Emitter) AddTriggerExitListener(fn func(Contact)) ListenerId {
	return e.AddListener(TriggerExit, fn)
}

// ListenerCount returns the number of external listeners for kind.
func (e *Emitter) ListenerCount(kind EventKind) int {
	if !kind.Valid() {
		return 0
	}
	return e.listeners[kind].Len()
}

// AliveCount returns the number of particles currently alive.
func (e *Emitter) AliveCount() int { return e.alive.Len() }

// PoolLen returns the number of retired particles ready for reuse.
func (e *Emitter) PoolLen() int { return e.pool.len() }

// EachAlive calls fn for every alive particle until fn returns false.
func (e *Emitter) EachAlive(fn func(*Particle) bool) {
	e.alive.ForEach(func(_ Id, p *Particle) bool {
		return fn(p)
	})
}

// EachPooled calls fn for every pooled particle, next-to-be-reused first.
func (e *Emitter) EachPooled(fn func(*Particle) bool) {
	e.pool.each(fn)
}

// Stats returns the emitter's particle accounting.
func (e *Emitter) Stats() Stats {
	return Stats{
		Constructed: e.constructed,
		Alive:       e.alive.Len(),
		Pooled:      e.pool.len(),
		Destroyed:   e.destroyed,
		Working:     e.working,
		Emitting:    e.emitting,
	}
}

// Destroy tears the emitter down. Pooled particles are destroyed; alive
// particles keep running and destroy themselves when their life ends.
func (e *Emitter) Destroy() {
	if e.torn {
		return
	}
	e.StopWork()

	n := 0
	for {
		p, ok := e.pool.pop()
		if !ok {
			break
		}
		p.Destroy()
		n++
	}
	e.torn = true

	log.Printf("[Emitter %d] torn down: destroyed %d pooled particles, %d still alive", e.id, n, e.alive.Len())
}
