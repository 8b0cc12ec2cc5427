// Package sim is a small headless 2D world that hosts particles: circle
// bodies with impulse integration, contact detection and per-frame
// behaviours.
package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/engine"
	"github.com/plus3/sparks/particle"
)

type contact struct {
	a, b    *Body
	trigger bool
}

// World owns every body and reports contacts between them.
type World struct {
	Gravity  mgl64.Vec2
	Damping  float64 // fraction of velocity lost per second
	CellSize float64 // broadphase grid size, defaults to 1

	bodies  *intmap.Map[BodyId, *Body]
	order   []*Body
	removed int
	nextId  BodyId

	contacts *intmap.Map[uint64, contact]
	grid     *intmap.Map[uint64, []*Body]
	statics  []*Body
	moving   []*Body
}

// NewWorld creates an empty world with no gravity.
func NewWorld() *World {
	return &World{
		CellSize: 1,
		bodies:   intmap.New[BodyId, *Body](256),
		contacts: intmap.New[uint64, contact](256),
		grid:     intmap.New[uint64, []*Body](256),
	}
}

// Spawn adds a body to the world.
func (w *World) Spawn(def BodyDef) *Body {
	if def.Mass <= 0 {
		def.Mass = 1
	}
	w.nextId++
	b := &Body{
		id:     w.nextId,
		world:  w,
		def:    def,
		pos:    def.Position,
		rot:    def.Rotation,
		scale:  1,
		tint:   colorful.Color{R: 1, G: 1, B: 1},
		active: !def.Inactive,
	}
	w.bodies.Put(b.id, b)
	w.order = append(w.order, b)
	return b
}

// ParticleFactory returns a factory that spawns inactive dynamic bodies of
// the given radius, ready to be driven by a particle.
func (w *World) ParticleFactory(radius float64) particle.Factory {
	return func() particle.Entity {
		return w.Spawn(BodyDef{Radius: radius, Inactive: true, Tag: "particle"})
	}
}

// Get returns the body with the given id.
func (w *World) Get(id BodyId) (*Body, bool) {
	return w.bodies.Get(id)
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return w.bodies.Len()
}

// ActiveCount returns the number of active bodies.
func (w *World) ActiveCount() int {
	n := 0
	w.Each(func(b *Body) bool {
		if b.active {
			n++
		}
		return true
	})
	return n
}

// GridCells returns the number of broadphase cells filled by the last Step.
func (w *World) GridCells() int {
	return w.grid.Len()
}

// ContactCount returns the number of touching pairs after the last Step.
func (w *World) ContactCount() int {
	return w.contacts.Len()
}

// Each calls fn for every live body in spawn order until fn returns false.
func (w *World) Each(fn func(*Body) bool) {
	for _, b := range w.order {
		if b.destroyed {
			continue
		}
		if !fn(b) {
			return
		}
	}
}

func (w *World) remove(b *Body) {
	w.bodies.Del(b.id)
	w.removed++
}

func (w *World) compact() {
	if w.removed == 0 {
		return
	}
	live := w.order[:0]
	for _, b := range w.order {
		if !b.destroyed {
			live = append(live, b)
		}
	}
	clear(w.order[len(live):])
	w.order = live
	w.removed = 0
}

// Step advances the world by dt seconds: behaviours first, then motion,
// then contacts.
func (w *World) Step(dt float64) {
	w.compact()

	for _, b := range w.order {
		if b.active && b.behaviour != nil {
			b.behaviour.Update(dt)
		}
	}

	keep := math.Max(0, 1-w.Damping*dt)
	for _, b := range w.order {
		if !b.active || b.def.Static {
			continue
		}
		b.vel = b.vel.Add(w.Gravity.Mul(dt)).Mul(keep)
		b.pos = b.pos.Add(b.vel.Mul(dt))
	}

	w.detect()
}

func pairKey(a, b BodyId) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

func cellKey(x, y int32) uint64 {
	return uint64(uint32(x))<<32 | uint64(uint32(y))
}

func (w *World) cellRange(b *Body) (x0, y0, x1, y1 int32) {
	size := w.CellSize
	if size <= 0 {
		size = 1
	}
	r := b.def.Radius
	x0 = int32(math.Floor((b.pos.X() - r) / size))
	y0 = int32(math.Floor((b.pos.Y() - r) / size))
	x1 = int32(math.Floor((b.pos.X() + r) / size))
	y1 = int32(math.Floor((b.pos.Y() + r) / size))
	return
}

func (w *World) detect() {
	w.grid.Clear()
	w.statics = w.statics[:0]
	w.moving = w.moving[:0]
	for _, b := range w.order {
		if !b.active {
			continue
		}
		// static bodies are often large; they are tested directly below
		if b.def.Static {
			w.statics = append(w.statics, b)
			continue
		}
		w.moving = append(w.moving, b)
		x0, y0, x1, y1 := w.cellRange(b)
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				k := cellKey(x, y)
				cell, _ := w.grid.Get(k)
				w.grid.Put(k, append(cell, b))
			}
		}
	}

	current := intmap.New[uint64, contact](w.contacts.Len())
	w.grid.ForEach(func(_ uint64, cell []*Body) bool {
		for i := 0; i < len(cell); i++ {
			for j := i + 1; j < len(cell); j++ {
				w.test(current, cell[i], cell[j])
			}
		}
		return true
	})
	for _, s := range w.statics {
		for _, b := range w.moving {
			w.test(current, s, b)
		}
	}

	w.contacts.ForEach(func(k uint64, c contact) bool {
		if !current.Has(k) {
			w.exit(c)
		}
		return true
	})
	w.contacts = current
}

func (w *World) test(current *intmap.Map[uint64, contact], a, b *Body) {
	if a.def.Static && b.def.Static {
		return
	}
	key := pairKey(a.id, b.id)
	if current.Has(key) {
		return
	}
	if a.destroyed || b.destroyed || !a.active || !b.active {
		return
	}

	delta := b.pos.Sub(a.pos)
	reach := a.def.Radius + b.def.Radius
	distSq := delta.Dot(delta)
	if distSq > reach*reach {
		return
	}

	c := contact{a: a, b: b, trigger: a.def.Trigger || b.def.Trigger}
	current.Put(key, c)

	if !c.trigger {
		resolve(a, b, delta, math.Sqrt(distSq), reach)
	}

	if _, known := w.contacts.Get(key); !known {
		w.enter(c)
	}
}

// resolve pushes a dynamic body out of a static one and reflects its
// velocity by the static body's restitution.
func resolve(a, b *Body, delta mgl64.Vec2, dist, reach float64) {
	if a.def.Static == b.def.Static {
		return
	}
	static, moving := a, b
	n := delta
	if b.def.Static {
		static, moving = b, a
		n = delta.Mul(-1)
	}
	if dist == 0 {
		n = mgl64.Vec2{0, 1}
	} else {
		n = n.Mul(1 / dist)
	}

	moving.pos = moving.pos.Add(n.Mul(reach - dist))
	if vn := moving.vel.Dot(n); vn < 0 {
		moving.vel = moving.vel.Sub(n.Mul((1 + static.def.Restitution) * vn))
	}
}

func contactFor(self, other *Body) particle.Contact {
	n := self.pos.Sub(other.pos)
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	} else {
		n = mgl64.Vec2{0, 1}
	}
	return particle.Contact{
		Other:  other,
		Point:  self.pos.Sub(n.Mul(self.def.Radius)),
		Normal: n,
	}
}

func (w *World) enter(c contact) {
	for _, side := range [2][2]*Body{{c.a, c.b}, {c.b, c.a}} {
		self, other := side[0], side[1]
		if self.handler == nil || self.destroyed {
			continue
		}
		if c.trigger {
			self.handler.OnTriggerEnter(contactFor(self, other))
		} else {
			self.handler.OnCollisionEnter(contactFor(self, other))
		}
	}
}

func (w *World) exit(c contact) {
	for _, side := range [2][2]*Body{{c.a, c.b}, {c.b, c.a}} {
		self, other := side[0], side[1]
		if self.handler == nil || self.destroyed {
			continue
		}
		if c.trigger {
			self.handler.OnTriggerExit(contactFor(self, other))
		} else {
			self.handler.OnCollisionExit(contactFor(self, other))
		}
	}
}

// StepSystem steps a world once per frame.
type StepSystem struct {
	World *World
}

func (s *StepSystem) Execute(frame *engine.Frame) {
	s.World.Step(frame.DeltaTime)
}
