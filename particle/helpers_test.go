package particle_test

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/particle"
	"github.com/plus3/sparks/task"
)

// fakeEntity records everything the core does to its host entity.
type fakeEntity struct {
	now func() time.Time

	position    mgl64.Vec2
	rotation    float64
	velocity    mgl64.Vec2
	impulses    int
	scale       float64
	tint        colorful.Color
	active      bool
	destroyed   bool
	activations []time.Time
}

func (f *fakeEntity) Position() mgl64.Vec2     { return f.position }
func (f *fakeEntity) SetPosition(v mgl64.Vec2) { f.position = v }
func (f *fakeEntity) Rotation() float64        { return f.rotation }
func (f *fakeEntity) SetRotation(deg float64)  { f.rotation = deg }
func (f *fakeEntity) Forward() mgl64.Vec2      { return particle.Forward(f.rotation) }
func (f *fakeEntity) SetVelocity(v mgl64.Vec2) { f.velocity = v }
func (f *fakeEntity) SetScale(s float64)       { f.scale = s }
func (f *fakeEntity) SetTint(c colorful.Color) { f.tint = c }
func (f *fakeEntity) Destroy()                 { f.destroyed = true }

func (f *fakeEntity) ApplyImpulse(v mgl64.Vec2) {
	f.velocity = f.velocity.Add(v)
	f.impulses++
}

func (f *fakeEntity) SetActive(active bool) {
	if active && f.now != nil {
		f.activations = append(f.activations, f.now())
	}
	f.active = active
}

type curveFunc func(float64) float64

func (c curveFunc) Evaluate(t float64) float64 { return c(t) }

type gradientFunc func(float64) colorful.Color

func (g gradientFunc) Evaluate(t float64) colorful.Color { return g(t) }

// harness wires a manual clock, a task scheduler and a recording factory.
type harness struct {
	clock    *clock.Manual
	tasks    *task.Scheduler
	start    time.Time
	entities []*fakeEntity
}

func newHarness() *harness {
	start := time.Unix(100, 0)
	c := clock.NewManual(start)
	return &harness{
		clock: c,
		tasks: task.New(c),
		start: start,
	}
}

func (h *harness) factory() particle.Entity {
	e := &fakeEntity{now: h.tasks.Now}
	h.entities = append(h.entities, e)
	return e
}

func (h *harness) prototype() particle.Prototype {
	return particle.DefaultPrototype(h.factory)
}

// advance moves the clock and runs due waits, without ticking anything.
func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.tasks.Poll()
}

// frames runs n frames of length dt: poll waits, tick emitters, update alive
// particles, then move the clock.
func (h *harness) frames(n int, dt time.Duration, emitters ...*particle.Emitter) {
	for i := 0; i < n; i++ {
		h.tasks.Poll()
		for _, e := range emitters {
			e.Tick(dt.Seconds())
		}
		for _, e := range emitters {
			e.EachAlive(func(p *particle.Particle) bool {
				p.Update(dt.Seconds())
				return true
			})
		}
		h.clock.Advance(dt)
	}
}

func (h *harness) elapsed(t time.Time) time.Duration {
	return t.Sub(h.start)
}
