package particle_test

import (
	"fmt"
	"time"

	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/engine"
	"github.com/plus3/sparks/particle"
	"github.com/plus3/sparks/task"
)

// ExampleEmitter runs an emitter for just under a second of manual time.
// Five particles are spawned 0.2s apart; each lives half a second, so the
// emitter only ever constructs three and recycles the rest from its pool.
func ExampleEmitter() {
	c := clock.NewManual(time.Unix(0, 0))
	tasks := task.New(c)

	factory := func() particle.Entity { return &fakeEntity{} }
	emitter := particle.NewEmitter(tasks, &particle.Point{}, particle.EmitterConfig{
		Rate:        5,
		Lifetime:    0.5,
		Spread:      30,
		Force:       4,
		Frame:       particle.World,
		PlayOnStart: true,
	}, particle.DefaultPrototype(factory))

	systems := &particle.EmitterSystem{}
	systems.Add(emitter)

	loop := engine.NewLoop(tasks)
	loop.Register(systems)
	loop.Register(engine.Func(func(frame *engine.Frame) {
		emitter.EachAlive(func(p *particle.Particle) bool {
			p.Update(frame.DeltaTime)
			return true
		})
	}))

	for i := 0; i < 100; i++ {
		loop.Once(0.01)
		c.Advance(10 * time.Millisecond)
	}

	st := emitter.Stats()
	fmt.Printf("constructed=%d alive=%d pooled=%d\n", st.Constructed, st.Alive, st.Pooled)

	emitter.Destroy()
	c.Advance(time.Second)
	tasks.Poll()

	st = emitter.Stats()
	fmt.Printf("constructed=%d destroyed=%d\n", st.Constructed, st.Destroyed)

	// Output:
	// constructed=3 alive=2 pooled=1
	// constructed=3 destroyed=3
}
