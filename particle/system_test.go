package particle_test

import (
	"testing"
	"time"

	"github.com/plus3/sparks/engine"
	"github.com/plus3/sparks/particle"
	"github.com/stretchr/testify/assert"
)

func TestEmitterSystemTicksAndDropsTorn(t *testing.T) {
	h := newHarness()
	a := newEmitter(h, particle.EmitterConfig{Rate: 2, Lifetime: 5, PlayOnStart: true})
	b := newEmitter(h, particle.EmitterConfig{Rate: 3, Lifetime: 5, PlayOnStart: true})

	sys := &particle.EmitterSystem{}
	sys.Add(a, b, nil)

	loop := engine.NewLoop(h.tasks)
	loop.Register(sys)

	loop.Once(0.016)
	assert.Len(t, sys.Emitters, 2, "nil emitters are dropped")
	assert.True(t, a.IsEmitting())
	assert.True(t, b.IsEmitting())

	h.clock.Advance(time.Second)
	loop.Once(0.016)

	total := sys.Stats()
	assert.Equal(t, 2+1+3+1, total.Constructed, "one full cycle each plus the next cycle's first step")
	assert.Equal(t, total.Constructed, total.Alive)
	assert.True(t, total.Working)

	b.Destroy()
	loop.Once(0.016)
	assert.Len(t, sys.Emitters, 1)
	assert.Same(t, a, sys.Emitters[0])
}
