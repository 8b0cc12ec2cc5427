package particle

import (
	"testing"
	"time"

	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, n int) (*pool, []*Particle) {
	t.Helper()
	sched := task.New(clock.NewManual(time.Unix(0, 0)))
	pl := &pool{}
	var made []*Particle
	for i := 0; i < n; i++ {
		p := pl.insert(func(index uint32) *Particle {
			return &Particle{id: NewId(1, index), sched: sched}
		})
		made = append(made, p)
	}
	return pl, made
}

func TestPoolInsertSpansBlocks(t *testing.T) {
	pl, made := newTestPool(t, poolBlockSize*2+3)

	assert.Len(t, pl.blocks, 3)
	assert.Equal(t, poolBlockSize*2+3, pl.occupied)
	for i, p := range made {
		assert.Equal(t, uint32(i), p.id.Index())
		assert.Same(t, p, pl.get(uint32(i)))
	}
	assert.Nil(t, pl.get(9999))
}

func TestPoolLIFO(t *testing.T) {
	pl, _ := newTestPool(t, 4)

	require.True(t, pl.push(2))
	require.True(t, pl.push(0))
	require.True(t, pl.push(3))

	var order []uint32
	for {
		p, ok := pl.pop()
		if !ok {
			break
		}
		order = append(order, p.id.Index())
	}
	assert.Equal(t, []uint32{3, 0, 2}, order)
	assert.Equal(t, 0, pl.len())
}

func TestPoolRejectsInvalidPush(t *testing.T) {
	pl, made := newTestPool(t, 3)

	made[0].alive = true
	assert.False(t, pl.push(0), "alive particles are never pooled")

	made[1].destroyed = true
	assert.False(t, pl.push(1), "destroyed particles are never pooled")

	assert.True(t, pl.push(2))
	assert.False(t, pl.push(2), "double push is a no-op")
	assert.False(t, pl.push(42), "empty slot")

	assert.Equal(t, 1, pl.len())
}

func TestPoolRelease(t *testing.T) {
	pl, _ := newTestPool(t, 3)
	pl.push(0)
	pl.push(1)
	pl.push(2)

	pl.release(1)
	assert.Equal(t, 2, pl.len())
	assert.False(t, pl.isPooled(1))
	assert.Nil(t, pl.get(1))
	assert.Equal(t, 2, pl.occupied)

	var seen []uint32
	pl.each(func(p *Particle) bool {
		seen = append(seen, p.id.Index())
		return true
	})
	assert.Equal(t, []uint32{2, 0}, seen)

	pl.release(1)
	assert.Equal(t, 2, pl.occupied, "releasing an empty slot does nothing")
}

func TestPoolPopSkipsRestartedParticles(t *testing.T) {
	pl, made := newTestPool(t, 2)

	require.True(t, pl.push(0))
	require.True(t, pl.push(1))
	assert.True(t, made[1].pooled)

	made[1].alive = true

	p, ok := pl.pop()
	require.True(t, ok)
	assert.Same(t, made[0], p)
	assert.False(t, p.pooled)
	assert.False(t, made[1].pooled)
	assert.False(t, pl.isPooled(1))

	_, ok = pl.pop()
	assert.False(t, ok)
}

func TestEmitterReservesPool(t *testing.T) {
	sched := task.New(clock.NewManual(time.Unix(0, 0)))
	proto := DefaultPrototype(func() Entity { return nil })

	e := NewEmitter(sched, nil, EmitterConfig{Rate: 20, Lifetime: 1.5}, proto)
	assert.GreaterOrEqual(t, cap(e.pool.freeSlots), 15)
	assert.Equal(t, 0, e.PoolLen())

	assert.Equal(t, 0, poolHint(EmitterConfig{Rate: 0, Lifetime: 3}))
	assert.Equal(t, 0, poolHint(EmitterConfig{Rate: 10, Lifetime: -1}))
	assert.Equal(t, 2, poolHint(EmitterConfig{Rate: 5, Lifetime: 1}))
}
